package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Backend destino remoto de las escrituras encoladas
type Backend interface {
	Insert(ctx context.Context, table string, payload json.RawMessage) error
	UpdateByID(ctx context.Context, table string, payload json.RawMessage) error
	DeleteByID(ctx context.Context, table string, payload json.RawMessage) error
}

// RestBackend backend relacional alojado expuesto como API REST por tabla
type RestBackend struct {
	client  *resty.Client
	baseURL string
}

// NewRestBackend crea el cliente del backend remoto
func NewRestBackend(baseURL, apiKey string, timeout time.Duration) *RestBackend {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetHeader("apikey", apiKey)
		client.SetAuthToken(apiKey)
	}
	return &RestBackend{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Insert inserta un registro en la tabla remota
func (b *RestBackend) Insert(ctx context.Context, table string, payload json.RawMessage) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody([]byte(payload)).
		Post(fmt.Sprintf("%s/rest/v1/%s", b.baseURL, table))
	return backendResult(resp, err)
}

// UpdateByID actualiza por id el registro indicado en el payload
func (b *RestBackend) UpdateByID(ctx context.Context, table string, payload json.RawMessage) error {
	id, err := payloadID(payload)
	if err != nil {
		return err
	}
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody([]byte(payload)).
		Patch(fmt.Sprintf("%s/rest/v1/%s?id=eq.%s", b.baseURL, table, id))
	return backendResult(resp, err)
}

// DeleteByID elimina por id el registro indicado en el payload
func (b *RestBackend) DeleteByID(ctx context.Context, table string, payload json.RawMessage) error {
	id, err := payloadID(payload)
	if err != nil {
		return err
	}
	resp, err := b.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("%s/rest/v1/%s?id=eq.%s", b.baseURL, table, id))
	return backendResult(resp, err)
}

func backendResult(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

// payloadID extrae el id del payload; sin id no hay destino de la operación
func payloadID(payload json.RawMessage) (string, error) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", fmt.Errorf("payload inválido: %w", err)
	}
	if body.ID == "" {
		return "", fmt.Errorf("payload sin id")
	}
	return body.ID, nil
}
