package exporter

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/xuri/excelize/v2"
)

// TemplateSource origen de la plantilla; cada Open devuelve un libro independiente
type TemplateSource interface {
	Open() (*excelize.File, error)
}

// Source plantilla desde ruta local o URL de contenido.
// Prioridad: ruta explícita; si no hay, descarga remota.
type Source struct {
	path   string
	url    string
	client *resty.Client
}

// NewSource crea el origen de plantilla
func NewSource(path, url string) *Source {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return &Source{
		path:   strings.TrimSpace(path),
		url:    strings.TrimSpace(url),
		client: client,
	}
}

// Open abre una copia nueva de la plantilla
func (s *Source) Open() (*excelize.File, error) {
	if s.path != "" {
		f, err := excelize.OpenFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("abrir plantilla local: %w", err)
		}
		return f, nil
	}

	if s.url != "" {
		resp, err := s.client.R().Get(s.url)
		if err != nil {
			return nil, fmt.Errorf("descargar plantilla: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("descargar plantilla: HTTP %d", resp.StatusCode())
		}
		f, err := excelize.OpenReader(bytes.NewReader(resp.Body()))
		if err != nil {
			return nil, fmt.Errorf("leer plantilla descargada: %w", err)
		}
		return f, nil
	}

	return nil, fmt.Errorf("sin ruta ni URL de plantilla configurada")
}
