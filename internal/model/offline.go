package model

import (
	"encoding/json"
	"time"
)

// ActionKind tipo de operación pendiente contra el backend remoto
type ActionKind string

const (
	ActionCreate ActionKind = "CREATE"
	ActionUpdate ActionKind = "UPDATE"
	ActionDelete ActionKind = "DELETE"
)

// OfflineAction escritura capturada mientras no hay conectividad.
// Nace PENDING; termina en DONE (retirada) o ABANDONED (retirada y reportada).
type OfflineAction struct {
	ID         string          `json:"id"`
	Kind       ActionKind      `json:"kind"`
	Table      string          `json:"table"`
	Payload    json.RawMessage `json:"payload"`
	CapturedAt time.Time       `json:"capturedAt"`
	Retries    int             `json:"retries"`
}
