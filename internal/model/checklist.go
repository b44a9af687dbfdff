package model

import "fmt"

// AnswerValue valor de una respuesta del listado de chequeo
type AnswerValue string

const (
	AnswerCumple   AnswerValue = "CUMPLE"    // cumple
	AnswerNoCumple AnswerValue = "NO_CUMPLE" // no cumple
	AnswerNoAplica AnswerValue = "NO_APLICA" // no aplica
)

// Valid indica si el valor es uno de los tres admitidos
func (v AnswerValue) Valid() bool {
	switch v {
	case AnswerCumple, AnswerNoCumple, AnswerNoAplica:
		return true
	}
	return false
}

// Category categoría del listado de chequeo; corresponde 1:1 a una hoja de la plantilla
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SheetName    string `json:"sheetName"`    // nombre exacto de la hoja en la plantilla
	DisplayOrder int    `json:"displayOrder"` // orden de presentación
}

// ChecklistItem un criterio de cumplimiento dentro de una categoría
type ChecklistItem struct {
	ID          int64  `json:"id"`
	Number      int    `json:"number"` // número consecutivo dentro de la categoría
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId"`

	// TargetRow fila fija asignada en la hoja de la plantilla.
	// Se asigna una sola vez en el mapeo; cambiarla corrompe exportes históricos.
	TargetRow *int `json:"targetRow"`
}

// Answer determinación de un respondiente para un ítem en un contrato.
// A lo sumo una por (contrato, ítem); se actualiza en cada guardado.
type Answer struct {
	ID         int64        `json:"id"`
	ContractID string       `json:"contractId"`
	ItemID     int64        `json:"itemId"`
	Value      *AnswerValue `json:"value"`   // NULL = sin responder
	Remarks    *string      `json:"remarks"` // observaciones, opcional
}

// NewAnswer valida los campos obligatorios de una respuesta en la frontera
func NewAnswer(contractID string, itemID int64, value *AnswerValue, remarks *string) (*Answer, error) {
	if contractID == "" {
		return nil, fmt.Errorf("respuesta sin contrato")
	}
	if itemID <= 0 {
		return nil, fmt.Errorf("respuesta sin ítem")
	}
	if value != nil && !value.Valid() {
		return nil, fmt.Errorf("valor de respuesta inválido: %s", *value)
	}
	return &Answer{
		ContractID: contractID,
		ItemID:     itemID,
		Value:      value,
		Remarks:    remarks,
	}, nil
}
