package model

import (
	"fmt"
	"strings"
)

// ContractRecord contrato objeto de un listado de chequeo
type ContractRecord struct {
	ID         string  `json:"id"`
	Number     string  `json:"number"`     // número de contrato
	Contractor string  `json:"contractor"` // nombre del contratista
	Value      float64 `json:"value"`      // valor del contrato
	Object     string  `json:"object"`     // objeto contractual
	Area       string  `json:"area"`       // dependencia responsable
}

// NewContractRecord valida los campos obligatorios en la frontera
func NewContractRecord(id, number, contractor string, value float64, object, area string) (*ContractRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("contrato sin identificador")
	}
	if strings.TrimSpace(number) == "" {
		return nil, fmt.Errorf("contrato %s sin número", id)
	}
	return &ContractRecord{
		ID:         id,
		Number:     strings.TrimSpace(number),
		Contractor: strings.TrimSpace(contractor),
		Value:      value,
		Object:     strings.TrimSpace(object),
		Area:       strings.TrimSpace(area),
	}, nil
}
