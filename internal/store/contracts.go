package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
)

// ErrContractNotFound el contrato solicitado no existe
var ErrContractNotFound = errors.New("contrato no encontrado")

// InsertContract inserta un contrato
func (s *Store) InsertContract(c *model.ContractRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO contratos (id, numero, contratista, valor, objeto, area)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.Number, c.Contractor, c.Value, c.Object, c.Area)
	if err != nil {
		return fmt.Errorf("failed to insert contract: %w", err)
	}
	return nil
}

// GetContract obtiene un contrato por su identificador
func (s *Store) GetContract(id string) (*model.ContractRecord, error) {
	var c model.ContractRecord
	err := s.db.QueryRow(`
		SELECT id, numero, contratista, valor, objeto, area
		FROM contratos WHERE id = ?
	`, id).Scan(&c.ID, &c.Number, &c.Contractor, &c.Value, &c.Object, &c.Area)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrContractNotFound, id)
		}
		return nil, fmt.Errorf("failed to query contract: %w", err)
	}
	return &c, nil
}

// ListContracts lista los contratos ordenados por número
func (s *Store) ListContracts() ([]*model.ContractRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, numero, contratista, valor, objeto, area
		FROM contratos ORDER BY numero
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var out []*model.ContractRecord
	for rows.Next() {
		var c model.ContractRecord
		if err := rows.Scan(&c.ID, &c.Number, &c.Contractor, &c.Value, &c.Object, &c.Area); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
