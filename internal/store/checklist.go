package store

import (
	"fmt"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
)

// ListCategories lista las categorías en orden de presentación
func (s *Store) ListCategories() ([]*model.Category, error) {
	rows, err := s.db.Query(`
		SELECT id, nombre, hoja, orden FROM categorias ORDER BY orden, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SheetName, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// InsertCategory inserta una categoría y devuelve su id
func (s *Store) InsertCategory(c *model.Category) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO categorias (nombre, hoja, orden) VALUES (?, ?, ?)
	`, c.Name, c.SheetName, c.DisplayOrder)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}
	return res.LastInsertId()
}

// ListItemsByCategory lista los ítems de una categoría por número consecutivo
func (s *Store) ListItemsByCategory(categoryID int64) ([]*model.ChecklistItem, error) {
	rows, err := s.db.Query(`
		SELECT id, numero, titulo, descripcion, categoria_id, fila_destino
		FROM items_chequeo WHERE categoria_id = ? ORDER BY numero, id
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var out []*model.ChecklistItem
	for rows.Next() {
		var it model.ChecklistItem
		if err := rows.Scan(&it.ID, &it.Number, &it.Title, &it.Description, &it.CategoryID, &it.TargetRow); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// InsertItem inserta un ítem del listado y devuelve su id
func (s *Store) InsertItem(it *model.ChecklistItem) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO items_chequeo (numero, titulo, descripcion, categoria_id, fila_destino)
		VALUES (?, ?, ?, ?, ?)
	`, it.Number, it.Title, it.Description, it.CategoryID, it.TargetRow)
	if err != nil {
		return 0, fmt.Errorf("failed to insert item: %w", err)
	}
	return res.LastInsertId()
}

// ListAnswersByContract lista las respuestas registradas para un contrato
func (s *Store) ListAnswersByContract(contractID string) ([]*model.Answer, error) {
	rows, err := s.db.Query(`
		SELECT id, contrato_id, item_id, valor, observaciones
		FROM respuestas_chequeo WHERE contrato_id = ?
	`, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	var out []*model.Answer
	for rows.Next() {
		var a model.Answer
		var valor *string
		if err := rows.Scan(&a.ID, &a.ContractID, &a.ItemID, &valor, &a.Remarks); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		if valor != nil {
			v := model.AnswerValue(*valor)
			a.Value = &v
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// UpsertAnswer guarda una respuesta; a lo sumo una por (contrato, ítem)
func (s *Store) UpsertAnswer(a *model.Answer) error {
	var valor *string
	if a.Value != nil {
		v := string(*a.Value)
		valor = &v
	}
	_, err := s.db.Exec(`
		INSERT INTO respuestas_chequeo (contrato_id, item_id, valor, observaciones)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(contrato_id, item_id) DO UPDATE SET
			valor = excluded.valor,
			observaciones = excluded.observaciones,
			updated_at = CURRENT_TIMESTAMP
	`, a.ContractID, a.ItemID, valor, a.Remarks)
	if err != nil {
		return fmt.Errorf("failed to upsert answer: %w", err)
	}
	return nil
}

// ValidateTargetRows detecta filas destino duplicadas dentro de una misma categoría.
// La colisión se valida al definir el mapeo, no al exportar.
func (s *Store) ValidateTargetRows() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT c.nombre, i.fila_destino, COUNT(1)
		FROM items_chequeo i
		JOIN categorias c ON c.id = i.categoria_id
		WHERE i.fila_destino IS NOT NULL
		GROUP BY i.categoria_id, i.fila_destino
		HAVING COUNT(1) > 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to validate target rows: %w", err)
	}
	defer rows.Close()

	var conflicts []string
	for rows.Next() {
		var cat string
		var fila, n int
		if err := rows.Scan(&cat, &fila, &n); err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		conflicts = append(conflicts, fmt.Sprintf("%s: fila %d asignada a %d ítems", cat, fila, n))
	}
	return conflicts, rows.Err()
}
