package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/exporter"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/store"
)

// Coordinator coordinador de importación de libros diligenciados.
// Lee de vuelta un libro exportado y marcado a mano, usando el mismo mapeo de
// filas del exporte en sentido inverso, y actualiza las respuestas del contrato.
type Coordinator struct {
	store *store.Store
}

// NewCoordinator crea el coordinador de importación
func NewCoordinator(store *store.Store) *Coordinator {
	return &Coordinator{store: store}
}

// ImportReport resultado de una importación
type ImportReport struct {
	Rows    int      `json:"rows"`    // filas de ítems examinadas
	Updated int      `json:"updated"` // respuestas guardadas
	Skipped int      `json:"skipped"` // ítems sin marca
	Errors  []string `json:"errors"`  // filas rechazadas (no fatales)
}

// Import lee el libro y actualiza las respuestas del contrato
func (c *Coordinator) Import(contractID, filePath string) (*ImportReport, error) {
	if _, err := c.store.GetContract(contractID); err != nil {
		return nil, fmt.Errorf("leer contrato: %w", err)
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("abrir libro: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}

	categories, err := c.store.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("leer categorías: %w", err)
	}

	report := &ImportReport{}
	for _, cat := range categories {
		if !sheets[cat.SheetName] {
			continue
		}
		items, err := c.store.ListItemsByCategory(cat.ID)
		if err != nil {
			return nil, fmt.Errorf("leer ítems de %s: %w", cat.Name, err)
		}
		if err := c.importSheet(f, cat.SheetName, contractID, items, report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (c *Coordinator) importSheet(f *excelize.File, sheet, contractID string, items []*model.ChecklistItem, report *ImportReport) error {
	for _, it := range items {
		if it.TargetRow == nil {
			continue
		}
		row := *it.TargetRow
		report.Rows++

		value, marks, err := readAnswerRow(f, sheet, row)
		if err != nil {
			return fmt.Errorf("leer fila %d de %s: %w", row, sheet, err)
		}
		if marks == 0 {
			report.Skipped++
			continue
		}
		if marks > 1 {
			// Más de una marca en la fila: se rechaza la fila, no la importación
			report.Errors = append(report.Errors, fmt.Sprintf("%s fila %d: %d marcas simultáneas", sheet, row, marks))
			continue
		}

		remarks, err := f.GetCellValue(sheet, fmt.Sprintf("%s%d", exporter.ColObservaciones, row))
		if err != nil {
			return fmt.Errorf("leer observaciones fila %d de %s: %w", row, sheet, err)
		}
		var remarksPtr *string
		if strings.TrimSpace(remarks) != "" {
			r := strings.TrimSpace(remarks)
			remarksPtr = &r
		}

		ans, err := model.NewAnswer(contractID, it.ID, &value, remarksPtr)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s fila %d: %v", sheet, row, err))
			continue
		}
		if err := c.store.UpsertAnswer(ans); err != nil {
			return fmt.Errorf("guardar respuesta fila %d de %s: %w", row, sheet, err)
		}
		report.Updated++
	}
	return nil
}

// readAnswerRow lee las tres columnas de respuesta y deriva el valor marcado
func readAnswerRow(f *excelize.File, sheet string, row int) (model.AnswerValue, int, error) {
	cols := []struct {
		col   string
		value model.AnswerValue
	}{
		{exporter.ColCumple, model.AnswerCumple},
		{exporter.ColNoCumple, model.AnswerNoCumple},
		{exporter.ColNoAplica, model.AnswerNoAplica},
	}

	var found model.AnswerValue
	marks := 0
	for _, c := range cols {
		text, err := f.GetCellValue(sheet, fmt.Sprintf("%s%d", c.col, row))
		if err != nil {
			return "", 0, err
		}
		if strings.TrimSpace(text) != "" {
			found = c.value
			marks++
		}
	}
	return found, marks, nil
}
