package exporter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/store"
)

// Errores fatales del exporte; el llamador decide el código HTTP con errors.Is.
var (
	// ErrTemplateUnavailable la plantilla no pudo abrirse ni descargarse
	ErrTemplateUnavailable = errors.New("plantilla no disponible")
	// ErrWriteOutput el libro no pudo serializarse
	ErrWriteOutput = errors.New("no se pudo escribir el libro resultante")
)

// Columnas fijas de respuesta en las hojas de la plantilla
const (
	ColCumple        = "D"
	ColNoCumple      = "E"
	ColNoAplica      = "F"
	ColObservaciones = "G"
)

// answerMark marca escrita en la columna correspondiente
const answerMark = "X"

// Exporter motor de conciliación listado de chequeo → plantilla Excel
//
// Restricción fuerte: la plantilla externa es la base del libro generado; solo se
// escriben las celdas de encabezado reconocidas y las filas mapeadas, preservando
// hojas, celdas combinadas, anchos y formatos. Cada exporte abre una copia
// independiente de la plantilla: nunca se muta una copia compartida.
type Exporter struct {
	store  *store.Store
	source TemplateSource
}

// NewExporter crea el motor de exporte
func NewExporter(store *store.Store, source TemplateSource) *Exporter {
	return &Exporter{
		store:  store,
		source: source,
	}
}

// Export genera el libro para un contrato y devuelve el nombre de archivo
func (e *Exporter) Export(contractID string) (*excelize.File, string, error) {
	contract, err := e.store.GetContract(contractID)
	if err != nil {
		return nil, "", fmt.Errorf("leer contrato: %w", err)
	}

	categories, err := e.store.ListCategories()
	if err != nil {
		return nil, "", fmt.Errorf("leer categorías: %w", err)
	}

	answers, err := e.store.ListAnswersByContract(contractID)
	if err != nil {
		return nil, "", fmt.Errorf("leer respuestas: %w", err)
	}
	answersByItem := make(map[int64]*model.Answer, len(answers))
	for _, a := range answers {
		answersByItem[a.ItemID] = a
	}

	f, err := e.source.Open()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}

	if err := e.fillWorkbook(f, contract, categories, answersByItem); err != nil {
		_ = f.Close()
		return nil, "", err
	}

	f.SetActiveSheet(0)
	return f, exportFileName(contract), nil
}

// ExportBytes genera el libro serializado a buffer
func (e *Exporter) ExportBytes(contractID string) ([]byte, string, error) {
	f, name, err := e.Export(contractID)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return buf.Bytes(), name, nil
}

func (e *Exporter) fillWorkbook(f *excelize.File, contract *model.ContractRecord, categories []*model.Category, answersByItem map[int64]*model.Answer) error {
	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}

	for _, cat := range categories {
		items, err := e.store.ListItemsByCategory(cat.ID)
		if err != nil {
			return fmt.Errorf("leer ítems de %s: %w", cat.Name, err)
		}

		if !sheets[cat.SheetName] {
			// Categoría sin hoja en la plantilla: hoja sintetizada, no un fallo
			if err := buildFallbackSheet(f, cat, contract, items, answersByItem); err != nil {
				return fmt.Errorf("sintetizar hoja %s: %w", cat.SheetName, err)
			}
			continue
		}

		if err := rewriteHeaderCells(f, cat.SheetName, contract); err != nil {
			return fmt.Errorf("escribir encabezado de %s: %w", cat.SheetName, err)
		}
		if err := fillAnswerRows(f, cat.SheetName, items, answersByItem); err != nil {
			return fmt.Errorf("escribir respuestas de %s: %w", cat.SheetName, err)
		}
	}

	return nil
}

// headerField fragmento de etiqueta reconocido en el bloque de encabezado
type headerField struct {
	label string
	value string
}

func headerFields(c *model.ContractRecord) []headerField {
	return []headerField{
		{label: "NUMERO DE CONTRATO", value: c.Number},
		{label: "CONTRATISTA", value: c.Contractor},
		{label: "VALOR DEL CONTRATO", value: strconv.FormatFloat(c.Value, 'f', 2, 64)},
		{label: "OBJETO", value: c.Object},
	}
}

// rewriteHeaderCells reescribe toda celda cuyo texto contenga una etiqueta
// reconocida, conservando el prefijo de la etiqueta. El bloque de encabezado se
// repite por hoja y puede tener etiquetas duplicadas: se actualizan todas las
// coincidencias, no solo la primera.
func rewriteHeaderCells(f *excelize.File, sheet string, contract *model.ContractRecord) error {
	fields := headerFields(contract)

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("leer celdas: %w", err)
	}

	for ri, row := range rows {
		for ci, text := range row {
			if strings.TrimSpace(text) == "" {
				continue
			}
			upper := strings.ToUpper(text)
			for _, fld := range fields {
				idx := strings.Index(upper, fld.label)
				if idx < 0 {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
				if err != nil {
					return err
				}
				prefix := text[:idx+len(fld.label)]
				if err := f.SetCellValue(sheet, cell, prefix+": "+fld.value); err != nil {
					return err
				}
				break
			}
		}
	}

	return nil
}

// fillAnswerRows escribe las marcas de respuesta en las filas mapeadas.
// Los ítems sin respuesta registrada no se tocan; los respondidos se limpian
// primero para que quede exactamente una marca (o ninguna si el valor es nulo).
func fillAnswerRows(f *excelize.File, sheet string, items []*model.ChecklistItem, answersByItem map[int64]*model.Answer) error {
	for _, it := range items {
		if it.TargetRow == nil {
			continue
		}
		ans, ok := answersByItem[it.ID]
		if !ok {
			continue
		}
		row := *it.TargetRow

		for _, col := range []string{ColCumple, ColNoCumple, ColNoAplica} {
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), ""); err != nil {
				return err
			}
		}

		if ans.Value != nil {
			col := answerColumn(*ans.Value)
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), answerMark); err != nil {
				return err
			}
		}

		if ans.Remarks != nil && strings.TrimSpace(*ans.Remarks) != "" {
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", ColObservaciones, row), *ans.Remarks); err != nil {
				return err
			}
		}
	}
	return nil
}

func answerColumn(v model.AnswerValue) string {
	switch v {
	case model.AnswerNoCumple:
		return ColNoCumple
	case model.AnswerNoAplica:
		return ColNoAplica
	default:
		return ColCumple
	}
}

// exportFileName nombre determinista derivado del número de contrato
func exportFileName(c *model.ContractRecord) string {
	return fmt.Sprintf("listado-chequeo-%s.xlsx", sanitizeFileName(c.Number))
}

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_", ":", "-")
	return replacer.Replace(s)
}
