package exporter

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
)

// fallbackHeaderRows filas de encabezado de una hoja sintetizada
// (4 de metadatos del contrato + 1 de títulos de columna)
const fallbackHeaderRows = 5

// buildFallbackSheet sintetiza una hoja mínima para una categoría sin hoja en la
// plantilla: bloque de encabezado con los datos del contrato y una fila por ítem.
// Resultado degradado pero completo, nunca un fallo del exporte.
func buildFallbackSheet(f *excelize.File, cat *model.Category, contract *model.ContractRecord, items []*model.ChecklistItem, answersByItem map[int64]*model.Answer) error {
	if _, err := f.NewSheet(cat.SheetName); err != nil {
		return fmt.Errorf("crear hoja: %w", err)
	}
	sheet := cat.SheetName

	header := [][]string{
		{"NUMERO DE CONTRATO", contract.Number},
		{"CONTRATISTA", contract.Contractor},
		{"VALOR DEL CONTRATO", strconv.FormatFloat(contract.Value, 'f', 2, 64)},
		{"OBJETO", contract.Object},
	}
	for i, pair := range header {
		row := i + 1
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), pair[0]+": "+pair[1]); err != nil {
			return err
		}
	}

	titles := []string{"No.", "CRITERIO", "RESPUESTA", "OBSERVACIONES"}
	for i, t := range titles {
		cell, err := excelize.CoordinatesToCellName(i+1, fallbackHeaderRows)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, t); err != nil {
			return err
		}
	}

	for i, it := range items {
		row := fallbackHeaderRows + 1 + i

		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), it.Number); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), it.Title); err != nil {
			return err
		}

		label := "SIN RESPUESTA"
		remarks := ""
		if ans, ok := answersByItem[it.ID]; ok {
			if ans.Value != nil {
				label = answerLabel(*ans.Value)
			}
			if ans.Remarks != nil {
				remarks = *ans.Remarks
			}
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("C%d", row), label); err != nil {
			return err
		}
		if remarks != "" {
			if err := f.SetCellValue(sheet, fmt.Sprintf("D%d", row), remarks); err != nil {
				return err
			}
		}
	}

	return nil
}

func answerLabel(v model.AnswerValue) string {
	switch v {
	case model.AnswerCumple:
		return "CUMPLE"
	case model.AnswerNoCumple:
		return "NO CUMPLE"
	case model.AnswerNoAplica:
		return "NO APLICA"
	}
	return "SIN RESPUESTA"
}
