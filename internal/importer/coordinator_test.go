package importer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "edubuga.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedChecklist(t *testing.T, st *store.Store) (contractID string, itemIDs []int64) {
	t.Helper()
	contractID = "8c3b619a-0e46-4fe4-96c5-49d3f4a8b201"
	if err := st.InsertContract(&model.ContractRecord{ID: contractID, Number: "C-020"}); err != nil {
		t.Fatalf("insert contract: %v", err)
	}
	catID, err := st.InsertCategory(&model.Category{Name: "SAMC", SheetName: "SAMC", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	for i, row := range []int{12, 13, 14} {
		r := row
		id, err := st.InsertItem(&model.ChecklistItem{Number: i + 1, Title: "ítem", CategoryID: catID, TargetRow: &r})
		if err != nil {
			t.Fatalf("insert item: %v", err)
		}
		itemIDs = append(itemIDs, id)
	}
	return contractID, itemIDs
}

// writeWorkbook escribe un libro diligenciado a mano en disco
func writeWorkbook(t *testing.T, build func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	_, _ = f.NewSheet("SAMC")
	f.DeleteSheet("Sheet1")
	build(f)
	path := filepath.Join(t.TempDir(), "diligenciado.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = f.Close()
	return path
}

func TestImport_ReadsMarkedRows(t *testing.T) {
	st := newTestStore(t)
	contractID, itemIDs := seedChecklist(t, st)

	path := writeWorkbook(t, func(f *excelize.File) {
		_ = f.SetCellValue("SAMC", "D12", "X") // CUMPLE
		_ = f.SetCellValue("SAMC", "G12", "acta verificada")
		_ = f.SetCellValue("SAMC", "F13", "x") // NO_APLICA, marca en minúscula
		// fila 14 sin marca
	})

	report, err := NewCoordinator(st).Import(contractID, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if report.Rows != 3 || report.Updated != 2 || report.Skipped != 1 || len(report.Errors) != 0 {
		t.Fatalf("report = %+v", report)
	}

	answers, err := st.ListAnswersByContract(contractID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	byItem := make(map[int64]*model.Answer, len(answers))
	for _, a := range answers {
		byItem[a.ItemID] = a
	}

	first := byItem[itemIDs[0]]
	if first == nil || first.Value == nil || *first.Value != model.AnswerCumple {
		t.Fatalf("item 1 answer = %+v, want CUMPLE", first)
	}
	if first.Remarks == nil || *first.Remarks != "acta verificada" {
		t.Fatalf("item 1 remarks = %v", first.Remarks)
	}

	second := byItem[itemIDs[1]]
	if second == nil || second.Value == nil || *second.Value != model.AnswerNoAplica {
		t.Fatalf("item 2 answer = %+v, want NO_APLICA", second)
	}

	if _, ok := byItem[itemIDs[2]]; ok {
		t.Fatal("unmarked row must not create an answer")
	}
}

func TestImport_RejectsDoubleMarkedRow(t *testing.T) {
	st := newTestStore(t)
	contractID, itemIDs := seedChecklist(t, st)

	path := writeWorkbook(t, func(f *excelize.File) {
		_ = f.SetCellValue("SAMC", "D12", "X")
		_ = f.SetCellValue("SAMC", "E12", "X") // dos marcas en la misma fila
		_ = f.SetCellValue("SAMC", "E13", "X")
	})

	report, err := NewCoordinator(st).Import(contractID, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	// La fila ambigua se rechaza sin frenar el resto de la importación
	if len(report.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly 1", report.Errors)
	}
	if report.Updated != 1 {
		t.Fatalf("updated = %d, want 1", report.Updated)
	}

	answers, _ := st.ListAnswersByContract(contractID)
	if len(answers) != 1 || answers[0].ItemID != itemIDs[1] {
		t.Fatalf("answers = %+v, want only the valid row saved", answers)
	}
}

func TestImport_ContractNotFound(t *testing.T) {
	st := newTestStore(t)
	path := writeWorkbook(t, func(f *excelize.File) {})

	_, err := NewCoordinator(st).Import("8c3b619a-0e46-4fe4-96c5-49d3f4a8b999", path)
	if !errors.Is(err, store.ErrContractNotFound) {
		t.Fatalf("err = %v, want ErrContractNotFound", err)
	}
}

func TestImport_IgnoresUnknownSheets(t *testing.T) {
	st := newTestStore(t)
	contractID, _ := seedChecklist(t, st)

	// Libro con una hoja ajena al listado
	f := excelize.NewFile()
	_, _ = f.NewSheet("OTRA")
	f.DeleteSheet("Sheet1")
	path := filepath.Join(t.TempDir(), "ajeno.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = f.Close()

	report, err := NewCoordinator(st).Import(contractID, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Rows != 0 || report.Updated != 0 {
		t.Fatalf("report = %+v, want untouched", report)
	}
}
