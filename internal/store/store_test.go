package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "edubuga.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestContracts(t *testing.T) {
	st := newTestStore(t)

	contract := &model.ContractRecord{
		ID:         "7b2a508f-9d35-4fd3-85b4-38c2e3f7a101",
		Number:     "SO-042",
		Contractor: "Servicios Educativos Ltda.",
		Value:      8500000,
		Object:     "Mantenimiento de sedes",
		Area:       "Infraestructura",
	}
	if err := st.InsertContract(contract); err != nil {
		t.Fatalf("insert contract: %v", err)
	}

	got, err := st.GetContract(contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if got.Number != "SO-042" || got.Value != 8500000 {
		t.Fatalf("contract = %+v", got)
	}

	_, err = st.GetContract("7b2a508f-9d35-4fd3-85b4-38c2e3f7a999")
	if !errors.Is(err, ErrContractNotFound) {
		t.Fatalf("err = %v, want ErrContractNotFound", err)
	}

	list, err := st.ListContracts()
	if err != nil {
		t.Fatalf("list contracts: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("contracts = %d, want 1", len(list))
	}
}

func TestUpsertAnswer_OnePerContractItem(t *testing.T) {
	st := newTestStore(t)

	contract := &model.ContractRecord{ID: "7b2a508f-9d35-4fd3-85b4-38c2e3f7a102", Number: "C-010"}
	if err := st.InsertContract(contract); err != nil {
		t.Fatalf("insert contract: %v", err)
	}
	catID, err := st.InsertCategory(&model.Category{Name: "SAMC", SheetName: "SAMC", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	itemID, err := st.InsertItem(&model.ChecklistItem{Number: 1, Title: "Acta de inicio", CategoryID: catID})
	if err != nil {
		t.Fatalf("insert item: %v", err)
	}

	cumple := model.AnswerCumple
	if err := st.UpsertAnswer(&model.Answer{ContractID: contract.ID, ItemID: itemID, Value: &cumple}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// El segundo guardado reemplaza, no duplica
	noCumple := model.AnswerNoCumple
	remarks := "acta sin firmar"
	if err := st.UpsertAnswer(&model.Answer{ContractID: contract.ID, ItemID: itemID, Value: &noCumple, Remarks: &remarks}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	answers, err := st.ListAnswersByContract(contract.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("answers = %d, want 1 per (contrato, ítem)", len(answers))
	}
	if answers[0].Value == nil || *answers[0].Value != model.AnswerNoCumple {
		t.Fatalf("answer value = %v, want NO_CUMPLE", answers[0].Value)
	}
	if answers[0].Remarks == nil || *answers[0].Remarks != "acta sin firmar" {
		t.Fatalf("answer remarks = %v", answers[0].Remarks)
	}

	// Anular el valor deja la respuesta registrada pero sin responder
	if err := st.UpsertAnswer(&model.Answer{ContractID: contract.ID, ItemID: itemID}); err != nil {
		t.Fatalf("null upsert: %v", err)
	}
	answers, _ = st.ListAnswersByContract(contract.ID)
	if len(answers) != 1 || answers[0].Value != nil {
		t.Fatalf("answers = %+v, want single null-valued answer", answers)
	}
}

func TestValidateTargetRows(t *testing.T) {
	st := newTestStore(t)

	catID, err := st.InsertCategory(&model.Category{Name: "SAMC", SheetName: "SAMC", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	otherID, err := st.InsertCategory(&model.Category{Name: "Licitación", SheetName: "LICITACION", DisplayOrder: 2})
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}

	row12 := 12
	row14 := 14
	mustInsert := func(cat int64, number int, target *int) {
		t.Helper()
		if _, err := st.InsertItem(&model.ChecklistItem{Number: number, Title: "ítem", CategoryID: cat, TargetRow: target}); err != nil {
			t.Fatalf("insert item: %v", err)
		}
	}

	mustInsert(catID, 1, &row12)
	mustInsert(catID, 2, &row14)
	// La misma fila en otra categoría no es colisión
	mustInsert(otherID, 1, &row12)
	mustInsert(otherID, 2, nil)

	conflicts, err := st.ValidateTargetRows()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("conflicts = %v, want none", conflicts)
	}

	// Fila duplicada dentro de la misma categoría
	mustInsert(catID, 3, &row12)
	conflicts, err = st.ValidateTargetRows()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("conflicts = %v, want exactly 1", conflicts)
	}
}

func TestKV(t *testing.T) {
	st := newTestStore(t)

	v, err := st.GetKV("inexistente")
	if err != nil || v != "" {
		t.Fatalf("missing key = (%q, %v), want empty without error", v, err)
	}

	if err := st.SetKV("offline_queue", `[{"id":"a-1"}]`); err != nil {
		t.Fatalf("set kv: %v", err)
	}
	if err := st.SetKV("offline_queue", `[]`); err != nil {
		t.Fatalf("overwrite kv: %v", err)
	}

	v, err = st.GetKV("offline_queue")
	if err != nil {
		t.Fatalf("get kv: %v", err)
	}
	if v != `[]` {
		t.Fatalf("kv value = %q, want last write", v)
	}
}
