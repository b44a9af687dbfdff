package offline

import (
	"encoding/json"
	"fmt"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/store"
)

// queueKey clave fija bajo la que se persiste la cola completa como un solo blob
const queueKey = "offline_queue"

// QueueStore persistencia durable de la cola de acciones
type QueueStore interface {
	Load() ([]model.OfflineAction, error)
	Save(actions []model.OfflineAction) error
}

// SQLiteQueueStore cola persistida en la tabla clave-valor del Store
type SQLiteQueueStore struct {
	st *store.Store
}

// NewSQLiteQueueStore crea la persistencia de cola sobre el Store
func NewSQLiteQueueStore(st *store.Store) *SQLiteQueueStore {
	return &SQLiteQueueStore{st: st}
}

// Load lee la cola persistida; cola vacía si nunca se ha guardado
func (q *SQLiteQueueStore) Load() ([]model.OfflineAction, error) {
	raw, err := q.st.GetKV(queueKey)
	if err != nil {
		return nil, fmt.Errorf("leer cola persistida: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var actions []model.OfflineAction
	if err := json.Unmarshal([]byte(raw), &actions); err != nil {
		return nil, fmt.Errorf("decodificar cola persistida: %w", err)
	}
	return actions, nil
}

// Save escribe la cola completa; debe completarse antes de dar por buena
// cualquier mutación en memoria
func (q *SQLiteQueueStore) Save(actions []model.OfflineAction) error {
	if actions == nil {
		actions = []model.OfflineAction{}
	}
	raw, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("codificar cola: %w", err)
	}
	if err := q.st.SetKV(queueKey, string(raw)); err != nil {
		return fmt.Errorf("guardar cola: %w", err)
	}
	return nil
}
