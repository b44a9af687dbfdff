package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
)

// ReplayError fallo de una acción en la última pasada de reenvío
type ReplayError struct {
	ActionID  string           `json:"actionId"`
	Kind      model.ActionKind `json:"kind"`
	Table     string           `json:"table"`
	Error     string           `json:"error"`
	Abandoned bool             `json:"abandoned"` // superó el máximo de reintentos
}

// Status instantánea observable del gestor de cola
type Status struct {
	Online     bool          `json:"online"`
	Replaying  bool          `json:"replaying"`
	Pending    int           `json:"pending"`
	LastReplay time.Time     `json:"lastReplay"`
	LastErrors []ReplayError `json:"lastErrors"`
}

// Manager gestor de escrituras pendientes.
//
// Garantiza que una escritura destinada al backend no se pierda en silencio por
// una desconexión transitoria: toda acción se persiste localmente antes de
// confirmar el encolado, y se reenvía una a la vez en orden FIFO cuando vuelve
// la conectividad. Los fallos individuales se reintentan hasta el máximo y
// luego se abandonan reportándolos por el flujo de estado, nunca lanzándolos
// desde Enqueue/ReplayAll.
type Manager struct {
	qs      QueueStore
	backend Backend
	signal  Signal
	policy  Policy
	tick    time.Duration

	mu          sync.Mutex
	actions     []model.OfflineAction
	nextAttempt map[string]time.Time
	replaying   bool
	lastReplay  time.Time
	lastErrors  []ReplayError
	subs        []chan Status
}

// NewManager crea el gestor y recarga la cola persistida
func NewManager(qs QueueStore, backend Backend, signal Signal, policy Policy, tick time.Duration) (*Manager, error) {
	actions, err := qs.Load()
	if err != nil {
		return nil, fmt.Errorf("recargar cola: %w", err)
	}
	if tick <= 0 {
		tick = time.Minute
	}
	return &Manager{
		qs:          qs,
		backend:     backend,
		signal:      signal,
		policy:      policy,
		tick:        tick,
		actions:     actions,
		nextAttempt: make(map[string]time.Time),
	}, nil
}

// Enqueue captura una acción y la persiste antes de retornar.
// Si hay conectividad, programa un reenvío inmediato.
func (m *Manager) Enqueue(kind model.ActionKind, table string, payload json.RawMessage) (string, error) {
	switch kind {
	case model.ActionCreate, model.ActionUpdate, model.ActionDelete:
	default:
		return "", fmt.Errorf("tipo de acción inválido: %s", kind)
	}
	if table == "" {
		return "", fmt.Errorf("acción sin tabla destino")
	}

	action := model.OfflineAction{
		ID:         uuid.New().String(),
		Kind:       kind,
		Table:      table,
		Payload:    payload,
		CapturedAt: time.Now(),
	}

	m.mu.Lock()
	m.actions = append(m.actions, action)
	if err := m.qs.Save(m.actions); err != nil {
		// Si no se pudo persistir, la acción no cuenta como encolada
		m.actions = m.actions[:len(m.actions)-1]
		m.mu.Unlock()
		return "", err
	}
	m.mu.Unlock()
	m.notify()

	if m.signal.Online() {
		go m.ReplayAll()
	}
	return action.ID, nil
}

// Pending número de acciones en cola
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.actions)
}

// ReplayAll reenvía las acciones pendientes en orden FIFO, una a la vez.
// Una llamada reentrante mientras hay una pasada en curso no hace nada.
func (m *Manager) ReplayAll() {
	m.mu.Lock()
	if m.replaying {
		m.mu.Unlock()
		return
	}
	m.replaying = true
	pending := make([]model.OfflineAction, len(m.actions))
	copy(pending, m.actions)
	m.mu.Unlock()
	m.notify()

	var passErrors []ReplayError
	now := time.Now()

	for _, action := range pending {
		m.mu.Lock()
		next, waiting := m.nextAttempt[action.ID]
		m.mu.Unlock()
		if waiting && now.Before(next) {
			continue
		}

		err := m.replayAction(action)
		if err == nil {
			m.remove(action.ID)
			continue
		}

		m.mu.Lock()
		idx := m.indexOf(action.ID)
		if idx < 0 {
			m.mu.Unlock()
			continue
		}
		m.actions[idx].Retries++
		retries := m.actions[idx].Retries
		m.mu.Unlock()

		re := ReplayError{
			ActionID: action.ID,
			Kind:     action.Kind,
			Table:    action.Table,
			Error:    err.Error(),
		}

		if !m.policy.ShouldRetry(err, retries) {
			// Abandono: se retira de la cola pero el fallo queda reportado
			re.Abandoned = true
			m.remove(action.ID)
			log.Printf("acción %s abandonada tras %d intentos: %v", action.ID, retries, err)
		} else {
			m.mu.Lock()
			m.nextAttempt[action.ID] = time.Now().Add(m.policy.Delay(retries - 1))
			if saveErr := m.qs.Save(m.actions); saveErr != nil {
				log.Printf("persistir contador de reintentos: %v", saveErr)
			}
			m.mu.Unlock()
		}
		passErrors = append(passErrors, re)
		// Un fallo no bloquea el reenvío de las acciones siguientes
	}

	m.mu.Lock()
	m.replaying = false
	m.lastReplay = time.Now()
	m.lastErrors = passErrors
	m.mu.Unlock()
	m.notify()
}

// replayAction ejecuta exactamente una operación contra el backend
func (m *Manager) replayAction(action model.OfflineAction) error {
	ctx := context.Background()
	if m.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.policy.Timeout)
		defer cancel()
	}

	switch action.Kind {
	case model.ActionCreate:
		return m.backend.Insert(ctx, action.Table, action.Payload)
	case model.ActionUpdate:
		return m.backend.UpdateByID(ctx, action.Table, action.Payload)
	case model.ActionDelete:
		return m.backend.DeleteByID(ctx, action.Table, action.Payload)
	}
	return fmt.Errorf("tipo de acción desconocido: %s", action.Kind)
}

// remove retira una acción de la cola y persiste el cambio
func (m *Manager) remove(id string) {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx >= 0 {
		m.actions = append(m.actions[:idx], m.actions[idx+1:]...)
	}
	delete(m.nextAttempt, id)
	if err := m.qs.Save(m.actions); err != nil {
		log.Printf("persistir cola tras retiro: %v", err)
	}
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) indexOf(id string) int {
	for i := range m.actions {
		if m.actions[i].ID == id {
			return i
		}
	}
	return -1
}

// Run atiende transiciones de conectividad y el temporizador oportunista
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	if m.signal.Online() && m.Pending() > 0 {
		m.ReplayAll()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case online := <-m.signal.Changes():
			m.notify()
			if online {
				m.ReplayAll()
			}
		case <-ticker.C:
			// Recupera transiciones perdidas: reenvía siempre que haya cola
			if m.Pending() > 0 && m.signal.Online() {
				m.ReplayAll()
			}
		}
	}
}

// Status instantánea actual
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	errs := make([]ReplayError, len(m.lastErrors))
	copy(errs, m.lastErrors)
	return Status{
		Online:     m.signal.Online(),
		Replaying:  m.replaying,
		Pending:    len(m.actions),
		LastReplay: m.lastReplay,
		LastErrors: errs,
	}
}

// Subscribe registra un observador del flujo de estado
func (m *Manager) Subscribe() <-chan Status {
	ch := make(chan Status, 16)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

func (m *Manager) notify() {
	st := m.Status()
	m.mu.Lock()
	subs := m.subs
	m.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- st:
		default:
		}
	}
}
