package offline

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Signal señal de conectividad inyectable; las pruebas simulan transiciones
// directamente sin depender de la red real
type Signal interface {
	Online() bool
	Changes() <-chan bool
}

// ProbeSignal conectividad derivada de un sondeo periódico al backend
type ProbeSignal struct {
	probe    func() bool
	interval time.Duration

	mu     sync.Mutex
	online bool
	ch     chan bool
}

// NewProbeSignal crea la señal de conectividad por sondeo
func NewProbeSignal(probe func() bool, interval time.Duration) *ProbeSignal {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ProbeSignal{
		probe:    probe,
		interval: interval,
		online:   probe(),
		ch:       make(chan bool, 8),
	}
}

// Online estado actual de conectividad
func (s *ProbeSignal) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// Changes canal de transiciones offline↔online
func (s *ProbeSignal) Changes() <-chan bool {
	return s.ch
}

// Run sondea hasta que el contexto se cancele, emitiendo solo transiciones
func (s *ProbeSignal) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.probe()
			s.mu.Lock()
			changed := now != s.online
			s.online = now
			s.mu.Unlock()
			if changed {
				select {
				case s.ch <- now:
				default:
				}
			}
		}
	}
}

// NewHTTPProbe sondeo de alcance del backend remoto
func NewHTTPProbe(url string) func() bool {
	client := resty.New().SetTimeout(5 * time.Second)
	return func() bool {
		resp, err := client.R().Head(url)
		if err != nil {
			return false
		}
		return !resp.IsError()
	}
}
