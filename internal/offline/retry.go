package offline

import (
	"math"
	"strings"
	"time"
)

// Policy política única de reintento con retroceso exponencial.
// Sustituye los cálculos de retroceso dispersos: todo reintento del portal
// pasa por esta estructura.
type Policy struct {
	MaxAttempts  int                  // intentos totales antes de abandonar
	InitialDelay time.Duration        // espera tras el primer fallo
	Factor       float64              // multiplicador por intento
	Timeout      time.Duration        // límite por llamada al backend
	Retryable    func(err error) bool // nil = todo error es reintentable
}

// DefaultPolicy política por defecto del gestor de cola
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		Factor:       2.0,
		Timeout:      15 * time.Second,
		Retryable:    IsRetryableBackendError,
	}
}

// Delay espera antes del intento attempt+1 (attempt cuenta desde 0)
func (p Policy) Delay(attempt int) time.Duration {
	if p.InitialDelay <= 0 {
		return 0
	}
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}
	d := float64(p.InitialDelay) * math.Pow(factor, float64(attempt))
	return time.Duration(d)
}

// ShouldRetry indica si un fallo amerita otro intento
func (p Policy) ShouldRetry(err error, attempts int) bool {
	if attempts >= p.MaxAttempts {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

// IsRetryableBackendError identifica fallos transitorios de red o del backend
// (los errores 4xx son definitivos y no se reintentan)
func IsRetryableBackendError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return true
	case strings.Contains(msg, "deadline exceeded"):
		return true
	case strings.Contains(msg, "connection refused"):
		return true
	case strings.Contains(msg, "connection reset"):
		return true
	case strings.Contains(msg, "no such host"):
		return true
	case strings.Contains(msg, "http 5"):
		return true
	case strings.Contains(msg, "http 429"):
		return true
	default:
		return false
	}
}
