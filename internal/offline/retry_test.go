package offline

import (
	"errors"
	"testing"
	"time"
)

func TestPolicyDelay(t *testing.T) {
	p := Policy{InitialDelay: 2 * time.Second, Factor: 2}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
	}
	for _, c := range cases {
		if got := p.Delay(c.attempt); got != c.want {
			t.Fatalf("Delay(%d) = %v, want %v", c.attempt, got, c.want)
		}
	}

	zero := Policy{InitialDelay: 0, Factor: 2}
	if got := zero.Delay(5); got != 0 {
		t.Fatalf("Delay without initial delay = %v, want 0", got)
	}

	// Un factor menor que 1 no reduce la espera entre intentos
	flat := Policy{InitialDelay: time.Second, Factor: 0.5}
	if got := flat.Delay(3); got != time.Second {
		t.Fatalf("Delay with sub-unit factor = %v, want %v", got, time.Second)
	}
}

func TestPolicyShouldRetry(t *testing.T) {
	p := Policy{MaxAttempts: 3, Retryable: IsRetryableBackendError}

	transient := errors.New("connection refused")
	if !p.ShouldRetry(transient, 1) {
		t.Fatal("transient error below max attempts must be retried")
	}
	if p.ShouldRetry(transient, 3) {
		t.Fatal("reaching max attempts must stop retrying")
	}
	if p.ShouldRetry(errors.New("HTTP 400: bad request"), 1) {
		t.Fatal("definitive error must not be retried")
	}

	anyErr := Policy{MaxAttempts: 2}
	if !anyErr.ShouldRetry(errors.New("cualquier cosa"), 1) {
		t.Fatal("nil Retryable must treat every error as transient")
	}
}

func TestIsRetryableBackendError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("read tcp: connection reset by peer"), true},
		{errors.New("context deadline exceeded"), true},
		{errors.New("Client.Timeout exceeded while awaiting headers"), true},
		{errors.New("lookup backend: no such host"), true},
		{errors.New("HTTP 503: service unavailable"), true},
		{errors.New("HTTP 429: too many requests"), true},
		{errors.New("HTTP 400: bad request"), false},
		{errors.New("HTTP 404: not found"), false},
		{errors.New("valor de respuesta inválido"), false},
	}
	for _, c := range cases {
		if got := IsRetryableBackendError(c.err); got != c.want {
			t.Fatalf("IsRetryableBackendError(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
