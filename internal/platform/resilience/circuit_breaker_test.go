package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute, 1)

	for i := 0; i < 3; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("unexpected rejection before threshold: %v", err)
		}
		b.RecordFailure()
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("expected open state, got %s", got)
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewCircuitBreaker(2, time.Minute, 1)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()

	if err := b.Allow(); err != nil {
		t.Fatalf("breaker should stay closed after interleaved success: %v", err)
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	b := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	current := time.Unix(1000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v", err)
	}

	current = current.Add(20 * time.Millisecond)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe allowed, got %v", err)
	}
	b.RecordSuccess()

	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", got)
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	current := time.Unix(1000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(20 * time.Millisecond)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe allowed, got %v", err)
	}
	b.RecordFailure()

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected reopened breaker, got %v", err)
	}
}

func TestCircuitBreakerHalfOpenLimitsProbes(t *testing.T) {
	b := NewCircuitBreaker(1, 10*time.Millisecond, 2)
	current := time.Unix(1000, 0)
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(20 * time.Millisecond)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe should pass: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("second probe should pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("third probe should be rejected, got %v", err)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	defaults := DefaultCircuitBreakerConfig()

	if cfg.FailureThreshold != defaults.FailureThreshold {
		t.Fatalf("unexpected FailureThreshold: %d", cfg.FailureThreshold)
	}
	if cfg.OpenTimeout != defaults.OpenTimeout {
		t.Fatalf("unexpected OpenTimeout: %s", cfg.OpenTimeout)
	}
	if cfg.HalfOpenMaxReq != defaults.HalfOpenMaxReq {
		t.Fatalf("unexpected HalfOpenMaxReq: %d", cfg.HalfOpenMaxReq)
	}
}
