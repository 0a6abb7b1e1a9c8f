package automation

import (
	"errors"
	"sync"
	"time"
)

// BreakerState estado del circuit breaker de webhooks.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // normal, las llamadas pasan
	BreakerOpen                         // abierto, falla rápido
	BreakerHalfOpen                     // deja pasar sondas
)

// String nombre legible para logs.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "cerrado"
	case BreakerOpen:
		return "abierto"
	case BreakerHalfOpen:
		return "semiabierto"
	default:
		return "desconocido"
	}
}

// ErrBreakerOpen se devuelve cuando el breaker está abierto.
var ErrBreakerOpen = errors.New("automatización: circuit breaker abierto")

// BreakerConfig umbrales del breaker.
type BreakerConfig struct {
	FailureThreshold int           // fallos consecutivos para abrir
	SuccessThreshold int           // éxitos en semiabierto para cerrar
	OpenTimeout      time.Duration // tiempo abierto antes de sondear
}

// DefaultBreakerConfig valores por defecto para el receptor de webhooks.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, SuccessThreshold: 1, OpenTimeout: 30 * time.Second}
}

// Breaker circuit breaker seguro para uso concurrente.
type Breaker struct {
	mu        sync.Mutex
	cfg       BreakerConfig
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
	now       func() time.Time
}

// NewBreaker crea un breaker cerrado.
func NewBreaker(cfg BreakerConfig) *Breaker {
	def := DefaultBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// State estado actual; pasa de abierto a semiabierto al vencer OpenTimeout.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Breaker) stateLocked() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.state = BreakerHalfOpen
		b.successes = 0
	}
	return b.state
}

// Execute corre fn a través del breaker.
func (b *Breaker) Execute(fn func() error) error {
	if b.State() == BreakerOpen {
		return ErrBreakerOpen
	}
	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		switch b.state {
		case BreakerClosed:
			if b.failures >= b.cfg.FailureThreshold {
				b.trip()
			}
		case BreakerHalfOpen:
			b.trip()
		}
		return err
	}
	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerHalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.state = BreakerClosed
			b.failures = 0
			b.successes = 0
		}
	}
	return nil
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.failures = 0
	b.successes = 0
}
