package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/medical-farma-api/internal/application/billing"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
)

// AlertLockKey clave del lock por tick cuando hay varias instancias.
const AlertLockKey = "lock:alertas_auditoria"

// AlertProcessor evalúa y persiste las alertas de auditoría.
type AlertProcessor interface {
	ProcessAlerts(ctx context.Context) (billing.AlertResult, error)
}

// Locker evita que dos instancias evalúen el mismo tick.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// AuditAlertCron corre la evaluación de alertas de facturación en el servidor.
type AuditAlertCron struct {
	alerts   AlertProcessor
	locker   Locker
	interval time.Duration
	log      zerolog.Logger
}

// NewAuditAlertCron locker puede ser nil (instancia única).
func NewAuditAlertCron(alerts AlertProcessor, locker Locker, interval time.Duration, log zerolog.Logger) *AuditAlertCron {
	if interval <= 0 {
		interval = time.Minute
	}
	return &AuditAlertCron{alerts: alerts, locker: locker, interval: interval, log: log}
}

// Start lanza la goroutine; evalúa al arrancar y luego en cada tick hasta que ctx termine.
// El canal devuelto se cierra al salir.
func (c *AuditAlertCron) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.log.Info().Dur("intervalo", c.interval).Msg("alertas_auditoria: iniciado")
		c.RunOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				c.log.Info().Msg("alertas_auditoria: detenido")
				return
			case <-ticker.C:
				c.RunOnce(ctx)
			}
		}
	}()
	return done
}

// RunOnce un tick: toma el lock si corresponde y procesa las alertas.
func (c *AuditAlertCron) RunOnce(ctx context.Context) {
	if c.locker != nil {
		ok, err := c.locker.TryLock(ctx, AlertLockKey, c.interval)
		if err != nil {
			c.log.Warn().Err(err).Msg("alertas_auditoria: lock no disponible, se procesa igual")
		} else if !ok {
			c.log.Debug().Msg("alertas_auditoria: otra instancia tiene el tick")
			return
		}
	}
	res, err := c.alerts.ProcessAlerts(ports.WithActor(ctx, "sistema"))
	if err != nil {
		c.log.Error().Err(err).Msg("alertas_auditoria: falló la evaluación")
		return
	}
	if res.Flagged > 0 || res.Cleared > 0 {
		c.log.Info().
			Int64("marcados", res.Flagged).
			Int64("limpiados", res.Cleared).
			Int("vencidos", len(res.Overdue)).
			Msg("alertas_auditoria: actualizadas")
	}
}
