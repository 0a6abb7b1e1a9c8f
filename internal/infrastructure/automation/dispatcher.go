package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/pkg/config"
	"github.com/rs/zerolog"
)

var _ ports.Notifier = (*Dispatcher)(nil)

const (
	maxAttempts = 3
	// QueueName cola lógica usada en la DLQ.
	QueueName = "automation"
)

// DeadLetter evento que no se pudo entregar.
type DeadLetter struct {
	Queue    string          `json:"original_queue"`
	Event    string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt string          `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

// DeadLetterSink destino de eventos fallidos (Redis en producción).
type DeadLetterSink interface {
	Push(ctx context.Context, entry DeadLetter) error
}

type job struct {
	event   string
	payload []byte
}

// Dispatcher envía eventos a los webhooks de n8n con un pool acotado de workers.
// Notify nunca bloquea: con la cola llena el evento va a la DLQ.
type Dispatcher struct {
	baseURL    string
	source     string
	client     *http.Client
	breaker    *Breaker
	dlq        DeadLetterSink
	log        zerolog.Logger
	now        func() time.Time
	retryDelay time.Duration

	jobs   chan job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// Option ajusta el dispatcher (tests).
type Option func(*Dispatcher)

// WithHTTPClient reemplaza el cliente HTTP.
func WithHTTPClient(c *http.Client) Option { return func(d *Dispatcher) { d.client = c } }

// WithBreaker reemplaza el circuit breaker.
func WithBreaker(b *Breaker) Option { return func(d *Dispatcher) { d.breaker = b } }

// WithRetryDelay espera base entre reintentos.
func WithRetryDelay(delay time.Duration) Option { return func(d *Dispatcher) { d.retryDelay = delay } }

// WithClock reemplaza el reloj usado para el timestamp del payload.
func WithClock(now func() time.Time) Option { return func(d *Dispatcher) { d.now = now } }

// NewDispatcher arranca los workers. Con BaseURL vacío queda deshabilitado y no levanta goroutines.
// dlq puede ser nil: los fallos solo se registran en el log.
func NewDispatcher(cfg config.AutomationConfig, dlq DeadLetterSink, log zerolog.Logger, opts ...Option) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	source := cfg.Source
	if source == "" {
		source = "medical-farma-api"
	}
	d := &Dispatcher{
		baseURL:    cfg.BaseURL,
		source:     source,
		client:     &http.Client{Timeout: timeout},
		breaker:    NewBreaker(DefaultBreakerConfig()),
		dlq:        dlq,
		log:        log,
		now:        time.Now,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(d)
	}
	if !cfg.Enabled() {
		return d
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	d.jobs = make(chan job, size)
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	log.Info().Int("workers", workers).Int("cola", size).Msg("automatización: pool iniciado")
	return d
}

// Enabled indica si hay receptor configurado.
func (d *Dispatcher) Enabled() bool { return d.jobs != nil }

// Notify encola el evento con timestamp y source agregados.
func (d *Dispatcher) Notify(event string, data map[string]interface{}) {
	if !d.Enabled() {
		d.log.Debug().Str("evento", event).Msg("automatización deshabilitada, evento descartado")
		return
	}
	payload, err := d.buildPayload(data)
	if err != nil {
		d.log.Error().Err(err).Str("evento", event).Msg("automatización: payload inválido")
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		go d.deadLetter(event, payload, "dispatcher cerrado", 0)
		return
	}
	select {
	case d.jobs <- job{event: event, payload: payload}:
	default:
		go d.deadLetter(event, payload, "cola llena", 0)
	}
}

func (d *Dispatcher) buildPayload(data map[string]interface{}) ([]byte, error) {
	body := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["timestamp"] = d.now().UTC().Format(time.RFC3339)
	body["source"] = d.source
	return json.Marshal(body)
}

// Close deja de aceptar eventos y espera a que la cola se vacíe o venza ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	if !d.Enabled() {
		return nil
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.log.Info().Msg("automatización: cola drenada")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("automatización: drenado incompleto: %w", ctx.Err())
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	var lastErr error
	attempts := 0
	for attempts < maxAttempts {
		attempts++
		lastErr = d.breaker.Execute(func() error { return d.post(j) })
		if lastErr == nil {
			return
		}
		if errors.Is(lastErr, ErrBreakerOpen) {
			break
		}
		d.log.Warn().Err(lastErr).Str("evento", j.event).Int("intento", attempts).Msg("automatización: webhook falló")
		if attempts < maxAttempts {
			time.Sleep(d.retryDelay * time.Duration(attempts))
		}
	}
	d.deadLetter(j.event, j.payload, lastErr.Error(), attempts)
}

func (d *Dispatcher) post(j job) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.client.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/"+j.event, bytes.NewReader(j.payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s respondió %d", j.event, resp.StatusCode)
	}
	return nil
}

func (d *Dispatcher) deadLetter(event string, payload []byte, reason string, attempts int) {
	d.log.Error().Str("evento", event).Str("motivo", reason).Int("intentos", attempts).Msg("automatización: evento no entregado")
	if d.dlq == nil {
		return
	}
	entry := DeadLetter{
		Queue:    QueueName,
		Event:    event,
		Payload:  payload,
		Reason:   reason,
		FailedAt: d.now().UTC().Format(time.RFC3339),
		Attempts: attempts,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.dlq.Push(ctx, entry); err != nil {
		d.log.Error().Err(err).Str("evento", event).Msg("automatización: no se pudo escribir en la DLQ")
	}
}
