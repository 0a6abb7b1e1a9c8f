package whatsapp

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/rs/zerolog"
)

// TemplateRenderer resuelve una plantilla activa por código.
type TemplateRenderer interface {
	Render(ctx context.Context, code string, vars map[string]string) (string, bool, error)
}

// Códigos de plantilla usados por el canal.
const (
	TemplateNewOrder = "nuevo_pedido"
	TemplateLowStock = "stock_bajo"
)

// EventNotifier avisa por WhatsApp al administrador de pedidos nuevos y stock bajo.
// Canal secundario: los demás eventos se ignoran.
type EventNotifier struct {
	messenger ports.Messenger
	templates TemplateRenderer
	to        string
	log       zerolog.Logger
	timeout   time.Duration
	async     bool
}

// NewEventNotifier crea el notificador; envía en segundo plano.
func NewEventNotifier(m ports.Messenger, templates TemplateRenderer, adminPhone string, log zerolog.Logger) *EventNotifier {
	return &EventNotifier{messenger: m, templates: templates, to: adminPhone, log: log, timeout: 10 * time.Second, async: true}
}

// Sync envía en la goroutine del llamador (tests).
func (n *EventNotifier) Sync() *EventNotifier {
	n.async = false
	return n
}

// Notify implementa ports.Notifier.
func (n *EventNotifier) Notify(event string, data map[string]interface{}) {
	if n.to == "" {
		return
	}
	var code string
	var vars map[string]string
	switch event {
	case ports.EventNewOrder:
		code = TemplateNewOrder
		cliente := str(data["clienteEmail"])
		if cliente == "" {
			cliente = str(data["cliente_id"])
		}
		vars = map[string]string{"numero_pedido": str(data["numero_pedido"]), "cliente": cliente, "total": str(data["total"])}
	case ports.EventLowStock:
		code = TemplateLowStock
		vars = map[string]string{"producto": str(data["nombre"]), "stock_actual": str(data["stock_actual"]), "stock_minimo": str(data["stock_minimo"])}
	default:
		return
	}
	if n.async {
		go n.send(code, vars)
		return
	}
	n.send(code, vars)
}

func (n *EventNotifier) send(code string, vars map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	text := fallbackText(code, vars)
	if n.templates != nil {
		rendered, ok, err := n.templates.Render(ctx, code, vars)
		switch {
		case err != nil:
			n.log.Warn().Err(err).Str("plantilla", code).Msg("whatsapp: no se pudo leer la plantilla")
		case ok:
			text = rendered
		}
	}
	if err := n.messenger.SendText(ctx, n.to, text); err != nil {
		n.log.Warn().Err(err).Str("plantilla", code).Msg("whatsapp: mensaje no enviado")
	}
}

func fallbackText(code string, vars map[string]string) string {
	if code == TemplateNewOrder {
		return fmt.Sprintf("Nuevo pedido %s de %s por $%s", vars["numero_pedido"], vars["cliente"], vars["total"])
	}
	return fmt.Sprintf("Stock bajo: %s (actual %s, mínimo %s)", vars["producto"], vars["stock_actual"], vars["stock_minimo"])
}

func str(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
