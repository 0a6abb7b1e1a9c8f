package automation

import "github.com/jhoicas/medical-farma-api/internal/application/ports"

// Fanout reparte cada evento entre varios notificadores (n8n y WhatsApp).
type Fanout []ports.Notifier

// Notify reenvía a cada notificador no nulo.
func (f Fanout) Notify(event string, data map[string]interface{}) {
	for _, n := range f {
		if n != nil {
			n.Notify(event, data)
		}
	}
}
