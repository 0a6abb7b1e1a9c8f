package ports

import "context"

// Rutas de webhook del servicio de automatización.
const (
	EventNewOrder           = "nuevo-pedido"
	EventLowStock           = "alerta-stock"
	EventCustomerValidation = "validacion-cliente"
	EventOrderStatus        = "estado-pedido"
	EventImportStock        = "import-stock"
	EventExportStock        = "export-stock"
)

// Notifier dispara eventos hacia la automatización. Notify no bloquea ni devuelve error:
// un fallo de notificación nunca revierte la operación que lo originó.
type Notifier interface {
	Notify(event string, data map[string]interface{})
}

// Messenger canal directo de mensajería (WhatsApp).
type Messenger interface {
	SendText(ctx context.Context, to, text string) error
}

// NopNotifier descarta eventos (tests y automatización deshabilitada).
type NopNotifier struct{}

// Notify no hace nada.
func (NopNotifier) Notify(string, map[string]interface{}) {}
