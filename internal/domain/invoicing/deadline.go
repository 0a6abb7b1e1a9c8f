package invoicing

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Window plazo para facturar un pedido desde su entrega.
	Window = 2 * time.Hour
	// UrgentThreshold por debajo de este tiempo restante el pedido es urgente.
	UrgentThreshold = 30 * time.Minute

	// DeadlineMarker marcador del deadline dentro de comentarios.
	DeadlineMarker = "DEADLINE_FACTURACION: "
	// InvoiceMarkerPrefix marcador de facturación cuando faltan las columnas tipadas.
	InvoiceMarkerPrefix = "[FACTURA_INFO: "

	// TimestampLayout ISO 8601 en UTC con milisegundos.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Status clasificación de un pedido pendiente de facturar.
type Status string

const (
	StatusNoDeadline Status = "sin_deadline"
	StatusOnTime     Status = "en_plazo"
	StatusUrgent     Status = "urgente"
	StatusOverdue    Status = "vencido"
)

// Classification resultado de evaluar un deadline contra el reloj.
type Classification struct {
	Status    Status
	Deadline  *time.Time
	Remaining time.Duration // 0 si no hay deadline o está vencido
}

// Overdue el deadline ya pasó.
func (c Classification) Overdue() bool {
	return c.Status == StatusOverdue
}

// DeadlineFor deadline = entrega + 2h.
func DeadlineFor(deliveredAt time.Time) time.Time {
	return deliveredAt.Add(Window)
}

// Classify evalúa el deadline en now. Vencido solo cuando now > deadline.
func Classify(deadline *time.Time, now time.Time) Classification {
	if deadline == nil {
		return Classification{Status: StatusNoDeadline}
	}
	dl := *deadline
	if now.After(dl) {
		return Classification{Status: StatusOverdue, Deadline: &dl}
	}
	remaining := dl.Sub(now)
	status := StatusOnTime
	if remaining < UrgentThreshold {
		status = StatusUrgent
	}
	return Classification{Status: status, Deadline: &dl, Remaining: remaining}
}

// FormatTimestamp serializa en el formato de los marcadores.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseDeadline extrae el deadline del texto de comentarios (marcador hasta fin de línea).
func ParseDeadline(comments string) (time.Time, bool) {
	idx := strings.Index(comments, DeadlineMarker)
	if idx < 0 {
		return time.Time{}, false
	}
	rest := comments[idx+len(DeadlineMarker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(rest))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WithDeadlineMarker reemplaza cualquier marcador previo por el nuevo deadline.
// El marcador queda en la primera línea; el resto del texto libre se conserva.
func WithDeadlineMarker(comments string, deadline time.Time) string {
	marker := DeadlineMarker + FormatTimestamp(deadline)
	var kept []string
	for _, line := range strings.Split(comments, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), strings.TrimSpace(DeadlineMarker)) {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return marker
	}
	return marker + "\n" + strings.Join(kept, "\n")
}

// AppendInvoiceMarker agrega el marcador de factura al final de los comentarios.
func AppendInvoiceMarker(comments, invoiceNumber string, at time.Time) string {
	return comments + fmt.Sprintf("\n%sNro=%s, Fecha=%s]", InvoiceMarkerPrefix, invoiceNumber, FormatTimestamp(at))
}

// ResolveDeadline prioriza la columna tipada; si falta, usa el marcador en comentarios.
func ResolveDeadline(typed *time.Time, comments string) *time.Time {
	if typed != nil {
		t := *typed
		return &t
	}
	if t, ok := ParseDeadline(comments); ok {
		return &t
	}
	return nil
}
