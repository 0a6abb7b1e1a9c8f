package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido.
const (
	OrderQuote     = "cotizacion"
	OrderConfirmed = "confirmado"
	OrderPreparing = "en_preparacion"
	OrderShipped   = "despachado"
	OrderDelivered = "entregado"
	OrderInvoiced  = "facturado"
	OrderCancelled = "cancelado"
)

// Estados de pago.
const (
	PaymentPending = "pendiente"
	PaymentPartial = "parcial"
	PaymentPaid    = "pagado"
)

// FallbackOrderNumberPrefix prefijo de números generados sin el asignador atómico.
const FallbackOrderNumberPrefix = "PED-ERR-"

// orderFlow orden lineal del ciclo de vida comercial.
var orderFlow = map[string]int{
	OrderQuote:     0,
	OrderConfirmed: 1,
	OrderPreparing: 2,
	OrderShipped:   3,
	OrderDelivered: 4,
	OrderInvoiced:  5,
}

// ValidOrderStatus indica si s es un estado de pedido conocido.
func ValidOrderStatus(s string) bool {
	if s == OrderCancelled {
		return true
	}
	_, ok := orderFlow[s]
	return ok
}

// CanTransitionOrder reglas: solo hacia adelante; facturado exige entregado;
// cancelado solo desde cotizacion, confirmado o en_preparacion.
func CanTransitionOrder(from, to string) bool {
	if to == OrderCancelled {
		return from == OrderQuote || from == OrderConfirmed || from == OrderPreparing
	}
	if to == OrderInvoiced {
		return from == OrderDelivered
	}
	fromRank, ok := orderFlow[from]
	if !ok {
		return false
	}
	toRank, ok := orderFlow[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// IsFallbackOrderNumber detecta números de pedido generados en modo degradado.
func IsFallbackOrderNumber(n string) bool {
	return strings.HasPrefix(n, FallbackOrderNumberPrefix)
}

// OrderItem línea del pedido (se persiste como jsonb).
type OrderItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"nombre"`
	Brand     string          `json:"marca,omitempty"`
	Category  string          `json:"categoria,omitempty"`
	Price     decimal.Decimal `json:"precio"`
	Quantity  int             `json:"cantidad"`
}

// Subtotal precio por cantidad.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order pedido de un cliente.
type Order struct {
	ID              string
	Number          string
	CustomerID      string
	SalespersonID   *string
	Items           []OrderItem
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	PaymentStatus   string
	Status          string
	Comments        string
	DeliveredAt     *time.Time
	InvoiceDeadline *time.Time
	InvoiceNumber   string
	InvoicedAt      *time.Time
	AuditAlert      bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemsSubtotal suma de las líneas.
func (o *Order) ItemsSubtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
