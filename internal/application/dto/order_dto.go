package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea del carrito.
type OrderItemRequest struct {
	ProductID string          `json:"id" validate:"required"`
	Name      string          `json:"nombre" validate:"required"`
	Brand     string          `json:"marca"`
	Category  string          `json:"categoria"`
	Price     decimal.Decimal `json:"precio"`
	Quantity  int             `json:"cantidad" validate:"gte=1"`
}

// CreateOrderRequest alta de pedido (checkout del carrito o carga de vendedor).
// Subtotal y Total se calculan si vienen en cero.
type CreateOrderRequest struct {
	CustomerID    string             `json:"cliente_id" validate:"required"`
	SalespersonID *string            `json:"vendedor_id"`
	Items         []OrderItemRequest `json:"productos" validate:"required,min=1,dive"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"descuento"`
	Total         decimal.Decimal    `json:"total"`
	Comments      string             `json:"comentarios"`
	Status        string             `json:"estado" validate:"omitempty,oneof=cotizacion confirmado"`
}

// OrderItemResponse línea del pedido.
type OrderItemResponse struct {
	ProductID string          `json:"id"`
	Name      string          `json:"nombre"`
	Brand     string          `json:"marca,omitempty"`
	Category  string          `json:"categoria,omitempty"`
	Price     decimal.Decimal `json:"precio"`
	Quantity  int             `json:"cantidad"`
}

// OrderResponse salida de pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	Number          string              `json:"numero_pedido"`
	FallbackNumber  bool                `json:"numero_provisorio"`
	CustomerID      string              `json:"cliente_id"`
	SalespersonID   *string             `json:"vendedor_id"`
	Items           []OrderItemResponse `json:"productos"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Discount        decimal.Decimal     `json:"descuento"`
	Total           decimal.Decimal     `json:"total"`
	PaymentStatus   string              `json:"estado_pago"`
	Status          string              `json:"estado"`
	Comments        string              `json:"comentarios"`
	DeliveredAt     *time.Time          `json:"fecha_entrega_real"`
	InvoiceDeadline *time.Time          `json:"deadline_facturacion"`
	InvoiceNumber   string              `json:"nro_factura,omitempty"`
	InvoicedAt      *time.Time          `json:"fecha_facturacion"`
	AuditAlert      bool                `json:"alerta_auditoria"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderFilterRequest filtros de pedidos.
type OrderFilterRequest struct {
	Status        string `query:"estado"`
	CustomerID    string `query:"cliente_id"`
	SalespersonID string `query:"vendedor_id"`
	Limit         int    `query:"limit"`
}

// ChangeOrderStatusRequest transición del pedido.
type ChangeOrderStatusRequest struct {
	Status string `json:"estado" validate:"required,oneof=cotizacion confirmado en_preparacion despachado entregado cancelado"`
}

// CreateDispatchRequest alta de despacho.
type CreateDispatchRequest struct {
	OrderID             string     `json:"pedido_id" validate:"required"`
	TrackingNumber      string     `json:"num_guia"`
	Carrier             string     `json:"transportista"`
	PickupAt            *time.Time `json:"fecha_retiro"`
	EstimatedDeliveryAt *time.Time `json:"fecha_entrega_estimada"`
	Notes               string     `json:"notas"`
}

// UpdateDispatchStatusRequest transición del despacho.
type UpdateDispatchStatusRequest struct {
	Status     string `json:"estado_despacho" validate:"required,oneof=preparacion listo despachado entregado error"`
	ReceivedBy string `json:"recibido_por"`
}

// DispatchResponse salida de despacho.
type DispatchResponse struct {
	ID                  string     `json:"id"`
	OrderID             string     `json:"pedido_id"`
	DispatchUserID      *string    `json:"usuario_despacho_id"`
	TrackingNumber      string     `json:"num_guia"`
	Carrier             string     `json:"transportista"`
	PickupAt            *time.Time `json:"fecha_retiro"`
	EstimatedDeliveryAt *time.Time `json:"fecha_entrega_estimada"`
	ReceivedBy          string     `json:"recibido_por"`
	ProofURL            string     `json:"comprobante_url"`
	Notes               string     `json:"notas"`
	Status              string     `json:"estado_despacho"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// CreateCommissionRequest alta de comisión. Monto = total del pedido * porcentaje / 100 si no se informa.
type CreateCommissionRequest struct {
	OrderID       string           `json:"pedido_id" validate:"required"`
	SalespersonID string           `json:"vendedor_id" validate:"required"`
	Percentage    decimal.Decimal  `json:"porcentaje"`
	Amount        *decimal.Decimal `json:"monto"`
}

// CommissionResponse salida de comisión.
type CommissionResponse struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"pedido_id"`
	SalespersonID string          `json:"vendedor_id"`
	Amount        decimal.Decimal `json:"monto"`
	Percentage    decimal.Decimal `json:"porcentaje"`
	Status        string          `json:"estado_comision"`
	CreatedAt     time.Time       `json:"created_at"`
}
