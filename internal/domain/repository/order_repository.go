package repository

import (
	"context"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// OrderFilter filtros de pedidos.
type OrderFilter struct {
	Status        string
	CustomerID    string
	SalespersonID string
	Limit         int
}

// DeliveryUpdate datos que se persisten al entregarse un pedido.
type DeliveryUpdate struct {
	DeliveredAt time.Time
	Deadline    time.Time
	Comments    string
}

// InvoiceUpdate datos que se persisten al facturar.
type InvoiceUpdate struct {
	InvoiceNumber string
	InvoicedAt    time.Time
}

// OrderRepository puerto de persistencia de pedidos.
type OrderRepository interface {
	// NextOrderNumber delega en el asignador atómico de la base (secuencia).
	NextOrderNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// List ordenado por created_at descendente.
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	MarkDelivered(ctx context.Context, id string, u DeliveryUpdate) error
	// ListByStatusOldestFirst ordenado por updated_at ascendente.
	ListByStatusOldestFirst(ctx context.Context, status string) ([]*entity.Order, error)
	// SetAuditAlert fija alerta_auditoria para los ids dados.
	SetAuditAlert(ctx context.Context, ids []string, flag bool) (int64, error)
	// MarkInvoiced columnas tipadas; devuelve domain.ErrMissingColumn si el esquema no las tiene.
	MarkInvoiced(ctx context.Context, id string, u InvoiceUpdate) error
	// MarkInvoicedLegacy fallback: estado + marcador en comentarios.
	MarkInvoicedLegacy(ctx context.Context, id, comments string) error
}

// DispatchRepository puerto de persistencia de despachos.
type DispatchRepository interface {
	Create(ctx context.Context, d *entity.Dispatch) error
	GetByID(ctx context.Context, id string) (*entity.Dispatch, error)
	// ListActive despachos no entregados, created_at descendente.
	ListActive(ctx context.Context) ([]*entity.Dispatch, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Dispatch, error)
	// CompareAndSetStatus cambia el estado solo si el actual es expected. Devuelve domain.ErrConflict si no.
	CompareAndSetStatus(ctx context.Context, id, expected, next string, receivedBy string) error
	UpdateProof(ctx context.Context, id, url string) error
}

// CommissionRepository puerto de persistencia de comisiones.
type CommissionRepository interface {
	Create(ctx context.Context, c *entity.Commission) error
	GetByID(ctx context.Context, id string) (*entity.Commission, error)
	// ListBySalesperson created_at descendente.
	ListBySalesperson(ctx context.Context, salespersonID string) ([]*entity.Commission, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
