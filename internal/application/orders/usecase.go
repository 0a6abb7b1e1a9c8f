package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 200
	maxListLimit     = 1000
)

// OrderUseCase alta y ciclo de vida comercial de pedidos.
type OrderUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	notifier ports.Notifier
	audit    ports.AuditRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, notifier ports.Notifier, audit ports.AuditRecorder, log zerolog.Logger) *OrderUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &OrderUseCase{orders: orders, users: users, notifier: notifier, audit: audit, log: log, now: time.Now}
}

// Create valida el carrito, asigna número y persiste. Subtotal y total se calculan si vienen en cero.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Discount.IsNegative() || in.Subtotal.IsNegative() || in.Total.IsNegative() {
		return nil, fmt.Errorf("%w: importes negativos", domain.ErrInvalidInput)
	}
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo en %q", domain.ErrInvalidInput, it.Name)
		}
		items = append(items, entity.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Brand:     it.Brand,
			Category:  it.Category,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	now := uc.now()
	o := &entity.Order{
		ID:            uuid.New().String(),
		CustomerID:    in.CustomerID,
		SalespersonID: in.SalespersonID,
		Items:         items,
		Discount:      in.Discount,
		PaymentStatus: entity.PaymentPending,
		Status:        in.Status,
		Comments:      strings.TrimSpace(in.Comments),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if o.Status == "" {
		o.Status = entity.OrderConfirmed
	}
	o.Subtotal = in.Subtotal
	if o.Subtotal.IsZero() {
		o.Subtotal = o.ItemsSubtotal()
	}
	o.Total = in.Total
	if o.Total.IsZero() {
		o.Total = decimal.Max(o.Subtotal.Sub(o.Discount), decimal.Zero)
	}
	o.Subtotal = o.Subtotal.Round(2)
	o.Total = o.Total.Round(2)
	o.Number = uc.nextNumber(ctx, now)

	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, ports.ActorFrom(ctx), "crear_pedido", "pedidos", map[string]interface{}{
		"pedido_id": o.ID, "numero_pedido": o.Number, "total": o.Total.String(),
	})
	uc.notifier.Notify(ports.EventNewOrder, uc.newOrderPayload(ctx, o))

	resp := dto.NewOrderResponse(o)
	return &resp, nil
}

// nextNumber usa el asignador atómico; si falla, genera PED-ERR-<millis> y lo registra.
func (uc *OrderUseCase) nextNumber(ctx context.Context, now time.Time) string {
	n, err := uc.orders.NextOrderNumber(ctx)
	if err == nil && n != "" {
		return n
	}
	fallback := entity.FallbackOrderNumberPrefix + strconv.FormatInt(now.UnixMilli(), 10)
	uc.log.Error().Err(err).Str("numero_pedido", fallback).Msg("asignador de número de pedido no disponible, usando número provisorio")
	return fallback
}

func (uc *OrderUseCase) newOrderPayload(ctx context.Context, o *entity.Order) map[string]interface{} {
	productos := make([]map[string]interface{}, 0, len(o.Items))
	for _, it := range o.Items {
		productos = append(productos, map[string]interface{}{
			"id": it.ProductID, "nombre": it.Name, "cantidad": it.Quantity, "precio": it.Price.String(),
		})
	}
	data := map[string]interface{}{
		"pedidoId":      o.ID,
		"numero_pedido": o.Number,
		"cliente_id":    o.CustomerID,
		"productos":     productos,
		"subtotal":      o.Subtotal.String(),
		"descuento":     o.Discount.String(),
		"total":         o.Total.String(),
		"estado":        o.Status,
	}
	if uc.users != nil {
		if u, err := uc.users.GetByID(ctx, o.CustomerID); err == nil && u != nil {
			data["clienteEmail"] = u.Email
			data["clienteNombre"] = u.FullName
			data["institucion"] = u.Institution
			data["whatsapp"] = u.WhatsApp
		}
	}
	return data
}

// Get obtiene un pedido.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewOrderResponse(o)
	return &resp, nil
}

// List filtra por estado, cliente y vendedor; más recientes primero.
func (uc *OrderUseCase) List(ctx context.Context, in dto.OrderFilterRequest) ([]dto.OrderResponse, error) {
	if in.Status != "" && !entity.ValidOrderStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, in.Status)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	list, err := uc.orders.List(ctx, repository.OrderFilter{
		Status:        in.Status,
		CustomerID:    in.CustomerID,
		SalespersonID: in.SalespersonID,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.NewOrderResponse(o))
	}
	return out, nil
}

// ListBySalesperson pedidos cargados por un vendedor.
func (uc *OrderUseCase) ListBySalesperson(ctx context.Context, salespersonID string) ([]dto.OrderResponse, error) {
	return uc.List(ctx, dto.OrderFilterRequest{SalespersonID: salespersonID})
}

// ChangeStatus aplica la máquina de estados. entregado y facturado tienen operaciones propias
// (despacho y facturación) porque llevan datos adicionales.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, id string, in dto.ChangeOrderStatusRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	switch in.Status {
	case entity.OrderDelivered:
		return nil, fmt.Errorf("%w: la entrega se registra desde el despacho", domain.ErrInvalidTransition)
	case entity.OrderInvoiced:
		return nil, fmt.Errorf("%w: la factura se registra desde facturación", domain.ErrInvalidTransition)
	}
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransitionOrder(o.Status, in.Status) {
		return nil, fmt.Errorf("%w: pedido %s → %s", domain.ErrInvalidTransition, o.Status, in.Status)
	}
	if err := uc.orders.UpdateStatus(ctx, id, in.Status); err != nil {
		return nil, err
	}
	previous := o.Status
	o.Status = in.Status
	o.UpdatedAt = uc.now()
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "estado_pedido", "pedidos", map[string]interface{}{
		"pedido_id": id, "estado_anterior": previous, "estado_nuevo": in.Status,
	})
	resp := dto.NewOrderResponse(o)
	return &resp, nil
}

// Cancel atajo de ChangeStatus(cancelado).
func (uc *OrderUseCase) Cancel(ctx context.Context, id string) (*dto.OrderResponse, error) {
	return uc.ChangeStatus(ctx, id, dto.ChangeOrderStatusRequest{Status: entity.OrderCancelled})
}
