package logistics

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/invoicing"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// DispatchUseCase despachos: alta, seguimiento y entrega. La entrega fija el deadline de facturación.
type DispatchUseCase struct {
	tx         TxRunner
	dispatches repository.DispatchRepository
	orders     repository.OrderRepository
	users      repository.UserRepository
	notifier   ports.Notifier
	audit      ports.AuditRecorder
	storage    ports.FileStorage
	docsBucket string
	log        zerolog.Logger
	now        func() time.Time
}

// Deps dependencias del caso de uso. Storage es opcional.
type Deps struct {
	Tx         TxRunner
	Dispatches repository.DispatchRepository
	Orders     repository.OrderRepository
	Users      repository.UserRepository
	Notifier   ports.Notifier
	Audit      ports.AuditRecorder
	Storage    ports.FileStorage
	DocsBucket string
	Log        zerolog.Logger
	Clock      func() time.Time
}

// NewDispatchUseCase construye el caso de uso.
func NewDispatchUseCase(d Deps) *DispatchUseCase {
	uc := &DispatchUseCase{
		tx:         d.Tx,
		dispatches: d.Dispatches,
		orders:     d.Orders,
		users:      d.Users,
		notifier:   d.Notifier,
		audit:      d.Audit,
		storage:    d.Storage,
		docsBucket: d.DocsBucket,
		log:        d.Log,
		now:        time.Now,
	}
	if d.Clock != nil {
		uc.now = d.Clock
	}
	if uc.notifier == nil {
		uc.notifier = ports.NopNotifier{}
	}
	if uc.audit == nil {
		uc.audit = ports.NopAuditRecorder{}
	}
	return uc
}

// Create alta de despacho en preparación. Si el pedido está confirmado pasa a en_preparacion.
func (uc *DispatchUseCase) Create(ctx context.Context, in dto.CreateDispatchRequest) (*dto.DispatchResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	d := &entity.Dispatch{
		ID:                  uuid.New().String(),
		OrderID:             in.OrderID,
		TrackingNumber:      strings.TrimSpace(in.TrackingNumber),
		Carrier:             strings.TrimSpace(in.Carrier),
		PickupAt:            in.PickupAt,
		EstimatedDeliveryAt: in.EstimatedDeliveryAt,
		Notes:               in.Notes,
		Status:              entity.DispatchPreparing,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if actor := ports.ActorFrom(ctx); actor != "" {
		d.DispatchUserID = &actor
	}

	err := uc.tx.RunDispatch(ctx, func(dispatchRepo repository.DispatchRepository, orderRepo repository.OrderRepository) error {
		order, err := orderRepo.GetByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		switch order.Status {
		case entity.OrderCancelled, entity.OrderDelivered, entity.OrderInvoiced, entity.OrderQuote:
			return fmt.Errorf("%w: no se puede despachar un pedido en estado %s", domain.ErrInvalidTransition, order.Status)
		}
		if err := dispatchRepo.Create(ctx, d); err != nil {
			return err
		}
		if order.Status == entity.OrderConfirmed {
			return orderRepo.UpdateStatus(ctx, order.ID, entity.OrderPreparing)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "crear_despacho", "despachos", map[string]interface{}{
		"despacho_id": d.ID, "pedido_id": d.OrderID,
	})
	resp := dto.NewDispatchResponse(d)
	return &resp, nil
}

// Get obtiene un despacho.
func (uc *DispatchUseCase) Get(ctx context.Context, id string) (*dto.DispatchResponse, error) {
	d, err := uc.dispatches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewDispatchResponse(d)
	return &resp, nil
}

// ListActive despachos no entregados, más recientes primero.
func (uc *DispatchUseCase) ListActive(ctx context.Context) ([]dto.DispatchResponse, error) {
	return mapDispatches(uc.dispatches.ListActive(ctx))
}

// ListByOrder despachos de un pedido.
func (uc *DispatchUseCase) ListByOrder(ctx context.Context, orderID string) ([]dto.DispatchResponse, error) {
	return mapDispatches(uc.dispatches.ListByOrder(ctx, orderID))
}

// UpdateStatus avanza el despacho con compare-and-set: dos entregas concurrentes producen una sola transición.
// despachado mueve el pedido a despachado; entregado registra la entrega y el deadline de facturación.
func (uc *DispatchUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateDispatchStatusRequest) (*dto.DispatchResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	d, err := uc.dispatches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransitionDispatch(d.Status, in.Status) {
		return nil, fmt.Errorf("%w: despacho %s → %s", domain.ErrInvalidTransition, d.Status, in.Status)
	}

	now := uc.now()
	var delivered *entity.Order
	err = uc.tx.RunDispatch(ctx, func(dispatchRepo repository.DispatchRepository, orderRepo repository.OrderRepository) error {
		if err := dispatchRepo.CompareAndSetStatus(ctx, id, d.Status, in.Status, strings.TrimSpace(in.ReceivedBy)); err != nil {
			return err
		}
		switch in.Status {
		case entity.DispatchShipped:
			order, err := orderRepo.GetByID(ctx, d.OrderID)
			if err != nil {
				return err
			}
			if order != nil && entity.CanTransitionOrder(order.Status, entity.OrderShipped) {
				return orderRepo.UpdateStatus(ctx, order.ID, entity.OrderShipped)
			}
		case entity.DispatchDelivered:
			order, err := orderRepo.GetByID(ctx, d.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return domain.ErrNotFound
			}
			if !entity.CanTransitionOrder(order.Status, entity.OrderDelivered) {
				return fmt.Errorf("%w: pedido %s → %s", domain.ErrInvalidTransition, order.Status, entity.OrderDelivered)
			}
			deadline := invoicing.DeadlineFor(now)
			comments := invoicing.WithDeadlineMarker(order.Comments, deadline)
			if err := orderRepo.MarkDelivered(ctx, order.ID, repository.DeliveryUpdate{
				DeliveredAt: now,
				Deadline:    deadline,
				Comments:    comments,
			}); err != nil {
				return err
			}
			order.Status = entity.OrderDelivered
			order.DeliveredAt = &now
			order.InvoiceDeadline = &deadline
			order.Comments = comments
			delivered = order
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.Status = in.Status
	if in.ReceivedBy != "" {
		d.ReceivedBy = strings.TrimSpace(in.ReceivedBy)
	}
	d.UpdatedAt = now
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "estado_despacho", "despachos", map[string]interface{}{
		"despacho_id": id, "pedido_id": d.OrderID, "estado": in.Status,
	})
	if delivered != nil {
		uc.notifyDelivered(ctx, delivered)
	}
	resp := dto.NewDispatchResponse(d)
	return &resp, nil
}

func (uc *DispatchUseCase) notifyDelivered(ctx context.Context, o *entity.Order) {
	data := map[string]interface{}{
		"pedidoId":      o.ID,
		"numero_pedido": o.Number,
		"estado":        entity.OrderDelivered,
		"clienteEmail":  "",
	}
	if o.InvoiceDeadline != nil {
		data["deadline_facturacion"] = invoicing.FormatTimestamp(*o.InvoiceDeadline)
	}
	if uc.users != nil {
		u, err := uc.users.GetByID(ctx, o.CustomerID)
		if err != nil {
			uc.log.Warn().Err(err).Str("pedido_id", o.ID).Msg("no se pudo obtener el email del cliente")
		} else if u != nil {
			data["clienteEmail"] = u.Email
		}
	}
	uc.notifier.Notify(ports.EventOrderStatus, data)
}

// UploadProof sube el comprobante a documentos/comprobantes_despacho/<id>_<ts>.<ext>.
func (uc *DispatchUseCase) UploadProof(ctx context.Context, id, filename, contentType string, data []byte) (*dto.UploadResponse, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("%w: almacenamiento de archivos no configurado", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	d, err := uc.dispatches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	objectPath := fmt.Sprintf("comprobantes_despacho/%s_%d%s", id, uc.now().UnixMilli(), ext)
	url, err := uc.storage.Upload(ctx, uc.docsBucket, objectPath, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("subir comprobante: %w", err)
	}
	if err := uc.dispatches.UpdateProof(ctx, id, url); err != nil {
		return nil, err
	}
	return &dto.UploadResponse{URL: url}, nil
}

func mapDispatches(list []*entity.Dispatch, err error) ([]dto.DispatchResponse, error) {
	if err != nil {
		return nil, err
	}
	out := make([]dto.DispatchResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.NewDispatchResponse(d))
	}
	return out, nil
}
