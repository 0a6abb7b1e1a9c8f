package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/invoicing"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// AlertResult resultado de una corrida de alertas de auditoría.
type AlertResult struct {
	Flagged int64
	Cleared int64
	Overdue []string // ids de pedidos vencidos en esta evaluación
}

// InvoicingUseCase pedidos pendientes de facturar, alertas de auditoría y cierre con factura.
type InvoicingUseCase struct {
	orders    repository.OrderRepository
	analytics repository.AnalyticsRepository
	audit     ports.AuditRecorder
	log       zerolog.Logger
	now       func() time.Time
}

// NewInvoicingUseCase construye el caso de uso.
func NewInvoicingUseCase(orders repository.OrderRepository, analytics repository.AnalyticsRepository, audit ports.AuditRecorder, log zerolog.Logger) *InvoicingUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &InvoicingUseCase{orders: orders, analytics: analytics, audit: audit, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (cron y tests).
func (uc *InvoicingUseCase) WithClock(now func() time.Time) *InvoicingUseCase {
	uc.now = now
	return uc
}

type pendingOrder struct {
	order *entity.Order
	class invoicing.Classification
}

func (uc *InvoicingUseCase) loadPending(ctx context.Context, now time.Time) ([]pendingOrder, error) {
	list, err := uc.orders.ListByStatusOldestFirst(ctx, entity.OrderDelivered)
	if err != nil {
		return nil, fmt.Errorf("facturación: pendientes: %w", err)
	}
	out := make([]pendingOrder, 0, len(list))
	for _, o := range list {
		deadline := invoicing.ResolveDeadline(o.InvoiceDeadline, o.Comments)
		out = append(out, pendingOrder{order: o, class: invoicing.Classify(deadline, now)})
	}
	return out, nil
}

// PendingInvoices pedidos entregados sin facturar, más antiguos primero, con su clasificación.
// Aprovecha la lectura para sincronizar las alertas de auditoría.
func (uc *InvoicingUseCase) PendingInvoices(ctx context.Context) ([]dto.PendingInvoiceResponse, error) {
	now := uc.now()
	pending, err := uc.loadPending(ctx, now)
	if err != nil {
		return nil, err
	}
	if _, err := uc.applyAlerts(ctx, pending); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron sincronizar las alertas de auditoría")
	}
	out := make([]dto.PendingInvoiceResponse, 0, len(pending))
	for _, p := range pending {
		out = append(out, dto.PendingInvoiceResponse{
			Order:            dto.NewOrderResponse(p.order),
			Deadline:         p.class.Deadline,
			Classification:   string(p.class.Status),
			RemainingSeconds: int64(p.class.Remaining / time.Second),
			Overdue:          p.class.Overdue(),
			Urgent:           p.class.Status == invoicing.StatusUrgent,
		})
	}
	return out, nil
}

// ProcessAlerts deja alerta_auditoria=true exactamente en los pedidos entregados vencidos.
// Idempotente: solo escribe los pedidos cuyo flag difiere del valor correcto.
func (uc *InvoicingUseCase) ProcessAlerts(ctx context.Context) (AlertResult, error) {
	pending, err := uc.loadPending(ctx, uc.now())
	if err != nil {
		return AlertResult{}, err
	}
	return uc.applyAlerts(ctx, pending)
}

func (uc *InvoicingUseCase) applyAlerts(ctx context.Context, pending []pendingOrder) (AlertResult, error) {
	var flag, clear, overdue []string
	for _, p := range pending {
		isOverdue := p.class.Overdue()
		if isOverdue {
			overdue = append(overdue, p.order.ID)
		}
		switch {
		case isOverdue && !p.order.AuditAlert:
			flag = append(flag, p.order.ID)
		case !isOverdue && p.order.AuditAlert:
			clear = append(clear, p.order.ID)
		}
	}
	res := AlertResult{Overdue: overdue}
	if len(flag) > 0 {
		n, err := uc.orders.SetAuditAlert(ctx, flag, true)
		if errors.Is(err, domain.ErrMissingColumn) {
			uc.log.Warn().Int("vencidos", len(overdue)).Msg("columna alerta_auditoria ausente, alertas sin persistir")
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("facturación: marcar alertas: %w", err)
		}
		res.Flagged = n
		for _, p := range pending {
			if contains(flag, p.order.ID) {
				p.order.AuditAlert = true
			}
		}
	}
	if len(clear) > 0 {
		n, err := uc.orders.SetAuditAlert(ctx, clear, false)
		if err != nil {
			return res, fmt.Errorf("facturación: limpiar alertas: %w", err)
		}
		res.Cleared = n
		for _, p := range pending {
			if contains(clear, p.order.ID) {
				p.order.AuditAlert = false
			}
		}
	}
	if res.Flagged > 0 {
		uc.audit.Record(ctx, ports.ActorFrom(ctx), "alerta_auditoria", "facturacion", map[string]interface{}{
			"pedidos": flag, "cantidad": res.Flagged,
		})
	}
	return res, nil
}

// MarkInvoiced entregado → facturado con número y fecha de factura; limpia la alerta.
// Si el esquema no tiene las columnas tipadas, guarda un marcador en comentarios.
func (uc *InvoicingUseCase) MarkInvoiced(ctx context.Context, id string, in dto.MarkInvoicedRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransitionOrder(o.Status, entity.OrderInvoiced) {
		return nil, fmt.Errorf("%w: pedido %s → %s", domain.ErrInvalidTransition, o.Status, entity.OrderInvoiced)
	}
	number := strings.TrimSpace(in.InvoiceNumber)
	now := uc.now()
	err = uc.orders.MarkInvoiced(ctx, id, repository.InvoiceUpdate{InvoiceNumber: number, InvoicedAt: now})
	if errors.Is(err, domain.ErrMissingColumn) {
		uc.log.Warn().Str("pedido_id", id).Msg("columnas de facturación ausentes, usando marcador en comentarios")
		o.Comments = invoicing.AppendInvoiceMarker(o.Comments, number, now)
		err = uc.orders.MarkInvoicedLegacy(ctx, id, o.Comments)
	}
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderInvoiced
	o.InvoiceNumber = number
	o.InvoicedAt = &now
	o.AuditAlert = false
	o.UpdatedAt = now
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "facturar_pedido", "facturacion", map[string]interface{}{
		"pedido_id": id, "nro_factura": number,
	})
	resp := dto.NewOrderResponse(o)
	return &resp, nil
}

// Metrics tablero de facturación.
func (uc *InvoicingUseCase) Metrics(ctx context.Context) (*dto.BillingMetricsResponse, error) {
	now := uc.now()
	pending, err := uc.loadPending(ctx, now)
	if err != nil {
		return nil, err
	}
	overdue := 0
	for _, p := range pending {
		if p.class.Overdue() {
			overdue++
		}
	}
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	totals, err := uc.analytics.BillingTotals(ctx, dayStart, monthStart)
	if err != nil {
		return nil, fmt.Errorf("facturación: totales: %w", err)
	}
	return &dto.BillingMetricsResponse{
		PendingInvoice: len(pending),
		Overdue:        overdue,
		InvoicedToday:  totals.InvoicedToday,
		MonthTotal:     totals.MonthTotal.Round(2),
	}, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
