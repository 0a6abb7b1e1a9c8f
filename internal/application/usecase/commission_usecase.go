package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CommissionUseCase comisiones de vendedores.
type CommissionUseCase struct {
	repo      repository.CommissionRepository
	orders    repository.OrderRepository
	analytics repository.AnalyticsRepository
	audit     ports.AuditRecorder
	now       func() time.Time
}

// NewCommissionUseCase construye el caso de uso.
func NewCommissionUseCase(repo repository.CommissionRepository, orders repository.OrderRepository, analytics repository.AnalyticsRepository, audit ports.AuditRecorder) *CommissionUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &CommissionUseCase{repo: repo, orders: orders, analytics: analytics, audit: audit, now: time.Now}
}

// Create alta de comisión pendiente. Sin monto explícito: total del pedido * porcentaje / 100.
func (uc *CommissionUseCase) Create(ctx context.Context, in dto.CreateCommissionRequest) (*dto.CommissionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Percentage.IsNegative() || in.Percentage.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: porcentaje debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	order, err := uc.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	amount := order.Total.Mul(in.Percentage).Div(hundred).Round(2)
	if in.Amount != nil {
		if in.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: monto negativo", domain.ErrInvalidInput)
		}
		amount = in.Amount.Round(2)
	}
	c := &entity.Commission{
		ID:            uuid.New().String(),
		OrderID:       in.OrderID,
		SalespersonID: in.SalespersonID,
		Amount:        amount,
		Percentage:    in.Percentage,
		Status:        entity.CommissionPending,
		CreatedAt:     uc.now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "crear_comision", "comisiones", map[string]interface{}{
		"comision_id": c.ID, "pedido_id": c.OrderID, "monto": c.Amount.String(),
	})
	return toCommissionResponse(c), nil
}

// ListBySalesperson comisiones del vendedor, más recientes primero.
func (uc *CommissionUseCase) ListBySalesperson(ctx context.Context, salespersonID string) ([]dto.CommissionResponse, error) {
	list, err := uc.repo.ListBySalesperson(ctx, salespersonID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommissionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCommissionResponse(c))
	}
	return out, nil
}

// Settle pendiente → liquidado.
func (uc *CommissionUseCase) Settle(ctx context.Context, id string) (*dto.CommissionResponse, error) {
	return uc.transition(ctx, id, entity.CommissionSettled)
}

// Cancel pendiente → cancelado.
func (uc *CommissionUseCase) Cancel(ctx context.Context, id string) (*dto.CommissionResponse, error) {
	return uc.transition(ctx, id, entity.CommissionCancelled)
}

func (uc *CommissionUseCase) transition(ctx context.Context, id, next string) (*dto.CommissionResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransitionCommission(c.Status, next) {
		return nil, fmt.Errorf("%w: comisión %s → %s", domain.ErrInvalidTransition, c.Status, next)
	}
	if err := uc.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	c.Status = next
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "estado_comision", "comisiones", map[string]interface{}{"comision_id": id, "estado": next})
	return toCommissionResponse(c), nil
}

// SalesMetrics tablero del vendedor; salespersonID vacío agrega todos.
func (uc *CommissionUseCase) SalesMetrics(ctx context.Context, salespersonID string) (*dto.SalesMetricsResponse, error) {
	s, err := uc.analytics.SalesStats(ctx, salespersonID)
	if err != nil {
		return nil, fmt.Errorf("métricas de ventas: %w", err)
	}
	return &dto.SalesMetricsResponse{
		TotalSales:         s.TotalSales.Round(2),
		OrderCount:         s.OrderCount,
		PendingCommissions: s.PendingCommissions.Round(2),
	}, nil
}

func toCommissionResponse(c *entity.Commission) *dto.CommissionResponse {
	return &dto.CommissionResponse{
		ID:            c.ID,
		OrderID:       c.OrderID,
		SalespersonID: c.SalespersonID,
		Amount:        c.Amount,
		Percentage:    c.Percentage,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt,
	}
}
