package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

type stubCommissionRepo struct {
	items map[string]*entity.Commission
}

func (r *stubCommissionRepo) Create(_ context.Context, c *entity.Commission) error {
	r.items[c.ID] = c
	return nil
}
func (r *stubCommissionRepo) GetByID(_ context.Context, id string) (*entity.Commission, error) {
	return r.items[id], nil
}
func (r *stubCommissionRepo) ListBySalesperson(_ context.Context, sp string) ([]*entity.Commission, error) {
	var out []*entity.Commission
	for _, c := range r.items {
		if c.SalespersonID == sp {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *stubCommissionRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.items[id].Status = status
	return nil
}

// orderLookup solo GetByID; el resto no se usa desde comisiones.
type orderLookup struct {
	repository.OrderRepository
	orders map[string]*entity.Order
}

func (o orderLookup) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return o.orders[id], nil
}

type stubSalesAnalytics struct {
	repository.AnalyticsRepository
	lastSalesperson string
}

func (s *stubSalesAnalytics) SalesStats(_ context.Context, sp string) (repository.SalesStats, error) {
	s.lastSalesperson = sp
	return repository.SalesStats{
		TotalSales:         d("12345.678"),
		OrderCount:         7,
		PendingCommissions: d("617.2839"),
	}, nil
}

func newCommissionUC() (*usecase.CommissionUseCase, *stubCommissionRepo, *stubSalesAnalytics) {
	repo := &stubCommissionRepo{items: map[string]*entity.Commission{}}
	orders := orderLookup{orders: map[string]*entity.Order{
		"ord-1": {ID: "ord-1", Total: d("1210")},
	}}
	an := &stubSalesAnalytics{}
	return usecase.NewCommissionUseCase(repo, orders, an, nil), repo, an
}

func TestCommissionCreate_CalculaMonto(t *testing.T) {
	uc, _, _ := newCommissionUC()
	out, err := uc.Create(context.Background(), dto.CreateCommissionRequest{
		OrderID: "ord-1", SalespersonID: "v1", Percentage: d("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "60.5", out.Amount.String())
	assert.Equal(t, entity.CommissionPending, out.Status)
}

func TestCommissionCreate_MontoExplicito(t *testing.T) {
	uc, _, _ := newCommissionUC()
	amount := decimal.RequireFromString("100.555")
	out, err := uc.Create(context.Background(), dto.CreateCommissionRequest{
		OrderID: "ord-1", SalespersonID: "v1", Percentage: d("5"), Amount: &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, "100.56", out.Amount.String())
}

func TestCommissionCreate_Validaciones(t *testing.T) {
	uc, _, _ := newCommissionUC()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateCommissionRequest{OrderID: "ord-1", SalespersonID: "v1", Percentage: d("101")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateCommissionRequest{OrderID: "nope", SalespersonID: "v1", Percentage: d("5")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommissionTransiciones(t *testing.T) {
	uc, _, _ := newCommissionUC()
	ctx := context.Background()
	c, err := uc.Create(ctx, dto.CreateCommissionRequest{OrderID: "ord-1", SalespersonID: "v1", Percentage: d("5")})
	require.NoError(t, err)

	out, err := uc.Settle(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CommissionSettled, out.Status)

	_, err = uc.Cancel(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "liquidado es terminal")
}

func TestSalesMetrics_Redondea(t *testing.T) {
	uc, _, an := newCommissionUC()
	out, err := uc.SalesMetrics(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", an.lastSalesperson)
	assert.Equal(t, "12345.68", out.TotalSales.String())
	assert.Equal(t, "617.28", out.PendingCommissions.String())
	assert.Equal(t, 7, out.OrderCount)
}
