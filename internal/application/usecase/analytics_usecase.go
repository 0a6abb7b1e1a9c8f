package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

// AnalyticsUseCase tableros de solo lectura: catálogo, proveedores, usuarios, logística y gerencia.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(analyticsRepo repository.AnalyticsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// ProductStats total, activos, inactivos, stock bajo y valor del stock.
func (uc *AnalyticsUseCase) ProductStats(ctx context.Context) (*dto.ProductStatsResponse, error) {
	s, err := uc.analyticsRepo.ProductStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: productos: %w", err)
	}
	return &dto.ProductStatsResponse{
		Total:      s.Total,
		Active:     s.Active,
		Inactive:   s.Inactive,
		LowStock:   s.LowStock,
		StockValue: s.StockValue.Round(2),
	}, nil
}

// SupplierStats total, activos y mejor calificados.
func (uc *AnalyticsUseCase) SupplierStats(ctx context.Context) (*dto.SupplierStatsResponse, error) {
	s, err := uc.analyticsRepo.SupplierStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: proveedores: %w", err)
	}
	return &dto.SupplierStatsResponse{Total: s.Total, Active: s.Active, TopRated: s.TopRated}, nil
}

// UserStats conteos por estado y por tipo. Todos los estados y tipos aparecen aunque cuenten cero.
func (uc *AnalyticsUseCase) UserStats(ctx context.Context) (*dto.UserStatsResponse, error) {
	s, err := uc.analyticsRepo.UserStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: usuarios: %w", err)
	}
	byStatus := map[string]int{
		entity.UserPending:   0,
		entity.UserApproved:  0,
		entity.UserSuspended: 0,
		entity.UserRejected:  0,
	}
	for k, v := range s.ByStatus {
		byStatus[k] = v
	}
	byRole := make(map[string]int, len(entity.AllRoles))
	for _, r := range entity.AllRoles {
		byRole[string(r)] = 0
	}
	for k, v := range s.ByRole {
		byRole[k] = v
	}
	return &dto.UserStatsResponse{Total: s.Total, ByStatus: byStatus, ByRole: byRole}, nil
}

// LogisticsMetrics tablero de despacho; "hoy" según la hora local del servidor.
func (uc *AnalyticsUseCase) LogisticsMetrics(ctx context.Context) (*dto.LogisticsMetricsResponse, error) {
	dayStart, _ := periodStarts(uc.now())
	s, err := uc.analyticsRepo.LogisticsStats(ctx, dayStart)
	if err != nil {
		return nil, fmt.Errorf("analytics: logística: %w", err)
	}
	return &dto.LogisticsMetricsResponse{
		InPreparation:  s.InPreparation,
		ReadyToShip:    s.ReadyToShip,
		InTransit:      s.InTransit,
		DeliveredToday: s.DeliveredToday,
	}, nil
}

// ManagementMetrics tablero de compras/gerencia. Consulta productos y proveedores en paralelo.
// No existe módulo de órdenes de compra: ordenes_compra_pendientes es siempre 0.
func (uc *AnalyticsUseCase) ManagementMetrics(ctx context.Context) (*dto.ManagementMetricsResponse, error) {
	var (
		products  repository.ProductStats
		suppliers repository.SupplierStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = uc.analyticsRepo.ProductStats(gctx)
		if err != nil {
			return fmt.Errorf("analytics: productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		suppliers, err = uc.analyticsRepo.SupplierStats(gctx)
		if err != nil {
			return fmt.Errorf("analytics: proveedores: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.ManagementMetricsResponse{
		InventoryValue:        products.StockValue.Round(2),
		LowStockProducts:      products.LowStock,
		PendingPurchaseOrders: 0,
		ActiveSuppliers:       suppliers.Active,
	}, nil
}

// periodStarts inicio del día y del mes de t en su zona horaria.
func periodStarts(t time.Time) (day, month time.Time) {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
