package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas de solo lectura para los tableros.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// ProductStats totales del catálogo y valor del stock a precio unitario.
func (r *AnalyticsRepo) ProductStats(ctx context.Context) (repository.ProductStats, error) {
	const query = `
	SELECT
	    COUNT(*)                                                        AS total,
	    COUNT(*) FILTER (WHERE estado = 'activo')                       AS activos,
	    COUNT(*) FILTER (WHERE estado = 'inactivo')                     AS inactivos,
	    COUNT(*) FILTER (WHERE estado = 'activo' AND stock_actual < stock_minimo) AS stock_bajo,
	    COALESCE(SUM(stock_actual * COALESCE(precio_unitario, 0)), 0)   AS valor_total_stock
	FROM productos`
	var s repository.ProductStats
	err := r.q.QueryRow(ctx, query).Scan(&s.Total, &s.Active, &s.Inactive, &s.LowStock, &s.StockValue)
	if err != nil {
		return s, fmt.Errorf("product stats: %w", err)
	}
	return s, nil
}

// SupplierStats totales de proveedores.
func (r *AnalyticsRepo) SupplierStats(ctx context.Context) (repository.SupplierStats, error) {
	const query = `
	SELECT
	    COUNT(*),
	    COUNT(*) FILTER (WHERE estado = 'activo'),
	    COUNT(*) FILTER (WHERE calificacion >= 4.5)
	FROM proveedores`
	var s repository.SupplierStats
	if err := r.q.QueryRow(ctx, query).Scan(&s.Total, &s.Active, &s.TopRated); err != nil {
		return s, fmt.Errorf("supplier stats: %w", err)
	}
	return s, nil
}

// UserStats conteos por estado y tipo de usuario.
func (r *AnalyticsRepo) UserStats(ctx context.Context) (repository.UserStats, error) {
	s := repository.UserStats{ByStatus: map[string]int{}, ByRole: map[string]int{}}
	rows, err := r.q.Query(ctx, `SELECT estado, tipo_usuario, COUNT(*) FROM usuarios GROUP BY estado, tipo_usuario`)
	if err != nil {
		return s, fmt.Errorf("user stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status, role string
		var n int
		if err := rows.Scan(&status, &role, &n); err != nil {
			return s, fmt.Errorf("scan user stats: %w", err)
		}
		s.Total += n
		s.ByStatus[status] += n
		s.ByRole[role] += n
	}
	return s, rows.Err()
}

// LogisticsStats tablero de logística; dayStart delimita "entregados hoy".
func (r *AnalyticsRepo) LogisticsStats(ctx context.Context, dayStart time.Time) (repository.LogisticsStats, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM pedidos  WHERE estado IN ('confirmado', 'en_preparacion')),
	    (SELECT COUNT(*) FROM despachos WHERE estado_despacho = 'listo'),
	    (SELECT COUNT(*) FROM despachos WHERE estado_despacho = 'despachado'),
	    (SELECT COUNT(*) FROM despachos WHERE estado_despacho = 'entregado' AND updated_at >= $1)`
	var s repository.LogisticsStats
	if err := r.q.QueryRow(ctx, query, dayStart).Scan(&s.InPreparation, &s.ReadyToShip, &s.InTransit, &s.DeliveredToday); err != nil {
		return s, fmt.Errorf("logistics stats: %w", err)
	}
	return s, nil
}

// BillingTotals facturados hoy y monto facturado del mes (por fecha_facturacion, o updated_at en esquemas viejos).
func (r *AnalyticsRepo) BillingTotals(ctx context.Context, dayStart, monthStart time.Time) (repository.BillingTotals, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE %[1]s >= $1),
	    COALESCE(SUM(total) FILTER (WHERE %[1]s >= $2), 0)
	FROM pedidos
	WHERE estado = 'facturado'`
	var s repository.BillingTotals
	err := r.q.QueryRow(ctx, fmt.Sprintf(query, "COALESCE(fecha_facturacion, updated_at)"), dayStart, monthStart).
		Scan(&s.InvoicedToday, &s.MonthTotal)
	if isUndefinedColumn(err) {
		err = r.q.QueryRow(ctx, fmt.Sprintf(query, "updated_at"), dayStart, monthStart).Scan(&s.InvoicedToday, &s.MonthTotal)
	}
	if err != nil {
		return s, fmt.Errorf("billing totals: %w", err)
	}
	return s, nil
}

// SalesStats ventas no canceladas y comisiones pendientes; salespersonID vacío agrega todo.
func (r *AnalyticsRepo) SalesStats(ctx context.Context, salespersonID string) (repository.SalesStats, error) {
	const query = `
	SELECT
	    (SELECT COALESCE(SUM(total), 0) FROM pedidos
	        WHERE estado <> 'cancelado' AND ($1 = '' OR vendedor_id::text = $1)),
	    (SELECT COUNT(*) FROM pedidos
	        WHERE estado <> 'cancelado' AND ($1 = '' OR vendedor_id::text = $1)),
	    (SELECT COALESCE(SUM(monto), 0) FROM comisiones
	        WHERE estado_comision = 'pendiente' AND ($1 = '' OR vendedor_id::text = $1))`
	var s repository.SalesStats
	if err := r.q.QueryRow(ctx, query, salespersonID).Scan(&s.TotalSales, &s.OrderCount, &s.PendingCommissions); err != nil {
		return s, fmt.Errorf("sales stats: %w", err)
	}
	return s, nil
}
