package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStats agregados del catálogo.
type ProductStats struct {
	Total      int
	Active     int
	Inactive   int
	LowStock   int
	StockValue decimal.Decimal // Σ stock_actual * precio_unitario
}

// SupplierStats agregados de proveedores.
type SupplierStats struct {
	Total    int
	Active   int
	TopRated int // calificacion >= 4.5
}

// UserStats conteos por estado y por tipo de usuario.
type UserStats struct {
	Total    int
	ByStatus map[string]int
	ByRole   map[string]int
}

// LogisticsStats tablero de logística.
type LogisticsStats struct {
	InPreparation  int // pedidos confirmado o en_preparacion
	ReadyToShip    int // despachos listo
	InTransit      int // despachos despachado
	DeliveredToday int // despachos entregados desde dayStart
}

// BillingTotals agregados de facturación.
type BillingTotals struct {
	InvoicedToday int
	MonthTotal    decimal.Decimal // Σ total de pedidos facturados desde monthStart
}

// SalesStats métricas de un vendedor.
type SalesStats struct {
	TotalSales         decimal.Decimal
	OrderCount         int
	PendingCommissions decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para los tableros.
type AnalyticsRepository interface {
	ProductStats(ctx context.Context) (ProductStats, error)
	SupplierStats(ctx context.Context) (SupplierStats, error)
	UserStats(ctx context.Context) (UserStats, error)
	LogisticsStats(ctx context.Context, dayStart time.Time) (LogisticsStats, error)
	BillingTotals(ctx context.Context, dayStart, monthStart time.Time) (BillingTotals, error)
	// SalesStats salespersonID vacío agrega todos los vendedores.
	SalesStats(ctx context.Context, salespersonID string) (SalesStats, error)
}
