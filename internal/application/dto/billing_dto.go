package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingInvoiceResponse pedido entregado pendiente de facturar con su clasificación.
type PendingInvoiceResponse struct {
	Order            OrderResponse `json:"pedido"`
	Deadline         *time.Time    `json:"deadline"`
	Classification   string        `json:"clasificacion"` // sin_deadline | en_plazo | urgente | vencido
	RemainingSeconds int64         `json:"segundos_restantes"`
	Overdue          bool          `json:"vencido"`
	Urgent           bool          `json:"urgente"`
}

// MarkInvoicedRequest datos de la factura emitida.
type MarkInvoicedRequest struct {
	InvoiceNumber string `json:"nro_factura" validate:"required,min=1,max=50"`
}

// ProcessAlertsResponse resultado de una corrida de alertas.
type ProcessAlertsResponse struct {
	Flagged int64 `json:"alertas_generadas"`
	Cleared int64 `json:"alertas_limpiadas"`
}

// BillingMetricsResponse tablero de facturación.
type BillingMetricsResponse struct {
	PendingInvoice int             `json:"pendientes_facturar"`
	Overdue        int             `json:"vencidos"`
	InvoicedToday  int             `json:"cobros_hoy"`
	MonthTotal     decimal.Decimal `json:"total_mes"`
}

// LogisticsMetricsResponse tablero de logística.
type LogisticsMetricsResponse struct {
	InPreparation  int `json:"en_preparacion"`
	ReadyToShip    int `json:"listos_para_despacho"`
	InTransit      int `json:"en_ruta"`
	DeliveredToday int `json:"entregados_hoy"`
}

// SalesMetricsResponse tablero de ventas.
type SalesMetricsResponse struct {
	TotalSales         decimal.Decimal `json:"total_ventas"`
	OrderCount         int             `json:"cantidad_pedidos"`
	PendingCommissions decimal.Decimal `json:"comisiones_pendientes"`
}

// ManagementMetricsResponse tablero de gerencia / compras.
type ManagementMetricsResponse struct {
	InventoryValue        decimal.Decimal `json:"valor_total_inventario"`
	LowStockProducts      int             `json:"productos_stock_bajo"`
	PendingPurchaseOrders int             `json:"ordenes_compra_pendientes"`
	ActiveSuppliers       int             `json:"proveedores_activos"`
}

// SendDeliveryNoteRequest envío del remito por correo.
type SendDeliveryNoteRequest struct {
	To string `json:"email" validate:"required,email"`
}
