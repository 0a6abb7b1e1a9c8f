package dto

import "github.com/jhoicas/medical-farma-api/internal/domain/entity"

// NewOrderResponse mapea un pedido; lo usan pedidos, logística y facturación.
func NewOrderResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Brand:     it.Brand,
			Category:  it.Category,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		FallbackNumber:  entity.IsFallbackOrderNumber(o.Number),
		CustomerID:      o.CustomerID,
		SalespersonID:   o.SalespersonID,
		Items:           items,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		Total:           o.Total,
		PaymentStatus:   o.PaymentStatus,
		Status:          o.Status,
		Comments:        o.Comments,
		DeliveredAt:     o.DeliveredAt,
		InvoiceDeadline: o.InvoiceDeadline,
		InvoiceNumber:   o.InvoiceNumber,
		InvoicedAt:      o.InvoicedAt,
		AuditAlert:      o.AuditAlert,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// NewDispatchResponse mapea un despacho.
func NewDispatchResponse(d *entity.Dispatch) DispatchResponse {
	return DispatchResponse{
		ID:                  d.ID,
		OrderID:             d.OrderID,
		DispatchUserID:      d.DispatchUserID,
		TrackingNumber:      d.TrackingNumber,
		Carrier:             d.Carrier,
		PickupAt:            d.PickupAt,
		EstimatedDeliveryAt: d.EstimatedDeliveryAt,
		ReceivedBy:          d.ReceivedBy,
		ProofURL:            d.ProofURL,
		Notes:               d.Notes,
		Status:              d.Status,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}
