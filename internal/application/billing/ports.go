package billing

import (
	"context"

	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// DeliveryNote datos del remito de un pedido.
type DeliveryNote struct {
	CompanyName string
	Order       *entity.Order
	Customer    *entity.User // nil si el cliente ya no existe
	Dispatches  []*entity.Dispatch
}

// DeliveryNotePDFGenerator puerto de salida para renderizar el remito.
type DeliveryNotePDFGenerator interface {
	GenerateDeliveryNotePDF(ctx context.Context, note DeliveryNote) ([]byte, error)
}
