package billing

import (
	"context"
	"fmt"
	"html"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

// PDFUseCase genera el remito (PDF) de un pedido y lo envía por correo.
type PDFUseCase struct {
	orders      repository.OrderRepository
	users       repository.UserRepository
	dispatches  repository.DispatchRepository
	generator   DeliveryNotePDFGenerator
	mailer      ports.Mailer
	companyName string
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias. mailer puede ser nil.
func NewPDFUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	dispatches repository.DispatchRepository,
	generator DeliveryNotePDFGenerator,
	mailer ports.Mailer,
	companyName string,
) *PDFUseCase {
	return &PDFUseCase{
		orders:      orders,
		users:       users,
		dispatches:  dispatches,
		generator:   generator,
		mailer:      mailer,
		companyName: companyName,
	}
}

// DeliveryNotePDF arma el remito del pedido.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el pedido no existe.
func (uc *PDFUseCase) DeliveryNotePDF(ctx context.Context, orderID string) (pdfBytes []byte, filename string, err error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("remito: obtener pedido: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	customer, err := uc.users.GetByID(ctx, order.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("remito: obtener cliente: %w", err)
	}
	dispatches, err := uc.dispatches.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("remito: obtener despachos: %w", err)
	}
	pdfBytes, err = uc.generator.GenerateDeliveryNotePDF(ctx, DeliveryNote{
		CompanyName: uc.companyName,
		Order:       order,
		Customer:    customer,
		Dispatches:  dispatches,
	})
	if err != nil {
		return nil, "", fmt.Errorf("remito: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("remito_%s.pdf", order.Number), nil
}

// EmailDeliveryNote envía el remito adjunto a to.
func (uc *PDFUseCase) EmailDeliveryNote(ctx context.Context, orderID, to string) error {
	if uc.mailer == nil {
		return fmt.Errorf("%w: correo saliente no configurado", domain.ErrInvalidInput)
	}
	pdfBytes, filename, err := uc.DeliveryNotePDF(ctx, orderID)
	if err != nil {
		return err
	}
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil || order == nil {
		return fmt.Errorf("remito: obtener pedido: %w", err)
	}
	body := fmt.Sprintf("<p>Adjuntamos el remito del pedido <b>%s</b>.</p><p>%s</p>",
		html.EscapeString(order.Number), html.EscapeString(uc.companyName))
	return uc.mailer.Send(ctx, ports.Mail{
		To:       []string{to},
		Subject:  "Remito pedido " + order.Number,
		HTMLBody: body,
		Attachments: []ports.Attachment{{
			Filename:    filename,
			ContentType: "application/pdf",
			Data:        pdfBytes,
		}},
	})
}
