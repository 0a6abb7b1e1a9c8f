package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/billing"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
)

// BillingHandler facturación: pendientes, alertas de auditoría, cierre y remito.
type BillingHandler struct {
	invoicing *billing.InvoicingUseCase
	pdf       *billing.PDFUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(invoicing *billing.InvoicingUseCase, pdf *billing.PDFUseCase) *BillingHandler {
	return &BillingHandler{invoicing: invoicing, pdf: pdf}
}

// Pending godoc
// @Summary      Pedidos pendientes de facturar
// @Description  Entregados sin factura con su clasificación de plazo. Actualiza las alertas de auditoría.
// @Tags         billing
// @Security     Bearer
// @Success      200  {array}  dto.PendingInvoiceResponse
// @Router       /api/billing/pending [get]
func (h *BillingHandler) Pending(c *fiber.Ctx) error {
	out, err := h.invoicing.PendingInvoices(c.UserContext())
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ProcessAlerts godoc
// @Summary      Procesar alertas de auditoría
// @Tags         billing
// @Security     Bearer
// @Success      200  {object}  dto.ProcessAlertsResponse
// @Router       /api/billing/alerts/process [post]
func (h *BillingHandler) ProcessAlerts(c *fiber.Ctx) error {
	res, err := h.invoicing.ProcessAlerts(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.ProcessAlertsResponse{Flagged: res.Flagged, Cleared: res.Cleared})
}

// MarkInvoiced godoc
// @Summary      Marcar pedido como facturado
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.MarkInvoicedRequest  true  "nro_factura"
// @Success      200   {object}  dto.OrderResponse
// @Router       /api/billing/orders/{id}/invoice [post]
func (h *BillingHandler) MarkInvoiced(c *fiber.Ctx) error {
	var in dto.MarkInvoicedRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.invoicing.MarkInvoiced(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Metrics godoc
// @Summary      Tablero de facturación
// @Tags         billing
// @Security     Bearer
// @Success      200  {object}  dto.BillingMetricsResponse
// @Router       /api/billing/metrics [get]
func (h *BillingHandler) Metrics(c *fiber.Ctx) error {
	out, err := h.invoicing.Metrics(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// DeliveryNotePDF godoc
// @Summary      Descargar remito
// @Tags         billing
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/billing/orders/{id}/remito [get]
func (h *BillingHandler) DeliveryNotePDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DeliveryNotePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(pdfBytes)
}

// EmailDeliveryNote godoc
// @Summary      Enviar remito por correo
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                       true  "ID del pedido"
// @Param        body  body  dto.SendDeliveryNoteRequest  true  "email destino"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/billing/orders/{id}/remito/email [post]
func (h *BillingHandler) EmailDeliveryNote(c *fiber.Ctx) error {
	var in dto.SendDeliveryNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := dto.Validate(in); err != nil {
		return handleError(c, err)
	}
	if err := h.pdf.EmailDeliveryNote(c.UserContext(), c.Params("id"), in.To); err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.MessageResponse{Message: "remito enviado a " + in.To})
}
