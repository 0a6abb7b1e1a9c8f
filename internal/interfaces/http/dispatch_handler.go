package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/logistics"
)

// DispatchHandler despachos.
type DispatchHandler struct {
	uc *logistics.DispatchUseCase
}

// NewDispatchHandler construye el handler.
func NewDispatchHandler(uc *logistics.DispatchUseCase) *DispatchHandler {
	return &DispatchHandler{uc: uc}
}

// Create godoc
// @Summary      Crear despacho
// @Tags         dispatches
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreateDispatchRequest  true  "pedido y datos de envío"
// @Success      201   {object}  dto.DispatchResponse
// @Router       /api/dispatches [post]
func (h *DispatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// ListActive godoc
// @Summary      Despachos activos
// @Description  Sin entregar, más recientes primero. Con pedido_id lista los del pedido.
// @Tags         dispatches
// @Security     Bearer
// @Param        pedido_id  query  string  false  "pedido"
// @Success      200  {array}  dto.DispatchResponse
// @Router       /api/dispatches [get]
func (h *DispatchHandler) ListActive(c *fiber.Ctx) error {
	var (
		out []dto.DispatchResponse
		err error
	)
	if orderID := c.Query("pedido_id"); orderID != "" {
		out, err = h.uc.ListByOrder(c.UserContext(), orderID)
	} else {
		out, err = h.uc.ListActive(c.UserContext())
	}
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Get godoc
// @Summary      Obtener despacho
// @Tags         dispatches
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.DispatchResponse
// @Router       /api/dispatches/{id} [get]
func (h *DispatchHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del despacho
// @Description  entregado fija el plazo de facturación (2 h). Una entrega concurrente devuelve 409.
// @Tags         dispatches
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                           true  "ID"
// @Param        body  body  dto.UpdateDispatchStatusRequest  true  "estado_despacho"
// @Success      200   {object}  dto.DispatchResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/dispatches/{id}/status [patch]
func (h *DispatchHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateDispatchStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// UploadProof godoc
// @Summary      Subir comprobante de entrega
// @Tags         dispatches
// @Security     Bearer
// @Accept       multipart/form-data
// @Param        id    path      string  true  "ID"
// @Param        file  formData  file    true  "comprobante"
// @Success      200   {object}  dto.UploadResponse
// @Router       /api/dispatches/{id}/proof [post]
func (h *DispatchHandler) UploadProof(c *fiber.Ctx) error {
	name, contentType, data, err := readUpload(c)
	if err != nil {
		return uploadError(c, err)
	}
	out, err := h.uc.UploadProof(c.UserContext(), c.Params("id"), name, contentType, data)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
