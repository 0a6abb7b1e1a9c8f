package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
)

// SupplierHandler proveedores y transportistas.
type SupplierHandler struct {
	suppliers *usecase.SupplierUseCase
	carriers  *usecase.CarrierUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(suppliers *usecase.SupplierUseCase, carriers *usecase.CarrierUseCase) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers, carriers: carriers}
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        busqueda  query  string  false  "nombre, cuit o contacto"
// @Param        estado    query  string  false  "activo | inactivo | todos"
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *SupplierHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.suppliers.List(c.UserContext(), c.Query("busqueda"), c.Query("estado"))
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// GetSupplier godoc
// @Summary      Obtener proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	out, err := h.suppliers.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "productos_suministrados acepta texto separado por comas o lista"
// @Success      201   {object}  dto.SupplierResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.suppliers.Create(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// UpdateSupplier godoc
// @Summary      Actualizar proveedor (parcial)
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID"
// @Param        body  body  dto.UpdateSupplierRequest  true  "campos a modificar"
// @Success      200   {object}  dto.SupplierResponse
// @Router       /api/suppliers/{id} [put]
func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	var in dto.UpdateSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.suppliers.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// DeleteSupplier godoc
// @Summary      Desactivar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/suppliers/{id} [delete]
func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	if err := h.suppliers.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.MessageResponse{Message: "proveedor desactivado"})
}

// ListCarriers godoc
// @Summary      Listar transportistas
// @Tags         carriers
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "activo | inactivo"
// @Success      200  {array}  dto.CarrierResponse
// @Router       /api/carriers [get]
func (h *SupplierHandler) ListCarriers(c *fiber.Ctx) error {
	out, err := h.carriers.List(c.UserContext(), c.Query("estado"))
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// GetCarrier godoc
// @Summary      Obtener transportista
// @Tags         carriers
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.CarrierResponse
// @Router       /api/carriers/{id} [get]
func (h *SupplierHandler) GetCarrier(c *fiber.Ctx) error {
	out, err := h.carriers.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// CreateCarrier godoc
// @Summary      Crear transportista
// @Tags         carriers
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreateCarrierRequest  true  "datos"
// @Success      201   {object}  dto.CarrierResponse
// @Router       /api/carriers [post]
func (h *SupplierHandler) CreateCarrier(c *fiber.Ctx) error {
	var in dto.CreateCarrierRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.carriers.Create(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// UpdateCarrier godoc
// @Summary      Actualizar transportista (parcial)
// @Tags         carriers
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.UpdateCarrierRequest  true  "campos"
// @Success      200   {object}  dto.CarrierResponse
// @Router       /api/carriers/{id} [put]
func (h *SupplierHandler) UpdateCarrier(c *fiber.Ctx) error {
	var in dto.UpdateCarrierRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.carriers.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// DeleteCarrier godoc
// @Summary      Desactivar transportista
// @Tags         carriers
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/carriers/{id} [delete]
func (h *SupplierHandler) DeleteCarrier(c *fiber.Ctx) error {
	if err := h.carriers.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.MessageResponse{Message: "transportista desactivado"})
}
