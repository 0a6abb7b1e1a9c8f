package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// CommissionHandler comisiones y métricas de ventas.
type CommissionHandler struct {
	uc *usecase.CommissionUseCase
}

// NewCommissionHandler construye el handler.
func NewCommissionHandler(uc *usecase.CommissionUseCase) *CommissionHandler {
	return &CommissionHandler{uc: uc}
}

// salespersonParam un vendedor solo consulta lo propio; el resto usa :id o el usuario autenticado.
func salespersonParam(c *fiber.Ctx) string {
	if entity.Role(GetRole(c)) == entity.RoleVendedor {
		return GetUserID(c)
	}
	return c.Params("id", GetUserID(c))
}

// Create godoc
// @Summary      Registrar comisión
// @Tags         commissions
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreateCommissionRequest  true  "pedido, vendedor, porcentaje o monto"
// @Success      201   {object}  dto.CommissionResponse
// @Router       /api/commissions [post]
func (h *CommissionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCommissionRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// ListBySalesperson godoc
// @Summary      Comisiones de un vendedor
// @Tags         commissions
// @Security     Bearer
// @Param        id   path  string  true  "ID del vendedor"
// @Success      200  {array}  dto.CommissionResponse
// @Router       /api/commissions/salesperson/{id} [get]
func (h *CommissionHandler) ListBySalesperson(c *fiber.Ctx) error {
	out, err := h.uc.ListBySalesperson(c.UserContext(), salespersonParam(c))
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Settle godoc
// @Summary      Liquidar comisión
// @Tags         commissions
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.CommissionResponse
// @Router       /api/commissions/{id}/settle [post]
func (h *CommissionHandler) Settle(c *fiber.Ctx) error {
	out, err := h.uc.Settle(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Cancel godoc
// @Summary      Anular comisión
// @Tags         commissions
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.CommissionResponse
// @Router       /api/commissions/{id}/cancel [post]
func (h *CommissionHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// SalesMetrics godoc
// @Summary      Métricas de ventas
// @Tags         commissions
// @Security     Bearer
// @Param        id   path  string  false  "ID del vendedor"
// @Success      200  {object}  dto.SalesMetricsResponse
// @Router       /api/sales/metrics/{id} [get]
func (h *CommissionHandler) SalesMetrics(c *fiber.Ctx) error {
	out, err := h.uc.SalesMetrics(c.UserContext(), salespersonParam(c))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
