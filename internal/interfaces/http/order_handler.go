package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/orders"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// OrderHandler pedidos.
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Estado confirmado, pago pendiente. Dispara la automatización nuevo-pedido.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "cliente, items, descuento"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	// Un cliente solo crea pedidos propios y un vendedor queda como vendedor del pedido.
	switch entity.Role(GetRole(c)) {
	case entity.RoleCliente:
		in.CustomerID = GetUserID(c)
	case entity.RoleVendedor:
		if in.SalespersonID == nil {
			me := GetUserID(c)
			in.SalespersonID = &me
		}
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// Get godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	if entity.Role(GetRole(c)) == entity.RoleCliente && out.CustomerID != GetUserID(c) {
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "pedido no encontrado")
	}
	return ok(c, fiber.StatusOK, out)
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Param        estado       query  string  false  "estado"
// @Param        cliente_id   query  string  false  "cliente"
// @Param        vendedor_id  query  string  false  "vendedor"
// @Param        limit        query  int     false  "máximo"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var in dto.OrderFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros inválidos")
	}
	if entity.Role(GetRole(c)) == entity.RoleCliente {
		in.CustomerID = GetUserID(c)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ListMine godoc
// @Summary      Pedidos del vendedor autenticado
// @Tags         orders
// @Security     Bearer
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders/mine [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListBySalesperson(c.UserContext(), GetUserID(c))
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  Solo hacia adelante; cancelado es terminal.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                        true  "ID"
// @Param        body  body  dto.ChangeOrderStatusRequest  true  "estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.OrderResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
