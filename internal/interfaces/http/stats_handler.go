package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
)

// StatsHandler estadísticas y tableros agregados.
type StatsHandler struct {
	analytics *usecase.AnalyticsUseCase
	products  *usecase.ProductUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(analytics *usecase.AnalyticsUseCase, products *usecase.ProductUseCase) *StatsHandler {
	return &StatsHandler{analytics: analytics, products: products}
}

// Products godoc
// @Summary      Estadísticas de productos
// @Tags         stats
// @Security     Bearer
// @Success      200  {object}  dto.ProductStatsResponse
// @Router       /api/stats/products [get]
func (h *StatsHandler) Products(c *fiber.Ctx) error {
	out, err := h.analytics.ProductStats(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Suppliers godoc
// @Summary      Estadísticas de proveedores
// @Tags         stats
// @Security     Bearer
// @Success      200  {object}  dto.SupplierStatsResponse
// @Router       /api/stats/suppliers [get]
func (h *StatsHandler) Suppliers(c *fiber.Ctx) error {
	out, err := h.analytics.SupplierStats(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Users godoc
// @Summary      Estadísticas de usuarios
// @Tags         stats
// @Security     Bearer
// @Success      200  {object}  dto.UserStatsResponse
// @Router       /api/stats/users [get]
func (h *StatsHandler) Users(c *fiber.Ctx) error {
	out, err := h.analytics.UserStats(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Logistics godoc
// @Summary      Tablero de logística
// @Tags         stats
// @Security     Bearer
// @Success      200  {object}  dto.LogisticsMetricsResponse
// @Router       /api/stats/logistics [get]
func (h *StatsHandler) Logistics(c *fiber.Ctx) error {
	out, err := h.analytics.LogisticsMetrics(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Management godoc
// @Summary      Tablero de gerencia y compras
// @Tags         purchasing
// @Security     Bearer
// @Success      200  {object}  dto.ManagementMetricsResponse
// @Router       /api/purchasing/metrics [get]
func (h *StatsHandler) Management(c *fiber.Ctx) error {
	out, err := h.analytics.ManagementMetrics(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// RestockList godoc
// @Summary      Lista de reposición
// @Description  Productos activos con stock bajo y cantidad sugerida stock_minimo*2 - stock_actual.
// @Tags         purchasing
// @Security     Bearer
// @Success      200  {array}  dto.RestockItemResponse
// @Router       /api/purchasing/restock [get]
func (h *StatsHandler) RestockList(c *fiber.Ctx) error {
	out, err := h.products.RestockList(c.UserContext())
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
