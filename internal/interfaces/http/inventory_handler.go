package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/inventory"
)

// InventoryHandler importación y exportación masiva de stock.
type InventoryHandler struct {
	uc *inventory.StockTransferUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockTransferUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Import godoc
// @Summary      Importar stock desde CSV
// @Description  Acepta multipart (campo file) o el CSV como cuerpo. Envía todas las filas a la
//               automatización import-stock y devuelve una vista previa de 5 filas.
// @Tags         stock
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  false  "CSV"
// @Success      200   {object}  dto.StockImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/import [post]
func (h *InventoryHandler) Import(c *fiber.Ctx) error {
	_, _, data, err := readUpload(c)
	if err != nil {
		return uploadError(c, err)
	}
	out, err := h.uc.Import(c.UserContext(), data)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Export godoc
// @Summary      Exportar stock
// @Description  Dispara la automatización export-stock.
// @Tags         stock
// @Security     Bearer
// @Success      202  {object}  dto.MessageResponse
// @Router       /api/stock/export [post]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	h.uc.Export(c.UserContext())
	return ok(c, fiber.StatusAccepted, dto.MessageResponse{Message: "exportación solicitada"})
}
