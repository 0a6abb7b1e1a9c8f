package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
)

// AssistantHandler asistente de ventas con IA.
type AssistantHandler struct {
	uc *usecase.AssistantUseCase
}

// NewAssistantHandler construye el handler.
func NewAssistantHandler(uc *usecase.AssistantUseCase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

// Ask godoc
// @Summary      Consultar al asistente de ventas
// @Description  Responde con el catálogo activo como contexto. Timeout interno de 10 s.
// @Tags         assistant
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssistantRequest  true  "pregunta"
// @Success      200   {object}  dto.AssistantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/assistant/ask [post]
func (h *AssistantHandler) Ask(c *fiber.Ctx) error {
	var req dto.AssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo de la petición inválido")
	}
	out, err := h.uc.Ask(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrAssistantUnavailable) {
			return fail(c, fiber.StatusServiceUnavailable, "AI_UNAVAILABLE", "asistente no configurado")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fail(c, fiber.StatusRequestTimeout, "TIMEOUT", "el asistente tardó demasiado, intente nuevamente")
		}
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
