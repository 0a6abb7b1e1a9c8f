package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
)

// AdminHandler log de auditoría, configuración y plantillas.
type AdminHandler struct {
	audit    *usecase.AuditUseCase
	settings *usecase.SettingsUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(audit *usecase.AuditUseCase, settings *usecase.SettingsUseCase) *AdminHandler {
	return &AdminHandler{audit: audit, settings: settings}
}

// AuditLog godoc
// @Summary      Log de auditoría
// @Tags         admin
// @Security     Bearer
// @Param        modulo       query  string  false  "módulo"
// @Param        usuario_id   query  string  false  "usuario"
// @Param        fecha_desde  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        fecha_hasta  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        limit        query  int     false  "por defecto 100"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/admin/audit [get]
func (h *AdminHandler) AuditLog(c *fiber.Ctx) error {
	var in dto.AuditFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.audit.List(c.UserContext(), in)
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ListSettings godoc
// @Summary      Configuración del sistema
// @Tags         admin
// @Security     Bearer
// @Param        categoria  query  string  false  "categoría"
// @Success      200  {array}  dto.SettingResponse
// @Router       /api/admin/settings [get]
func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	out, err := h.settings.ListSettings(c.UserContext(), c.Query("categoria"))
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// UpdateSetting godoc
// @Summary      Actualizar configuración por clave
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Param        clave  path  string                    true  "clave"
// @Param        body   body  dto.UpdateSettingRequest  true  "valor JSON"
// @Success      200    {object}  dto.SettingResponse
// @Router       /api/admin/settings/{clave} [put]
func (h *AdminHandler) UpdateSetting(c *fiber.Ctx) error {
	var in dto.UpdateSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.settings.UpdateSetting(c.UserContext(), c.Params("clave"), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ListTemplates godoc
// @Summary      Plantillas de mensajes
// @Tags         admin
// @Security     Bearer
// @Success      200  {array}  dto.TemplateResponse
// @Router       /api/admin/templates [get]
func (h *AdminHandler) ListTemplates(c *fiber.Ctx) error {
	out, err := h.settings.ListTemplates(c.UserContext())
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// UpsertTemplate godoc
// @Summary      Crear o editar plantilla
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.UpsertTemplateRequest  true  "code, type, content"
// @Success      200   {object}  dto.TemplateResponse
// @Router       /api/admin/templates [put]
func (h *AdminHandler) UpsertTemplate(c *fiber.Ctx) error {
	var in dto.UpsertTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.settings.UpsertTemplate(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
