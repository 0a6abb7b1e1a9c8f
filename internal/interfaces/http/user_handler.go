package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
)

// UserHandler usuarios, perfiles y permisos.
type UserHandler struct {
	users *usecase.UserUseCase
	perms *usecase.PermissionUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserUseCase, perms *usecase.PermissionUseCase) *UserHandler {
	return &UserHandler{users: users, perms: perms}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        estado        query  string  false  "pendiente | aprobado | rechazado | inactivo"
// @Param        tipo_usuario  query  string  false  "rol"
// @Param        busqueda      query  string  false  "nombre o email"
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var in dto.UserFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.users.List(c.UserContext(), in)
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// GetByID godoc
// @Summary      Obtener usuario
// @Tags         users
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.UserResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.users.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Update godoc
// @Summary      Actualizar usuario (parcial)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                 true  "ID"
// @Param        body  body  dto.UpdateUserRequest  true  "nombre, whatsapp, institucion, perfil, tipo"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.users.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del usuario
// @Description  Al aprobar envía un correo de bienvenida si hay SMTP configurado.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                       true  "ID"
// @Param        body  body  dto.ChangeUserStatusRequest  true  "estado"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/users/{id}/status [patch]
func (h *UserHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeUserStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.users.ChangeStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// EffectivePermissions godoc
// @Summary      Permisos efectivos
// @Description  Unión de permisos directos y del perfil. gerencia tiene todos.
// @Tags         permissions
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.EffectivePermissionsResponse
// @Router       /api/users/{id}/permissions [get]
func (h *UserHandler) EffectivePermissions(c *fiber.Ctx) error {
	out, err := h.perms.Effective(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// MyPermissions godoc
// @Summary      Mis permisos efectivos
// @Tags         permissions
// @Security     Bearer
// @Success      200  {object}  dto.EffectivePermissionsResponse
// @Router       /api/auth/permissions [get]
func (h *UserHandler) MyPermissions(c *fiber.Ctx) error {
	out, err := h.perms.Effective(c.UserContext(), GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ReplaceUserPermissions godoc
// @Summary      Reemplazar permisos directos del usuario
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                         true  "ID del usuario"
// @Param        body  body  dto.ReplacePermissionsRequest  true  "ids de permisos"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/users/{id}/permissions [put]
func (h *UserHandler) ReplaceUserPermissions(c *fiber.Ctx) error {
	var in dto.ReplacePermissionsRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.perms.ReplaceForUser(c.UserContext(), c.Params("id"), in); err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.MessageResponse{Message: "permisos actualizados"})
}

// ListProfiles godoc
// @Summary      Listar perfiles
// @Tags         permissions
// @Security     Bearer
// @Success      200  {array}  dto.ProfileResponse
// @Router       /api/profiles [get]
func (h *UserHandler) ListProfiles(c *fiber.Ctx) error {
	out, err := h.perms.ListProfiles(c.UserContext())
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// CreateProfile godoc
// @Summary      Crear perfil
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreateProfileRequest  true  "nombre y descripción"
// @Success      201   {object}  dto.ProfileResponse
// @Router       /api/profiles [post]
func (h *UserHandler) CreateProfile(c *fiber.Ctx) error {
	var in dto.CreateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.perms.CreateProfile(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// ReplaceProfilePermissions godoc
// @Summary      Reemplazar permisos del perfil
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                         true  "ID del perfil"
// @Param        body  body  dto.ReplacePermissionsRequest  true  "ids de permisos"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/profiles/{id}/permissions [put]
func (h *UserHandler) ReplaceProfilePermissions(c *fiber.Ctx) error {
	var in dto.ReplacePermissionsRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.perms.ReplaceForProfile(c.UserContext(), c.Params("id"), in); err != nil {
		return handleError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.MessageResponse{Message: "permisos del perfil actualizados"})
}

// ListPermissions godoc
// @Summary      Catálogo de permisos
// @Tags         permissions
// @Security     Bearer
// @Success      200  {array}  dto.PermissionResponse
// @Router       /api/permissions [get]
func (h *UserHandler) ListPermissions(c *fiber.Ctx) error {
	out, err := h.perms.ListPermissions(c.UserContext())
	if err != nil {
		return failList(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
