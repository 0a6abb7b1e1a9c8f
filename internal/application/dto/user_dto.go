package dto

import "time"

// RegisterRequest alta de cliente institucional (queda pendiente de aprobación).
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	FullName        string `json:"nombre_completo" validate:"required,min=1,max=200"`
	TaxID           string `json:"dni_cuit" validate:"max=20"`
	WhatsApp        string `json:"whatsapp" validate:"max=30"`
	Institution     string `json:"institucion" validate:"max=200"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y datos del usuario.
type LoginResponse struct {
	Token              string       `json:"token"`
	User               UserResponse `json:"user"`
	MustChangePassword bool         `json:"must_change_password"`
}

// ChangePasswordRequest cambio de contraseña del usuario autenticado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"nombre_completo"`
	TaxID       string    `json:"dni_cuit"`
	WhatsApp    string    `json:"whatsapp"`
	Institution string    `json:"institucion"`
	Role        string    `json:"tipo_usuario"`
	ProfileID   *string   `json:"perfil_id"`
	Status      string    `json:"estado"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateUserRequest actualización parcial (el estado va por ChangeStatus).
type UpdateUserRequest struct {
	FullName    *string `json:"nombre_completo" validate:"omitempty,min=1,max=200"`
	WhatsApp    *string `json:"whatsapp" validate:"omitempty,max=30"`
	Institution *string `json:"institucion" validate:"omitempty,max=200"`
	Role        *string `json:"tipo_usuario" validate:"omitempty,oneof=cliente vendedor facturacion despacho compras gerencia"`
	ProfileID   *string `json:"perfil_id"`
}

// ChangeUserStatusRequest transición de estado de usuario.
type ChangeUserStatusRequest struct {
	Status string `json:"estado" validate:"required,oneof=pendiente aprobado suspendido rechazado"`
}

// UserFilterRequest filtros de usuarios.
type UserFilterRequest struct {
	Status string `query:"estado"`
	Role   string `query:"tipo_usuario"`
	Search string `query:"busqueda"`
}

// UserStatsResponse conteos por estado y tipo.
type UserStatsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"por_estado"`
	ByRole   map[string]int `json:"por_tipo"`
}

// ProfileResponse perfil de permisos.
type ProfileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

// CreateProfileRequest alta de perfil.
type CreateProfileRequest struct {
	Name        string `json:"nombre" validate:"required,min=1,max=100"`
	Description string `json:"descripcion"`
}

// PermissionResponse permiso.
type PermissionResponse struct {
	ID          string `json:"id"`
	Code        string `json:"codigo"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Module      string `json:"modulo"`
}

// ReplacePermissionsRequest reemplazo completo de asignaciones.
type ReplacePermissionsRequest struct {
	PermissionIDs []string `json:"permisos" validate:"dive,required"`
}

// EffectivePermissionsResponse permisos efectivos de un usuario.
type EffectivePermissionsResponse struct {
	UserID string   `json:"usuario_id"`
	All    bool     `json:"todos"`
	Codes  []string `json:"permisos"`
}
