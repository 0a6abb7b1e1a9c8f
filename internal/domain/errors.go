package domain

import "errors"

// Errores de dominio reutilizables.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("registro duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrAccountNotApproved = errors.New("la cuenta no está aprobada")
	ErrPasswordMismatch   = errors.New("las contraseñas no coinciden")
	// ErrMissingColumn indica que el esquema destino no tiene una columna esperada (42703).
	ErrMissingColumn = errors.New("columna inexistente en el esquema")
)
