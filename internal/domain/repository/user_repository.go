package repository

import (
	"context"

	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// UserFilter filtros de usuarios.
type UserFilter struct {
	Status string
	Role   string
	Search string // nombre_completo o email
}

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePassword(ctx context.Context, id, hash string) error
	// List ordenado por created_at descendente.
	List(ctx context.Context, f UserFilter) ([]*entity.User, error)
}

// PermissionRepository perfiles, permisos y asignaciones.
type PermissionRepository interface {
	ListProfiles(ctx context.Context) ([]*entity.Profile, error)
	GetProfile(ctx context.Context, id string) (*entity.Profile, error)
	CreateProfile(ctx context.Context, p *entity.Profile) error
	// ListPermissions ordenado por módulo.
	ListPermissions(ctx context.Context) ([]*entity.Permission, error)
	// CodesForUser códigos de asignaciones activas directas del usuario.
	CodesForUser(ctx context.Context, userID string) ([]string, error)
	// CodesForProfile códigos de asignaciones activas del perfil.
	CodesForProfile(ctx context.Context, profileID string) ([]string, error)
	// ReplaceForUser borra las asignaciones directas e inserta las nuevas.
	ReplaceForUser(ctx context.Context, userID string, permissionIDs []string) error
	ReplaceForProfile(ctx context.Context, profileID string, permissionIDs []string) error
}
