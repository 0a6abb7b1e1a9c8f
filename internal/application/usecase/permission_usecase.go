package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

// PermissionUseCase resuelve permisos efectivos y administra perfiles.
// Es el único punto que conoce cómo se combinan asignaciones directas y de perfil.
type PermissionUseCase struct {
	users repository.UserRepository
	perms repository.PermissionRepository
	audit ports.AuditRecorder
}

// NewPermissionUseCase construye el servicio de permisos.
func NewPermissionUseCase(users repository.UserRepository, perms repository.PermissionRepository, audit ports.AuditRecorder) *PermissionUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &PermissionUseCase{users: users, perms: perms, audit: audit}
}

// Resolve conjunto efectivo: gerencia tiene todos; el resto, la unión de directos y de perfil.
func (uc *PermissionUseCase) Resolve(ctx context.Context, userID string) (entity.PermissionSet, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return entity.PermissionSet{}, err
	}
	if user == nil {
		return entity.PermissionSet{}, domain.ErrUserNotFound
	}
	if user.Role.HasAllPermissions() {
		return entity.FullPermissionSet(), nil
	}
	direct, err := uc.perms.CodesForUser(ctx, userID)
	if err != nil {
		return entity.PermissionSet{}, err
	}
	var fromProfile []string
	if user.ProfileID != nil && *user.ProfileID != "" {
		fromProfile, err = uc.perms.CodesForProfile(ctx, *user.ProfileID)
		if err != nil {
			return entity.PermissionSet{}, err
		}
	}
	return entity.NewPermissionSet(direct, fromProfile), nil
}

// Effective vista HTTP de Resolve.
func (uc *PermissionUseCase) Effective(ctx context.Context, userID string) (*dto.EffectivePermissionsResponse, error) {
	set, err := uc.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes := set.Codes
	if codes == nil {
		codes = []string{}
	}
	return &dto.EffectivePermissionsResponse{UserID: userID, All: set.All, Codes: codes}, nil
}

// HasPermission usado por el middleware RequirePermission.
func (uc *PermissionUseCase) HasPermission(ctx context.Context, userID, code string) (bool, error) {
	set, err := uc.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.Has(code), nil
}

// ListProfiles perfiles por nombre.
func (uc *PermissionUseCase) ListProfiles(ctx context.Context) ([]dto.ProfileResponse, error) {
	list, err := uc.perms.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfileResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProfileResponse{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	return out, nil
}

// CreateProfile alta de perfil.
func (uc *PermissionUseCase) CreateProfile(ctx context.Context, in dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	p := &entity.Profile{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), Description: in.Description}
	if err := uc.perms.CreateProfile(ctx, p); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "crear_perfil", "permisos", map[string]interface{}{"perfil_id": p.ID, "nombre": p.Name})
	return &dto.ProfileResponse{ID: p.ID, Name: p.Name, Description: p.Description}, nil
}

// ListPermissions catálogo de permisos por módulo.
func (uc *PermissionUseCase) ListPermissions(ctx context.Context) ([]dto.PermissionResponse, error) {
	list, err := uc.perms.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PermissionResponse{ID: p.ID, Code: p.Code, Name: p.Name, Description: p.Description, Module: p.Module})
	}
	return out, nil
}

// ReplaceForUser reemplaza las asignaciones directas del usuario.
func (uc *PermissionUseCase) ReplaceForUser(ctx context.Context, userID string, in dto.ReplacePermissionsRequest) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.perms.ReplaceForUser(ctx, userID, dedupe(in.PermissionIDs)); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "asignar_permisos_usuario", "permisos", map[string]interface{}{
		"usuario_id": userID, "permisos": len(in.PermissionIDs),
	})
	return nil
}

// ReplaceForProfile reemplaza las asignaciones del perfil.
func (uc *PermissionUseCase) ReplaceForProfile(ctx context.Context, profileID string, in dto.ReplacePermissionsRequest) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	p, err := uc.perms.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if err := uc.perms.ReplaceForProfile(ctx, profileID, dedupe(in.PermissionIDs)); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "asignar_permisos_perfil", "permisos", map[string]interface{}{
		"perfil_id": profileID, "permisos": len(in.PermissionIDs),
	})
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
