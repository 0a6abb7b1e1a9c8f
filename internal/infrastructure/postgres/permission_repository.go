package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo perfiles, permisos y asignaciones.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// ListProfiles por nombre.
func (r *PermissionRepo) ListProfiles(ctx context.Context) ([]*entity.Profile, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre, COALESCE(descripcion, '') FROM perfiles ORDER BY nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("list perfiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan perfil: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// GetProfile obtiene un perfil.
func (r *PermissionRepo) GetProfile(ctx context.Context, id string) (*entity.Profile, error) {
	var p entity.Profile
	err := r.q.QueryRow(ctx, `SELECT id, nombre, COALESCE(descripcion, '') FROM perfiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get perfil: %w", err)
	}
	return &p, nil
}

// CreateProfile persiste un perfil.
func (r *PermissionRepo) CreateProfile(ctx context.Context, p *entity.Profile) error {
	_, err := r.q.Exec(ctx, `INSERT INTO perfiles (id, nombre, descripcion) VALUES ($1, $2, $3)`, p.ID, p.Name, p.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert perfil: %w", err)
	}
	return nil
}

// ListPermissions por módulo y código.
func (r *PermissionRepo) ListPermissions(ctx context.Context) ([]*entity.Permission, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, codigo, nombre, COALESCE(descripcion, ''), COALESCE(modulo, '')
		FROM permisos ORDER BY modulo ASC, codigo ASC`)
	if err != nil {
		return nil, fmt.Errorf("list permisos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Permission
	for rows.Next() {
		var p entity.Permission
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Module); err != nil {
			return nil, fmt.Errorf("scan permiso: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CodesForUser asignaciones directas activas.
func (r *PermissionRepo) CodesForUser(ctx context.Context, userID string) ([]string, error) {
	return r.codes(ctx, `
		SELECT p.codigo FROM asignacion_permisos a JOIN permisos p ON p.id = a.permiso_id
		WHERE a.usuario_id = $1 AND a.estado = true`, userID)
}

// CodesForProfile asignaciones activas del perfil.
func (r *PermissionRepo) CodesForProfile(ctx context.Context, profileID string) ([]string, error) {
	return r.codes(ctx, `
		SELECT p.codigo FROM asignacion_permisos a JOIN permisos p ON p.id = a.permiso_id
		WHERE a.perfil_id = $1 AND a.estado = true`, profileID)
}

func (r *PermissionRepo) codes(ctx context.Context, query, id string) ([]string, error) {
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("códigos de permisos: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ReplaceForUser borra e inserta en una transacción.
func (r *PermissionRepo) ReplaceForUser(ctx context.Context, userID string, permissionIDs []string) error {
	return r.replace(ctx, "usuario_id", userID, permissionIDs)
}

// ReplaceForProfile borra e inserta en una transacción.
func (r *PermissionRepo) ReplaceForProfile(ctx context.Context, profileID string, permissionIDs []string) error {
	return r.replace(ctx, "perfil_id", profileID, permissionIDs)
}

// replace column es una constante interna (usuario_id | perfil_id), nunca entrada del usuario.
func (r *PermissionRepo) replace(ctx context.Context, column, ownerID string, permissionIDs []string) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM asignacion_permisos WHERE `+column+` = $1`, ownerID); err != nil {
			return fmt.Errorf("borrar asignaciones: %w", err)
		}
		if len(permissionIDs) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for _, pid := range permissionIDs {
			batch.Queue(`INSERT INTO asignacion_permisos (id, permiso_id, `+column+`, estado) VALUES ($1, $2, $3, true)`,
				uuid.New().String(), pid, ownerID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insertar asignaciones: %w", err)
		}
		return nil
	})
}
