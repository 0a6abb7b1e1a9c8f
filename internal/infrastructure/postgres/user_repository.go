package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, password_hash, COALESCE(nombre_completo, ''), COALESCE(dni_cuit, ''),
	COALESCE(whatsapp, ''), COALESCE(institucion, ''), tipo_usuario, perfil_id, estado,
	COALESCE(must_change_password, false), created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row rowScanner) (*entity.User, error) {
	var u entity.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.TaxID,
		&u.WhatsApp, &u.Institution, &role, &u.ProfileID, &u.Status,
		&u.MustChangePassword, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}

// Create persiste un nuevo usuario. Email duplicado → domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO usuarios (id, email, password_hash, nombre_completo, dni_cuit, whatsapp, institucion,
			tipo_usuario, perfil_id, estado, must_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.FullName, u.TaxID, u.WhatsApp, u.Institution,
		string(u.Role), u.ProfileID, u.Status, u.MustChangePassword, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email (ya normalizado).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE lower(email) = lower($1) LIMIT 1`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return u, nil
}

// Update actualiza datos de perfil, rol y perfil de permisos.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE usuarios SET nombre_completo = $2, whatsapp = $3, institucion = $4, tipo_usuario = $5,
			perfil_id = $6, updated_at = $7
		WHERE id = $1`,
		u.ID, u.FullName, u.WhatsApp, u.Institution, string(u.Role), u.ProfileID, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateStatus transición de estado.
func (r *UserRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE usuarios SET estado = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("estado usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword guarda el nuevo hash y limpia must_change_password.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE usuarios SET password_hash = $2, must_change_password = false, updated_at = now() WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("password usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List filtros por estado, tipo y búsqueda sobre nombre/email.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("estado = ?", f.Status)
	}
	if f.Role != "" {
		w.add("tipo_usuario = ?", f.Role)
	}
	w.addSearch(f.Search, "nombre_completo", "email")
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM usuarios`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
