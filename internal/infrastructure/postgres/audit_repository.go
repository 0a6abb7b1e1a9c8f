package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

var (
	_ repository.AuditLogRepository = (*AuditRepo)(nil)
	_ repository.SettingsRepository = (*SettingsRepo)(nil)
)

// AuditRepo log de auditoría.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta una entrada; ip vacía se guarda como NULL.
func (r *AuditRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	details := l.Details
	if len(details) == 0 {
		details = json.RawMessage(`{}`)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, usuario_id, accion, modulo, detalles, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.UserID, l.Action, l.Module, details, nullIfEmpty(l.IPAddress), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit_log: %w", err)
	}
	return nil
}

// List filtros opcionales; más recientes primero.
func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	var w whereBuilder
	if f.Module != "" {
		w.add("modulo = ?", f.Module)
	}
	if f.UserID != "" {
		w.add("usuario_id = ?", f.UserID)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}
	query := `SELECT id, usuario_id, accion, modulo, COALESCE(detalles, '{}'::jsonb), COALESCE(ip_address, ''), created_at
		FROM audit_logs` + w.sql() + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.next(f.Limit)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list audit_logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var details []byte
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Module, &details, &l.IPAddress, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit_log: %w", err)
		}
		l.Details = details
		list = append(list, &l)
	}
	return list, rows.Err()
}

// SettingsRepo configuración clave/valor y plantillas de mensajes.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

const settingColumns = `id, clave, valor, COALESCE(descripcion, ''), COALESCE(categoria, ''), updated_at`

func scanSetting(row rowScanner) (*entity.Setting, error) {
	var s entity.Setting
	var value []byte
	if err := row.Scan(&s.ID, &s.Key, &value, &s.Description, &s.Category, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Value = value
	return &s, nil
}

// ListSettings por categoría y clave.
func (r *SettingsRepo) ListSettings(ctx context.Context, category string) ([]*entity.Setting, error) {
	var w whereBuilder
	if category != "" {
		w.add("categoria = ?", category)
	}
	rows, err := r.q.Query(ctx, `SELECT `+settingColumns+` FROM configuracion`+w.sql()+` ORDER BY categoria ASC, clave ASC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list configuracion: %w", err)
	}
	defer rows.Close()
	var list []*entity.Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan configuracion: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpdateSetting reemplaza el valor de una clave existente.
func (r *SettingsRepo) UpdateSetting(ctx context.Context, key string, value json.RawMessage) (*entity.Setting, error) {
	s, err := scanSetting(r.q.QueryRow(ctx, `
		UPDATE configuracion SET valor = $2, updated_at = now() WHERE clave = $1
		RETURNING `+settingColumns, key, []byte(value)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update configuracion: %w", err)
	}
	return s, nil
}

const templateColumns = `id, code, type, content, is_active, updated_at`

func scanTemplate(row rowScanner) (*entity.Template, error) {
	var t entity.Template
	if err := row.Scan(&t.ID, &t.Code, &t.Type, &t.Content, &t.IsActive, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTemplates por code.
func (r *SettingsRepo) ListTemplates(ctx context.Context) ([]*entity.Template, error) {
	rows, err := r.q.Query(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY code ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	var list []*entity.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetTemplate por code; nil si no existe.
func (r *SettingsRepo) GetTemplate(ctx context.Context, code string) (*entity.Template, error) {
	t, err := scanTemplate(r.q.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// UpsertTemplate inserta o actualiza por code.
func (r *SettingsRepo) UpsertTemplate(ctx context.Context, t *entity.Template) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO templates (id, code, type, content, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE SET type = EXCLUDED.type, content = EXCLUDED.content,
			is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at`,
		t.ID, t.Code, t.Type, t.Content, t.IsActive, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert template: %w", err)
	}
	return nil
}
