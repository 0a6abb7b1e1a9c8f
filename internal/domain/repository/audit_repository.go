package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// AuditFilter filtros del log de auditoría.
type AuditFilter struct {
	Module string
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// AuditLogRepository puerto del log de auditoría.
type AuditLogRepository interface {
	Create(ctx context.Context, l *entity.AuditLog) error
	// List created_at descendente.
	List(ctx context.Context, f AuditFilter) ([]*entity.AuditLog, error)
}

// SettingsRepository configuración y plantillas.
type SettingsRepository interface {
	// ListSettings ordenado por categoría; category vacío trae todas.
	ListSettings(ctx context.Context, category string) ([]*entity.Setting, error)
	UpdateSetting(ctx context.Context, key string, value json.RawMessage) (*entity.Setting, error)
	// ListTemplates ordenado por code.
	ListTemplates(ctx context.Context) ([]*entity.Template, error)
	GetTemplate(ctx context.Context, code string) (*entity.Template, error)
	UpsertTemplate(ctx context.Context, t *entity.Template) error
}
