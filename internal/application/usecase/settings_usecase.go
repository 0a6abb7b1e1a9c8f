package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

// SettingsUseCase configuración clave/valor y plantillas de mensajes.
type SettingsUseCase struct {
	repo  repository.SettingsRepository
	audit ports.AuditRecorder
	now   func() time.Time
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository, audit ports.AuditRecorder) *SettingsUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &SettingsUseCase{repo: repo, audit: audit, now: time.Now}
}

// ListSettings todas o las de una categoría.
func (uc *SettingsUseCase) ListSettings(ctx context.Context, category string) ([]dto.SettingResponse, error) {
	list, err := uc.repo.ListSettings(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSettingResponse(s))
	}
	return out, nil
}

// UpdateSetting reemplaza el valor de una clave existente.
func (uc *SettingsUseCase) UpdateSetting(ctx context.Context, key string, in dto.UpdateSettingRequest) (*dto.SettingResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !json.Valid(in.Value) {
		return nil, fmt.Errorf("%w: valor no es JSON válido", domain.ErrInvalidInput)
	}
	s, err := uc.repo.UpdateSetting(ctx, key, in.Value)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "actualizar_configuracion", "configuracion", map[string]interface{}{"clave": key})
	r := toSettingResponse(s)
	return &r, nil
}

// ListTemplates plantillas por code.
func (uc *SettingsUseCase) ListTemplates(ctx context.Context) ([]dto.TemplateResponse, error) {
	list, err := uc.repo.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TemplateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTemplateResponse(t))
	}
	return out, nil
}

// UpsertTemplate crea o reemplaza la plantilla identificada por code.
func (uc *SettingsUseCase) UpsertTemplate(ctx context.Context, in dto.UpsertTemplateRequest) (*dto.TemplateResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	t := &entity.Template{
		ID:        uuid.New().String(),
		Code:      strings.TrimSpace(in.Code),
		Type:      in.Type,
		Content:   in.Content,
		IsActive:  true,
		UpdatedAt: uc.now(),
	}
	if t.Type == "" {
		t.Type = "whatsapp"
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	if err := uc.repo.UpsertTemplate(ctx, t); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "guardar_plantilla", "configuracion", map[string]interface{}{"code": t.Code})
	r := toTemplateResponse(t)
	return &r, nil
}

// Render aplica la plantilla activa con sustitución {{var}}. ok=false si no existe o está inactiva.
func (uc *SettingsUseCase) Render(ctx context.Context, code string, vars map[string]string) (string, bool, error) {
	t, err := uc.repo.GetTemplate(ctx, code)
	if err != nil {
		return "", false, err
	}
	if t == nil || !t.IsActive {
		return "", false, nil
	}
	return RenderTemplate(t.Content, vars), true, nil
}

// RenderTemplate reemplaza cada {{clave}} por su valor; las claves desconocidas quedan intactas.
func RenderTemplate(content string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

func toSettingResponse(s *entity.Setting) dto.SettingResponse {
	return dto.SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		Category:    s.Category,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toTemplateResponse(t *entity.Template) dto.TemplateResponse {
	return dto.TemplateResponse{
		ID:        t.ID,
		Code:      t.Code,
		Type:      t.Type,
		Content:   t.Content,
		IsActive:  t.IsActive,
		UpdatedAt: t.UpdatedAt,
	}
}
