package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// AuditUseCase registra y consulta el log de auditoría. Implementa ports.AuditRecorder.
type AuditUseCase struct {
	repo repository.AuditLogRepository
	log  zerolog.Logger
	now  func() time.Time
}

var _ ports.AuditRecorder = (*AuditUseCase)(nil)

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditLogRepository, log zerolog.Logger) *AuditUseCase {
	return &AuditUseCase{repo: repo, log: log, now: time.Now}
}

// Record persiste la acción; los errores se registran y se descartan.
func (uc *AuditUseCase) Record(ctx context.Context, userID, action, module string, details map[string]interface{}) {
	raw, err := json.Marshal(details)
	if err != nil || details == nil {
		raw = json.RawMessage(`{}`)
	}
	entry := &entity.AuditLog{
		ID:        uuid.New().String(),
		Action:    action,
		Module:    module,
		Details:   raw,
		IPAddress: ports.ClientIPFrom(ctx),
		CreatedAt: uc.now(),
	}
	if userID != "" {
		entry.UserID = &userID
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Str("action", action).Str("module", module).Msg("no se pudo registrar auditoría")
	}
}

// List filtra por módulo, usuario y rango de fechas (RFC3339 o YYYY-MM-DD).
func (uc *AuditUseCase) List(ctx context.Context, in dto.AuditFilterRequest) ([]dto.AuditLogResponse, error) {
	f := repository.AuditFilter{Module: in.Module, UserID: in.UserID, Limit: in.Limit}
	if f.Limit <= 0 {
		f.Limit = defaultAuditLimit
	}
	if f.Limit > maxAuditLimit {
		f.Limit = maxAuditLimit
	}
	if in.From != "" {
		t, err := parseDateParam(in.From, false)
		if err != nil {
			return nil, err
		}
		f.From = &t
	}
	if in.To != "" {
		t, err := parseDateParam(in.To, true)
		if err != nil {
			return nil, err
		}
		f.To = &t
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.AuditLogResponse{
			ID:        l.ID,
			UserID:    l.UserID,
			Action:    l.Action,
			Module:    l.Module,
			Details:   l.Details,
			IPAddress: l.IPAddress,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}

// parseDateParam una fecha sola como "hasta" cubre el día completo.
func parseDateParam(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
