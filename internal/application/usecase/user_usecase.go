package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo   repository.UserRepository
	audit  ports.AuditRecorder
	mailer ports.Mailer
	log    zerolog.Logger
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso. mailer puede ser nil.
func NewUserUseCase(repo repository.UserRepository, audit ports.AuditRecorder, mailer ports.Mailer, log zerolog.Logger) *UserUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &UserUseCase{repo: repo, audit: audit, mailer: mailer, log: log, now: time.Now}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return entityToUserResponse(user), nil
}

// List filtra por estado, tipo y búsqueda libre.
func (uc *UserUseCase) List(ctx context.Context, in dto.UserFilterRequest) ([]dto.UserResponse, error) {
	if in.Status != "" && !entity.ValidUserStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, in.Status)
	}
	if in.Role != "" {
		if _, ok := entity.ParseRole(in.Role); !ok {
			return nil, fmt.Errorf("%w: tipo_usuario desconocido %q", domain.ErrInvalidInput, in.Role)
		}
	}
	list, err := uc.repo.List(ctx, repository.UserFilter{Status: in.Status, Role: in.Role, Search: strings.TrimSpace(in.Search)})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *entityToUserResponse(u))
	}
	return items, nil
}

// Update datos de perfil, rol y perfil de permisos.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.WhatsApp != nil {
		user.WhatsApp = *in.WhatsApp
	}
	if in.Institution != nil {
		user.Institution = *in.Institution
	}
	if in.Role != nil {
		role, _ := entity.ParseRole(*in.Role)
		user.Role = role
	}
	if in.ProfileID != nil {
		if *in.ProfileID == "" {
			user.ProfileID = nil
		} else {
			pid := *in.ProfileID
			user.ProfileID = &pid
		}
	}
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "actualizar_usuario", "usuarios", map[string]interface{}{"usuario_id": id})
	return entityToUserResponse(user), nil
}

// ChangeStatus aprueba, rechaza o suspende. La aprobación envía un correo de bienvenida si hay mailer.
func (uc *UserUseCase) ChangeStatus(ctx context.Context, id string, in dto.ChangeUserStatusRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	previous := user.Status
	if previous == in.Status {
		return entityToUserResponse(user), nil
	}
	if err := uc.repo.UpdateStatus(ctx, id, in.Status); err != nil {
		return nil, err
	}
	user.Status = in.Status
	user.UpdatedAt = uc.now()
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "cambiar_estado_usuario", "usuarios", map[string]interface{}{
		"usuario_id": id, "estado_anterior": previous, "estado_nuevo": in.Status,
	})
	if in.Status == entity.UserApproved && uc.mailer != nil {
		uc.sendApprovalMail(ctx, user)
	}
	return entityToUserResponse(user), nil
}

func (uc *UserUseCase) sendApprovalMail(ctx context.Context, u *entity.User) {
	body := fmt.Sprintf("<p>Hola %s,</p><p>Tu cuenta fue aprobada. Ya podés ingresar con tu email <b>%s</b>.</p>",
		html.EscapeString(u.FullName), html.EscapeString(u.Email))
	err := uc.mailer.Send(ctx, ports.Mail{
		To:       []string{u.Email},
		Subject:  "Cuenta aprobada",
		HTMLBody: body,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", u.ID).Msg("no se pudo enviar el correo de aprobación")
	}
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		TaxID:       u.TaxID,
		WhatsApp:    u.WhatsApp,
		Institution: u.Institution,
		Role:        string(u.Role),
		ProfileID:   u.ProfileID,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
