package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"github.com/jhoicas/medical-farma-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y cambio de contraseña.
type AuthUseCase struct {
	userRepo repository.UserRepository
	notifier ports.Notifier
	audit    ports.AuditRecorder
	jwtCfg   JWTConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, notifier ports.Notifier, audit ports.AuditRecorder, jwtCfg JWTConfig) *AuthUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &AuthUseCase{userRepo: userRepo, notifier: notifier, audit: audit, jwtCfg: jwtCfg, now: time.Now}
}

// RegisterUser alta de cliente institucional en estado pendiente. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	email := in.Email
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		TaxID:        in.TaxID,
		WhatsApp:     in.WhatsApp,
		Institution:  in.Institution,
		Role:         entity.RoleCliente,
		Status:       entity.UserPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	uc.notifier.Notify(ports.EventCustomerValidation, map[string]interface{}{
		"usuario_id":      user.ID,
		"email":           user.Email,
		"nombre_completo": user.FullName,
		"dni_cuit":        user.TaxID,
		"whatsapp":        user.WhatsApp,
		"institucion":     user.Institution,
	})
	uc.audit.Record(ctx, user.ID, "registro", "usuarios", map[string]interface{}{"email": user.Email})
	return toUserResponse(user), nil
}

// Login verifica email/password y estado aprobado, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.CanLogin() {
		return nil, domain.ErrAccountNotApproved
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, user.ID, "login", "auth", nil)
	return &dto.LoginResponse{
		Token:              token,
		User:               *toUserResponse(user),
		MustChangePassword: user.MustChangePassword,
	}, nil
}

// ChangePassword valida confirmación antes de tocar la base; limpia must_change_password.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if in.NewPassword != in.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}
	if err := dto.Validate(in); err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	// La contraseña actual se exige salvo en el primer cambio obligatorio.
	if !user.MustChangePassword || in.CurrentPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			return domain.ErrInvalidCredentials
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	uc.audit.Record(ctx, userID, "cambio_password", "auth", nil)
	return nil
}

// Me datos del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
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
