package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/medical-farma-api/internal/application/auth"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"github.com/jhoicas/medical-farma-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

type memUserRepo struct {
	mu      sync.Mutex
	users   map[string]*entity.User
	lookups int
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*entity.User{}} }

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.users {
		if x.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	return r.users[id], nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(context.Context, *entity.User) error { return nil }
func (r *memUserRepo) UpdateStatus(context.Context, string, string) error { return nil }
func (r *memUserRepo) List(context.Context, repository.UserFilter) ([]*entity.User, error) {
	return nil, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].PasswordHash = hash
	r.users[id].MustChangePassword = false
	return nil
}

type countingNotifier struct{ events []string }

func (n *countingNotifier) Notify(event string, _ map[string]interface{}) {
	n.events = append(n.events, event)
}

func seedUser(t *testing.T, repo *memUserRepo, id, email, password, status string, role entity.Role) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{ID: id, Email: email, PasswordHash: string(hash), FullName: "Usuario " + id, Role: role, Status: status}
	repo.users[id] = u
	return u
}

func newAuthUC(repo *memUserRepo, n ports.Notifier) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, n, nil, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "medical-farma"})
}

func TestRegisterUser_QuedaPendiente(t *testing.T) {
	repo := newMemUserRepo()
	n := &countingNotifier{}
	uc := newAuthUC(repo, n)

	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:           "  Compras@Hospital.org ",
		Password:        "secreto1",
		ConfirmPassword: "secreto1",
		FullName:        "Hospital Central",
		Institution:     "Hospital Central",
	})
	require.NoError(t, err)
	assert.Equal(t, "compras@hospital.org", out.Email)
	assert.Equal(t, entity.UserPending, out.Status)
	assert.Equal(t, string(entity.RoleCliente), out.Role)
	assert.Equal(t, []string{ports.EventCustomerValidation}, n.events)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "compras@hospital.org", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrAccountNotApproved, "pendiente no ingresa")
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "u1", "a@b.com", "secreto1", entity.UserApproved, entity.RoleCliente)
	uc := newAuthUC(repo, nil)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "A@B.com", Password: "secreto1", ConfirmPassword: "secreto1", FullName: "x",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_ConfirmacionDistinta(t *testing.T) {
	repo := newMemUserRepo()
	uc := newAuthUC(repo, nil)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "a@b.com", Password: "secreto1", ConfirmPassword: "secreto2", FullName: "x",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
	assert.Empty(t, repo.users)
}

func TestLogin_GeneraTokenConRol(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "u1", "ventas@farma.com", "secreto1", entity.UserApproved, entity.RoleVendedor)
	uc := newAuthUC(repo, nil)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ventas@farma.com", Password: "secreto1"})
	require.NoError(t, err)
	userID, email, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "ventas@farma.com", email)
	assert.Equal(t, "vendedor", role)
}

func TestLogin_EmailConEspaciosYMayusculas(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "u1", "ventas@hospital.org", "secreto1", entity.UserApproved, entity.RoleVendedor)
	uc := newAuthUC(repo, nil)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " Ventas@Hospital.org ", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", out.User.ID)

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: " Ventas@Hospital.org", Password: "secreto1", ConfirmPassword: "secreto1", FullName: "x",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists, "el email se normaliza antes de validar y buscar")
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "u1", "a@b.com", "secreto1", entity.UserApproved, entity.RoleCliente)
	uc := newAuthUC(repo, nil)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@b.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_Suspendido(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "u1", "a@b.com", "secreto1", entity.UserSuspended, entity.RoleCliente)
	_, err := newAuthUC(repo, nil).Login(context.Background(), dto.LoginRequest{Email: "a@b.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrAccountNotApproved)
}

func TestChangePassword_ConfirmacionAntesDeLaBase(t *testing.T) {
	repo := newMemUserRepo()
	uc := newAuthUC(repo, nil)
	err := uc.ChangePassword(context.Background(), "u1", dto.ChangePasswordRequest{
		CurrentPassword: "x", NewPassword: "nueva123", ConfirmPassword: "nueva124",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
	assert.Zero(t, repo.lookups, "no se consulta la base")
}

func TestChangePassword_PrimerCambioSinActual(t *testing.T) {
	repo := newMemUserRepo()
	u := seedUser(t, repo, "u1", "a@b.com", "temporal", entity.UserApproved, entity.RoleDespacho)
	u.MustChangePassword = true
	uc := newAuthUC(repo, nil)

	err := uc.ChangePassword(context.Background(), "u1", dto.ChangePasswordRequest{NewPassword: "nueva123", ConfirmPassword: "nueva123"})
	require.NoError(t, err)
	assert.False(t, repo.users["u1"].MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["u1"].PasswordHash), []byte("nueva123")))
}

func TestChangePassword_ActualIncorrecta(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "u1", "a@b.com", "secreto1", entity.UserApproved, entity.RoleDespacho)
	err := newAuthUC(repo, nil).ChangePassword(context.Background(), "u1", dto.ChangePasswordRequest{
		CurrentPassword: "mal", NewPassword: "nueva123", ConfirmPassword: "nueva123",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestChangePassword_UsuarioInexistente(t *testing.T) {
	err := newAuthUC(newMemUserRepo(), nil).ChangePassword(context.Background(), "nope", dto.ChangePasswordRequest{
		NewPassword: "nueva123", ConfirmPassword: "nueva123",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
