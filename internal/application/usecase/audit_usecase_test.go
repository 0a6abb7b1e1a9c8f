package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

type stubAuditRepo struct {
	created   []*entity.AuditLog
	lastQuery repository.AuditFilter
	createErr error
}

func (r *stubAuditRepo) Create(_ context.Context, l *entity.AuditLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, l)
	return nil
}

func (r *stubAuditRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	r.lastQuery = f
	return r.created, nil
}

func TestAuditRecord_GuardaIPYUsuario(t *testing.T) {
	repo := &stubAuditRepo{}
	uc := usecase.NewAuditUseCase(repo, zerolog.Nop())
	ctx := ports.WithClientIP(context.Background(), "10.0.0.7")

	uc.Record(ctx, "u1", "crear", "productos", map[string]interface{}{"id": "p1"})

	require.Len(t, repo.created, 1)
	got := repo.created[0]
	require.NotNil(t, got.UserID)
	assert.Equal(t, "u1", *got.UserID)
	assert.Equal(t, "10.0.0.7", got.IPAddress)
	assert.JSONEq(t, `{"id":"p1"}`, string(got.Details))
}

func TestAuditRecord_SinUsuarioNiDetalles(t *testing.T) {
	repo := &stubAuditRepo{}
	usecase.NewAuditUseCase(repo, zerolog.Nop()).Record(context.Background(), "", "importar", "stock", nil)

	require.Len(t, repo.created, 1)
	assert.Nil(t, repo.created[0].UserID)
	assert.JSONEq(t, `{}`, string(repo.created[0].Details))
}

func TestAuditRecord_ErrorDelRepoNoPropaga(t *testing.T) {
	repo := &stubAuditRepo{createErr: errors.New("db caída")}
	assert.NotPanics(t, func() {
		usecase.NewAuditUseCase(repo, zerolog.Nop()).Record(context.Background(), "u1", "x", "y", nil)
	})
}

func TestAuditList_Limites(t *testing.T) {
	repo := &stubAuditRepo{}
	uc := usecase.NewAuditUseCase(repo, zerolog.Nop())

	_, err := uc.List(context.Background(), dto.AuditFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastQuery.Limit)

	_, err = uc.List(context.Background(), dto.AuditFilterRequest{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1000, repo.lastQuery.Limit)

	_, err = uc.List(context.Background(), dto.AuditFilterRequest{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastQuery.Limit)
}

func TestAuditList_Fechas(t *testing.T) {
	repo := &stubAuditRepo{}
	uc := usecase.NewAuditUseCase(repo, zerolog.Nop())

	_, err := uc.List(context.Background(), dto.AuditFilterRequest{From: "2024-03-01", To: "2024-03-31", Module: "pedidos"})
	require.NoError(t, err)
	require.NotNil(t, repo.lastQuery.From)
	require.NotNil(t, repo.lastQuery.To)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *repo.lastQuery.From)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), *repo.lastQuery.To, "hasta cubre el día completo")
	assert.Equal(t, "pedidos", repo.lastQuery.Module)

	_, err = uc.List(context.Background(), dto.AuditFilterRequest{From: "01/03/2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
