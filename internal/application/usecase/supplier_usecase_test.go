package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

func TestSupplierCreate_ProductosComoTextoSeparadoPorComas(t *testing.T) {
	var in dto.CreateSupplierRequest
	require.NoError(t, json.Unmarshal([]byte(`{"nombre":"Droguería Sur","productos_suministrados":"gasas, jeringas ,,alcohol"}`), &in))

	repo := newStubSupplierRepo()
	uc := usecase.NewSupplierUseCase(repo, nil)
	out, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"gasas", "jeringas", "alcohol"}, out.SuppliedProducts)
	assert.Equal(t, entity.StatusActive, out.Status)
}

func TestSupplierCreate_ProductosComoArray(t *testing.T) {
	var in dto.CreateSupplierRequest
	require.NoError(t, json.Unmarshal([]byte(`{"nombre":"Droguería Norte","productos_suministrados":["guantes"]}`), &in))
	assert.Equal(t, dto.ProductList{"guantes"}, in.SuppliedProducts)
}

func TestSupplierCreate_CalificacionFueraDeRango(t *testing.T) {
	uc := usecase.NewSupplierUseCase(newStubSupplierRepo(), nil)
	_, err := uc.Create(context.Background(), dto.CreateSupplierRequest{Name: "X", Rating: d("5.5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupplierDeactivate_Idempotente(t *testing.T) {
	repo := newStubSupplierRepo()
	uc := usecase.NewSupplierUseCase(repo, nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "Proveedor"})
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(ctx, created.ID))
	require.NoError(t, uc.Deactivate(ctx, created.ID))
	assert.Equal(t, 1, repo.setCalls)
	assert.Equal(t, entity.StatusInactive, repo.suppliers[created.ID].Status)
}

func TestSupplierList_TodosNoFiltra(t *testing.T) {
	repo := newStubSupplierRepo()
	uc := usecase.NewSupplierUseCase(repo, nil)
	_, err := uc.List(context.Background(), "  sur ", "todos")
	require.NoError(t, err)
	assert.Equal(t, "", repo.lastFilter.Status)
	assert.Equal(t, "sur", repo.lastFilter.Search)
}
