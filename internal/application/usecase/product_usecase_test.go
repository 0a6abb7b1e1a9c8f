package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/application/usecase"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProductUC(repo *stubProductRepo, n ports.Notifier) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(repo, n, nil, nil, "imagenes")
}

// ──────────────────────────────────────────────────────────────────────────────
// Precio de venta derivado
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_DerivaPrecioVenta(t *testing.T) {
	repo := newStubProductRepo()
	uc := newProductUC(repo, nil)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:          "Guantes de nitrilo",
		StockCurrent:  10,
		StockMinimum:  5,
		PurchasePrice: d("1000"),
		BaseTax:       d("21"),
		ExtraTax3:     d("5"),
	})
	require.NoError(t, err)
	assert.True(t, d("1260.00").Equal(out.SalePrice), "1000 * 1.26 = 1260.00, obtenido %s", out.SalePrice)
	assert.True(t, out.SalePrice.Equal(out.UnitPrice), "precio_unitario debe acompañar al precio de venta")
	assert.Equal(t, entity.StatusActive, out.Status)
	assert.NotEmpty(t, out.ID)
}

func TestProductCreate_RechazaImportesNegativos(t *testing.T) {
	uc := newProductUC(newStubProductRepo(), nil)
	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:          "Jeringa",
		PurchasePrice: d("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductCreate_NombreRequerido(t *testing.T) {
	uc := newProductUC(newStubProductRepo(), nil)
	_, err := uc.Create(context.Background(), dto.CreateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdate_RecalculaSoloSiCambiaPrecio(t *testing.T) {
	repo := newStubProductRepo()
	uc := newProductUC(repo, nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Gasa", PurchasePrice: d("100"), BaseTax: d("21")})
	require.NoError(t, err)
	require.True(t, d("121").Equal(created.SalePrice))

	name := "Gasa estéril"
	out, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Gasa estéril", out.Name)
	assert.True(t, d("121").Equal(out.SalePrice), "sin cambios de costo el precio se mantiene")

	cost := d("200")
	out, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{PurchasePrice: &cost})
	require.NoError(t, err)
	assert.True(t, d("242").Equal(out.SalePrice), "obtenido %s", out.SalePrice)
	assert.Equal(t, "Gasa estéril", out.Name, "la actualización parcial no debe perder campos")
}

func TestProductUpdate_NoExiste(t *testing.T) {
	uc := newProductUC(newStubProductRepo(), nil)
	name := "x"
	_, err := uc.Update(context.Background(), "nope", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Baja lógica idempotente
// ──────────────────────────────────────────────────────────────────────────────

func TestProductDeactivate_Idempotente(t *testing.T) {
	repo := newStubProductRepo()
	uc := newProductUC(repo, nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Barbijo"})
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(ctx, created.ID))
	require.NoError(t, uc.Deactivate(ctx, created.ID), "la segunda baja también es éxito")

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, got.Status)
	assert.Equal(t, 1, repo.setCalls, "la segunda baja no escribe")

	assert.ErrorIs(t, uc.Deactivate(ctx, "nope"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestProductAdjustStock_NotificaAlCruzarMinimo(t *testing.T) {
	repo := newStubProductRepo()
	n := &recordingNotifier{}
	uc := newProductUC(repo, n)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Alcohol", StockCurrent: 10, StockMinimum: 5})
	require.NoError(t, err)

	out, err := uc.AdjustStock(ctx, created.ID, dto.AdjustStockRequest{Operation: entity.StockSub, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, out.StockCurrent)
	assert.Equal(t, 0, n.count(ports.EventLowStock))

	out, err = uc.AdjustStock(ctx, created.ID, dto.AdjustStockRequest{Operation: entity.StockSub, Quantity: 100})
	require.NoError(t, err)
	assert.Equal(t, 0, out.StockCurrent, "restar no baja de cero")
	assert.True(t, out.LowStock)
	assert.Equal(t, 1, n.count(ports.EventLowStock))

	_, err = uc.AdjustStock(ctx, created.ID, dto.AdjustStockRequest{Operation: entity.StockAdd, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, n.count(ports.EventLowStock), "seguir bajo mínimo no vuelve a notificar")
}

func TestProductAdjustStock_OperacionInvalida(t *testing.T) {
	repo := newStubProductRepo()
	uc := newProductUC(repo, nil)
	created, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "Alcohol"})
	require.NoError(t, err)
	_, err = uc.AdjustStock(context.Background(), created.ID, dto.AdjustStockRequest{Operation: "multiplicar", Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductList_FiltroStockBajo(t *testing.T) {
	repo := newStubProductRepo()
	uc := newProductUC(repo, nil)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "A", StockCurrent: 1, StockMinimum: 5})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "B", StockCurrent: 5, StockMinimum: 5})
	require.NoError(t, err)

	all, err := uc.List(ctx, dto.ProductFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	low, err := uc.List(ctx, dto.ProductFilterRequest{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "A", low[0].Name, "stock igual al mínimo no es stock bajo")
}

func TestProductRestockList_CantidadSugerida(t *testing.T) {
	repo := newStubProductRepo()
	uc := newProductUC(repo, nil)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Suero", StockCurrent: 3, StockMinimum: 10})
	require.NoError(t, err)

	items, err := uc.RestockList(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 17, items[0].SuggestedQuantity, "10*2 - 3")
}

func TestProductUploadImage_SinStorage(t *testing.T) {
	uc := newProductUC(newStubProductRepo(), nil)
	_, err := uc.UploadImage(context.Background(), "id", "a.png", "image/png", []byte{1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type fakeStorage struct {
	bucket, path string
}

func (f *fakeStorage) Upload(_ context.Context, bucket, path, _ string, _ []byte) (string, error) {
	f.bucket, f.path = bucket, path
	return "https://cdn.test/" + bucket + "/" + path, nil
}

func TestProductUploadImage_RutaYBucket(t *testing.T) {
	repo := newStubProductRepo()
	st := &fakeStorage{}
	uc := usecase.NewProductUseCase(repo, nil, nil, st, "imagenes")
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Camilla"})
	require.NoError(t, err)

	out, err := uc.UploadImage(ctx, created.ID, "Foto.PNG", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "imagenes", st.bucket)
	assert.Regexp(t, `^productos/`+created.ID+`-\d+\.png$`, st.path)
	assert.Equal(t, out.URL, repo.products[created.ID].ImageURL)
}
