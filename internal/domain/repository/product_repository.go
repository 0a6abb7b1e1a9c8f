package repository

import (
	"context"

	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// ProductFilter filtros de listado. LowStockOnly se evalúa en memoria (compara dos columnas).
type ProductFilter struct {
	Search       string // ILIKE sobre nombre y descripcion_tecnica
	Category     string
	Status       string
	LowStockOnly bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// SetStatus cambia el estado sin tocar otros campos (baja lógica).
	SetStatus(ctx context.Context, id, status string) error
	// AdjustStock aplica la operación en una sola sentencia y devuelve el producto resultante.
	AdjustStock(ctx context.Context, id, op string, quantity int) (*entity.Product, error)
	// List ordenado por nombre ascendente.
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	// ListLowStock productos activos bajo mínimo, por stock_actual ascendente.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	UpdateImage(ctx context.Context, id, imageURL string) error
}
