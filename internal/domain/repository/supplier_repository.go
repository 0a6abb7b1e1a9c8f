package repository

import (
	"context"

	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// SupplierFilter Status "todos" o vacío no filtra.
type SupplierFilter struct {
	Search string // nombre, cuit, contacto_nombre
	Status string
}

// SupplierRepository puerto de persistencia de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	SetStatus(ctx context.Context, id, status string) error
	// List ordenado por created_at descendente.
	List(ctx context.Context, f SupplierFilter) ([]*entity.Supplier, error)
}

// CarrierRepository puerto de persistencia de transportistas.
type CarrierRepository interface {
	Create(ctx context.Context, c *entity.Carrier) error
	GetByID(ctx context.Context, id string) (*entity.Carrier, error)
	Update(ctx context.Context, c *entity.Carrier) error
	SetStatus(ctx context.Context, id, status string) error
	// List ordenado por nombre ascendente.
	List(ctx context.Context, status string) ([]*entity.Carrier, error)
}
