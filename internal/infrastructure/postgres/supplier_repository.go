package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.CarrierRepository  = (*CarrierRepo)(nil)
)

const supplierColumns = `id, nombre, COALESCE(cuit, ''), COALESCE(contacto_nombre, ''), COALESCE(telefono, ''),
	COALESCE(email, ''), COALESCE(productos_suministrados, '{}'), COALESCE(tiempo_entrega_promedio_dias, 0),
	COALESCE(condiciones_pago, ''), COALESCE(calificacion, 0), COALESCE(logo_url, ''), estado, created_at, updated_at`

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row rowScanner) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.TaxID, &s.ContactName, &s.Phone,
		&s.Email, &s.SuppliedProducts, &s.AvgLeadTimeDays,
		&s.PaymentTerms, &s.Rating, &s.LogoURL, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO proveedores (id, nombre, cuit, contacto_nombre, telefono, email, productos_suministrados,
			tiempo_entrega_promedio_dias, condiciones_pago, calificacion, logo_url, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, s.TaxID, s.ContactName, s.Phone, s.Email, nonNilStrings(s.SuppliedProducts),
		s.AvgLeadTimeDays, s.PaymentTerms, s.Rating, s.LogoURL, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert proveedor: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM proveedores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proveedor: %w", err)
	}
	return s, nil
}

// Update reemplaza los campos editables.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE proveedores SET nombre = $2, cuit = $3, contacto_nombre = $4, telefono = $5, email = $6,
			productos_suministrados = $7, tiempo_entrega_promedio_dias = $8, condiciones_pago = $9,
			calificacion = $10, logo_url = $11, estado = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.TaxID, s.ContactName, s.Phone, s.Email,
		nonNilStrings(s.SuppliedProducts), s.AvgLeadTimeDays, s.PaymentTerms, s.Rating, s.LogoURL, s.Status, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update proveedor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus baja lógica.
func (r *SupplierRepo) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE proveedores SET estado = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("estado proveedor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List búsqueda sobre nombre, cuit y contacto; "todos" no filtra estado.
func (r *SupplierRepo) List(ctx context.Context, f repository.SupplierFilter) ([]*entity.Supplier, error) {
	var w whereBuilder
	w.addSearch(f.Search, "nombre", "cuit", "contacto_nombre")
	if f.Status != "" && f.Status != "todos" {
		w.add("estado = ?", f.Status)
	}
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM proveedores`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list proveedores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proveedor: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

const carrierColumns = `id, nombre, COALESCE(cuit, ''), COALESCE(telefono, ''), COALESCE(email, ''),
	COALESCE(vehiculo_modelo, ''), COALESCE(vehiculo_patente, ''), COALESCE(notas, ''), estado, created_at, updated_at`

// CarrierRepo transportistas sobre PostgreSQL.
type CarrierRepo struct {
	q Querier
}

// NewCarrierRepository construye el adaptador.
func NewCarrierRepository(q Querier) *CarrierRepo {
	return &CarrierRepo{q: q}
}

func scanCarrier(row rowScanner) (*entity.Carrier, error) {
	var c entity.Carrier
	if err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.Email,
		&c.VehicleModel, &c.VehiclePlate, &c.Notes, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un transportista.
func (r *CarrierRepo) Create(ctx context.Context, c *entity.Carrier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transportistas (id, nombre, cuit, telefono, email, vehiculo_modelo, vehiculo_patente, notas, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.Name, c.TaxID, c.Phone, c.Email, c.VehicleModel, c.VehiclePlate, c.Notes, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transportista: %w", err)
	}
	return nil
}

// GetByID obtiene un transportista.
func (r *CarrierRepo) GetByID(ctx context.Context, id string) (*entity.Carrier, error) {
	c, err := scanCarrier(r.q.QueryRow(ctx, `SELECT `+carrierColumns+` FROM transportistas WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transportista: %w", err)
	}
	return c, nil
}

// Update reemplaza los campos editables.
func (r *CarrierRepo) Update(ctx context.Context, c *entity.Carrier) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE transportistas SET nombre = $2, cuit = $3, telefono = $4, email = $5, vehiculo_modelo = $6,
			vehiculo_patente = $7, notas = $8, estado = $9, updated_at = $10
		WHERE id = $1`,
		c.ID, c.Name, c.TaxID, c.Phone, c.Email, c.VehicleModel, c.VehiclePlate, c.Notes, c.Status, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transportista: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus baja lógica.
func (r *CarrierRepo) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE transportistas SET estado = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("estado transportista: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List por nombre; status vacío trae todos.
func (r *CarrierRepo) List(ctx context.Context, status string) ([]*entity.Carrier, error) {
	var w whereBuilder
	if status != "" {
		w.add("estado = ?", status)
	}
	rows, err := r.q.Query(ctx, `SELECT `+carrierColumns+` FROM transportistas`+w.sql()+` ORDER BY nombre ASC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list transportistas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Carrier
	for rows.Next() {
		c, err := scanCarrier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transportista: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
