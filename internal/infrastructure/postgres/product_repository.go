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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, nombre, COALESCE(marcas, '{}'), COALESCE(descripcion_tecnica, ''), COALESCE(medidas, ''),
	stock_actual, stock_minimo, precio_compra, impuesto_21, impuesto_extra_1, impuesto_extra_2, impuesto_extra_3,
	precio_venta_final, precio_unitario, precio_lote, COALESCE(categoria, ''), COALESCE(ubicacion_almacen, ''),
	COALESCE(imagen_url, ''), COALESCE(imagenes_ilustrativas, '{}'), COALESCE(documentos_pdf, '{}'),
	COALESCE(enlaces_relacionados, '{}'), COALESCE(sectores, '{}'), estado, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Brands, &p.TechnicalDescription, &p.Measures,
		&p.StockCurrent, &p.StockMinimum, &p.PurchasePrice, &p.BaseTax, &p.ExtraTax1, &p.ExtraTax2, &p.ExtraTax3,
		&p.SalePrice, &p.UnitPrice, &p.LotPrice, &p.Category, &p.WarehouseLocation,
		&p.ImageURL, &p.Images, &p.PDFDocuments,
		&p.RelatedLinks, &p.Sectors, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto con el precio de venta ya derivado.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO productos (id, nombre, marcas, descripcion_tecnica, medidas, stock_actual, stock_minimo,
			precio_compra, impuesto_21, impuesto_extra_1, impuesto_extra_2, impuesto_extra_3,
			precio_venta_final, precio_unitario, precio_lote, categoria, ubicacion_almacen, imagen_url,
			imagenes_ilustrativas, documentos_pdf, enlaces_relacionados, sectores, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, nonNilStrings(p.Brands), p.TechnicalDescription, p.Measures, p.StockCurrent, p.StockMinimum,
		p.PurchasePrice, p.BaseTax, p.ExtraTax1, p.ExtraTax2, p.ExtraTax3,
		p.SalePrice, p.UnitPrice, p.LotPrice, p.Category, p.WarehouseLocation, p.ImageURL,
		nonNilStrings(p.Images), nonNilStrings(p.PDFDocuments), nonNilStrings(p.RelatedLinks), nonNilStrings(p.Sectors),
		p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM productos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// Update reemplaza los campos editables (el use case ya mezcló el parcial).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE productos SET nombre = $2, marcas = $3, descripcion_tecnica = $4, medidas = $5,
			stock_actual = $6, stock_minimo = $7, precio_compra = $8, impuesto_21 = $9,
			impuesto_extra_1 = $10, impuesto_extra_2 = $11, impuesto_extra_3 = $12,
			precio_venta_final = $13, precio_unitario = $14, precio_lote = $15, categoria = $16,
			ubicacion_almacen = $17, imagen_url = $18, imagenes_ilustrativas = $19, documentos_pdf = $20,
			enlaces_relacionados = $21, sectores = $22, estado = $23, updated_at = $24
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, nonNilStrings(p.Brands), p.TechnicalDescription, p.Measures,
		p.StockCurrent, p.StockMinimum, p.PurchasePrice, p.BaseTax,
		p.ExtraTax1, p.ExtraTax2, p.ExtraTax3,
		p.SalePrice, p.UnitPrice, p.LotPrice, p.Category,
		p.WarehouseLocation, p.ImageURL, nonNilStrings(p.Images), nonNilStrings(p.PDFDocuments),
		nonNilStrings(p.RelatedLinks), nonNilStrings(p.Sectors), p.Status, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus baja lógica o reactivación.
func (r *ProductRepo) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE productos SET estado = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("estado producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock aplica sumar/restar/establecer en una sola sentencia; restar no baja de cero.
func (r *ProductRepo) AdjustStock(ctx context.Context, id, op string, quantity int) (*entity.Product, error) {
	query := `
		UPDATE productos SET stock_actual = CASE $2::text
				WHEN 'sumar' THEN stock_actual + $3
				WHEN 'restar' THEN GREATEST(stock_actual - $3, 0)
				ELSE $3
			END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, op, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ajustar stock: %w", err)
	}
	return p, nil
}

// List filtra por búsqueda, categoría y estado; orden por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w whereBuilder
	w.addSearch(f.Search, "nombre", "descripcion_tecnica")
	if f.Category != "" {
		w.add("categoria = ?", f.Category)
	}
	if f.Status != "" {
		w.add("estado = ?", f.Status)
	}
	return r.query(ctx, `SELECT `+productColumns+` FROM productos`+w.sql()+` ORDER BY nombre ASC`, w.args...)
}

// ListLowStock activos con stock_actual < stock_minimo, los más críticos primero.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM productos
		WHERE estado = 'activo' AND stock_actual < stock_minimo
		ORDER BY stock_actual ASC, nombre ASC`)
}

func (r *ProductRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Categories categorías distintas, alfabéticas.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT categoria FROM productos WHERE categoria IS NOT NULL AND categoria <> '' ORDER BY categoria`)
	if err != nil {
		return nil, fmt.Errorf("categorias: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// UpdateImage guarda la URL pública de la imagen principal.
func (r *ProductRepo) UpdateImage(ctx context.Context, id, imageURL string) error {
	tag, err := r.q.Exec(ctx, `UPDATE productos SET imagen_url = $2, updated_at = now() WHERE id = $1`, id, imageURL)
	if err != nil {
		return fmt.Errorf("imagen producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
