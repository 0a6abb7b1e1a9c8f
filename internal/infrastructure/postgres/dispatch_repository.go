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
	_ repository.DispatchRepository   = (*DispatchRepo)(nil)
	_ repository.CommissionRepository = (*CommissionRepo)(nil)
)

const dispatchColumns = `id, pedido_id, usuario_despacho_id, COALESCE(num_guia, ''), COALESCE(transportista, ''),
	fecha_retiro, fecha_entrega_estimada, COALESCE(recibido_por, ''), COALESCE(comprobante_url, ''),
	COALESCE(notas, ''), estado_despacho, created_at, updated_at`

// DispatchRepo despachos sobre PostgreSQL (pool o tx).
type DispatchRepo struct {
	q Querier
}

// NewDispatchRepository construye el adaptador.
func NewDispatchRepository(q Querier) *DispatchRepo {
	return &DispatchRepo{q: q}
}

func scanDispatch(row rowScanner) (*entity.Dispatch, error) {
	var d entity.Dispatch
	err := row.Scan(&d.ID, &d.OrderID, &d.DispatchUserID, &d.TrackingNumber, &d.Carrier,
		&d.PickupAt, &d.EstimatedDeliveryAt, &d.ReceivedBy, &d.ProofURL,
		&d.Notes, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste un despacho.
func (r *DispatchRepo) Create(ctx context.Context, d *entity.Dispatch) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO despachos (id, pedido_id, usuario_despacho_id, num_guia, transportista, fecha_retiro,
			fecha_entrega_estimada, recibido_por, comprobante_url, notas, estado_despacho, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.OrderID, d.DispatchUserID, d.TrackingNumber, d.Carrier, d.PickupAt,
		d.EstimatedDeliveryAt, d.ReceivedBy, d.ProofURL, d.Notes, d.Status, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert despacho: %w", err)
	}
	return nil
}

// GetByID obtiene un despacho.
func (r *DispatchRepo) GetByID(ctx context.Context, id string) (*entity.Dispatch, error) {
	d, err := scanDispatch(r.q.QueryRow(ctx, `SELECT `+dispatchColumns+` FROM despachos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get despacho: %w", err)
	}
	return d, nil
}

// ListActive no entregados, más recientes primero.
func (r *DispatchRepo) ListActive(ctx context.Context) ([]*entity.Dispatch, error) {
	return r.query(ctx, `SELECT `+dispatchColumns+` FROM despachos WHERE estado_despacho <> 'entregado' ORDER BY created_at DESC`)
}

// ListByOrder despachos de un pedido.
func (r *DispatchRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Dispatch, error) {
	return r.query(ctx, `SELECT `+dispatchColumns+` FROM despachos WHERE pedido_id = $1 ORDER BY created_at DESC`, orderID)
}

func (r *DispatchRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Dispatch, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list despachos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Dispatch
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan despacho: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// CompareAndSetStatus UPDATE condicionado al estado previo; 0 filas → domain.ErrConflict.
func (r *DispatchRepo) CompareAndSetStatus(ctx context.Context, id, expected, next, receivedBy string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE despachos SET estado_despacho = $3,
			recibido_por = COALESCE(NULLIF($4, ''), recibido_por),
			updated_at = now()
		WHERE id = $1 AND estado_despacho = $2`, id, expected, next, receivedBy)
	if err != nil {
		return fmt.Errorf("estado despacho: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: el despacho %s ya no está en %s", domain.ErrConflict, id, expected)
	}
	return nil
}

// UpdateProof guarda la URL del comprobante.
func (r *DispatchRepo) UpdateProof(ctx context.Context, id, url string) error {
	tag, err := r.q.Exec(ctx, `UPDATE despachos SET comprobante_url = $2, updated_at = now() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("comprobante despacho: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CommissionRepo comisiones sobre PostgreSQL.
type CommissionRepo struct {
	q Querier
}

// NewCommissionRepository construye el adaptador.
func NewCommissionRepository(q Querier) *CommissionRepo {
	return &CommissionRepo{q: q}
}

const commissionColumns = `id, pedido_id, vendedor_id, monto, COALESCE(porcentaje, 0), estado_comision, created_at`

func scanCommission(row rowScanner) (*entity.Commission, error) {
	var c entity.Commission
	if err := row.Scan(&c.ID, &c.OrderID, &c.SalespersonID, &c.Amount, &c.Percentage, &c.Status, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una comisión.
func (r *CommissionRepo) Create(ctx context.Context, c *entity.Commission) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO comisiones (id, pedido_id, vendedor_id, monto, porcentaje, estado_comision, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.OrderID, c.SalespersonID, c.Amount, c.Percentage, c.Status, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comision: %w", err)
	}
	return nil
}

// GetByID obtiene una comisión.
func (r *CommissionRepo) GetByID(ctx context.Context, id string) (*entity.Commission, error) {
	c, err := scanCommission(r.q.QueryRow(ctx, `SELECT `+commissionColumns+` FROM comisiones WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comision: %w", err)
	}
	return c, nil
}

// ListBySalesperson más recientes primero.
func (r *CommissionRepo) ListBySalesperson(ctx context.Context, salespersonID string) ([]*entity.Commission, error) {
	rows, err := r.q.Query(ctx, `SELECT `+commissionColumns+` FROM comisiones WHERE vendedor_id = $1 ORDER BY created_at DESC`, salespersonID)
	if err != nil {
		return nil, fmt.Errorf("list comisiones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comision: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateStatus transición de la comisión.
func (r *CommissionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE comisiones SET estado_comision = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("estado comision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
