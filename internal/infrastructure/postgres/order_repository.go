package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, numero_pedido, cliente_id, vendedor_id, COALESCE(productos, '[]'::jsonb),
	subtotal, COALESCE(descuento, 0), total, estado_pago, estado, COALESCE(comentarios, ''),
	fecha_entrega_real, deadline_facturacion, COALESCE(nro_factura, ''), fecha_facturacion,
	COALESCE(alerta_auditoria, false), created_at, updated_at`

// legacyOrderColumns esquemas sin las columnas de entrega y facturación; el deadline
// se resuelve con el marcador de comentarios.
const legacyOrderColumns = `id, numero_pedido, cliente_id, vendedor_id, COALESCE(productos, '[]'::jsonb),
	subtotal, COALESCE(descuento, 0), total, estado_pago, estado, COALESCE(comentarios, ''),
	NULL::timestamptz, NULL::timestamptz, '', NULL::timestamptz,
	false, created_at, updated_at`

// OrderRepo pedidos sobre PostgreSQL (pool o tx).
type OrderRepo struct {
	q Querier
	// legacy se activa con el primer 42703 y vale hasta reiniciar el proceso.
	legacy atomic.Bool
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &o.SalespersonID, &o.Items,
		&o.Subtotal, &o.Discount, &o.Total, &o.PaymentStatus, &o.Status, &o.Comments,
		&o.DeliveredAt, &o.InvoiceDeadline, &o.InvoiceNumber, &o.InvoicedAt,
		&o.AuditAlert, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// NextOrderNumber delega en obtener_siguiente_numero_pedido() (secuencia, sin carreras).
func (r *OrderRepo) NextOrderNumber(ctx context.Context) (string, error) {
	var n string
	if err := r.q.QueryRow(ctx, `SELECT obtener_siguiente_numero_pedido()`).Scan(&n); err != nil {
		return "", fmt.Errorf("numero de pedido: %w", err)
	}
	return n, nil
}

// Create persiste el pedido; productos va como jsonb.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	items := o.Items
	if items == nil {
		items = []entity.OrderItem{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO pedidos (id, numero_pedido, cliente_id, vendedor_id, productos, subtotal, descuento, total,
			estado_pago, estado, comentarios, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.Number, o.CustomerID, o.SalespersonID, items, o.Subtotal, o.Discount, o.Total,
		o.PaymentStatus, o.Status, o.Comments, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pedido: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var o *entity.Order
	err := r.read(ctx, func(q Querier, cols string) error {
		var err error
		o, err = scanOrder(q.QueryRow(ctx, `SELECT `+cols+` FROM pedidos WHERE id = $1`, id))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	return o, nil
}

// List filtros exactos; más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var w whereBuilder
	if f.Status != "" {
		w.add("estado = ?", f.Status)
	}
	if f.CustomerID != "" {
		w.add("cliente_id = ?", f.CustomerID)
	}
	if f.SalespersonID != "" {
		w.add("vendedor_id = ?", f.SalespersonID)
	}
	tail := ` FROM pedidos` + w.sql() + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		tail += ` LIMIT ` + w.next(f.Limit)
	}
	return r.query(ctx, tail, w.args...)
}

// ListByStatusOldestFirst por updated_at ascendente.
func (r *OrderRepo) ListByStatusOldestFirst(ctx context.Context, status string) ([]*entity.Order, error) {
	return r.query(ctx, ` FROM pedidos WHERE estado = $1 ORDER BY updated_at ASC`, status)
}

// query arma SELECT <columnas> + tail.
func (r *OrderRepo) query(ctx context.Context, tail string, args ...any) ([]*entity.Order, error) {
	var list []*entity.Order
	err := r.read(ctx, func(q Querier, cols string) error {
		list = nil
		rows, err := q.Query(ctx, `SELECT `+cols+tail, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				return err
			}
			list = append(list, o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list pedidos: %w", err)
	}
	return list, nil
}

// read corre fn con la proyección completa; ante 42703 recuerda el esquema viejo y
// repite con legacyOrderColumns. Dentro de una transacción el intento va en un savepoint.
func (r *OrderRepo) read(ctx context.Context, fn func(q Querier, cols string) error) error {
	if !r.legacy.Load() {
		err := r.attempt(ctx, func(q Querier) error { return fn(q, orderColumns) })
		if !isUndefinedColumn(err) {
			return err
		}
		r.legacy.Store(true)
	}
	return fn(r.q, legacyOrderColumns)
}

func (r *OrderRepo) attempt(ctx context.Context, fn func(q Querier) error) error {
	if _, inTx := r.q.(pgx.Tx); !inTx {
		return fn(r.q)
	}
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error { return fn(tx) })
}

// UpdateStatus cambia el estado (last-write-wins).
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE pedidos SET estado = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("estado pedido: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkDelivered estado entregado con fecha real, deadline tipado y marcador en comentarios.
// Si faltan las columnas tipadas se conserva solo el marcador. El intento corre en un
// savepoint para no abortar la transacción externa.
func (r *OrderRepo) MarkDelivered(ctx context.Context, id string, u repository.DeliveryUpdate) error {
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE pedidos SET estado = 'entregado', fecha_entrega_real = $2, deadline_facturacion = $3,
				comentarios = $4, updated_at = $2
			WHERE id = $1`, id, u.DeliveredAt, u.Deadline, u.Comments)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if !isUndefinedColumn(err) {
		return fmt.Errorf("entregar pedido: %w", err)
	}
	tag, err := r.q.Exec(ctx, `UPDATE pedidos SET estado = 'entregado', comentarios = $2, updated_at = $3 WHERE id = $1`,
		id, u.Comments, u.DeliveredAt)
	if err != nil {
		return fmt.Errorf("entregar pedido (marcador): %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetAuditAlert fija alerta_auditoria para los ids dados; devuelve las filas tocadas.
// Solo se marcan pedidos que siguen entregados: uno facturado en el medio no vuelve a alertar.
func (r *OrderRepo) SetAuditAlert(ctx context.Context, ids []string, flag bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sql := `UPDATE pedidos SET alerta_auditoria = false WHERE id = ANY($1)`
	if flag {
		sql = `UPDATE pedidos SET alerta_auditoria = true WHERE id = ANY($1) AND estado = 'entregado'`
	}
	tag, err := r.q.Exec(ctx, sql, ids)
	if err != nil {
		if isUndefinedColumn(err) {
			return 0, fmt.Errorf("%w: %v", domain.ErrMissingColumn, err)
		}
		return 0, fmt.Errorf("alerta auditoria: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkInvoiced columnas tipadas. 42703 → domain.ErrMissingColumn para que el caso de uso use el marcador.
func (r *OrderRepo) MarkInvoiced(ctx context.Context, id string, u repository.InvoiceUpdate) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE pedidos SET estado = 'facturado', nro_factura = $2, fecha_facturacion = $3,
			alerta_auditoria = false, updated_at = $3
		WHERE id = $1`, id, u.InvoiceNumber, u.InvoicedAt)
	if err != nil {
		if isUndefinedColumn(err) {
			return fmt.Errorf("%w: %v", domain.ErrMissingColumn, err)
		}
		return fmt.Errorf("facturar pedido: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkInvoicedLegacy estado facturado con el marcador de factura en comentarios.
// alerta_auditoria puede no existir en esquemas viejos: se intenta y si falta se omite.
func (r *OrderRepo) MarkInvoicedLegacy(ctx context.Context, id, comments string) error {
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE pedidos SET estado = 'facturado', comentarios = $2, alerta_auditoria = false, updated_at = now()
			WHERE id = $1`, id, comments)
		return err
	})
	if err == nil {
		return nil
	}
	if !isUndefinedColumn(err) {
		return fmt.Errorf("facturar pedido (marcador): %w", err)
	}
	if _, err := r.q.Exec(ctx, `UPDATE pedidos SET estado = 'facturado', comentarios = $2, updated_at = now() WHERE id = $1`,
		id, comments); err != nil {
		return fmt.Errorf("facturar pedido (marcador): %w", err)
	}
	return nil
}
