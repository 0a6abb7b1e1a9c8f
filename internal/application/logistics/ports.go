package logistics

import (
	"context"

	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el cambio de estado del despacho y el del pedido se confirmen juntos.
type TxRunner interface {
	RunDispatch(ctx context.Context, fn func(
		dispatchRepo repository.DispatchRepository,
		orderRepo repository.OrderRepository,
	) error) error
}
