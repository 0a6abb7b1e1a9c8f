package entity

import "time"

// Estados del despacho.
const (
	DispatchPreparing = "preparacion"
	DispatchReady     = "listo"
	DispatchShipped   = "despachado"
	DispatchDelivered = "entregado"
	DispatchError     = "error"
)

var dispatchFlow = map[string]int{
	DispatchPreparing: 0,
	DispatchReady:     1,
	DispatchShipped:   2,
	DispatchDelivered: 3,
}

// ValidDispatchStatus indica si s es un estado de despacho conocido.
func ValidDispatchStatus(s string) bool {
	if s == DispatchError {
		return true
	}
	_, ok := dispatchFlow[s]
	return ok
}

// CanTransitionDispatch solo hacia adelante; error desde cualquier estado no terminal.
// entregado y error son terminales.
func CanTransitionDispatch(from, to string) bool {
	if from == DispatchDelivered || from == DispatchError {
		return false
	}
	if to == DispatchError {
		_, ok := dispatchFlow[from]
		return ok
	}
	fromRank, ok := dispatchFlow[from]
	if !ok {
		return false
	}
	toRank, ok := dispatchFlow[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Dispatch registro logístico de la entrega física de un pedido.
type Dispatch struct {
	ID                  string
	OrderID             string
	DispatchUserID      *string
	TrackingNumber      string
	Carrier             string
	PickupAt            *time.Time
	EstimatedDeliveryAt *time.Time
	ReceivedBy          string
	ProofURL            string
	Notes               string
	Status              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsActive despachos que aún no se entregaron.
func (d *Dispatch) IsActive() bool {
	return d.Status != DispatchDelivered
}
