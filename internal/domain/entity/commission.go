package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de comisión.
const (
	CommissionPending   = "pendiente"
	CommissionSettled   = "liquidado"
	CommissionCancelled = "cancelado"
)

// Commission comisión de un vendedor sobre un pedido.
type Commission struct {
	ID            string
	OrderID       string
	SalespersonID string
	Amount        decimal.Decimal
	Percentage    decimal.Decimal
	Status        string
	CreatedAt     time.Time
}

// CanTransitionCommission pendiente → liquidado | cancelado.
func CanTransitionCommission(from, to string) bool {
	return from == CommissionPending && (to == CommissionSettled || to == CommissionCancelled)
}
