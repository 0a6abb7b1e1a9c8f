package inventory

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNegativePricing costo o recargo negativo.
var ErrNegativePricing = errors.New("costo y recargos deben ser no negativos")

var hundred = decimal.NewFromInt(100)

// SalePrice deriva el precio de venta final (servicio de dominio).
// PrecioVenta = Costo * (1 + (Impuesto + Extra1 + Extra2 + Extra3) / 100), redondeado a 2 decimales.
func SalePrice(cost, tax, extra1, extra2, extra3 decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero.Round(2)
	}
	pct := tax.Add(extra1).Add(extra2).Add(extra3)
	factor := decimal.NewFromInt(1).Add(pct.Div(hundred))
	return cost.Mul(factor).Round(2)
}

// ValidatePricing rechaza entradas negativas antes de derivar el precio.
func ValidatePricing(cost, tax, extra1, extra2, extra3 decimal.Decimal) error {
	for _, v := range []decimal.Decimal{cost, tax, extra1, extra2, extra3} {
		if v.IsNegative() {
			return ErrNegativePricing
		}
	}
	return nil
}
