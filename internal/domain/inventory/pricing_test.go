package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSalePrice_EjemploIVAMasExtra(t *testing.T) {
	got := SalePrice(d("1000"), d("21"), d("0"), d("0"), d("5"))
	assert.True(t, got.Equal(d("1260.00")), "1000 * 1.26 = 1260.00, obtenido %s", got)
}

func TestSalePrice_CostoCero(t *testing.T) {
	got := SalePrice(decimal.Zero, d("21"), d("10"), d("3"), d("2"))
	assert.True(t, got.IsZero(), "costo cero implica precio cero sin importar recargos")
}

func TestSalePrice_RedondeoDosDecimales(t *testing.T) {
	// 99.99 * 1.215 = 121.48785 → 121.49
	got := SalePrice(d("99.99"), d("21"), d("0.5"), d("0"), d("0"))
	assert.Equal(t, "121.49", got.StringFixed(2))
}

func TestSalePrice_Propiedad(t *testing.T) {
	costs := []string{"0", "1", "10.5", "250", "1234.56"}
	taxes := []string{"0", "10.5", "21", "27"}
	extras := []string{"0", "1.5", "5"}
	for _, c := range costs {
		for _, t0 := range taxes {
			for _, e := range extras {
				got := SalePrice(d(c), d(t0), d(e), d(e), d("0"))
				pct := d(t0).Add(d(e)).Add(d(e))
				want := d(c).Mul(decimal.NewFromInt(1).Add(pct.Div(decimal.NewFromInt(100)))).Round(2)
				assert.True(t, got.Equal(want), "cost=%s tax=%s extra=%s: %s != %s", c, t0, e, got, want)
			}
		}
	}
}

func TestValidatePricing(t *testing.T) {
	assert.NoError(t, ValidatePricing(d("10"), d("21"), d("0"), d("0"), d("0")))
	assert.ErrorIs(t, ValidatePricing(d("-1"), d("21"), d("0"), d("0"), d("0")), ErrNegativePricing)
	assert.ErrorIs(t, ValidatePricing(d("10"), d("21"), d("0"), d("-0.5"), d("0")), ErrNegativePricing)
}

func TestSuggestedRestock(t *testing.T) {
	assert.Equal(t, 0, SuggestedRestock(10, 10), "en el mínimo no hay reposición")
	assert.Equal(t, 11, SuggestedRestock(9, 10))
	assert.Equal(t, 20, SuggestedRestock(0, 10))
}

func TestApplyStockAdjustment(t *testing.T) {
	n, ok := ApplyStockAdjustment(5, "sumar", 3)
	assert.True(t, ok)
	assert.Equal(t, 8, n)

	n, ok = ApplyStockAdjustment(5, "restar", 8)
	assert.True(t, ok)
	assert.Equal(t, 0, n, "restar no deja stock negativo")

	n, ok = ApplyStockAdjustment(5, "establecer", 42)
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = ApplyStockAdjustment(5, "multiplicar", 2)
	assert.False(t, ok)
	_, ok = ApplyStockAdjustment(5, "sumar", -1)
	assert.False(t, ok)
}
