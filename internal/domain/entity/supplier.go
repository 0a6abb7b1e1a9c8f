package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopRatedThreshold calificación mínima para contar como "mejor calificado".
var TopRatedThreshold = decimal.NewFromFloat(4.5)

// Supplier proveedor de insumos.
type Supplier struct {
	ID               string
	Name             string
	TaxID            string // CUIT
	ContactName      string
	Phone            string
	Email            string
	SuppliedProducts []string
	AvgLeadTimeDays  int
	PaymentTerms     string
	Rating           decimal.Decimal // 0 a 5
	LogoURL          string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTopRated calificación >= 4.5.
func (s *Supplier) IsTopRated() bool {
	return s.Rating.GreaterThanOrEqual(TopRatedThreshold)
}
