package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de registro compartidos por productos, proveedores y transportistas.
const (
	StatusActive   = "activo"
	StatusInactive = "inactivo"
)

// Product representa un producto del catálogo de insumos médicos.
// SalePrice se deriva de PurchasePrice y los recargos (ver pricing.SalePrice); UnitPrice se mantiene igual a SalePrice.
type Product struct {
	ID                   string
	Name                 string
	Brands               []string
	TechnicalDescription string
	Measures             string
	StockCurrent         int
	StockMinimum         int
	PurchasePrice        decimal.Decimal
	BaseTax              decimal.Decimal // impuesto_21, en porcentaje
	ExtraTax1            decimal.Decimal
	ExtraTax2            decimal.Decimal
	ExtraTax3            decimal.Decimal
	SalePrice            decimal.Decimal // precio_venta_final
	UnitPrice            decimal.Decimal // precio_unitario (legado)
	LotPrice             *decimal.Decimal
	Category             string
	WarehouseLocation    string
	ImageURL             string
	Images               []string
	PDFDocuments         []string
	RelatedLinks         []string
	Sectors              []string
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsLowStock stock bajo: stock_actual estrictamente menor al mínimo.
func (p *Product) IsLowStock() bool {
	return p.StockCurrent < p.StockMinimum
}

// IsActive indica si el producto está publicado.
func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}

// StockValue valor del stock a precio unitario.
func (p *Product) StockValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.StockCurrent)))
}

// Operaciones de ajuste de stock.
const (
	StockAdd = "sumar"
	StockSub = "restar"
	StockSet = "establecer"
)
