package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. precio_venta_final se deriva, no se recibe.
type CreateProductRequest struct {
	Name                 string           `json:"nombre" validate:"required,min=1,max=200"`
	Brands               []string         `json:"marcas"`
	TechnicalDescription string           `json:"descripcion_tecnica"`
	Measures             string           `json:"medidas"`
	StockCurrent         int              `json:"stock_actual" validate:"gte=0"`
	StockMinimum         int              `json:"stock_minimo" validate:"gte=0"`
	PurchasePrice        decimal.Decimal  `json:"precio_compra"`
	BaseTax              decimal.Decimal  `json:"impuesto_21"`
	ExtraTax1            decimal.Decimal  `json:"impuesto_extra_1"`
	ExtraTax2            decimal.Decimal  `json:"impuesto_extra_2"`
	ExtraTax3            decimal.Decimal  `json:"impuesto_extra_3"`
	LotPrice             *decimal.Decimal `json:"precio_lote"`
	Category             string           `json:"categoria" validate:"max=100"`
	WarehouseLocation    string           `json:"ubicacion_almacen"`
	ImageURL             string           `json:"imagen_url"`
	Images               []string         `json:"imagenes_ilustrativas"`
	PDFDocuments         []string         `json:"documentos_pdf"`
	RelatedLinks         []string         `json:"enlaces_relacionados"`
	Sectors              []string         `json:"sectores"`
	Status               string           `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

// UpdateProductRequest actualización parcial: solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Name                 *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Brands               []string         `json:"marcas"`
	TechnicalDescription *string          `json:"descripcion_tecnica"`
	Measures             *string          `json:"medidas"`
	StockCurrent         *int             `json:"stock_actual" validate:"omitempty,gte=0"`
	StockMinimum         *int             `json:"stock_minimo" validate:"omitempty,gte=0"`
	PurchasePrice        *decimal.Decimal `json:"precio_compra"`
	BaseTax              *decimal.Decimal `json:"impuesto_21"`
	ExtraTax1            *decimal.Decimal `json:"impuesto_extra_1"`
	ExtraTax2            *decimal.Decimal `json:"impuesto_extra_2"`
	ExtraTax3            *decimal.Decimal `json:"impuesto_extra_3"`
	LotPrice             *decimal.Decimal `json:"precio_lote"`
	Category             *string          `json:"categoria" validate:"omitempty,max=100"`
	WarehouseLocation    *string          `json:"ubicacion_almacen"`
	ImageURL             *string          `json:"imagen_url"`
	Images               []string         `json:"imagenes_ilustrativas"`
	PDFDocuments         []string         `json:"documentos_pdf"`
	RelatedLinks         []string         `json:"enlaces_relacionados"`
	Sectors              []string         `json:"sectores"`
	Status               *string          `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

// TouchesPricing indica si la actualización obliga a recalcular el precio de venta.
func (r UpdateProductRequest) TouchesPricing() bool {
	return r.PurchasePrice != nil || r.BaseTax != nil || r.ExtraTax1 != nil || r.ExtraTax2 != nil || r.ExtraTax3 != nil
}

// ProductFilterRequest filtros de listado (query string).
type ProductFilterRequest struct {
	Search       string `query:"busqueda"`
	Category     string `query:"categoria"`
	Status       string `query:"estado"`
	LowStockOnly bool   `query:"stock_bajo"`
}

// AdjustStockRequest ajuste de stock.
type AdjustStockRequest struct {
	Operation string `json:"operacion" validate:"required,oneof=sumar restar establecer"`
	Quantity  int    `json:"cantidad" validate:"gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"nombre"`
	Brands               []string         `json:"marcas"`
	TechnicalDescription string           `json:"descripcion_tecnica"`
	Measures             string           `json:"medidas"`
	StockCurrent         int              `json:"stock_actual"`
	StockMinimum         int              `json:"stock_minimo"`
	LowStock             bool             `json:"stock_bajo"`
	PurchasePrice        decimal.Decimal  `json:"precio_compra"`
	BaseTax              decimal.Decimal  `json:"impuesto_21"`
	ExtraTax1            decimal.Decimal  `json:"impuesto_extra_1"`
	ExtraTax2            decimal.Decimal  `json:"impuesto_extra_2"`
	ExtraTax3            decimal.Decimal  `json:"impuesto_extra_3"`
	SalePrice            decimal.Decimal  `json:"precio_venta_final"`
	UnitPrice            decimal.Decimal  `json:"precio_unitario"`
	LotPrice             *decimal.Decimal `json:"precio_lote,omitempty"`
	Category             string           `json:"categoria"`
	WarehouseLocation    string           `json:"ubicacion_almacen"`
	ImageURL             string           `json:"imagen_url"`
	Images               []string         `json:"imagenes_ilustrativas"`
	PDFDocuments         []string         `json:"documentos_pdf"`
	RelatedLinks         []string         `json:"enlaces_relacionados"`
	Sectors              []string         `json:"sectores"`
	Status               string           `json:"estado"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// ProductStatsResponse estadísticas del catálogo.
type ProductStatsResponse struct {
	Total      int             `json:"total"`
	Active     int             `json:"activos"`
	Inactive   int             `json:"inactivos"`
	LowStock   int             `json:"stock_bajo"`
	StockValue decimal.Decimal `json:"valor_total_stock"`
}

// RestockItemResponse producto a reponer con cantidad sugerida.
type RestockItemResponse struct {
	ProductID         string `json:"id"`
	Name              string `json:"nombre"`
	Category          string `json:"categoria"`
	StockCurrent      int    `json:"stock_actual"`
	StockMinimum      int    `json:"stock_minimo"`
	SuggestedQuantity int    `json:"cantidad_sugerida"`
}

// UploadResponse URL pública del archivo subido.
type UploadResponse struct {
	URL string `json:"url"`
}
