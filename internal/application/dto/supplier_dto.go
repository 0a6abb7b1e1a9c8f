package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductList acepta un array JSON o un string separado por comas.
type ProductList []string

// UnmarshalJSON admite ["a","b"] y "a, b".
func (p *ProductList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*p = cleanList(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = cleanList(strings.Split(s, ","))
	return nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name             string          `json:"nombre" validate:"required,min=1,max=200"`
	TaxID            string          `json:"cuit" validate:"max=20"`
	ContactName      string          `json:"contacto_nombre"`
	Phone            string          `json:"telefono"`
	Email            string          `json:"email" validate:"omitempty,email"`
	SuppliedProducts ProductList     `json:"productos_suministrados"`
	AvgLeadTimeDays  int             `json:"tiempo_entrega_promedio_dias" validate:"gte=0"`
	PaymentTerms     string          `json:"condiciones_pago"`
	Rating           decimal.Decimal `json:"calificacion"`
	LogoURL          string          `json:"logo_url"`
}

// UpdateSupplierRequest actualización parcial de proveedor.
type UpdateSupplierRequest struct {
	Name             *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	TaxID            *string          `json:"cuit" validate:"omitempty,max=20"`
	ContactName      *string          `json:"contacto_nombre"`
	Phone            *string          `json:"telefono"`
	Email            *string          `json:"email" validate:"omitempty,email"`
	SuppliedProducts *ProductList     `json:"productos_suministrados"`
	AvgLeadTimeDays  *int             `json:"tiempo_entrega_promedio_dias" validate:"omitempty,gte=0"`
	PaymentTerms     *string          `json:"condiciones_pago"`
	Rating           *decimal.Decimal `json:"calificacion"`
	LogoURL          *string          `json:"logo_url"`
	Status           *string          `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

// SupplierResponse salida de proveedor.
type SupplierResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"nombre"`
	TaxID            string          `json:"cuit"`
	ContactName      string          `json:"contacto_nombre"`
	Phone            string          `json:"telefono"`
	Email            string          `json:"email"`
	SuppliedProducts []string        `json:"productos_suministrados"`
	AvgLeadTimeDays  int             `json:"tiempo_entrega_promedio_dias"`
	PaymentTerms     string          `json:"condiciones_pago"`
	Rating           decimal.Decimal `json:"calificacion"`
	LogoURL          string          `json:"logo_url"`
	Status           string          `json:"estado"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SupplierStatsResponse estadísticas de proveedores.
type SupplierStatsResponse struct {
	Total    int `json:"total"`
	Active   int `json:"activos"`
	TopRated int `json:"mejor_calificados"`
}

// CreateCarrierRequest alta de transportista.
type CreateCarrierRequest struct {
	Name         string `json:"nombre" validate:"required,min=1,max=200"`
	TaxID        string `json:"cuit" validate:"max=20"`
	Phone        string `json:"telefono"`
	Email        string `json:"email" validate:"omitempty,email"`
	VehicleModel string `json:"vehiculo_modelo"`
	VehiclePlate string `json:"vehiculo_patente"`
	Notes        string `json:"notas"`
}

// UpdateCarrierRequest actualización parcial de transportista.
type UpdateCarrierRequest struct {
	Name         *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	TaxID        *string `json:"cuit" validate:"omitempty,max=20"`
	Phone        *string `json:"telefono"`
	Email        *string `json:"email" validate:"omitempty,email"`
	VehicleModel *string `json:"vehiculo_modelo"`
	VehiclePlate *string `json:"vehiculo_patente"`
	Notes        *string `json:"notas"`
	Status       *string `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

// CarrierResponse salida de transportista.
type CarrierResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"nombre"`
	TaxID        string    `json:"cuit"`
	Phone        string    `json:"telefono"`
	Email        string    `json:"email"`
	VehicleModel string    `json:"vehiculo_modelo"`
	VehiclePlate string    `json:"vehiculo_patente"`
	Notes        string    `json:"notas"`
	Status       string    `json:"estado"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
