package entity

import "time"

// Carrier transportista que retira y entrega despachos.
type Carrier struct {
	ID           string
	Name         string
	TaxID        string
	Phone        string
	Email        string
	VehicleModel string
	VehiclePlate string
	Notes        string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
