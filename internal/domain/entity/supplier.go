package entity

import "time"

// Supplier es un proveedor de medicamentos de la farmacia.
type Supplier struct {
	ID          string
	PharmacyID  string
	Name        string
	ContactName string
	Phone       string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
