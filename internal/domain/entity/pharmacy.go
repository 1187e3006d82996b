package entity

import "time"

// Pharmacy es el tenant raíz: todos los registros cuelgan de una farmacia.
type Pharmacy struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Branch es una sucursal de la farmacia. Code es un identificador corto
// legible (ej. "SUC-01") único dentro de la farmacia.
type Branch struct {
	ID         string
	PharmacyID string
	Name       string
	Code       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
