package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
	RoleCashier    = "cashier"
)

// User es un usuario de la aplicación, siempre asociado a una farmacia y
// opcionalmente a una sucursal.
type User struct {
	ID           string
	PharmacyID   string
	BranchID     string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
