package entity

// Scope restringe qué registros puede leer o mutar una operación.
// BranchID vacío significa "toda la farmacia" (sin filtro por sucursal).
// ActorID es el usuario autenticado que origina la operación.
type Scope struct {
	PharmacyID string
	BranchID   string
	ActorID    string
}
