package entity

import "time"

// AuditLog registra una acción auditable (quién hizo qué sobre qué entidad).
type AuditLog struct {
	ID         string
	PharmacyID string
	ActorID    string
	Action     string
	Entity     string
	EntityID   string
	Metadata   map[string]any
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}
