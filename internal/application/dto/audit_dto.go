package dto

import (
	"time"

	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

// AuditLogResponse representación pública de una entrada de auditoría.
type AuditLogResponse struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actorId"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityId,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IPAddress string         `json:"ipAddress,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ToAuditLogResponse convierte la entidad a su representación pública.
func ToAuditLogResponse(a *entity.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:        a.ID,
		ActorID:   a.ActorID,
		Action:    a.Action,
		Entity:    a.Entity,
		EntityID:  a.EntityID,
		Metadata:  a.Metadata,
		IPAddress: a.IPAddress,
		UserAgent: a.UserAgent,
		CreatedAt: a.CreatedAt,
	}
}
