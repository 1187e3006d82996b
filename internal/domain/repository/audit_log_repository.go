package repository

import "github.com/tu-usuario/farmasync-api/internal/domain/entity"

// AuditLogRepository define el puerto de persistencia de la bitácora de auditoría.
type AuditLogRepository interface {
	Create(log *entity.AuditLog) error
	List(pharmacyID string, limit int) ([]*entity.AuditLog, error)
}
