package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación de AuditLogRepository sobre PostgreSQL.
// La bitácora es append-only; Metadata va en una columna JSONB.
type AuditLogRepo struct {
	q Querier
}

func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

const auditColumns = `id, pharmacy_id, actor_id, action, entity, entity_id, metadata, ip_address, user_agent, created_at`

func (r *AuditLogRepo) Create(log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.PharmacyID, log.ActorID, log.Action, log.Entity,
		log.EntityID, log.Metadata, log.IPAddress, log.UserAgent, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *AuditLogRepo) List(pharmacyID string, limit int) ([]*entity.AuditLog, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE pharmacy_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, pharmacyID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditLog
	for rows.Next() {
		var a entity.AuditLog
		if err := rows.Scan(
			&a.ID, &a.PharmacyID, &a.ActorID, &a.Action, &a.Entity,
			&a.EntityID, &a.Metadata, &a.IPAddress, &a.UserAgent, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
