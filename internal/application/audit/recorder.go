package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
	"github.com/tu-usuario/farmasync-api/pkg/logger"
)

// Entry entrada de auditoría a registrar.
type Entry struct {
	PharmacyID string
	ActorID    string
	Action     string
	Entity     string
	EntityID   string
	Metadata   map[string]any
	IPAddress  string
	UserAgent  string
}

// Recorder escribe la bitácora de auditoría. Es fire-and-forget: un fallo al
// auditar se loguea pero nunca hace fallar la operación auditada.
type Recorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditLogRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record persiste la entrada; el error solo se reporta al log.
func (r *Recorder) Record(e Entry) {
	err := r.repo.Create(&entity.AuditLog{
		ID:         uuid.New().String(),
		PharmacyID: e.PharmacyID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		Entity:     e.Entity,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		r.log.Warn().Err(err).Str("action", e.Action).Msg("no se pudo registrar auditoría")
	}
}

// List devuelve las entradas más recientes de la farmacia.
func (r *Recorder) List(pharmacyID string, limit int) ([]*entity.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return r.repo.List(pharmacyID, limit)
}
