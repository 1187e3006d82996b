package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

var _ repository.SyncRecordRepository = (*SyncRecordRepo)(nil)

// SyncRecordRepo implementación de SyncRecordRepository sobre PostgreSQL.
// El constraint UNIQUE (pharmacy_id, device_id, op_key) de la tabla es la
// garantía real de idempotencia: dos inserts concurrentes con la misma clave
// no pueden ganar ambos, el perdedor recibe domain.ErrDuplicate.
type SyncRecordRepo struct {
	q Querier
}

func NewSyncRecordRepository(q Querier) *SyncRecordRepo {
	return &SyncRecordRepo{q: q}
}

// Get busca el registro de idempotencia de una operación. Devuelve nil si la
// operación nunca se procesó.
func (r *SyncRecordRepo) Get(pharmacyID, deviceID, opKey string) (*entity.SyncRecord, error) {
	query := `
		SELECT id, pharmacy_id, branch_id, device_id, op_key, type, ts, status, result, created_at
		FROM sync_records
		WHERE pharmacy_id = $1 AND device_id = $2 AND op_key = $3`
	var rec entity.SyncRecord
	err := r.q.QueryRow(context.Background(), query, pharmacyID, deviceID, opKey).Scan(
		&rec.ID, &rec.PharmacyID, &rec.BranchID, &rec.DeviceID, &rec.OpKey,
		&rec.Type, &rec.Timestamp, &rec.Status, &rec.Result, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sync record: %w", err)
	}
	return &rec, nil
}

// Create inserta el registro de idempotencia. Devuelve domain.ErrDuplicate si
// otra petición ya registró la misma clave.
func (r *SyncRecordRepo) Create(record *entity.SyncRecord) error {
	query := `
		INSERT INTO sync_records (id, pharmacy_id, branch_id, device_id, op_key, type, ts, status, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.PharmacyID, record.BranchID, record.DeviceID,
		record.OpKey, record.Type, record.Timestamp, record.Status,
		record.Result, record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sync record: %w", err)
	}
	return nil
}
