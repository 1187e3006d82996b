package repository

import "github.com/tu-usuario/farmasync-api/internal/domain/entity"

// SyncRecordRepository es el almacén de idempotencia de la cola de sincronización.
// La unicidad de (pharmacy_id, device_id, op_key) la garantiza un constraint en
// storage, no solo la lógica de aplicación: un reenvío concurrente no puede
// producir dos registros. Create devuelve domain.ErrDuplicate en ese caso.
type SyncRecordRepository interface {
	Get(pharmacyID, deviceID, opKey string) (*entity.SyncRecord, error)
	Create(record *entity.SyncRecord) error
}
