package entity

import "time"

// Tipos de operación de sincronización offline.
const (
	SyncTypeSale         = "SALE"
	SyncTypeDrugUpdate   = "DRUG_UPDATE"
	SyncTypePrescription = "PRESCRIPTION"
)

// ValidSyncType valida el tipo de un ítem de la cola de sincronización.
func ValidSyncType(t string) bool {
	return t == SyncTypeSale || t == SyncTypeDrugUpdate || t == SyncTypePrescription
}

// Estados terminales de una operación de sincronización. "duplicate" no se
// persiste: es el corto-circuito cuando ya existe un SyncRecord con la misma clave.
const (
	SyncStatusApplied  = "applied"
	SyncStatusConflict = "conflict"
	SyncStatusFailed   = "failed"
)

// SyncRecord es el registro de idempotencia de una operación de sincronización.
// Identidad: (PharmacyID, DeviceID, OpKey) con constraint único en storage;
// los reenvíos con la misma clave devuelven Result sin volver a aplicar nada.
// Es inmutable una vez creado.
type SyncRecord struct {
	ID         string
	PharmacyID string
	BranchID   string
	DeviceID   string
	OpKey      string
	Type       string
	Timestamp  time.Time
	Status     string
	Result     map[string]any
	CreatedAt  time.Time
}
