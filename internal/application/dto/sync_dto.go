package dto

import (
	"encoding/json"
	"time"
)

// SyncQueueRequest es el cuerpo de POST /api/sync: una cola desordenada de
// operaciones generadas offline por un dispositivo.
type SyncQueueRequest struct {
	Queue []SyncQueueItem `json:"queue"`
}

// SyncQueueItem es una operación de sincronización enviada por el cliente.
// Data es una unión etiquetada por Type: cada rama valida su propio esquema
// antes de despachar (SyncSalePayload, SyncDrugUpdatePayload, SyncPrescriptionPayload).
type SyncQueueItem struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // epoch ms del reloj del cliente
	DeviceID  string          `json:"deviceId"`
	OpKey     string          `json:"opKey,omitempty"` // opcional; si falta se deriva del contenido
}

// SyncResultItem es el resultado por ítem que el cliente usa para marcar su
// cola local como resuelta, en conflicto o fallida.
type SyncResultItem struct {
	OpKey   string         `json:"opKey"`
	Type    string         `json:"type"`
	Status  string         `json:"status"` // applied | conflict | failed | duplicate
	Message string         `json:"message,omitempty"`
	Result  map[string]any `json:"result,omitempty"`
}

// StockSnapshot es el estado autoritativo de un medicamento tocado por el lote,
// devuelto para que el cliente reconcilie su caché sin un segundo round trip.
type StockSnapshot struct {
	DrugID            string    `json:"drugId"`
	Name              string    `json:"name"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"lowStockThreshold"`
	ExpiryDate        time.Time `json:"expiryDate"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// SyncQueueResult es la respuesta agregada del procesador de la cola.
type SyncQueueResult struct {
	Processed           int              `json:"processed"`
	Results             []SyncResultItem `json:"results"`
	AuthoritativeStocks []StockSnapshot  `json:"authoritativeStocks"`
}

// SyncSalePayload es el esquema de Data para ítems SALE.
type SyncSalePayload struct {
	Items         []SaleItemInput `json:"items"`
	PaymentMethod string          `json:"paymentMethod"`
}

// SyncDrugUpdatePayload es el esquema de Data para ítems DRUG_UPDATE.
// ExpectedQuantity es una precondición de concurrencia optimista: si está
// presente y no coincide con la cantidad del servidor, el ítem es conflicto.
// La cantidad nueva es Quantity (absoluta) si viene, si no current+Delta,
// si no queda igual. El resto de campos se aplican incondicionalmente.
type SyncDrugUpdatePayload struct {
	DrugID            string   `json:"drugId"`
	ExpectedQuantity  *int     `json:"expectedQuantity,omitempty"`
	Quantity          *int     `json:"quantity,omitempty"`
	Delta             *int     `json:"delta,omitempty"`
	Name              *string  `json:"name,omitempty"`
	Category          *string  `json:"category,omitempty"`
	BatchNumber       *string  `json:"batchNumber,omitempty"`
	ExpiryDate        *string  `json:"expiryDate,omitempty"` // RFC 3339
	CostPrice         *float64 `json:"costPrice,omitempty"`
	SellingPrice      *float64 `json:"sellingPrice,omitempty"`
	SupplierName      *string  `json:"supplierName,omitempty"`
	LowStockThreshold *int     `json:"lowStockThreshold,omitempty"`
}

// Acciones de la rama PRESCRIPTION.
const (
	PrescriptionActionCreate = "create"
	PrescriptionActionUpdate = "update"
	PrescriptionActionDelete = "delete"
)

// SyncPrescriptionPayload es el esquema de Data para ítems PRESCRIPTION.
// Action selecciona el mutador; update y delete requieren PrescriptionID.
type SyncPrescriptionPayload struct {
	Action             string                  `json:"action"`
	PrescriptionID     string                  `json:"prescriptionId,omitempty"`
	PatientName        *string                 `json:"patientName,omitempty"`
	Drugs              []PrescriptionDrugInput `json:"drugs,omitempty"`
	DosageInstructions *string                 `json:"dosageInstructions,omitempty"`
	PrescribingDoctor  *string                 `json:"prescribingDoctor,omitempty"`
	RefillReminder     *bool                   `json:"refillReminder,omitempty"`
	NextRefillDate     *string                 `json:"nextRefillDate,omitempty"` // RFC 3339
	ImageURL           *string                 `json:"imageUrl,omitempty"`
}
