package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

// CreateDrugRequest cuerpo para registrar un medicamento.
type CreateDrugRequest struct {
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	BatchNumber       string          `json:"batchNumber"`
	ExpiryDate        time.Time       `json:"expiryDate"`
	CostPrice         decimal.Decimal `json:"costPrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	Quantity          int             `json:"quantity"`
	SupplierID        string          `json:"supplierId,omitempty"`
	SupplierName      string          `json:"supplierName,omitempty"`
	LowStockThreshold int             `json:"lowStockThreshold"`
}

// UpdateDrugRequest cuerpo para editar un medicamento; todos los campos son
// opcionales. Un cambio de Quantity pasa por el StockLedger (nunca escritura directa).
type UpdateDrugRequest struct {
	Name              *string          `json:"name,omitempty"`
	Category          *string          `json:"category,omitempty"`
	BatchNumber       *string          `json:"batchNumber,omitempty"`
	ExpiryDate        *time.Time       `json:"expiryDate,omitempty"`
	CostPrice         *decimal.Decimal `json:"costPrice,omitempty"`
	SellingPrice      *decimal.Decimal `json:"sellingPrice,omitempty"`
	Quantity          *int             `json:"quantity,omitempty"`
	SupplierName      *string          `json:"supplierName,omitempty"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty"`
}

// DrugResponse representación de un medicamento en respuestas.
type DrugResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	BatchNumber       string          `json:"batchNumber"`
	ExpiryDate        time.Time       `json:"expiryDate"`
	CostPrice         decimal.Decimal `json:"costPrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	Quantity          int             `json:"quantity"`
	SupplierName      string          `json:"supplierName,omitempty"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// ToDrugResponse convierte la entidad a su representación HTTP.
func ToDrugResponse(d *entity.Drug) *DrugResponse {
	return &DrugResponse{
		ID:                d.ID,
		Name:              d.Name,
		Category:          d.Category,
		BatchNumber:       d.BatchNumber,
		ExpiryDate:        d.ExpiryDate,
		CostPrice:         d.CostPrice,
		SellingPrice:      d.SellingPrice,
		Quantity:          d.Quantity,
		SupplierName:      d.SupplierName,
		LowStockThreshold: d.LowStockThreshold,
		UpdatedAt:         d.UpdatedAt,
	}
}

// ToStockSnapshot proyecta un medicamento al snapshot autoritativo del sync.
func ToStockSnapshot(d *entity.Drug) StockSnapshot {
	return StockSnapshot{
		DrugID:            d.ID,
		Name:              d.Name,
		Quantity:          d.Quantity,
		LowStockThreshold: d.LowStockThreshold,
		ExpiryDate:        d.ExpiryDate,
		UpdatedAt:         d.UpdatedAt,
	}
}
