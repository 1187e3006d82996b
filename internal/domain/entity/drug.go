package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Drug representa un medicamento en el inventario de una farmacia/sucursal.
// Quantity es un entero que nunca puede quedar negativo; se muta únicamente a
// través del StockLedger (ajuste acotado dentro de una transacción con bloqueo
// de fila). Los precios son decimales (NUMERIC en PostgreSQL).
type Drug struct {
	ID                string
	PharmacyID        string
	BranchID          string // vacío = sin sucursal
	Name              string
	Category          string
	BatchNumber       string
	ExpiryDate        time.Time
	CostPrice         decimal.Decimal
	SellingPrice      decimal.Decimal
	Quantity          int
	SupplierID        string
	SupplierName      string
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del umbral de alerta.
func (d *Drug) IsLowStock() bool {
	return d.Quantity <= d.LowStockThreshold
}
