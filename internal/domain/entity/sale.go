package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "Cash"
	PaymentPOS      = "POS"
	PaymentTransfer = "Transfer"
)

// ValidPaymentMethod valida el método de pago de una venta.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentPOS || m == PaymentTransfer
}

// SaleItem es una línea de venta. Name, CostPrice y SellingPrice se copian del
// medicamento al momento de la venta (snapshot histórico, no referencia viva).
type SaleItem struct {
	DrugID       string          `json:"drugId"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

// Sale representa una venta con sus líneas. Se crea atómicamente con las
// deducciones de stock que implica: o persisten todas o ninguna.
type Sale struct {
	ID                 string
	PharmacyID         string
	BranchID           string
	Items              []SaleItem
	PaymentMethod      string
	TotalRevenue       decimal.Decimal
	TotalCost          decimal.Decimal
	SyncedFromDeviceID string // vacío si la venta no vino de un cliente offline
	Timestamp          time.Time
	CreatedBy          string
	CreatedAt          time.Time
}
