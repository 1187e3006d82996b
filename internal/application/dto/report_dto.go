package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Períodos del resumen de ventas.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// BestSellerDTO un medicamento del top de ventas del período.
type BestSellerDTO struct {
	DrugID   string `json:"drugId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// SalesSummaryResponse resumen agregado de ventas de un período.
type SalesSummaryResponse struct {
	Period           string          `json:"period"`
	Start            time.Time       `json:"start"`
	End              time.Time       `json:"end"`
	Transactions     int             `json:"transactions"`
	Revenue          decimal.Decimal `json:"revenue"`
	Cost             decimal.Decimal `json:"cost"`
	Profit           decimal.Decimal `json:"profit"`
	BestSellingDrugs []BestSellerDTO `json:"bestSellingDrugs"`
}
