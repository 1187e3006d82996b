package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

// SaleItemInput es una línea de venta tal como la envía el cliente: solo el
// medicamento y la cantidad; nombre y precios se resuelven del lado del servidor.
type SaleItemInput struct {
	DrugID   string `json:"drugId"`
	Quantity int    `json:"quantity"`
}

// CreateSaleRequest cuerpo para crear una venta (checkout directo o despacho SALE del sync).
type CreateSaleRequest struct {
	Items         []SaleItemInput `json:"items"`
	PaymentMethod string          `json:"paymentMethod"`
	Timestamp     *time.Time      `json:"timestamp,omitempty"` // nil = ahora
	DeviceID      string          `json:"deviceId,omitempty"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	DrugID       string          `json:"drugId"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

// SaleResponse representación de una venta en respuestas.
type SaleResponse struct {
	ID            string             `json:"id"`
	Items         []SaleItemResponse `json:"items"`
	PaymentMethod string             `json:"paymentMethod"`
	TotalRevenue  decimal.Decimal    `json:"totalRevenue"`
	TotalCost     decimal.Decimal    `json:"totalCost"`
	Timestamp     time.Time          `json:"timestamp"`
}

// ToSaleResponse convierte la entidad a su representación HTTP.
func ToSaleResponse(s *entity.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			DrugID:       it.DrugID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			CostPrice:    it.CostPrice,
			SellingPrice: it.SellingPrice,
		})
	}
	return &SaleResponse{
		ID:            s.ID,
		Items:         items,
		PaymentMethod: s.PaymentMethod,
		TotalRevenue:  s.TotalRevenue,
		TotalCost:     s.TotalCost,
		Timestamp:     s.Timestamp,
	}
}
