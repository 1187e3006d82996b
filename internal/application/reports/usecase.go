package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

// TopDrugsLimit tamaño del top de más vendidos en el resumen.
const TopDrugsLimit = 10

// ReportUseCase agrega ventas por período para los reportes del dashboard.
type ReportUseCase struct {
	saleRepo repository.SaleRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(saleRepo repository.SaleRepository) *ReportUseCase {
	return &ReportUseCase{saleRepo: saleRepo}
}

// SalesSummary agrega las ventas del período (daily = hoy, weekly = últimos 7
// días, monthly = mes en curso): transacciones, ingreso, costo, utilidad y el
// top de medicamentos más vendidos por unidades.
func (uc *ReportUseCase) SalesSummary(ctx context.Context, scope entity.Scope, period string) (*dto.SalesSummaryResponse, error) {
	start, end, err := rangeFor(period, time.Now())
	if err != nil {
		return nil, err
	}

	sales, err := uc.saleRepo.ListBetween(scope, start, end)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	cost := decimal.Zero
	type seller struct {
		name     string
		quantity int
	}
	sellers := make(map[string]*seller)
	var order []string

	for _, sale := range sales {
		revenue = revenue.Add(sale.TotalRevenue)
		cost = cost.Add(sale.TotalCost)
		for _, item := range sale.Items {
			s, ok := sellers[item.DrugID]
			if !ok {
				s = &seller{name: item.Name}
				sellers[item.DrugID] = s
				order = append(order, item.DrugID)
			}
			s.quantity += item.Quantity
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return sellers[order[i]].quantity > sellers[order[j]].quantity
	})
	if len(order) > TopDrugsLimit {
		order = order[:TopDrugsLimit]
	}
	top := make([]dto.BestSellerDTO, 0, len(order))
	for _, id := range order {
		top = append(top, dto.BestSellerDTO{DrugID: id, Name: sellers[id].name, Quantity: sellers[id].quantity})
	}

	return &dto.SalesSummaryResponse{
		Period:           period,
		Start:            start,
		End:              end,
		Transactions:     len(sales),
		Revenue:          revenue,
		Cost:             cost,
		Profit:           revenue.Sub(cost),
		BestSellingDrugs: top,
	}, nil
}

// rangeFor calcula el rango [start, end] de un período con respecto a now.
func rangeFor(period string, now time.Time) (time.Time, time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case dto.PeriodDaily:
		return midnight, now, nil
	case dto.PeriodWeekly:
		return midnight.AddDate(0, 0, -6), now, nil
	case dto.PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("período %q: %w", period, domain.ErrInvalidInput)
}
