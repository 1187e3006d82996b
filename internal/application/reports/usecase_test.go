package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/application/reports"
	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

type memSaleRepo struct {
	sales []*entity.Sale
	start time.Time
	end   time.Time
}

func (r *memSaleRepo) ListBetween(_ entity.Scope, start, end time.Time) ([]*entity.Sale, error) {
	r.start, r.end = start, end
	return r.sales, nil
}

func (r *memSaleRepo) Create(*entity.Sale) error { panic("no usado") }
func (r *memSaleRepo) GetByID(entity.Scope, string) (*entity.Sale, error) {
	panic("no usado")
}
func (r *memSaleRepo) List(entity.Scope, int) ([]*entity.Sale, error) { panic("no usado") }

var scope = entity.Scope{PharmacyID: "ph-1"}

func monto(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func venta(revenue, cost string, items ...entity.SaleItem) *entity.Sale {
	return &entity.Sale{
		TotalRevenue: monto(revenue),
		TotalCost:    monto(cost),
		Items:        items,
	}
}

func TestSalesSummary_AgregaTotalesYTop(t *testing.T) {
	repo := &memSaleRepo{sales: []*entity.Sale{
		venta("10.00", "6.00",
			entity.SaleItem{DrugID: "a", Name: "Amoxicilina", Quantity: 2},
			entity.SaleItem{DrugID: "b", Name: "Ibuprofeno", Quantity: 1},
		),
		venta("5.50", "2.00",
			entity.SaleItem{DrugID: "b", Name: "Ibuprofeno", Quantity: 4},
		),
	}}
	uc := reports.NewReportUseCase(repo)

	out, err := uc.SalesSummary(context.Background(), scope, dto.PeriodDaily)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Transactions)
	assert.True(t, out.Revenue.Equal(monto("15.50")), "revenue fue %s", out.Revenue)
	assert.True(t, out.Cost.Equal(monto("8.00")))
	assert.True(t, out.Profit.Equal(monto("7.50")))

	require.Len(t, out.BestSellingDrugs, 2)
	assert.Equal(t, "b", out.BestSellingDrugs[0].DrugID, "el más vendido por unidades va primero")
	assert.Equal(t, 5, out.BestSellingDrugs[0].Quantity)
	assert.Equal(t, "a", out.BestSellingDrugs[1].DrugID)
}

func TestSalesSummary_SinVentas(t *testing.T) {
	uc := reports.NewReportUseCase(&memSaleRepo{})

	out, err := uc.SalesSummary(context.Background(), scope, dto.PeriodMonthly)
	require.NoError(t, err)
	assert.Zero(t, out.Transactions)
	assert.True(t, out.Revenue.IsZero())
	assert.Empty(t, out.BestSellingDrugs)
}

func TestSalesSummary_PeriodoInvalido(t *testing.T) {
	uc := reports.NewReportUseCase(&memSaleRepo{})
	_, err := uc.SalesSummary(context.Background(), scope, "quarterly")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSalesSummary_RangosPorPeriodo(t *testing.T) {
	repo := &memSaleRepo{}
	uc := reports.NewReportUseCase(repo)

	// daily: desde la medianoche de hoy.
	_, err := uc.SalesSummary(context.Background(), scope, dto.PeriodDaily)
	require.NoError(t, err)
	now := time.Now()
	assert.Equal(t, now.Day(), repo.start.Day())
	assert.Zero(t, repo.start.Hour())
	assert.Zero(t, repo.start.Minute())

	// weekly: la ventana cubre 7 días calendario.
	_, err = uc.SalesSummary(context.Background(), scope, dto.PeriodWeekly)
	require.NoError(t, err)
	dias := repo.end.Sub(repo.start).Hours() / 24
	assert.InDelta(t, 7, dias, 1.1, "weekly debe cubrir ~7 días")

	// monthly: desde el día 1 del mes en curso.
	_, err = uc.SalesSummary(context.Background(), scope, dto.PeriodMonthly)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.start.Day())
	assert.Equal(t, now.Month(), repo.start.Month())
}

func TestSalesSummary_TopLimitadoADiez(t *testing.T) {
	var items []entity.SaleItem
	for i := 0; i < 15; i++ {
		items = append(items, entity.SaleItem{
			DrugID:   string(rune('a' + i)),
			Name:     "Drug",
			Quantity: i + 1,
		})
	}
	repo := &memSaleRepo{sales: []*entity.Sale{venta("1.00", "0.50", items...)}}
	uc := reports.NewReportUseCase(repo)

	out, err := uc.SalesSummary(context.Background(), scope, dto.PeriodWeekly)
	require.NoError(t, err)
	assert.Len(t, out.BestSellingDrugs, reports.TopDrugsLimit)
	assert.Equal(t, 15, out.BestSellingDrugs[0].Quantity, "el top queda ordenado desc antes de cortar")
}
