package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/application/inventory"
	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
	"github.com/tu-usuario/farmasync-api/pkg/metrics"
)

// ListLimit límite duro del listado de ventas.
const ListLimit = 500

// SaleUseCase crea ventas descontando el stock en una sola transacción.
// Cada línea pasa por el StockLedger; si cualquier línea falla (sin stock,
// medicamento inexistente) se revierte toda la venta: nunca persiste una
// deducción parcial.
type SaleUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.StockLedger
	saleRepo repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner inventory.TxRunner, ledger *inventory.StockLedger, saleRepo repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, ledger: ledger, saleRepo: saleRepo}
}

// CreateSale valida la entrada, abre una transacción y por cada línea bloquea
// la fila del medicamento y descuenta la cantidad; con los datos releídos arma
// las líneas (nombre y precios snapshot del servidor, no del cliente), calcula
// totales y persiste la venta. Commit o Rollback de todo junto.
func (uc *SaleUseCase) CreateSale(ctx context.Context, scope entity.Scope, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("la venta requiere al menos una línea: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("método de pago %q: %w", in.PaymentMethod, domain.ErrInvalidInput)
	}
	for _, item := range in.Items {
		if item.DrugID == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("línea de venta inválida: %w", domain.ErrInvalidInput)
		}
	}

	now := time.Now()
	ts := now
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}

	sale := &entity.Sale{
		ID:                 uuid.New().String(),
		PharmacyID:         scope.PharmacyID,
		BranchID:           scope.BranchID,
		PaymentMethod:      in.PaymentMethod,
		SyncedFromDeviceID: in.DeviceID,
		Timestamp:          ts,
		CreatedBy:          scope.ActorID,
		CreatedAt:          now,
	}

	err := uc.txRunner.Run(ctx, func(
		drugRepo repository.DrugRepository,
		saleRepo repository.SaleRepository,
		_ repository.PrescriptionRepository,
	) error {
		totalRevenue := decimal.Zero
		totalCost := decimal.Zero
		for _, item := range in.Items {
			drug, err := uc.ledger.AdjustInTx(drugRepo, scope, item.DrugID, -item.Quantity, now)
			if err != nil {
				return err
			}
			qty := decimal.NewFromInt(int64(item.Quantity))
			totalRevenue = totalRevenue.Add(drug.SellingPrice.Mul(qty))
			totalCost = totalCost.Add(drug.CostPrice.Mul(qty))
			sale.Items = append(sale.Items, entity.SaleItem{
				DrugID:       drug.ID,
				Name:         drug.Name,
				Quantity:     item.Quantity,
				CostPrice:    drug.CostPrice,
				SellingPrice: drug.SellingPrice,
			})
		}
		sale.TotalRevenue = totalRevenue
		sale.TotalCost = totalCost
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}

	metrics.SalesCreated.Inc()
	return sale, nil
}

// List devuelve las ventas más recientes del scope.
func (uc *SaleUseCase) List(ctx context.Context, scope entity.Scope) ([]*entity.Sale, error) {
	return uc.saleRepo.List(scope, ListLimit)
}
