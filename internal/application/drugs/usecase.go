package drugs

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
)

// ExpiringAlertDays ventana por defecto del reporte de vencimientos.
const ExpiringAlertDays = 90

// DrugUseCase maneja el catálogo de medicamentos. Las lecturas van directo al
// repositorio sobre el pool; cualquier escritura que toque Quantity abre una
// transacción y pasa por el StockLedger.
type DrugUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.StockLedger
	drugRepo repository.DrugRepository
}

// NewDrugUseCase construye el caso de uso.
func NewDrugUseCase(txRunner inventory.TxRunner, ledger *inventory.StockLedger, drugRepo repository.DrugRepository) *DrugUseCase {
	return &DrugUseCase{txRunner: txRunner, ledger: ledger, drugRepo: drugRepo}
}

// Create registra un medicamento nuevo. La cantidad inicial entra por acá (es
// la creación del registro, no un ajuste).
func (uc *DrugUseCase) Create(ctx context.Context, scope entity.Scope, in dto.CreateDrugRequest) (*entity.Drug, error) {
	if in.Name == "" || in.Category == "" || in.BatchNumber == "" {
		return nil, fmt.Errorf("name, category y batchNumber son requeridos: %w", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 || in.LowStockThreshold < 0 {
		return nil, fmt.Errorf("cantidades negativas: %w", domain.ErrInvalidInput)
	}
	if in.CostPrice.LessThan(decimal.Zero) || in.SellingPrice.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("precios negativos: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	drug := &entity.Drug{
		ID:                uuid.New().String(),
		PharmacyID:        scope.PharmacyID,
		BranchID:          scope.BranchID,
		Name:              in.Name,
		Category:          in.Category,
		BatchNumber:       in.BatchNumber,
		ExpiryDate:        in.ExpiryDate,
		CostPrice:         in.CostPrice,
		SellingPrice:      in.SellingPrice,
		Quantity:          in.Quantity,
		SupplierID:        in.SupplierID,
		SupplierName:      in.SupplierName,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.drugRepo.Create(drug); err != nil {
		return nil, err
	}
	return drug, nil
}

// List devuelve el inventario del scope.
func (uc *DrugUseCase) List(ctx context.Context, scope entity.Scope) ([]*entity.Drug, error) {
	return uc.drugRepo.List(scope)
}

// GetByID devuelve un medicamento del scope.
func (uc *DrugUseCase) GetByID(ctx context.Context, scope entity.Scope, id string) (*entity.Drug, error) {
	drug, err := uc.drugRepo.GetByID(scope, id)
	if err != nil {
		return nil, err
	}
	if drug == nil {
		return nil, domain.ErrNotFound
	}
	return drug, nil
}

// Update edita campos de un medicamento. Si la edición cambia Quantity, el
// cambio se expresa como delta y pasa por el ledger dentro de la misma
// transacción que el resto de campos: la edición manual no es un camino de
// escritura aparte.
func (uc *DrugUseCase) Update(ctx context.Context, scope entity.Scope, id string, in dto.UpdateDrugRequest) (*entity.Drug, error) {
	var updated *entity.Drug
	now := time.Now()

	err := uc.txRunner.Run(ctx, func(
		drugRepo repository.DrugRepository,
		_ repository.SaleRepository,
		_ repository.PrescriptionRepository,
	) error {
		drug, err := drugRepo.GetForUpdate(scope, id)
		if err != nil {
			return err
		}
		if drug == nil {
			return domain.ErrNotFound
		}

		applyPatch(drug, in)

		if in.Quantity != nil {
			delta := *in.Quantity - drug.Quantity
			if err := drugRepo.Update(drug); err != nil {
				return err
			}
			// La fila ya está bloqueada por este tx; el ledger relee y aplica el delta.
			updated, err = uc.ledger.AdjustInTx(drugRepo, scope, id, delta, now)
			return err
		}

		drug.UpdatedAt = now
		if err := drugRepo.Update(drug); err != nil {
			return err
		}
		updated = drug
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete elimina un medicamento del scope.
func (uc *DrugUseCase) Delete(ctx context.Context, scope entity.Scope, id string) error {
	return uc.drugRepo.Delete(scope, id)
}

// ListLowStock devuelve los medicamentos en o bajo su umbral de alerta.
func (uc *DrugUseCase) ListLowStock(ctx context.Context, scope entity.Scope) ([]*entity.Drug, error) {
	return uc.drugRepo.ListLowStock(scope)
}

// ListExpiring devuelve los medicamentos que vencen dentro de la ventana dada.
func (uc *DrugUseCase) ListExpiring(ctx context.Context, scope entity.Scope, days int) ([]*entity.Drug, error) {
	if days <= 0 {
		days = ExpiringAlertDays
	}
	cutoff := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	return uc.drugRepo.ListExpiring(scope, cutoff)
}

// ApplySyncUpdate aplica un DRUG_UPDATE de la cola de sincronización en una
// transacción con bloqueo de fila:
//
//  1. Si el payload trae expectedQuantity y no coincide con la cantidad del
//     servidor, es un *domain.StaleStockError (vista desactualizada del
//     cliente, distinto de stock insuficiente) y no se aplica nada.
//  2. La cantidad nueva es quantity absoluta si viene, si no current+delta,
//     si no queda igual; un resultado negativo es conflicto.
//  3. Los demás campos presentes se aplican incondicionalmente.
func (uc *DrugUseCase) ApplySyncUpdate(ctx context.Context, scope entity.Scope, in dto.SyncDrugUpdatePayload) (*entity.Drug, error) {
	var expiry *time.Time
	if in.ExpiryDate != nil && *in.ExpiryDate != "" {
		t, err := time.Parse(time.RFC3339, *in.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("expiryDate inválida %q: %w", *in.ExpiryDate, domain.ErrInvalidInput)
		}
		expiry = &t
	}

	var updated *entity.Drug
	now := time.Now()

	err := uc.txRunner.Run(ctx, func(
		drugRepo repository.DrugRepository,
		_ repository.SaleRepository,
		_ repository.PrescriptionRepository,
	) error {
		drug, err := drugRepo.GetForUpdate(scope, in.DrugID)
		if err != nil {
			return err
		}
		if drug == nil {
			return domain.ErrNotFound
		}

		if in.ExpectedQuantity != nil && drug.Quantity != *in.ExpectedQuantity {
			return &domain.StaleStockError{
				DrugID:           drug.ID,
				ExpectedQuantity: *in.ExpectedQuantity,
				ServerQuantity:   drug.Quantity,
			}
		}

		next := drug.Quantity
		switch {
		case in.Quantity != nil:
			next = *in.Quantity
		case in.Delta != nil:
			next = drug.Quantity + *in.Delta
		}
		if next < 0 {
			return &domain.StockConflictError{
				DrugID:          drug.ID,
				CurrentQuantity: drug.Quantity,
				RequestedDelta:  next - drug.Quantity,
			}
		}

		if in.Name != nil {
			drug.Name = *in.Name
		}
		if in.Category != nil {
			drug.Category = *in.Category
		}
		if in.BatchNumber != nil {
			drug.BatchNumber = *in.BatchNumber
		}
		if expiry != nil {
			drug.ExpiryDate = *expiry
		}
		if in.CostPrice != nil {
			drug.CostPrice = decimal.NewFromFloat(*in.CostPrice)
		}
		if in.SellingPrice != nil {
			drug.SellingPrice = decimal.NewFromFloat(*in.SellingPrice)
		}
		if in.SupplierName != nil {
			drug.SupplierName = *in.SupplierName
		}
		if in.LowStockThreshold != nil {
			drug.LowStockThreshold = *in.LowStockThreshold
		}
		drug.Quantity = next
		drug.UpdatedAt = now

		if err := drugRepo.Update(drug); err != nil {
			return err
		}
		updated = drug
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyPatch aplica los campos opcionales de una edición manual (sin Quantity,
// que se maneja vía ledger).
func applyPatch(drug *entity.Drug, in dto.UpdateDrugRequest) {
	if in.Name != nil {
		drug.Name = *in.Name
	}
	if in.Category != nil {
		drug.Category = *in.Category
	}
	if in.BatchNumber != nil {
		drug.BatchNumber = *in.BatchNumber
	}
	if in.ExpiryDate != nil {
		drug.ExpiryDate = *in.ExpiryDate
	}
	if in.CostPrice != nil {
		drug.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		drug.SellingPrice = *in.SellingPrice
	}
	if in.SupplierName != nil {
		drug.SupplierName = *in.SupplierName
	}
	if in.LowStockThreshold != nil {
		drug.LowStockThreshold = *in.LowStockThreshold
	}
}
