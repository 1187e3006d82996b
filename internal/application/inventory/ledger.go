package inventory

import (
	"time"

	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

// StockLedger es el único camino de escritura de Drug.Quantity. Todo ajuste
// (venta, edición manual, DRUG_UPDATE del sync) pasa por AdjustInTx; ningún
// caller puede leer-y-escribir la cantidad por fuera, o el invariante de stock
// no-negativo y las garantías de idempotencia se rompen.
type StockLedger struct{}

// NewStockLedger construye el ledger.
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// AdjustInTx aplica un delta acotado sobre la cantidad de un medicamento usando
// los repositorios de la transacción del caller. Bloquea la fila (SELECT FOR
// UPDATE), calcula next = actual + delta y:
//   - domain.ErrNotFound si no hay fila en el scope;
//   - *domain.StockConflictError si next < 0 (conflicto, no error de validación);
//   - en éxito persiste next y devuelve el medicamento actualizado.
//
// Dos ajustes concurrentes sobre el mismo medicamento serializan en el lock de
// fila: ambos deltas se aplican sobre el estado releído, nunca last-write-wins.
func (l *StockLedger) AdjustInTx(
	drugRepo repository.DrugRepository,
	scope entity.Scope,
	drugID string,
	delta int,
	now time.Time,
) (*entity.Drug, error) {
	drug, err := drugRepo.GetForUpdate(scope, drugID)
	if err != nil {
		return nil, err
	}
	if drug == nil {
		return nil, domain.ErrNotFound
	}

	next := drug.Quantity + delta
	if next < 0 {
		return nil, &domain.StockConflictError{
			DrugID:          drug.ID,
			CurrentQuantity: drug.Quantity,
			RequestedDelta:  delta,
		}
	}

	drug.Quantity = next
	drug.UpdatedAt = now
	if err := drugRepo.Update(drug); err != nil {
		return nil, err
	}
	return drug, nil
}
