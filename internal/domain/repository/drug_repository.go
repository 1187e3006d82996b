package repository

import (
	"time"

	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

// DrugRepository define el puerto de persistencia de medicamentos.
// Todas las consultas están acotadas al Scope (farmacia y, si aplica, sucursal).
type DrugRepository interface {
	Create(drug *entity.Drug) error
	GetByID(scope entity.Scope, id string) (*entity.Drug, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene sentido
	// dentro de una transacción. Es el camino de lectura del StockLedger.
	GetForUpdate(scope entity.Scope, id string) (*entity.Drug, error)
	List(scope entity.Scope) ([]*entity.Drug, error)
	ListByIDs(scope entity.Scope, ids []string) ([]*entity.Drug, error)
	Update(drug *entity.Drug) error
	Delete(scope entity.Scope, id string) error
	ListLowStock(scope entity.Scope) ([]*entity.Drug, error)
	ListExpiring(scope entity.Scope, cutoff time.Time) ([]*entity.Drug, error)
}
