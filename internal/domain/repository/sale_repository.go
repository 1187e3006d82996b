package repository

import (
	"time"

	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(scope entity.Scope, id string) (*entity.Sale, error)
	// List devuelve las ventas más recientes primero, con un límite duro.
	List(scope entity.Scope, limit int) ([]*entity.Sale, error)
	// ListBetween devuelve las ventas con timestamp en [start, end] (para reportes).
	ListBetween(scope entity.Scope, start, end time.Time) ([]*entity.Sale, error)
}
