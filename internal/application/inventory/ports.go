package inventory

import (
	"context"

	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la deducción de stock y las
// escrituras hermanas (venta, edición de medicamento) hagan Commit o Rollback juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		drugRepo repository.DrugRepository,
		saleRepo repository.SaleRepository,
		rxRepo repository.PrescriptionRepository,
	) error) error
}
