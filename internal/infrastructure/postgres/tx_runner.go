package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/farmasync-api/internal/application/auth"
	"github.com/tu-usuario/farmasync-api/internal/application/inventory"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de la aplicación.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ auth.SignupTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Es la transacción de una operación de inventario/venta:
// la deducción de stock y sus escrituras hermanas viven o mueren juntas.
func (r *TxRunner) Run(ctx context.Context, fn func(
	drugRepo repository.DrugRepository,
	saleRepo repository.SaleRepository,
	rxRepo repository.PrescriptionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	drugRepo := NewDrugRepository(tx)
	saleRepo := NewSaleRepository(tx)
	rxRepo := NewPrescriptionRepository(tx)

	if err := fn(drugRepo, saleRepo, rxRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSignup inicia una transacción para el alta farmacia + sucursal + admin.
func (r *TxRunner) RunSignup(ctx context.Context, fn func(
	pharmacyRepo repository.PharmacyRepository,
	branchRepo repository.BranchRepository,
	userRepo repository.UserRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPharmacyRepository(tx), NewBranchRepository(tx), NewUserRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
