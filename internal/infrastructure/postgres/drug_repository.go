package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

var _ repository.DrugRepository = (*DrugRepo)(nil)

// DrugRepo implementación de DrugRepository sobre PostgreSQL (usable con pool o tx).
// branch_id se guarda como '' cuando el medicamento no pertenece a una sucursal;
// el filtro de scope `$n = '' OR branch_id = $n` deja pasar todo cuando el
// scope no tiene sucursal.
type DrugRepo struct {
	q Querier
}

// NewDrugRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDrugRepository(q Querier) *DrugRepo {
	return &DrugRepo{q: q}
}

const drugColumns = `
	id, pharmacy_id, branch_id, name, category, batch_number, expiry_date,
	cost_price, selling_price, quantity, supplier_id, supplier_name,
	low_stock_threshold, created_at, updated_at`

// Create persiste un medicamento nuevo.
func (r *DrugRepo) Create(drug *entity.Drug) error {
	query := `
		INSERT INTO drugs (` + drugColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		drug.ID, drug.PharmacyID, drug.BranchID, drug.Name, drug.Category,
		drug.BatchNumber, drug.ExpiryDate, drug.CostPrice, drug.SellingPrice,
		drug.Quantity, drug.SupplierID, drug.SupplierName,
		drug.LowStockThreshold, drug.CreatedAt, drug.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert drug: %w", err)
	}
	return nil
}

// GetByID obtiene un medicamento por ID dentro del scope. Devuelve nil si no existe.
func (r *DrugRepo) GetByID(scope entity.Scope, id string) (*entity.Drug, error) {
	query := `
		SELECT ` + drugColumns + `
		FROM drugs
		WHERE id = $1 AND pharmacy_id = $2 AND ($3 = '' OR branch_id = $3)`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id, scope.PharmacyID, scope.BranchID))
}

// GetForUpdate obtiene el medicamento y bloquea la fila (SELECT FOR UPDATE).
// Es el camino de lectura del StockLedger: dos ajustes concurrentes sobre la
// misma fila serializan acá.
func (r *DrugRepo) GetForUpdate(scope entity.Scope, id string) (*entity.Drug, error) {
	query := `
		SELECT ` + drugColumns + `
		FROM drugs
		WHERE id = $1 AND pharmacy_id = $2 AND ($3 = '' OR branch_id = $3)
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id, scope.PharmacyID, scope.BranchID))
}

// List devuelve el inventario del scope, más recientes primero.
func (r *DrugRepo) List(scope entity.Scope) ([]*entity.Drug, error) {
	query := `
		SELECT ` + drugColumns + `
		FROM drugs
		WHERE pharmacy_id = $1 AND ($2 = '' OR branch_id = $2)
		ORDER BY created_at DESC`
	return r.scanMany(query, scope.PharmacyID, scope.BranchID)
}

// ListByIDs devuelve los medicamentos del scope cuyos IDs están en el conjunto
// (snapshot autoritativo del sync).
func (r *DrugRepo) ListByIDs(scope entity.Scope, ids []string) ([]*entity.Drug, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + drugColumns + `
		FROM drugs
		WHERE pharmacy_id = $1 AND ($2 = '' OR branch_id = $2) AND id = ANY($3)`
	return r.scanMany(query, scope.PharmacyID, scope.BranchID, ids)
}

// Update persiste todos los campos mutables del medicamento.
func (r *DrugRepo) Update(drug *entity.Drug) error {
	query := `
		UPDATE drugs SET
			name = $2, category = $3, batch_number = $4, expiry_date = $5,
			cost_price = $6, selling_price = $7, quantity = $8,
			supplier_id = $9, supplier_name = $10, low_stock_threshold = $11,
			updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		drug.ID, drug.Name, drug.Category, drug.BatchNumber, drug.ExpiryDate,
		drug.CostPrice, drug.SellingPrice, drug.Quantity,
		drug.SupplierID, drug.SupplierName, drug.LowStockThreshold, drug.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update drug: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un medicamento del scope.
func (r *DrugRepo) Delete(scope entity.Scope, id string) error {
	query := `DELETE FROM drugs WHERE id = $1 AND pharmacy_id = $2 AND ($3 = '' OR branch_id = $3)`
	tag, err := r.q.Exec(context.Background(), query, id, scope.PharmacyID, scope.BranchID)
	if err != nil {
		return fmt.Errorf("delete drug: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLowStock devuelve los medicamentos en o bajo su umbral, los más críticos primero.
func (r *DrugRepo) ListLowStock(scope entity.Scope) ([]*entity.Drug, error) {
	query := `
		SELECT ` + drugColumns + `
		FROM drugs
		WHERE pharmacy_id = $1 AND ($2 = '' OR branch_id = $2)
		  AND quantity <= low_stock_threshold
		ORDER BY quantity ASC`
	return r.scanMany(query, scope.PharmacyID, scope.BranchID)
}

// ListExpiring devuelve los medicamentos que vencen hasta cutoff, los más próximos primero.
func (r *DrugRepo) ListExpiring(scope entity.Scope, cutoff time.Time) ([]*entity.Drug, error) {
	query := `
		SELECT ` + drugColumns + `
		FROM drugs
		WHERE pharmacy_id = $1 AND ($2 = '' OR branch_id = $2)
		  AND expiry_date <= $3
		ORDER BY expiry_date ASC`
	return r.scanMany(query, scope.PharmacyID, scope.BranchID, cutoff)
}

func (r *DrugRepo) scanOne(row pgx.Row) (*entity.Drug, error) {
	var d entity.Drug
	err := row.Scan(
		&d.ID, &d.PharmacyID, &d.BranchID, &d.Name, &d.Category, &d.BatchNumber,
		&d.ExpiryDate, &d.CostPrice, &d.SellingPrice, &d.Quantity,
		&d.SupplierID, &d.SupplierName, &d.LowStockThreshold, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan drug: %w", err)
	}
	return &d, nil
}

func (r *DrugRepo) scanMany(query string, args ...any) ([]*entity.Drug, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query drugs: %w", err)
	}
	defer rows.Close()

	var out []*entity.Drug
	for rows.Next() {
		var d entity.Drug
		if err := rows.Scan(
			&d.ID, &d.PharmacyID, &d.BranchID, &d.Name, &d.Category, &d.BatchNumber,
			&d.ExpiryDate, &d.CostPrice, &d.SellingPrice, &d.Quantity,
			&d.SupplierID, &d.SupplierName, &d.LowStockThreshold, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan drug: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
