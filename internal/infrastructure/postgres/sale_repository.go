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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL. Las líneas de
// venta viven en una columna JSONB (items): son un snapshot inmutable, nunca
// se consultan por separado.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `
	id, pharmacy_id, branch_id, items, payment_method, total_revenue,
	total_cost, synced_from_device_id, ts, created_by, created_at`

// Create persiste una venta. Se llama siempre dentro de la misma transacción
// que las deducciones de stock que la originan.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.PharmacyID, sale.BranchID, sale.Items, sale.PaymentMethod,
		sale.TotalRevenue, sale.TotalCost, sale.SyncedFromDeviceID,
		sale.Timestamp, sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID dentro del scope. Devuelve nil si no existe.
func (r *SaleRepo) GetByID(scope entity.Scope, id string) (*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE id = $1 AND pharmacy_id = $2 AND ($3 = '' OR branch_id = $3)`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id, scope.PharmacyID, scope.BranchID).Scan(
		&s.ID, &s.PharmacyID, &s.BranchID, &s.Items, &s.PaymentMethod,
		&s.TotalRevenue, &s.TotalCost, &s.SyncedFromDeviceID,
		&s.Timestamp, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return &s, nil
}

// List devuelve las ventas del scope, más recientes primero.
func (r *SaleRepo) List(scope entity.Scope, limit int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE pharmacy_id = $1 AND ($2 = '' OR branch_id = $2)
		ORDER BY ts DESC
		LIMIT $3`
	return r.scanMany(query, scope.PharmacyID, scope.BranchID, limit)
}

// ListBetween devuelve las ventas con timestamp en [start, end], en orden cronológico.
func (r *SaleRepo) ListBetween(scope entity.Scope, start, end time.Time) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE pharmacy_id = $1 AND ($2 = '' OR branch_id = $2)
		  AND ts >= $3 AND ts <= $4
		ORDER BY ts ASC`
	return r.scanMany(query, scope.PharmacyID, scope.BranchID, start, end)
}

func (r *SaleRepo) scanMany(query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.PharmacyID, &s.BranchID, &s.Items, &s.PaymentMethod,
			&s.TotalRevenue, &s.TotalCost, &s.SyncedFromDeviceID,
			&s.Timestamp, &s.CreatedBy, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
