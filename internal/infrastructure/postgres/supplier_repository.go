package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, pharmacy_id, name, contact_name, phone, email, created_at, updated_at`

func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.PharmacyID, supplier.Name, supplier.ContactName,
		supplier.Phone, supplier.Email, supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID devuelve nil si el proveedor no existe en la farmacia.
func (r *SupplierRepo) GetByID(pharmacyID, id string) (*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1 AND pharmacy_id = $2`
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, id, pharmacyID).Scan(
		&s.ID, &s.PharmacyID, &s.Name, &s.ContactName,
		&s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) List(pharmacyID string) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE pharmacy_id = $1 ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(
			&s.ID, &s.PharmacyID, &s.Name, &s.ContactName,
			&s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, contact_name = $3, phone = $4, email = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.Name, supplier.ContactName,
		supplier.Phone, supplier.Email, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) Delete(pharmacyID, id string) error {
	query := `DELETE FROM suppliers WHERE id = $1 AND pharmacy_id = $2`
	tag, err := r.q.Exec(context.Background(), query, id, pharmacyID)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
