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

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.PharmacyRepository = (*PharmacyRepo)(nil)
	_ repository.BranchRepository   = (*BranchRepo)(nil)
)

// UserRepo implementación de UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, pharmacy_id, branch_id, name, email, password_hash, role, status, created_at, updated_at`

func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.PharmacyID, user.BranchID, user.Name, user.Email,
		user.PasswordHash, user.Role, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// FindByEmail devuelve nil si no hay usuario con ese email.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanOne(r.q.QueryRow(context.Background(), query, email))
}

func (r *UserRepo) scanOne(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.PharmacyID, &u.BranchID, &u.Name, &u.Email,
		&u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// PharmacyRepo implementación de PharmacyRepository sobre PostgreSQL.
type PharmacyRepo struct {
	q Querier
}

func NewPharmacyRepository(q Querier) *PharmacyRepo {
	return &PharmacyRepo{q: q}
}

func (r *PharmacyRepo) Create(pharmacy *entity.Pharmacy) error {
	query := `INSERT INTO pharmacies (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		pharmacy.ID, pharmacy.Name, pharmacy.CreatedAt, pharmacy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pharmacy: %w", err)
	}
	return nil
}

func (r *PharmacyRepo) GetByID(id string) (*entity.Pharmacy, error) {
	query := `SELECT id, name, created_at, updated_at FROM pharmacies WHERE id = $1`
	var p entity.Pharmacy
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan pharmacy: %w", err)
	}
	return &p, nil
}

// BranchRepo implementación de BranchRepository sobre PostgreSQL.
type BranchRepo struct {
	q Querier
}

func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

const branchColumns = `id, pharmacy_id, name, code, created_at, updated_at`

func (r *BranchRepo) Create(branch *entity.Branch) error {
	query := `
		INSERT INTO branches (` + branchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		branch.ID, branch.PharmacyID, branch.Name, branch.Code,
		branch.CreatedAt, branch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	var b entity.Branch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.PharmacyID, &b.Name, &b.Code, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan branch: %w", err)
	}
	return &b, nil
}

func (r *BranchRepo) ListByPharmacy(pharmacyID string) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE pharmacy_id = $1 ORDER BY code ASC`
	rows, err := r.q.Query(context.Background(), query, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("query branches: %w", err)
	}
	defer rows.Close()

	var out []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.PharmacyID, &b.Name, &b.Code, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
