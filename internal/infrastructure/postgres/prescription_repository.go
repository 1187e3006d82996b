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

var _ repository.PrescriptionRepository = (*PrescriptionRepo)(nil)

// PrescriptionRepo implementación de PrescriptionRepository sobre PostgreSQL.
// Los medicamentos recetados van en una columna JSONB (drugs).
type PrescriptionRepo struct {
	q Querier
}

func NewPrescriptionRepository(q Querier) *PrescriptionRepo {
	return &PrescriptionRepo{q: q}
}

const prescriptionColumns = `
	id, pharmacy_id, branch_id, patient_name, drugs, dosage_instructions,
	prescribing_doctor, refill_reminder, next_refill_date, image_url,
	ts, created_by, created_at, updated_at`

func (r *PrescriptionRepo) Create(rx *entity.Prescription) error {
	query := `
		INSERT INTO prescriptions (` + prescriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		rx.ID, rx.PharmacyID, rx.BranchID, rx.PatientName, rx.Drugs,
		rx.DosageInstructions, rx.PrescribingDoctor, rx.RefillReminder,
		rx.NextRefillDate, rx.ImageURL, rx.Timestamp, rx.CreatedBy,
		rx.CreatedAt, rx.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

// GetByID obtiene una receta por ID dentro del scope. Devuelve nil si no existe.
func (r *PrescriptionRepo) GetByID(scope entity.Scope, id string) (*entity.Prescription, error) {
	query := `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions
		WHERE id = $1 AND pharmacy_id = $2 AND ($3 = '' OR branch_id = $3)`
	var rx entity.Prescription
	err := r.q.QueryRow(context.Background(), query, id, scope.PharmacyID, scope.BranchID).Scan(
		&rx.ID, &rx.PharmacyID, &rx.BranchID, &rx.PatientName, &rx.Drugs,
		&rx.DosageInstructions, &rx.PrescribingDoctor, &rx.RefillReminder,
		&rx.NextRefillDate, &rx.ImageURL, &rx.Timestamp, &rx.CreatedBy,
		&rx.CreatedAt, &rx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan prescription: %w", err)
	}
	return &rx, nil
}

// List devuelve las recetas del scope, más recientes primero.
func (r *PrescriptionRepo) List(scope entity.Scope, limit int) ([]*entity.Prescription, error) {
	query := `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions
		WHERE pharmacy_id = $1 AND ($2 = '' OR branch_id = $2)
		ORDER BY ts DESC
		LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, scope.PharmacyID, scope.BranchID, limit)
	if err != nil {
		return nil, fmt.Errorf("query prescriptions: %w", err)
	}
	defer rows.Close()

	var out []*entity.Prescription
	for rows.Next() {
		var rx entity.Prescription
		if err := rows.Scan(
			&rx.ID, &rx.PharmacyID, &rx.BranchID, &rx.PatientName, &rx.Drugs,
			&rx.DosageInstructions, &rx.PrescribingDoctor, &rx.RefillReminder,
			&rx.NextRefillDate, &rx.ImageURL, &rx.Timestamp, &rx.CreatedBy,
			&rx.CreatedAt, &rx.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		out = append(out, &rx)
	}
	return out, rows.Err()
}

func (r *PrescriptionRepo) Update(rx *entity.Prescription) error {
	query := `
		UPDATE prescriptions SET
			patient_name = $2, drugs = $3, dosage_instructions = $4,
			prescribing_doctor = $5, refill_reminder = $6, next_refill_date = $7,
			image_url = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		rx.ID, rx.PatientName, rx.Drugs, rx.DosageInstructions,
		rx.PrescribingDoctor, rx.RefillReminder, rx.NextRefillDate,
		rx.ImageURL, rx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update prescription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PrescriptionRepo) Delete(scope entity.Scope, id string) error {
	query := `DELETE FROM prescriptions WHERE id = $1 AND pharmacy_id = $2 AND ($3 = '' OR branch_id = $3)`
	tag, err := r.q.Exec(context.Background(), query, id, scope.PharmacyID, scope.BranchID)
	if err != nil {
		return fmt.Errorf("delete prescription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
