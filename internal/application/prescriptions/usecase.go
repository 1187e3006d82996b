package prescriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

// ListLimit límite duro del listado de recetas.
const ListLimit = 500

// PrescriptionUseCase maneja las recetas médicas. No toca stock: dispensar una
// receta es una venta aparte.
type PrescriptionUseCase struct {
	rxRepo repository.PrescriptionRepository
}

// NewPrescriptionUseCase construye el caso de uso.
func NewPrescriptionUseCase(rxRepo repository.PrescriptionRepository) *PrescriptionUseCase {
	return &PrescriptionUseCase{rxRepo: rxRepo}
}

// Create registra una receta.
func (uc *PrescriptionUseCase) Create(ctx context.Context, scope entity.Scope, in dto.CreatePrescriptionRequest) (*entity.Prescription, error) {
	if in.PatientName == "" {
		return nil, fmt.Errorf("patientName requerido: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	ts := now
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}

	rx := &entity.Prescription{
		ID:                 uuid.New().String(),
		PharmacyID:         scope.PharmacyID,
		BranchID:           scope.BranchID,
		PatientName:        in.PatientName,
		Drugs:              toEntityDrugs(in.Drugs),
		DosageInstructions: in.DosageInstructions,
		PrescribingDoctor:  in.PrescribingDoctor,
		RefillReminder:     in.RefillReminder,
		NextRefillDate:     in.NextRefillDate,
		ImageURL:           in.ImageURL,
		Timestamp:          ts,
		CreatedBy:          scope.ActorID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.rxRepo.Create(rx); err != nil {
		return nil, err
	}
	return rx, nil
}

// Update edita una receta existente del scope.
func (uc *PrescriptionUseCase) Update(ctx context.Context, scope entity.Scope, id string, in dto.UpdatePrescriptionRequest) (*entity.Prescription, error) {
	rx, err := uc.rxRepo.GetByID(scope, id)
	if err != nil {
		return nil, err
	}
	if rx == nil {
		return nil, domain.ErrNotFound
	}

	if in.PatientName != nil {
		rx.PatientName = *in.PatientName
	}
	if in.Drugs != nil {
		rx.Drugs = toEntityDrugs(in.Drugs)
	}
	if in.DosageInstructions != nil {
		rx.DosageInstructions = *in.DosageInstructions
	}
	if in.PrescribingDoctor != nil {
		rx.PrescribingDoctor = *in.PrescribingDoctor
	}
	if in.RefillReminder != nil {
		rx.RefillReminder = *in.RefillReminder
	}
	if in.NextRefillDate != nil {
		rx.NextRefillDate = in.NextRefillDate
	}
	if in.ImageURL != nil {
		rx.ImageURL = *in.ImageURL
	}
	rx.UpdatedAt = time.Now()

	if err := uc.rxRepo.Update(rx); err != nil {
		return nil, err
	}
	return rx, nil
}

// Delete elimina una receta del scope.
func (uc *PrescriptionUseCase) Delete(ctx context.Context, scope entity.Scope, id string) error {
	return uc.rxRepo.Delete(scope, id)
}

// List devuelve las recetas más recientes del scope.
func (uc *PrescriptionUseCase) List(ctx context.Context, scope entity.Scope) ([]*entity.Prescription, error) {
	return uc.rxRepo.List(scope, ListLimit)
}

func toEntityDrugs(in []dto.PrescriptionDrugInput) []entity.PrescriptionDrug {
	out := make([]entity.PrescriptionDrug, 0, len(in))
	for _, d := range in {
		out = append(out, entity.PrescriptionDrug{
			DrugID: d.DrugID, Name: d.Name, Quantity: d.Quantity, Dosage: d.Dosage,
		})
	}
	return out
}
