package dto

import (
	"time"

	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

// PrescriptionDrugInput medicamento recetado dentro de una receta.
type PrescriptionDrugInput struct {
	DrugID   string `json:"drugId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Dosage   string `json:"dosage"`
}

// CreatePrescriptionRequest cuerpo para registrar una receta.
type CreatePrescriptionRequest struct {
	PatientName        string                  `json:"patientName"`
	Drugs              []PrescriptionDrugInput `json:"drugs"`
	DosageInstructions string                  `json:"dosageInstructions"`
	PrescribingDoctor  string                  `json:"prescribingDoctor"`
	RefillReminder     bool                    `json:"refillReminder"`
	NextRefillDate     *time.Time              `json:"nextRefillDate,omitempty"`
	ImageURL           string                  `json:"imageUrl,omitempty"`
	Timestamp          *time.Time              `json:"timestamp,omitempty"` // nil = ahora
}

// UpdatePrescriptionRequest cuerpo para editar una receta; campos opcionales.
type UpdatePrescriptionRequest struct {
	PatientName        *string                 `json:"patientName,omitempty"`
	Drugs              []PrescriptionDrugInput `json:"drugs,omitempty"`
	DosageInstructions *string                 `json:"dosageInstructions,omitempty"`
	PrescribingDoctor  *string                 `json:"prescribingDoctor,omitempty"`
	RefillReminder     *bool                   `json:"refillReminder,omitempty"`
	NextRefillDate     *time.Time              `json:"nextRefillDate,omitempty"`
	ImageURL           *string                 `json:"imageUrl,omitempty"`
}

// PrescriptionResponse representación de una receta en respuestas.
type PrescriptionResponse struct {
	ID                 string                  `json:"id"`
	PatientName        string                  `json:"patientName"`
	Drugs              []PrescriptionDrugInput `json:"drugs"`
	DosageInstructions string                  `json:"dosageInstructions"`
	PrescribingDoctor  string                  `json:"prescribingDoctor"`
	RefillReminder     bool                    `json:"refillReminder"`
	NextRefillDate     *time.Time              `json:"nextRefillDate,omitempty"`
	ImageURL           string                  `json:"imageUrl,omitempty"`
	Timestamp          time.Time               `json:"timestamp"`
}

// ToPrescriptionResponse convierte la entidad a su representación HTTP.
func ToPrescriptionResponse(rx *entity.Prescription) *PrescriptionResponse {
	drugs := make([]PrescriptionDrugInput, 0, len(rx.Drugs))
	for _, d := range rx.Drugs {
		drugs = append(drugs, PrescriptionDrugInput{
			DrugID: d.DrugID, Name: d.Name, Quantity: d.Quantity, Dosage: d.Dosage,
		})
	}
	return &PrescriptionResponse{
		ID:                 rx.ID,
		PatientName:        rx.PatientName,
		Drugs:              drugs,
		DosageInstructions: rx.DosageInstructions,
		PrescribingDoctor:  rx.PrescribingDoctor,
		RefillReminder:     rx.RefillReminder,
		NextRefillDate:     rx.NextRefillDate,
		ImageURL:           rx.ImageURL,
		Timestamp:          rx.Timestamp,
	}
}
