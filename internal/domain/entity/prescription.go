package entity

import "time"

// PrescriptionDrug es un medicamento recetado dentro de una prescripción.
type PrescriptionDrug struct {
	DrugID   string `json:"drugId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Dosage   string `json:"dosage"`
}

// Prescription representa una receta médica registrada en la farmacia.
type Prescription struct {
	ID                 string
	PharmacyID         string
	BranchID           string
	PatientName        string
	Drugs              []PrescriptionDrug
	DosageInstructions string
	PrescribingDoctor  string
	RefillReminder     bool
	NextRefillDate     *time.Time
	ImageURL           string
	Timestamp          time.Time
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
