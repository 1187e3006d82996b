package repository

import "github.com/tu-usuario/farmasync-api/internal/domain/entity"

// PrescriptionRepository define el puerto de persistencia de recetas.
type PrescriptionRepository interface {
	Create(rx *entity.Prescription) error
	GetByID(scope entity.Scope, id string) (*entity.Prescription, error)
	List(scope entity.Scope, limit int) ([]*entity.Prescription, error)
	Update(rx *entity.Prescription) error
	Delete(scope entity.Scope, id string) error
}
