package repository

import "github.com/tu-usuario/farmasync-api/internal/domain/entity"

// UserRepository define el puerto de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}

// PharmacyRepository define el puerto de persistencia de farmacias (tenants).
type PharmacyRepository interface {
	Create(pharmacy *entity.Pharmacy) error
	GetByID(id string) (*entity.Pharmacy, error)
}

// BranchRepository define el puerto de persistencia de sucursales.
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	ListByPharmacy(pharmacyID string) ([]*entity.Branch, error)
}
