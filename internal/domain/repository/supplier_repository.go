package repository

import "github.com/tu-usuario/farmasync-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia de proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(pharmacyID, id string) (*entity.Supplier, error)
	List(pharmacyID string) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Delete(pharmacyID, id string) error
}
