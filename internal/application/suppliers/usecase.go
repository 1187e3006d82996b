package suppliers

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

// SupplierUseCase CRUD de proveedores de la farmacia.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create registra un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, pharmacyID string, in dto.SupplierRequest) (*entity.Supplier, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name requerido: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:          uuid.New().String(),
		PharmacyID:  pharmacyID,
		Name:        in.Name,
		ContactName: in.ContactName,
		Phone:       in.Phone,
		Email:       in.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// List devuelve los proveedores de la farmacia.
func (uc *SupplierUseCase) List(ctx context.Context, pharmacyID string) ([]*entity.Supplier, error) {
	return uc.repo.List(pharmacyID)
}

// Update edita un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, pharmacyID, id string, in dto.SupplierRequest) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(pharmacyID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		s.Name = in.Name
	}
	s.ContactName = in.ContactName
	s.Phone = in.Phone
	s.Email = in.Email
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, pharmacyID, id string) error {
	return uc.repo.Delete(pharmacyID, id)
}
