package sync

import (
	"context"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

// SaleCreator es el mutador de dominio para ítems SALE. La implementación
// (sales.SaleUseCase) ejecuta la deducción multi-línea y el insert de la venta
// en una sola transacción: nunca persiste una venta parcial.
type SaleCreator interface {
	CreateSale(ctx context.Context, scope entity.Scope, in dto.CreateSaleRequest) (*entity.Sale, error)
}

// DrugUpdater es el mutador de dominio para ítems DRUG_UPDATE, con la
// precondición opcional expectedQuantity y el cálculo de cantidad nueva.
type DrugUpdater interface {
	ApplySyncUpdate(ctx context.Context, scope entity.Scope, in dto.SyncDrugUpdatePayload) (*entity.Drug, error)
}

// PrescriptionMutator son los mutadores de dominio para ítems PRESCRIPTION.
type PrescriptionMutator interface {
	Create(ctx context.Context, scope entity.Scope, in dto.CreatePrescriptionRequest) (*entity.Prescription, error)
	Update(ctx context.Context, scope entity.Scope, id string, in dto.UpdatePrescriptionRequest) (*entity.Prescription, error)
	Delete(ctx context.Context, scope entity.Scope, id string) error
}
