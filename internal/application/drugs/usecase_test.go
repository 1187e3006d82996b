package drugs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmasync-api/internal/application/drugs"
	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/application/inventory"
	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memDrugRepo struct {
	drugs map[string]*entity.Drug
}

func (r *memDrugRepo) Create(d *entity.Drug) error {
	r.drugs[d.ID] = d
	return nil
}

func (r *memDrugRepo) GetByID(_ entity.Scope, id string) (*entity.Drug, error) {
	return r.drugs[id], nil
}

func (r *memDrugRepo) GetForUpdate(_ entity.Scope, id string) (*entity.Drug, error) {
	d, ok := r.drugs[id]
	if !ok {
		return nil, nil
	}
	copia := *d
	return &copia, nil
}

func (r *memDrugRepo) Update(d *entity.Drug) error {
	r.drugs[d.ID] = d
	return nil
}

func (r *memDrugRepo) List(entity.Scope) ([]*entity.Drug, error) { panic("no usado") }
func (r *memDrugRepo) ListByIDs(entity.Scope, []string) ([]*entity.Drug, error) {
	panic("no usado")
}
func (r *memDrugRepo) Delete(entity.Scope, string) error                 { panic("no usado") }
func (r *memDrugRepo) ListLowStock(entity.Scope) ([]*entity.Drug, error) { panic("no usado") }
func (r *memDrugRepo) ListExpiring(entity.Scope, time.Time) ([]*entity.Drug, error) {
	panic("no usado")
}

type memTxRunner struct {
	drugRepo *memDrugRepo
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	drugRepo repository.DrugRepository,
	saleRepo repository.SaleRepository,
	rxRepo repository.PrescriptionRepository,
) error) error {
	antes := make(map[string]*entity.Drug, len(r.drugRepo.drugs))
	for k, v := range r.drugRepo.drugs {
		copia := *v
		antes[k] = &copia
	}
	if err := fn(r.drugRepo, nil, nil); err != nil {
		r.drugRepo.drugs = antes
		return err
	}
	return nil
}

func newFixture(seed ...*entity.Drug) (*drugs.DrugUseCase, *memDrugRepo) {
	m := make(map[string]*entity.Drug)
	for _, d := range seed {
		m[d.ID] = d
	}
	repo := &memDrugRepo{drugs: m}
	runner := &memTxRunner{drugRepo: repo}
	return drugs.NewDrugUseCase(runner, inventory.NewStockLedger(), repo), repo
}

var scope = entity.Scope{PharmacyID: "ph-1"}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// ApplySyncUpdate — la rama DRUG_UPDATE del sync
// ──────────────────────────────────────────────────────────────────────────────

func TestApplySyncUpdate_CantidadAbsoluta(t *testing.T) {
	uc, repo := newFixture(&entity.Drug{ID: "d1", Quantity: 8})

	drug, err := uc.ApplySyncUpdate(context.Background(), scope, dto.SyncDrugUpdatePayload{
		DrugID:   "d1",
		Quantity: ptr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, drug.Quantity)
	assert.Equal(t, 20, repo.drugs["d1"].Quantity)
}

func TestApplySyncUpdate_Delta(t *testing.T) {
	uc, _ := newFixture(&entity.Drug{ID: "d1", Quantity: 8})

	drug, err := uc.ApplySyncUpdate(context.Background(), scope, dto.SyncDrugUpdatePayload{
		DrugID: "d1",
		Delta:  ptr(-3),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, drug.Quantity)
}

func TestApplySyncUpdate_QuantityGanaSobreDelta(t *testing.T) {
	uc, _ := newFixture(&entity.Drug{ID: "d1", Quantity: 8})

	drug, err := uc.ApplySyncUpdate(context.Background(), scope, dto.SyncDrugUpdatePayload{
		DrugID:   "d1",
		Quantity: ptr(2),
		Delta:    ptr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, drug.Quantity, "quantity absoluta tiene prioridad sobre delta")
}

func TestApplySyncUpdate_ExpectedQuantityNoCoincide_EsStale(t *testing.T) {
	uc, repo := newFixture(&entity.Drug{ID: "d1", Quantity: 4, Name: "Original"})

	_, err := uc.ApplySyncUpdate(context.Background(), scope, dto.SyncDrugUpdatePayload{
		DrugID:           "d1",
		ExpectedQuantity: ptr(10),
		Quantity:         ptr(15),
		Name:             ptr("Cambiado"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	var stale *domain.StaleStockError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, 10, stale.ExpectedQuantity)
	assert.Equal(t, 4, stale.ServerQuantity)

	assert.Equal(t, "Original", repo.drugs["d1"].Name, "la vista desactualizada no aplica ningún campo")
	assert.Equal(t, 4, repo.drugs["d1"].Quantity)
}

func TestApplySyncUpdate_ExpectedQuantityCoincide_Aplica(t *testing.T) {
	uc, _ := newFixture(&entity.Drug{ID: "d1", Quantity: 4})

	drug, err := uc.ApplySyncUpdate(context.Background(), scope, dto.SyncDrugUpdatePayload{
		DrugID:           "d1",
		ExpectedQuantity: ptr(4),
		Delta:            ptr(6),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, drug.Quantity)
}

func TestApplySyncUpdate_DeltaBajoCero_EsConflict(t *testing.T) {
	uc, repo := newFixture(&entity.Drug{ID: "d1", Quantity: 3})

	_, err := uc.ApplySyncUpdate(context.Background(), scope, dto.SyncDrugUpdatePayload{
		DrugID: "d1",
		Delta:  ptr(-7),
	})
	require.Error(t, err)

	var conflict *domain.StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 3, conflict.CurrentQuantity)
	assert.Equal(t, -7, conflict.RequestedDelta)

	assert.Equal(t, 3, repo.drugs["d1"].Quantity, "el conflicto no escribe nada")
}

func TestApplySyncUpdate_SoloCamposDescriptivos_NoTocaStock(t *testing.T) {
	uc, repo := newFixture(&entity.Drug{ID: "d1", Quantity: 12, Name: "Viejo", Category: "x"})

	drug, err := uc.ApplySyncUpdate(context.Background(), scope, dto.SyncDrugUpdatePayload{
		DrugID:       "d1",
		Name:         ptr("Nuevo"),
		Category:     ptr("Antibióticos"),
		SellingPrice: ptr(9.99),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, drug.Quantity, "sin quantity ni delta la cantidad no cambia")
	assert.Equal(t, "Nuevo", repo.drugs["d1"].Name)
	assert.Equal(t, "Antibióticos", repo.drugs["d1"].Category)
}

func TestApplySyncUpdate_ExpiryDateInvalida_EsInvalidInput(t *testing.T) {
	uc, _ := newFixture(&entity.Drug{ID: "d1", Quantity: 1})

	_, err := uc.ApplySyncUpdate(context.Background(), scope, dto.SyncDrugUpdatePayload{
		DrugID:     "d1",
		ExpiryDate: ptr("31/12/2026"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplySyncUpdate_Inexistente_EsNotFound(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.ApplySyncUpdate(context.Background(), scope, dto.SyncDrugUpdatePayload{
		DrugID: "no-existe",
		Delta:  ptr(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición manual
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CambioDeCantidad_PasaPorElLedger(t *testing.T) {
	uc, repo := newFixture(&entity.Drug{ID: "d1", Quantity: 10, Name: "Amoxicilina"})

	drug, err := uc.Update(context.Background(), scope, "d1", dto.UpdateDrugRequest{
		Quantity: ptr(25),
		Name:     ptr("Amoxicilina 500mg"),
	})
	require.NoError(t, err)
	assert.Equal(t, 25, drug.Quantity)
	assert.Equal(t, 25, repo.drugs["d1"].Quantity)
	assert.Equal(t, "Amoxicilina 500mg", repo.drugs["d1"].Name)
}

func TestUpdate_CantidadNegativa_EsConflict(t *testing.T) {
	uc, repo := newFixture(&entity.Drug{ID: "d1", Quantity: 10})

	_, err := uc.Update(context.Background(), scope, "d1", dto.UpdateDrugRequest{
		Quantity: ptr(-5),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, repo.drugs["d1"].Quantity)
}

func TestUpdate_Inexistente_EsNotFound(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.Update(context.Background(), scope, "nada", dto.UpdateDrugRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CamposRequeridos(t *testing.T) {
	uc, _ := newFixture()

	_, err := uc.Create(context.Background(), scope, dto.CreateDrugRequest{Name: "Solo nombre"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_AsignaScopeYDefaults(t *testing.T) {
	uc, repo := newFixture()

	conScope := entity.Scope{PharmacyID: "ph-9", BranchID: "br-2"}
	drug, err := uc.Create(context.Background(), conScope, dto.CreateDrugRequest{
		Name:        "Ibuprofeno",
		Category:    "Analgésicos",
		BatchNumber: "L-2026-01",
		Quantity:    50,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, drug.ID)
	assert.Equal(t, "ph-9", drug.PharmacyID)
	assert.Equal(t, "br-2", drug.BranchID)
	assert.Contains(t, repo.drugs, drug.ID)
}
