package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	syncq "github.com/tu-usuario/farmasync-api/internal/application/sync"
	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

const (
	testPharmacyID = "00000000-0000-0000-0000-0000000000f1"
	testDeviceID   = "device-caja-01"
)

var testScope = entity.Scope{PharmacyID: testPharmacyID, ActorID: "user-1"}

// fakeSyncRepo almacén de idempotencia en memoria con la misma semántica que
// el real: Create falla con ErrDuplicate si la clave ya existe.
type fakeSyncRepo struct {
	records map[string]*entity.SyncRecord
	getErr  error
}

func newFakeSyncRepo() *fakeSyncRepo {
	return &fakeSyncRepo{records: make(map[string]*entity.SyncRecord)}
}

func syncKey(pharmacyID, deviceID, opKey string) string {
	return pharmacyID + "|" + deviceID + "|" + opKey
}

func (f *fakeSyncRepo) Get(pharmacyID, deviceID, opKey string) (*entity.SyncRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.records[syncKey(pharmacyID, deviceID, opKey)], nil
}

func (f *fakeSyncRepo) Create(record *entity.SyncRecord) error {
	key := syncKey(record.PharmacyID, record.DeviceID, record.OpKey)
	if _, ok := f.records[key]; ok {
		return domain.ErrDuplicate
	}
	f.records[key] = record
	return nil
}

// fakeDrugRepo solo implementa lo que el procesador usa (ListByIDs); el resto
// no debe invocarse desde estos tests.
type fakeDrugRepo struct {
	drugs map[string]*entity.Drug
}

func newFakeDrugRepo(drugs ...*entity.Drug) *fakeDrugRepo {
	m := make(map[string]*entity.Drug)
	for _, d := range drugs {
		m[d.ID] = d
	}
	return &fakeDrugRepo{drugs: m}
}

func (f *fakeDrugRepo) ListByIDs(scope entity.Scope, ids []string) ([]*entity.Drug, error) {
	var out []*entity.Drug
	for _, id := range ids {
		if d, ok := f.drugs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDrugRepo) Create(*entity.Drug) error { panic("no usado") }
func (f *fakeDrugRepo) GetByID(entity.Scope, string) (*entity.Drug, error) {
	panic("no usado")
}
func (f *fakeDrugRepo) GetForUpdate(entity.Scope, string) (*entity.Drug, error) {
	panic("no usado")
}
func (f *fakeDrugRepo) List(entity.Scope) ([]*entity.Drug, error) { panic("no usado") }
func (f *fakeDrugRepo) Update(*entity.Drug) error                 { panic("no usado") }
func (f *fakeDrugRepo) Delete(entity.Scope, string) error         { panic("no usado") }
func (f *fakeDrugRepo) ListLowStock(entity.Scope) ([]*entity.Drug, error) {
	panic("no usado")
}
func (f *fakeDrugRepo) ListExpiring(entity.Scope, time.Time) ([]*entity.Drug, error) {
	panic("no usado")
}

// fakeSales registra el orden de llegada y delega en fn.
type fakeSales struct {
	calls []dto.CreateSaleRequest
	fn    func(dto.CreateSaleRequest) (*entity.Sale, error)
}

func (f *fakeSales) CreateSale(_ context.Context, _ entity.Scope, in dto.CreateSaleRequest) (*entity.Sale, error) {
	f.calls = append(f.calls, in)
	return f.fn(in)
}

type fakeDrugs struct {
	calls []dto.SyncDrugUpdatePayload
	fn    func(dto.SyncDrugUpdatePayload) (*entity.Drug, error)
}

func (f *fakeDrugs) ApplySyncUpdate(_ context.Context, _ entity.Scope, in dto.SyncDrugUpdatePayload) (*entity.Drug, error) {
	f.calls = append(f.calls, in)
	return f.fn(in)
}

type fakeRx struct {
	created int
}

func (f *fakeRx) Create(_ context.Context, _ entity.Scope, in dto.CreatePrescriptionRequest) (*entity.Prescription, error) {
	f.created++
	return &entity.Prescription{ID: "rx-1", PatientName: in.PatientName}, nil
}

func (f *fakeRx) Update(_ context.Context, _ entity.Scope, id string, _ dto.UpdatePrescriptionRequest) (*entity.Prescription, error) {
	return &entity.Prescription{ID: id}, nil
}

func (f *fakeRx) Delete(context.Context, entity.Scope, string) error { return nil }

func okSale(items ...entity.SaleItem) func(dto.CreateSaleRequest) (*entity.Sale, error) {
	return func(in dto.CreateSaleRequest) (*entity.Sale, error) {
		return &entity.Sale{ID: "sale-1", Items: items}, nil
	}
}

func saleItem(drugID string, opKey string, ts int64, items []dto.SaleItemInput) dto.SyncQueueItem {
	data, _ := json.Marshal(dto.SyncSalePayload{Items: items, PaymentMethod: entity.PaymentCash})
	return dto.SyncQueueItem{
		Type:      entity.SyncTypeSale,
		Data:      data,
		Timestamp: ts,
		DeviceID:  testDeviceID,
		OpKey:     opKey,
	}
}

func newProcessor(syncRepo *fakeSyncRepo, drugRepo *fakeDrugRepo, sales *fakeSales, drugs *fakeDrugs, rx *fakeRx) *syncq.ProcessQueueUseCase {
	return syncq.NewProcessQueueUseCase(syncRepo, drugRepo, sales, drugs, rx, time.Second)
}

// ──────────────────────────────────────────────────────────────────────────────
// Camino feliz y snapshot autoritativo
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_VentaAplicada_RegistraYDevuelveSnapshot(t *testing.T) {
	drugA := &entity.Drug{ID: "drug-a", Name: "Amoxicilina", Quantity: 7}
	syncRepo := newFakeSyncRepo()
	sales := &fakeSales{fn: okSale(entity.SaleItem{DrugID: "drug-a", Quantity: 3})}
	uc := newProcessor(syncRepo, newFakeDrugRepo(drugA), sales, &fakeDrugs{}, &fakeRx{})

	item := saleItem("drug-a", "op-1", 1000, []dto.SaleItemInput{{DrugID: "drug-a", Quantity: 3}})
	out, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err)

	require.Len(t, out.Results, 1)
	assert.Equal(t, entity.SyncStatusApplied, out.Results[0].Status)
	assert.Equal(t, "op-1", out.Results[0].OpKey)
	assert.Equal(t, "sale-1", out.Results[0].Result["saleId"], "el resultado debe incluir el id de la venta")

	// El desenlace quedó en el almacén de idempotencia con la clave del ítem.
	rec, err := syncRepo.Get(testPharmacyID, testDeviceID, "op-1")
	require.NoError(t, err)
	require.NotNil(t, rec, "debe existir SyncRecord tras aplicar")
	assert.Equal(t, entity.SyncStatusApplied, rec.Status)

	// Snapshot autoritativo: exactamente los medicamentos tocados.
	require.Len(t, out.AuthoritativeStocks, 1)
	assert.Equal(t, "drug-a", out.AuthoritativeStocks[0].DrugID)
	assert.Equal(t, 7, out.AuthoritativeStocks[0].Quantity, "la cantidad viene del servidor, no del cliente")
}

func TestProcess_SnapshotSoloIncluyeAplicados(t *testing.T) {
	drugA := &entity.Drug{ID: "drug-a", Quantity: 5}
	drugB := &entity.Drug{ID: "drug-b", Quantity: 9}
	syncRepo := newFakeSyncRepo()
	sales := &fakeSales{fn: func(in dto.CreateSaleRequest) (*entity.Sale, error) {
		if in.Items[0].DrugID == "drug-b" {
			return nil, &domain.StockConflictError{DrugID: "drug-b", CurrentQuantity: 0, RequestedDelta: -2}
		}
		return &entity.Sale{ID: "sale-a", Items: []entity.SaleItem{{DrugID: "drug-a", Quantity: 1}}}, nil
	}}
	uc := newProcessor(syncRepo, newFakeDrugRepo(drugA, drugB), sales, &fakeDrugs{}, &fakeRx{})

	queue := []dto.SyncQueueItem{
		saleItem("drug-a", "op-a", 1, []dto.SaleItemInput{{DrugID: "drug-a", Quantity: 1}}),
		saleItem("drug-b", "op-b", 2, []dto.SaleItemInput{{DrugID: "drug-b", Quantity: 2}}),
	}
	out, err := uc.Process(context.Background(), testScope, queue)
	require.NoError(t, err)

	require.Len(t, out.AuthoritativeStocks, 1, "solo los medicamentos de ítems aplicados entran al snapshot")
	assert.Equal(t, "drug-a", out.AuthoritativeStocks[0].DrugID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_Reenvio_DevuelveDuplicateSinReaplicar(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	sales := &fakeSales{fn: okSale(entity.SaleItem{DrugID: "drug-a", Quantity: 1})}
	uc := newProcessor(syncRepo, newFakeDrugRepo(), sales, &fakeDrugs{}, &fakeRx{})

	item := saleItem("drug-a", "op-dup", 100, []dto.SaleItemInput{{DrugID: "drug-a", Quantity: 1}})

	first, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err)
	require.Equal(t, entity.SyncStatusApplied, first.Results[0].Status)

	second, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	assert.Equal(t, "duplicate", second.Results[0].Status)
	assert.Equal(t, "sale-1", second.Results[0].Result["saleId"],
		"el reenvío devuelve el resultado registrado la primera vez")
	assert.Len(t, sales.calls, 1, "el mutador no debe invocarse dos veces para la misma clave")
}

func TestProcess_MismoOpKeyOtroDevice_SonOperacionesDistintas(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	sales := &fakeSales{fn: okSale()}
	uc := newProcessor(syncRepo, newFakeDrugRepo(), sales, &fakeDrugs{}, &fakeRx{})

	itemA := saleItem("drug-a", "op-x", 1, []dto.SaleItemInput{{DrugID: "drug-a", Quantity: 1}})
	itemB := itemA
	itemB.DeviceID = "device-caja-02"

	_, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{itemA, itemB})
	require.NoError(t, err)
	assert.Len(t, sales.calls, 2, "la identidad es (deviceId, opKey): devices distintos no colisionan")
}

func TestProcess_CarreraDeInsert_SeToleraComoYaRegistrado(t *testing.T) {
	// El Get no ve registro pero el Create pierde la carrera (ErrDuplicate):
	// el ítem se reporta con su estado calculado y el lote continúa.
	syncRepo := newFakeSyncRepo()
	syncRepo.records[syncKey(testPharmacyID, testDeviceID, "op-race")] = &entity.SyncRecord{
		OpKey: "op-race", Status: entity.SyncStatusApplied,
	}
	// Forzar que Get devuelva nil para simular la ventana de la carrera.
	raceRepo := &racingSyncRepo{inner: syncRepo}

	sales := &fakeSales{fn: okSale()}
	uc := newProcessor2(raceRepo, newFakeDrugRepo(), sales, &fakeDrugs{}, &fakeRx{})

	item := saleItem("drug-a", "op-race", 1, []dto.SaleItemInput{{DrugID: "drug-a", Quantity: 1}})
	out, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err, "perder la carrera del insert no es un error de sistema")
	assert.Equal(t, entity.SyncStatusApplied, out.Results[0].Status)
}

// racingSyncRepo simula la ventana check-then-insert: Get nunca ve el registro
// pero Create sí choca con el constraint.
type racingSyncRepo struct {
	inner *fakeSyncRepo
}

func (r *racingSyncRepo) Get(string, string, string) (*entity.SyncRecord, error) {
	return nil, nil
}

func (r *racingSyncRepo) Create(record *entity.SyncRecord) error {
	return r.inner.Create(record)
}

func newProcessor2(syncRepo *racingSyncRepo, drugRepo *fakeDrugRepo, sales *fakeSales, drugs *fakeDrugs, rx *fakeRx) *syncq.ProcessQueueUseCase {
	return syncq.NewProcessQueueUseCase(syncRepo, drugRepo, sales, drugs, rx, time.Second)
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden y aislamiento del lote
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_OrdenaPorTimestampAscendente(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	sales := &fakeSales{fn: okSale()}
	uc := newProcessor(syncRepo, newFakeDrugRepo(), sales, &fakeDrugs{}, &fakeRx{})

	// Llegan desordenados: T=300, T=100, T=200.
	queue := []dto.SyncQueueItem{
		saleItem("d", "op-300", 300, []dto.SaleItemInput{{DrugID: "d", Quantity: 3}}),
		saleItem("d", "op-100", 100, []dto.SaleItemInput{{DrugID: "d", Quantity: 1}}),
		saleItem("d", "op-200", 200, []dto.SaleItemInput{{DrugID: "d", Quantity: 2}}),
	}
	out, err := uc.Process(context.Background(), testScope, queue)
	require.NoError(t, err)

	require.Len(t, out.Results, 3)
	assert.Equal(t, "op-100", out.Results[0].OpKey, "el ítem más antiguo se aplica primero")
	assert.Equal(t, "op-200", out.Results[1].OpKey)
	assert.Equal(t, "op-300", out.Results[2].OpKey)

	require.Len(t, sales.calls, 3)
	assert.Equal(t, 1, sales.calls[0].Items[0].Quantity)
	assert.Equal(t, 2, sales.calls[1].Items[0].Quantity)
	assert.Equal(t, 3, sales.calls[2].Items[0].Quantity)
}

func TestProcess_FalloDeUnItem_NoAfectaLosDemas(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	sales := &fakeSales{fn: func(in dto.CreateSaleRequest) (*entity.Sale, error) {
		if in.Items[0].DrugID == "fantasma" {
			return nil, fmt.Errorf("medicamento fantasma: %w", domain.ErrNotFound)
		}
		return &entity.Sale{ID: "sale-ok", Items: []entity.SaleItem{{DrugID: in.Items[0].DrugID}}}, nil
	}}
	uc := newProcessor(syncRepo, newFakeDrugRepo(), sales, &fakeDrugs{}, &fakeRx{})

	queue := []dto.SyncQueueItem{
		saleItem("fantasma", "op-1", 1, []dto.SaleItemInput{{DrugID: "fantasma", Quantity: 1}}),
		saleItem("drug-b", "op-2", 2, []dto.SaleItemInput{{DrugID: "drug-b", Quantity: 1}}),
	}
	out, err := uc.Process(context.Background(), testScope, queue)
	require.NoError(t, err)

	require.Len(t, out.Results, 2)
	assert.Equal(t, entity.SyncStatusFailed, out.Results[0].Status)
	assert.Equal(t, entity.SyncStatusApplied, out.Results[1].Status,
		"el fallo de un ítem no debe impedir los siguientes")

	// Ambos desenlaces quedaron registrados: el reenvío de op-1 será duplicate.
	rec, _ := syncRepo.Get(testPharmacyID, testDeviceID, "op-1")
	require.NotNil(t, rec)
	assert.Equal(t, entity.SyncStatusFailed, rec.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conflictos
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_StockInsuficiente_EsConflictConDetalle(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	sales := &fakeSales{fn: func(dto.CreateSaleRequest) (*entity.Sale, error) {
		return nil, &domain.StockConflictError{DrugID: "drug-a", CurrentQuantity: 2, RequestedDelta: -5}
	}}
	uc := newProcessor(syncRepo, newFakeDrugRepo(), sales, &fakeDrugs{}, &fakeRx{})

	item := saleItem("drug-a", "op-c", 1, []dto.SaleItemInput{{DrugID: "drug-a", Quantity: 5}})
	out, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err)

	require.Len(t, out.Results, 1)
	assert.Equal(t, entity.SyncStatusConflict, out.Results[0].Status)

	details, ok := out.Results[0].Result["details"].(map[string]any)
	require.True(t, ok, "el conflicto debe llevar detalle estructurado")
	assert.Equal(t, "drug-a", details["drugId"])
	assert.Equal(t, 2, details["currentQuantity"])
	assert.Equal(t, -5, details["requestedDelta"])
}

func TestProcess_PrecondicionExpectedQuantity_EsConflictConDetalle(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	drugs := &fakeDrugs{fn: func(dto.SyncDrugUpdatePayload) (*entity.Drug, error) {
		return nil, &domain.StaleStockError{DrugID: "drug-a", ExpectedQuantity: 10, ServerQuantity: 4}
	}}
	uc := newProcessor(syncRepo, newFakeDrugRepo(), &fakeSales{}, drugs, &fakeRx{})

	data, _ := json.Marshal(dto.SyncDrugUpdatePayload{DrugID: "drug-a"})
	item := dto.SyncQueueItem{
		Type: entity.SyncTypeDrugUpdate, Data: data,
		Timestamp: 1, DeviceID: testDeviceID, OpKey: "op-stale",
	}
	out, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err)

	assert.Equal(t, entity.SyncStatusConflict, out.Results[0].Status)
	details := out.Results[0].Result["details"].(map[string]any)
	assert.Equal(t, 10, details["expectedQuantity"])
	assert.Equal(t, 4, details["serverQuantity"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Resultado indeterminado y entradas inválidas
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_ErrorDeInfraestructura_AbortaSinRegistrar(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	sales := &fakeSales{fn: func(dto.CreateSaleRequest) (*entity.Sale, error) {
		return nil, errors.New("connection reset by peer")
	}}
	uc := newProcessor(syncRepo, newFakeDrugRepo(), sales, &fakeDrugs{}, &fakeRx{})

	item := saleItem("drug-a", "op-infra", 1, []dto.SaleItemInput{{DrugID: "drug-a", Quantity: 1}})
	out, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.Error(t, err, "un fallo de infraestructura es indeterminado y aborta el lote")
	assert.Nil(t, out)

	rec, _ := syncRepo.Get(testPharmacyID, testDeviceID, "op-infra")
	assert.Nil(t, rec, "no debe registrarse desenlace: el reenvío debe poder reintentar")
}

func TestProcess_TipoDesconocido_EsFailed(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	uc := newProcessor(syncRepo, newFakeDrugRepo(), &fakeSales{}, &fakeDrugs{}, &fakeRx{})

	item := dto.SyncQueueItem{
		Type: "REEMBOLSO", Data: json.RawMessage(`{}`),
		Timestamp: 1, DeviceID: testDeviceID, OpKey: "op-raro",
	}
	out, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusFailed, out.Results[0].Status)

	// El desenlace se registra: reenviar el mismo ítem será duplicate, no
	// un fallo repetido.
	rec, _ := syncRepo.Get(testPharmacyID, testDeviceID, "op-raro")
	require.NotNil(t, rec)
}

func TestProcess_PayloadNoJSON_EsFailedSinRegistro(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	uc := newProcessor(syncRepo, newFakeDrugRepo(), &fakeSales{}, &fakeDrugs{}, &fakeRx{})

	// Sin opKey del cliente y con data corrupta no hay identidad derivable.
	item := dto.SyncQueueItem{
		Type: entity.SyncTypeSale, Data: json.RawMessage(`{corrupto`),
		Timestamp: 1, DeviceID: testDeviceID,
	}
	out, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, entity.SyncStatusFailed, out.Results[0].Status)
}

func TestProcess_ColaVacia_RespuestaVacia(t *testing.T) {
	uc := newProcessor(newFakeSyncRepo(), newFakeDrugRepo(), &fakeSales{}, &fakeDrugs{}, &fakeRx{})
	out, err := uc.Process(context.Background(), testScope, nil)
	require.NoError(t, err)
	assert.Zero(t, out.Processed)
	assert.Empty(t, out.Results)
	assert.Empty(t, out.AuthoritativeStocks)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rama PRESCRIPTION
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_PrescriptionCreate_AplicaConDefaults(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	rx := &fakeRx{}
	uc := newProcessor(syncRepo, newFakeDrugRepo(), &fakeSales{}, &fakeDrugs{}, rx)

	data, _ := json.Marshal(map[string]any{"action": "create"})
	item := dto.SyncQueueItem{
		Type: entity.SyncTypePrescription, Data: data,
		Timestamp: 1, DeviceID: testDeviceID, OpKey: "op-rx",
	}
	out, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err)

	assert.Equal(t, entity.SyncStatusApplied, out.Results[0].Status)
	assert.Equal(t, "rx-1", out.Results[0].Result["prescriptionId"])
	assert.Equal(t, 1, rx.created)
	assert.Empty(t, out.AuthoritativeStocks, "las recetas no tocan stock")
}

func TestProcess_PrescriptionUpdateSinID_EsFailed(t *testing.T) {
	syncRepo := newFakeSyncRepo()
	uc := newProcessor(syncRepo, newFakeDrugRepo(), &fakeSales{}, &fakeDrugs{}, &fakeRx{})

	data, _ := json.Marshal(map[string]any{"action": "update"})
	item := dto.SyncQueueItem{
		Type: entity.SyncTypePrescription, Data: data,
		Timestamp: 1, DeviceID: testDeviceID, OpKey: "op-rx-up",
	}
	out, err := uc.Process(context.Background(), testScope, []dto.SyncQueueItem{item})
	require.NoError(t, err)
	assert.Equal(t, entity.SyncStatusFailed, out.Results[0].Status)
}
