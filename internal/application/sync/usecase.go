package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/domain"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/internal/domain/repository"
	"github.com/tu-usuario/farmasync-api/pkg/metrics"
)

// DefaultItemTimeout acota cada operación de storage por ítem. Un timeout se
// trata como resultado indeterminado: no se escribe SyncRecord y el lote aborta.
const DefaultItemTimeout = 5 * time.Second

// ProcessQueueUseCase es el procesador de la cola de sincronización offline:
// ordena, deduplica y despacha un lote de operaciones de cliente a los
// mutadores de dominio, registrando el desenlace de cada una en el almacén de
// idempotencia. Cada lote se procesa secuencialmente ítem por ítem (el orden
// por timestamp es un requisito de corrección); lotes de farmacias distintas
// corren concurrentes sin estado compartido, y dos lotes del mismo tenant
// pueden intercalarse con seguridad porque cada ajuste individual de stock es
// atómico en el StockLedger.
type ProcessQueueUseCase struct {
	syncRepo      repository.SyncRecordRepository
	drugRepo      repository.DrugRepository
	sales         SaleCreator
	drugs         DrugUpdater
	prescriptions PrescriptionMutator
	itemTimeout   time.Duration
}

// NewProcessQueueUseCase construye el procesador. itemTimeout <= 0 usa el default.
func NewProcessQueueUseCase(
	syncRepo repository.SyncRecordRepository,
	drugRepo repository.DrugRepository,
	sales SaleCreator,
	drugs DrugUpdater,
	prescriptions PrescriptionMutator,
	itemTimeout time.Duration,
) *ProcessQueueUseCase {
	if itemTimeout <= 0 {
		itemTimeout = DefaultItemTimeout
	}
	return &ProcessQueueUseCase{
		syncRepo:      syncRepo,
		drugRepo:      drugRepo,
		sales:         sales,
		drugs:         drugs,
		prescriptions: prescriptions,
		itemTimeout:   itemTimeout,
	}
}

// Process aplica un lote de operaciones para un scope (farmacia, sucursal, actor).
//
//  1. Ordena por timestamp de cliente ascendente (sort estable: los empates
//     conservan el orden de envío).
//  2. Por ítem: deriva opKey → consulta el almacén de idempotencia → si hay
//     registro devuelve "duplicate" con el resultado guardado; si no, despacha
//     al mutador correspondiente en una transacción propia del ítem y registra
//     el desenlace. El fallo de un ítem jamás revierte los anteriores.
//  3. Al final consulta el snapshot autoritativo de los medicamentos tocados
//     por SALE/DRUG_UPDATE aplicados, para que el cliente reconcilie su caché.
//
// Errores de dominio se convierten en resultados por ítem (conflict/failed).
// Un error de infraestructura es indeterminado: no se escribe registro (el
// reenvío con la misma clave sigue siendo seguro) y el lote aborta con error.
func (uc *ProcessQueueUseCase) Process(ctx context.Context, scope entity.Scope, queue []dto.SyncQueueItem) (*dto.SyncQueueResult, error) {
	ordered := make([]dto.SyncQueueItem, len(queue))
	copy(ordered, queue)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	results := make([]dto.SyncResultItem, 0, len(ordered))
	var touchedIDs []string
	touched := make(map[string]struct{})

	for _, item := range ordered {
		opKey, err := BuildOpKey(item)
		if err != nil {
			// Sin clave no hay identidad de operación: se reporta failed sin registro.
			results = append(results, dto.SyncResultItem{
				OpKey:   item.OpKey,
				Type:    item.Type,
				Status:  entity.SyncStatusFailed,
				Message: err.Error(),
			})
			metrics.SyncItemsProcessed.WithLabelValues(entity.SyncStatusFailed).Inc()
			continue
		}

		existing, err := uc.syncRepo.Get(scope.PharmacyID, item.DeviceID, opKey)
		if err != nil {
			return nil, fmt.Errorf("consultar almacén de idempotencia: %w", err)
		}
		if existing != nil {
			results = append(results, dto.SyncResultItem{
				OpKey:  opKey,
				Type:   item.Type,
				Status: "duplicate",
				Result: existing.Result,
			})
			metrics.SyncItemsProcessed.WithLabelValues("duplicate").Inc()
			continue
		}

		itemCtx, cancel := context.WithTimeout(ctx, uc.itemTimeout)
		result, itemTouched, dispatchErr := uc.dispatch(itemCtx, scope, item)
		cancel()

		status := entity.SyncStatusApplied
		message := ""
		if dispatchErr != nil {
			switch {
			case isConflict(dispatchErr):
				status = entity.SyncStatusConflict
			case isDomainError(dispatchErr):
				status = entity.SyncStatusFailed
			default:
				// Indeterminado: el commit del mutador pudo o no haber ocurrido.
				// No registrar nada y abortar el resto del lote.
				return nil, fmt.Errorf("sync: resultado indeterminado en ítem %s: %w", opKey, dispatchErr)
			}
			message = dispatchErr.Error()
			result = map[string]any{"message": message}
			if details := conflictDetails(dispatchErr); details != nil {
				result["details"] = details
			}
		}

		record := &entity.SyncRecord{
			ID:         uuid.New().String(),
			PharmacyID: scope.PharmacyID,
			BranchID:   scope.BranchID,
			DeviceID:   item.DeviceID,
			OpKey:      opKey,
			Type:       item.Type,
			Timestamp:  time.UnixMilli(item.Timestamp),
			Status:     status,
			Result:     result,
			CreatedAt:  time.Now(),
		}
		if err := uc.syncRepo.Create(record); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// Reenvío concurrente con la misma clave ganó la carrera del
				// insert: ya está registrado, no es un error de sistema.
			} else {
				return nil, fmt.Errorf("registrar desenlace de sincronización: %w", err)
			}
		}

		if status == entity.SyncStatusApplied {
			for _, id := range itemTouched {
				if _, ok := touched[id]; !ok {
					touched[id] = struct{}{}
					touchedIDs = append(touchedIDs, id)
				}
			}
		}

		results = append(results, dto.SyncResultItem{
			OpKey:   opKey,
			Type:    item.Type,
			Status:  status,
			Message: message,
			Result:  result,
		})
		metrics.SyncItemsProcessed.WithLabelValues(status).Inc()
	}

	snapshots := make([]dto.StockSnapshot, 0, len(touchedIDs))
	if len(touchedIDs) > 0 {
		drugs, err := uc.drugRepo.ListByIDs(scope, touchedIDs)
		if err != nil {
			return nil, fmt.Errorf("snapshot autoritativo de stock: %w", err)
		}
		for _, d := range drugs {
			snapshots = append(snapshots, dto.ToStockSnapshot(d))
		}
	}

	return &dto.SyncQueueResult{
		Processed:           len(results),
		Results:             results,
		AuthoritativeStocks: snapshots,
	}, nil
}

// dispatch valida el payload según el tipo (unión etiquetada) y delega al
// mutador. Devuelve el resultado opaco del mutador y los IDs de medicamentos
// cuyo stock tocó la operación.
func (uc *ProcessQueueUseCase) dispatch(ctx context.Context, scope entity.Scope, item dto.SyncQueueItem) (map[string]any, []string, error) {
	switch item.Type {
	case entity.SyncTypeSale:
		return uc.dispatchSale(ctx, scope, item)
	case entity.SyncTypeDrugUpdate:
		return uc.dispatchDrugUpdate(ctx, scope, item)
	case entity.SyncTypePrescription:
		return uc.dispatchPrescription(ctx, scope, item)
	}
	return nil, nil, fmt.Errorf("tipo de operación desconocido %q: %w", item.Type, domain.ErrInvalidInput)
}

func (uc *ProcessQueueUseCase) dispatchSale(ctx context.Context, scope entity.Scope, item dto.SyncQueueItem) (map[string]any, []string, error) {
	var payload dto.SyncSalePayload
	if err := json.Unmarshal(item.Data, &payload); err != nil {
		return nil, nil, fmt.Errorf("payload SALE inválido: %w", domain.ErrInvalidInput)
	}

	ts := time.UnixMilli(item.Timestamp)
	sale, err := uc.sales.CreateSale(ctx, scope, dto.CreateSaleRequest{
		Items:         payload.Items,
		PaymentMethod: payload.PaymentMethod,
		Timestamp:     &ts,
		DeviceID:      item.DeviceID,
	})
	if err != nil {
		return nil, nil, err
	}

	touched := make([]string, 0, len(sale.Items))
	for _, it := range sale.Items {
		touched = append(touched, it.DrugID)
	}
	return map[string]any{"saleId": sale.ID}, touched, nil
}

func (uc *ProcessQueueUseCase) dispatchDrugUpdate(ctx context.Context, scope entity.Scope, item dto.SyncQueueItem) (map[string]any, []string, error) {
	var payload dto.SyncDrugUpdatePayload
	if err := json.Unmarshal(item.Data, &payload); err != nil {
		return nil, nil, fmt.Errorf("payload DRUG_UPDATE inválido: %w", domain.ErrInvalidInput)
	}
	if payload.DrugID == "" {
		return nil, nil, fmt.Errorf("drugId requerido: %w", domain.ErrInvalidInput)
	}

	drug, err := uc.drugs.ApplySyncUpdate(ctx, scope, payload)
	if err != nil {
		return nil, nil, err
	}
	return map[string]any{"drugId": drug.ID, "quantity": drug.Quantity}, []string{drug.ID}, nil
}

func (uc *ProcessQueueUseCase) dispatchPrescription(ctx context.Context, scope entity.Scope, item dto.SyncQueueItem) (map[string]any, []string, error) {
	var payload dto.SyncPrescriptionPayload
	if err := json.Unmarshal(item.Data, &payload); err != nil {
		return nil, nil, fmt.Errorf("payload PRESCRIPTION inválido: %w", domain.ErrInvalidInput)
	}

	switch payload.Action {
	case dto.PrescriptionActionCreate:
		ts := time.UnixMilli(item.Timestamp)
		in := dto.CreatePrescriptionRequest{
			PatientName:        stringOr(payload.PatientName, "Unknown"),
			Drugs:              payload.Drugs,
			DosageInstructions: stringOr(payload.DosageInstructions, ""),
			PrescribingDoctor:  stringOr(payload.PrescribingDoctor, "Unknown"),
			RefillReminder:     boolOr(payload.RefillReminder, true),
			ImageURL:           stringOr(payload.ImageURL, ""),
			Timestamp:          &ts,
		}
		next, err := parseDate(payload.NextRefillDate)
		if err != nil {
			return nil, nil, err
		}
		in.NextRefillDate = next
		rx, err := uc.prescriptions.Create(ctx, scope, in)
		if err != nil {
			return nil, nil, err
		}
		return map[string]any{"prescriptionId": rx.ID}, nil, nil

	case dto.PrescriptionActionUpdate:
		if payload.PrescriptionID == "" {
			return nil, nil, fmt.Errorf("prescriptionId requerido para update: %w", domain.ErrInvalidInput)
		}
		next, err := parseDate(payload.NextRefillDate)
		if err != nil {
			return nil, nil, err
		}
		rx, err := uc.prescriptions.Update(ctx, scope, payload.PrescriptionID, dto.UpdatePrescriptionRequest{
			PatientName:        payload.PatientName,
			Drugs:              payload.Drugs,
			DosageInstructions: payload.DosageInstructions,
			PrescribingDoctor:  payload.PrescribingDoctor,
			RefillReminder:     payload.RefillReminder,
			NextRefillDate:     next,
			ImageURL:           payload.ImageURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return map[string]any{"prescriptionId": rx.ID}, nil, nil

	case dto.PrescriptionActionDelete:
		if payload.PrescriptionID == "" {
			return nil, nil, fmt.Errorf("prescriptionId requerido para delete: %w", domain.ErrInvalidInput)
		}
		if err := uc.prescriptions.Delete(ctx, scope, payload.PrescriptionID); err != nil {
			return nil, nil, err
		}
		return map[string]any{"prescriptionId": payload.PrescriptionID}, nil, nil
	}

	return nil, nil, fmt.Errorf("acción de receta desconocida %q: %w", payload.Action, domain.ErrInvalidInput)
}

// isConflict clasifica conflictos de stock/precondición: el cliente debe
// reconciliar y reenviar con datos corregidos (el payload corregido deriva una
// clave nueva de forma natural).
func isConflict(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrConflict)
}

// isDomainError distingue fallos de negocio (registrables como terminal) de
// errores de infraestructura (indeterminados, que abortan el lote).
func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrDuplicate)
}

// conflictDetails extrae el detalle serializable de los errores tipados de stock.
func conflictDetails(err error) map[string]any {
	var detailer interface{ Details() map[string]any }
	if errors.As(err, &detailer) {
		return detailer.Details()
	}
	return nil
}

func stringOr(v *string, def string) string {
	if v != nil {
		return *v
	}
	return def
}

func boolOr(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

func parseDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q: %w", *v, domain.ErrInvalidInput)
	}
	return &t, nil
}
