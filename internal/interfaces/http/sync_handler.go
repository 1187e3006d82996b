package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/farmasync-api/internal/application/audit"
	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	syncq "github.com/tu-usuario/farmasync-api/internal/application/sync"
)

// SyncHandler recibe la cola de operaciones offline de un dispositivo y la
// procesa ítem por ítem (protegido).
type SyncHandler struct {
	uc      *syncq.ProcessQueueUseCase
	auditor *audit.Recorder
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *syncq.ProcessQueueUseCase, auditor *audit.Recorder) *SyncHandler {
	return &SyncHandler{uc: uc, auditor: auditor}
}

// ProcessQueue godoc
// @Summary      Procesar cola de sincronización offline
// @Description  Aplica las operaciones en orden cronológico con idempotencia por
// @Description  (deviceId, opKey): los reenvíos devuelven el resultado registrado sin
// @Description  volver a aplicar nada. La respuesta incluye el snapshot autoritativo
// @Description  de stock de los medicamentos tocados.
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncQueueRequest  true  "queue: operaciones pendientes del dispositivo"
// @Success      200   {object}  dto.SyncQueueResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/sync [post]
func (h *SyncHandler) ProcessQueue(c *fiber.Ctx) error {
	var in dto.SyncQueueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	scope := GetScope(c)
	out, err := h.uc.Process(c.Context(), scope, in.Queue)
	if err != nil {
		// Fallo indeterminado (infraestructura o timeout): el lote aborta sin
		// registrar el ítem para que el cliente lo reintente completo.
		return respondDomainError(c, err)
	}

	h.auditor.Record(audit.Entry{
		PharmacyID: scope.PharmacyID,
		ActorID:    scope.ActorID,
		Action:     "SYNC_QUEUE",
		Entity:     "sync",
		Metadata: map[string]any{
			"received":  len(in.Queue),
			"processed": out.Processed,
		},
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	})

	return c.JSON(out)
}
