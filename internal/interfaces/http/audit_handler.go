package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/farmasync-api/internal/application/audit"
	"github.com/tu-usuario/farmasync-api/internal/application/dto"
)

// AuditHandler expone la bitácora de auditoría (solo admin).
type AuditHandler struct {
	recorder *audit.Recorder
}

// NewAuditHandler construye el handler.
func NewAuditHandler(recorder *audit.Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

// List godoc
// @Summary      Listar bitácora de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de entradas (default 100)"
// @Success      200  {array}   dto.AuditLogResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	list, err := h.recorder.List(GetPharmacyID(c), limit)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.AuditLogResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.ToAuditLogResponse(a))
	}
	return c.JSON(out)
}
