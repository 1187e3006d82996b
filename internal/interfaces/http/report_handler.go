package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/application/reports"
)

// ReportHandler maneja los reportes de ventas (protegido).
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// SalesSummary godoc
// @Summary      Resumen de ventas por período
// @Description  Ingresos, costo, ganancia y los medicamentos más vendidos del
// @Description  período (daily, weekly o monthly).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "daily | weekly | monthly (default daily)"
// @Success      200  {object}  dto.SalesSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	period := c.Query("period", dto.PeriodDaily)
	out, err := h.uc.SalesSummary(c.Context(), GetScope(c), period)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
