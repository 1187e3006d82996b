package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/farmasync-api/internal/application/audit"
	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/application/sales"
)

// SaleHandler maneja las peticiones HTTP de ventas en línea (protegido).
// Las ventas que llegan por la cola offline entran por el SyncHandler.
type SaleHandler struct {
	uc      *sales.SaleUseCase
	auditor *audit.Recorder
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, auditor *audit.Recorder) *SaleHandler {
	return &SaleHandler{uc: uc, auditor: auditor}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Crea la venta y deduce el stock de todas sus líneas en una sola
// @Description  transacción: si alguna línea no tiene stock suficiente no se persiste nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "items, paymentMethod"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	scope := GetScope(c)
	sale, err := h.uc.CreateSale(c.Context(), scope, in)
	if err != nil {
		return respondDomainError(c, err)
	}

	h.auditor.Record(audit.Entry{
		PharmacyID: scope.PharmacyID,
		ActorID:    scope.ActorID,
		Action:     "SALE_CREATE",
		Entity:     "sale",
		EntityID:   sale.ID,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	})

	return c.Status(fiber.StatusCreated).JSON(dto.ToSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas recientes
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetScope(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ToSaleResponse(s))
	}
	return c.JSON(out)
}
