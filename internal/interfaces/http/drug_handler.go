package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/farmasync-api/internal/application/audit"
	"github.com/tu-usuario/farmasync-api/internal/application/drugs"
	"github.com/tu-usuario/farmasync-api/internal/application/dto"
)

// DrugHandler maneja las peticiones HTTP del inventario de medicamentos (protegido).
type DrugHandler struct {
	uc      *drugs.DrugUseCase
	auditor *audit.Recorder
}

// NewDrugHandler construye el handler.
func NewDrugHandler(uc *drugs.DrugUseCase, auditor *audit.Recorder) *DrugHandler {
	return &DrugHandler{uc: uc, auditor: auditor}
}

// Create godoc
// @Summary      Crear medicamento
// @Tags         drugs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDrugRequest  true  "name, category, quantity, costPrice, sellingPrice, expiryDate"
// @Success      201   {object}  dto.DrugResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/drugs [post]
func (h *DrugHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDrugRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	drug, err := h.uc.Create(c.Context(), GetScope(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToDrugResponse(drug))
}

// List godoc
// @Summary      Listar inventario
// @Tags         drugs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.DrugResponse
// @Router       /api/drugs [get]
func (h *DrugHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetScope(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.DrugResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.ToDrugResponse(d))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener medicamento
// @Tags         drugs
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del medicamento"
// @Success      200  {object}  dto.DrugResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drugs/{id} [get]
func (h *DrugHandler) GetByID(c *fiber.Ctx) error {
	drug, err := h.uc.GetByID(c.Context(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToDrugResponse(drug))
}

// Update godoc
// @Summary      Actualizar medicamento (patch parcial)
// @Tags         drugs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del medicamento"
// @Param        body  body  dto.UpdateDrugRequest  true  "campos a modificar"
// @Success      200   {object}  dto.DrugResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/drugs/{id} [put]
func (h *DrugHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDrugRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	scope := GetScope(c)
	drug, err := h.uc.Update(c.Context(), scope, c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}

	h.auditor.Record(audit.Entry{
		PharmacyID: scope.PharmacyID,
		ActorID:    scope.ActorID,
		Action:     "DRUG_UPDATE",
		Entity:     "drug",
		EntityID:   drug.ID,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	})

	return c.JSON(dto.ToDrugResponse(drug))
}

// Delete godoc
// @Summary      Eliminar medicamento
// @Tags         drugs
// @Security     Bearer
// @Param        id  path  string  true  "ID del medicamento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drugs/{id} [delete]
func (h *DrugHandler) Delete(c *fiber.Ctx) error {
	scope := GetScope(c)
	id := c.Params("id")
	if err := h.uc.Delete(c.Context(), scope, id); err != nil {
		return respondDomainError(c, err)
	}

	h.auditor.Record(audit.Entry{
		PharmacyID: scope.PharmacyID,
		ActorID:    scope.ActorID,
		Action:     "DRUG_DELETE",
		Entity:     "drug",
		EntityID:   id,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

// ListLowStock godoc
// @Summary      Medicamentos en o bajo su umbral de stock
// @Tags         drugs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DrugResponse
// @Router       /api/drugs/alerts/low-stock [get]
func (h *DrugHandler) ListLowStock(c *fiber.Ctx) error {
	list, err := h.uc.ListLowStock(c.Context(), GetScope(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.DrugResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.ToDrugResponse(d))
	}
	return c.JSON(out)
}

// ListExpiring godoc
// @Summary      Medicamentos próximos a vencer
// @Tags         drugs
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Horizonte en días (default 90)"
// @Success      200   {array}  dto.DrugResponse
// @Router       /api/drugs/alerts/expiring [get]
func (h *DrugHandler) ListExpiring(c *fiber.Ctx) error {
	days := drugs.ExpiringAlertDays
	if raw := c.Query("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}
	list, err := h.uc.ListExpiring(c.Context(), GetScope(c), days)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.DrugResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.ToDrugResponse(d))
	}
	return c.JSON(out)
}
