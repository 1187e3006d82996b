package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/application/prescriptions"
)

// PrescriptionHandler maneja las peticiones HTTP de recetas (protegido).
type PrescriptionHandler struct {
	uc *prescriptions.PrescriptionUseCase
}

// NewPrescriptionHandler construye el handler.
func NewPrescriptionHandler(uc *prescriptions.PrescriptionUseCase) *PrescriptionHandler {
	return &PrescriptionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar receta
// @Tags         prescriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePrescriptionRequest  true  "patientName, drugs"
// @Success      201   {object}  dto.PrescriptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/prescriptions [post]
func (h *PrescriptionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePrescriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rx, err := h.uc.Create(c.Context(), GetScope(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPrescriptionResponse(rx))
}

// List godoc
// @Summary      Listar recetas
// @Tags         prescriptions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PrescriptionResponse
// @Router       /api/prescriptions [get]
func (h *PrescriptionHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetScope(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.PrescriptionResponse, 0, len(list))
	for _, rx := range list {
		out = append(out, dto.ToPrescriptionResponse(rx))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar receta (patch parcial)
// @Tags         prescriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la receta"
// @Param        body  body  dto.UpdatePrescriptionRequest  true  "campos a modificar"
// @Success      200   {object}  dto.PrescriptionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/prescriptions/{id} [put]
func (h *PrescriptionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePrescriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rx, err := h.uc.Update(c.Context(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToPrescriptionResponse(rx))
}

// Delete godoc
// @Summary      Eliminar receta
// @Tags         prescriptions
// @Security     Bearer
// @Param        id  path  string  true  "ID de la receta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/prescriptions/{id} [delete]
func (h *PrescriptionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetScope(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
