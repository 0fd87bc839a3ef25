package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/hr"
)

// DisciplinaryHandler maneja las acciones disciplinarias.
type DisciplinaryHandler struct {
	uc *hr.DisciplinaryUseCase
}

// NewDisciplinaryHandler construye el handler.
func NewDisciplinaryHandler(uc *hr.DisciplinaryUseCase) *DisciplinaryHandler {
	return &DisciplinaryHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar acción disciplinaria
// @Tags         disciplinary-actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        body  body  dto.DisciplinaryActionRequest  true  "Datos de la acción"
// @Success      201   {object}  dto.DisciplinaryActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/disciplinary-actions [post]
func (h *DisciplinaryHandler) Create(c *fiber.Ctx) error {
	var in dto.DisciplinaryActionRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondParse(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyCode(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar acciones disciplinarias
// @Tags         disciplinary-actions
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true   "Código de empresa"
// @Param        employee_id     query   string  false  "Filtrar por empleado"
// @Param        status          query   string  false  "open | resolved | appealed"
// @Success      200  {array}  dto.DisciplinaryActionResponse
// @Router       /api/disciplinary-actions [get]
func (h *DisciplinaryHandler) List(c *fiber.Ctx) error {
	var in dto.HRListRequest
	if err := parseQuery(c, &in); err != nil {
		return respondParse(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyCode(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener acción disciplinaria
// @Tags         disciplinary-actions
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id   path  string  true  "ID de la acción"
// @Success      200  {object}  dto.DisciplinaryActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/disciplinary-actions/{id} [get]
func (h *DisciplinaryHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyCode(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar acción disciplinaria
// @Tags         disciplinary-actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id    path  string                         true  "ID de la acción"
// @Param        body  body  dto.DisciplinaryActionRequest  true  "Datos de la acción"
// @Success      200   {object}  dto.DisciplinaryActionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/disciplinary-actions/{id} [put]
func (h *DisciplinaryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.DisciplinaryActionRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondParse(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyCode(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar acción disciplinaria
// @Tags         disciplinary-actions
// @Security     Bearer
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id   path  string  true  "ID de la acción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/disciplinary-actions/{id} [delete]
func (h *DisciplinaryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetCompanyCode(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
