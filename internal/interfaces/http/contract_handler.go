package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/hr"
)

// ContractHandler maneja los contratos de nómina.
type ContractHandler struct {
	uc *hr.ContractUseCase
}

// NewContractHandler construye el handler.
func NewContractHandler(uc *hr.ContractUseCase) *ContractHandler {
	return &ContractHandler{uc: uc}
}

// Create godoc
// @Summary      Crear contrato de nómina
// @Tags         payroll-contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        body  body  dto.PayrollContractRequest  true  "Datos del contrato"
// @Success      201   {object}  dto.PayrollContractResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/payroll-contracts [post]
func (h *ContractHandler) Create(c *fiber.Ctx) error {
	var in dto.PayrollContractRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondParse(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyCode(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar contratos
// @Tags         payroll-contracts
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true   "Código de empresa"
// @Param        employee_id     query   string  false  "Filtrar por empleado"
// @Param        status          query   string  false  "Estado"
// @Success      200  {array}  dto.PayrollContractResponse
// @Router       /api/payroll-contracts [get]
func (h *ContractHandler) List(c *fiber.Ctx) error {
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
// @Summary      Obtener contrato por ID
// @Tags         payroll-contracts
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id   path  string  true  "ID del contrato"
// @Success      200  {object}  dto.PayrollContractResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payroll-contracts/{id} [get]
func (h *ContractHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Actualizar contrato
// @Tags         payroll-contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id    path  string                      true  "ID del contrato"
// @Param        body  body  dto.PayrollContractRequest  true  "Datos del contrato"
// @Success      200   {object}  dto.PayrollContractResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/payroll-contracts/{id} [put]
func (h *ContractHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.PayrollContractRequest
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
// @Summary      Eliminar contrato
// @Tags         payroll-contracts
// @Security     Bearer
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id   path  string  true  "ID del contrato"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payroll-contracts/{id} [delete]
func (h *ContractHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetCompanyCode(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
