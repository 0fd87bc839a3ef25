package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/hr"
)

// OffboardingHandler maneja los procesos de salida.
type OffboardingHandler struct {
	uc *hr.OffboardingUseCase
}

// NewOffboardingHandler construye el handler.
func NewOffboardingHandler(uc *hr.OffboardingUseCase) *OffboardingHandler {
	return &OffboardingHandler{uc: uc}
}

// Create godoc
// @Summary      Iniciar desvinculación
// @Tags         offboarding
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        body  body  dto.CreateOffboardingRequest  true  "Empleado y motivo"
// @Success      201   {object}  dto.OffboardingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/offboarding [post]
func (h *OffboardingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOffboardingRequest
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
// @Summary      Listar desvinculaciones
// @Tags         offboarding
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true   "Código de empresa"
// @Param        employee_id     query   string  false  "Filtrar por empleado"
// @Param        status          query   string  false  "Estado"
// @Success      200  {array}  dto.OffboardingResponse
// @Router       /api/offboarding [get]
func (h *OffboardingHandler) List(c *fiber.Ctx) error {
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
// @Summary      Obtener desvinculación por ID
// @Tags         offboarding
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id   path  string  true  "ID del proceso"
// @Success      200  {object}  dto.OffboardingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/offboarding/{id} [get]
func (h *OffboardingHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Avanzar desvinculación
// @Description  Completar el proceso desactiva al empleado.
// @Tags         offboarding
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id    path  string                        true  "ID del proceso"
// @Param        body  body  dto.UpdateOffboardingRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.OffboardingResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/offboarding/{id} [put]
func (h *OffboardingHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateOffboardingRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondParse(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyCode(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UploadDocument godoc
// @Summary      Adjuntar documento de salida
// @Tags         offboarding
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Company-Code  header    string  true  "Código de empresa"
// @Param        id              path      string  true  "ID del proceso"
// @Param        document        formData  file    true  "pdf, jpeg o png (máx. 5 MB)"
// @Success      200  {object}  dto.OffboardingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/offboarding/{id}/document [post]
func (h *OffboardingHandler) UploadDocument(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	file, closeFn, err := formUpload(c, "document")
	if err != nil {
		return err
	}
	defer closeFn()
	out, err := h.uc.UploadDocument(c.UserContext(), GetCompanyCode(c), id, file)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
