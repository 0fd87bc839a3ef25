package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/hr"
	"github.com/jhoicas/hrms-api/internal/domain"
)

// EmployeeHandler maneja las peticiones HTTP para Employee (protegido, por empresa).
type EmployeeHandler struct {
	uc *hr.EmployeeUseCase
}

// NewEmployeeHandler construye el handler.
func NewEmployeeHandler(uc *hr.EmployeeUseCase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empleado
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        body  body  dto.EmployeeRequest  true  "Datos del empleado"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var in dto.EmployeeRequest
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
// @Summary      Listar empleados
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true   "Código de empresa"
// @Param        status          query   string  false  "active | inactive"
// @Param        limit           query   int     false  "Límite"  default(20)
// @Param        offset          query   int     false  "Offset"  default(0)
// @Success      200  {object}  dto.EmployeeListResponse
// @Router       /api/employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	var in dto.EmployeeListRequest
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
// @Summary      Obtener empleado por ID
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id   path  string  true  "ID del empleado"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Actualizar empleado
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id    path  string               true  "ID del empleado"
// @Param        body  body  dto.EmployeeRequest  true  "Datos del empleado"
// @Success      200   {object}  dto.EmployeeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.EmployeeRequest
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
// @Summary      Eliminar empleado
// @Tags         employees
// @Security     Bearer
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Param        id   path  string  true  "ID del empleado"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetCompanyCode(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadImage godoc
// @Summary      Subir foto del empleado
// @Tags         employees
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Company-Code  header    string  true  "Código de empresa"
// @Param        id              path      string  true  "ID del empleado"
// @Param        image           formData  file    true  "jpeg, png o webp (máx. 5 MB)"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/employees/{id}/image [post]
func (h *EmployeeHandler) UploadImage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	file, closeFn, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeFn()
	out, err := h.uc.UploadImage(c.UserContext(), GetCompanyCode(c), id, file)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// formUpload abre el archivo multipart del campo field.
func formUpload(c *fiber.Ctx, field string) (hr.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return hr.Upload{}, nil, domain.NewFieldErrors(domain.FieldErrors{field: "required"})
	}
	f, err := fh.Open()
	if err != nil {
		return hr.Upload{}, nil, domain.Wrap(err, domain.ErrValidation, "abrir archivo")
	}
	return hr.Upload{Filename: fh.Filename, Size: fh.Size, Body: f}, func() { _ = f.Close() }, nil
}
