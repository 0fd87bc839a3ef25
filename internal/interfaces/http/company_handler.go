package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hrms-api/internal/application/usecase"
)

// CompanyHandler maneja las peticiones HTTP para la empresa del usuario autenticado.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get godoc
// @Summary      Empresa actual
// @Description  Datos de la empresa del token, incluido el estado y la ventana del plan.
// @Tags         company
// @Security     Bearer
// @Produce      json
// @Param        X-Company-Code  header  string  true  "Código de empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetByCode(c.UserContext(), GetCompanyCode(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
