package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hrms-api/internal/application/auth"
	"github.com/jhoicas/hrms-api/internal/application/dto"
)

// AuthHandler maneja alta de empresas, verificación de email y login.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterCompany godoc
// @Summary      Registrar empresa
// @Description  Crea la empresa y su usuario administrador, aprovisiona su base de datos y envía el correo de verificación.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterCompanyRequest  true  "Empresa y administrador"
// @Success      201   {object}  dto.RegisterCompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register-company [post]
func (h *AuthHandler) RegisterCompany(c *fiber.Ctx) error {
	var in dto.RegisterCompanyRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondParse(c, err)
	}
	out, err := h.uc.RegisterCompany(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VerifyEmail godoc
// @Summary      Verificar email de la empresa
// @Tags         auth
// @Produce      json
// @Param        token  query  string  true  "Token enviado por correo"
// @Success      200    {object}  dto.CompanyResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	out, err := h.uc.VerifyEmail(c.UserContext(), c.Query("token"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseAndValidate(c, &in); err != nil {
		return respondParse(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
