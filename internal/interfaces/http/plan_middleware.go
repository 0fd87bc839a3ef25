package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hrms-api/internal/application/dto"
)

// planChecker es el contrato mínimo que necesita el middleware para verificar el plan.
// Lo implementa *usecase.PlanService; el uso de interfaz evita el import circular.
type planChecker interface {
	HasActivePlan(ctx context.Context, companyCode string) (bool, error)
}

// RequireActivePlan devuelve un middleware Fiber que verifica si la empresa del token
// tiene el plan pagado y vigente. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalCompanyCode).
//
// Comportamiento:
//   - 402 Payment Required → plan sin pagar o vencido.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
//   - Si no hay company_code en el contexto, responde 401 (el AuthMiddleware debería haberlo puesto).
func RequireActivePlan(checker planChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := GetCompanyCode(c)
		if code == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_code no encontrado en el contexto",
			})
		}

		active, err := checker.HasActivePlan(c.UserContext(), code)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PLAN_CHECK_FAILED",
				Message: "no se pudo verificar el plan, intente más tarde",
			})
		}

		if !active {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Code:    "PLAN_INACTIVE",
				Message: "el plan de la empresa no está pagado o ya venció",
			})
		}

		return c.Next()
	}
}
