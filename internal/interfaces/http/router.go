package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hrms-api/internal/application/auth"
	"github.com/jhoicas/hrms-api/internal/application/hr"
	"github.com/jhoicas/hrms-api/internal/application/payment"
	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/application/usecase"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CompanyUC      *usecase.CompanyUseCase
	PaymentUC      *payment.UseCase
	EmployeeUC     *hr.EmployeeUseCase
	ContractUC     *hr.ContractUseCase
	OffboardingUC  *hr.OffboardingUseCase
	DisciplinaryUC *hr.DisciplinaryUseCase
	PlanService    planChecker
	JWTSecret      string
	// Uploads almacenamiento servido en /uploads (solo el driver local); nil lo deshabilita.
	Uploads ports.FileStorage
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Uploads != nil {
		uploadsHandler := NewUploadsHandler(deps.Uploads)
		app.Get("/uploads/*", AuthMiddleware(deps.JWTSecret), uploadsHandler.Get)
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register-company", authHandler.RegisterCompany)
	authGroup.Get("/verify-email", authHandler.VerifyEmail)
	authGroup.Post("/login", authHandler.Login)

	// Webhook de la pasarela (público, firmado). Debe registrarse antes del grupo protegido.
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	api.Post("/payments/webhook", paymentHandler.Webhook)

	// Rutas protegidas (Bearer Token + X-Company-Code)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)

	// Pagos: no exigen plan activo, son la forma de activarlo.
	payments := protected.Group("/payments")
	adminOnly := RequireRole(entity.RoleAdmin)
	payments.Post("/orders", adminOnly, paymentHandler.CreateOrder)
	payments.Post("/verify", adminOnly, paymentHandler.Verify)
	payments.Get("/", paymentHandler.List)
	payments.Get("/:orderId", paymentHandler.Get)
	payments.Post("/:orderId/cancel", adminOnly, paymentHandler.Cancel)
	payments.Get("/:orderId/receipt", paymentHandler.Receipt)

	// Recursos de RR.HH. (base de datos del tenant, plan activo)
	staff := protected.Group("/", RequireActivePlan(deps.PlanService), RequireRole(entity.RoleAdmin, entity.RoleHR))

	employees := staff.Group("/employees")
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	employees.Post("/", employeeHandler.Create)
	employees.Get("/", employeeHandler.List)
	employees.Get("/:id", employeeHandler.GetByID)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)
	employees.Post("/:id/image", employeeHandler.UploadImage)

	contracts := staff.Group("/payroll-contracts")
	contractHandler := NewContractHandler(deps.ContractUC)
	contracts.Post("/", contractHandler.Create)
	contracts.Get("/", contractHandler.List)
	contracts.Get("/:id", contractHandler.GetByID)
	contracts.Put("/:id", contractHandler.Update)
	contracts.Delete("/:id", contractHandler.Delete)

	offboarding := staff.Group("/offboarding")
	offboardingHandler := NewOffboardingHandler(deps.OffboardingUC)
	offboarding.Post("/", offboardingHandler.Create)
	offboarding.Get("/", offboardingHandler.List)
	offboarding.Get("/:id", offboardingHandler.GetByID)
	offboarding.Put("/:id", offboardingHandler.Update)
	offboarding.Post("/:id/document", offboardingHandler.UploadDocument)

	disciplinary := staff.Group("/disciplinary-actions")
	disciplinaryHandler := NewDisciplinaryHandler(deps.DisciplinaryUC)
	disciplinary.Post("/", disciplinaryHandler.Create)
	disciplinary.Get("/", disciplinaryHandler.List)
	disciplinary.Get("/:id", disciplinaryHandler.GetByID)
	disciplinary.Put("/:id", disciplinaryHandler.Update)
	disciplinary.Delete("/:id", disciplinaryHandler.Delete)
}
