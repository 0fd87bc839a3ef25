package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hrms-api/internal/application/auth"
	"github.com/jhoicas/hrms-api/internal/application/hr"
	"github.com/jhoicas/hrms-api/internal/application/payment"
	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/application/reminder"
	"github.com/jhoicas/hrms-api/internal/application/usecase"
	"github.com/jhoicas/hrms-api/internal/infrastructure/lock"
	"github.com/jhoicas/hrms-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/hrms-api/internal/infrastructure/pdf"
	"github.com/jhoicas/hrms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/hrms-api/internal/infrastructure/razorpay"
	"github.com/jhoicas/hrms-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/hrms-api/internal/infrastructure/storage"
	"github.com/jhoicas/hrms-api/internal/infrastructure/tenant"
	httpRouter "github.com/jhoicas/hrms-api/internal/interfaces/http"
	"github.com/jhoicas/hrms-api/pkg/config"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.ConnectWithRetry(ctx, cfg.DB, time.Minute, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.MigrateUp(postgres.MigrationsControl, cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones de la base de control")
	}

	planAmount, err := decimal.NewFromString(cfg.Plan.Amount)
	if err != nil {
		log.Fatal().Err(err).Str("amount", cfg.Plan.Amount).Msg("PLAN_AMOUNT inválido")
	}
	reminderLoc, err := time.LoadLocation(cfg.Reminder.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Reminder.Timezone).Msg("REMINDER_TIMEZONE inválido")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Una base de datos por empresa, abierta a demanda y cerrada por inactividad.
	opener := postgres.NewTenantOpener(cfg.DB, cfg.Tenant, pool, log)
	registry := tenant.NewRegistry(opener.Open, cfg.Tenant.IdleTTL, log)

	mailer := mail.New(cfg.Mail, log)
	fileStorage, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de archivos")
	}

	var locker ports.Locker = lock.Noop{}
	if cfg.Redis.URL != "" {
		redisLocker, err := lock.NewRedisLocker(ctx, cfg.Redis.URL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisLocker.Close()
		locker = redisLocker
	}

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, txRunner, opener, mailer, auth.Config{
		JWT: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		PlanDurationDays: cfg.Plan.DurationDays,
		AppName:          cfg.App.Name,
		PublicURL:        cfg.App.PublicURL,
	}, log)

	paymentUC := payment.NewUseCase(payment.Deps{
		Payments:  paymentRepo,
		Companies: companyRepo,
		Users:     userRepo,
		Tx:        txRunner,
		Provider:  razorpay.NewProvider(cfg.Razorpay, log),
		Mailer:    mailer,
		Receipts:  infrapdf.NewMarotoReceiptGenerator(cfg.App.Name),
		Log:       log,
	}, payment.Config{
		Amount:        planAmount,
		Currency:      cfg.Plan.Currency,
		OrderTTL:      cfg.Plan.OrderTTL,
		KeySecret:     cfg.Razorpay.KeySecret,
		WebhookSecret: cfg.Razorpay.WebhookSecret,
		AdminEmail:    cfg.Mail.AdminEmail,
		AppName:       cfg.App.Name,
	})

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	planSvc := usecase.NewPlanService(companyRepo)
	employeeUC := hr.NewEmployeeUseCase(registry, fileStorage, log)
	contractUC := hr.NewContractUseCase(registry, cfg.Plan.Currency, log)
	offboardingUC := hr.NewOffboardingUseCase(registry, fileStorage, log)
	disciplinaryUC := hr.NewDisciplinaryUseCase(registry, log)

	// Recordatorios diarios de vencimiento del plan.
	sched := scheduler.New(reminderLoc, locker, log)
	if cfg.Reminder.Enabled {
		job := reminder.NewJob(companyRepo, mailer, reminder.Config{
			Location:    reminderLoc,
			ExpiredDays: cfg.Reminder.ExpiredDays,
			AppName:     cfg.App.Name,
			PublicURL:   cfg.App.PublicURL,
		}, log)
		if err := sched.Add(cfg.Reminder.Schedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Reminder.Schedule).Msg("REMINDER_SCHEDULE inválido")
		}
	}
	sched.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    hr.MaxUploadSize + 1<<20,
		ErrorHandler: httpRouter.ErrorHandler(log, cfg.App.IsDevelopment()),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (generado con `swag init`).
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "HRMS API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "tenants_open": registry.Len()})
	})

	// Con S3 los archivos se leen del bucket; /uploads solo existe para el driver local.
	var uploads ports.FileStorage
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		uploads = fileStorage
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CompanyUC:      companyUC,
		PaymentUC:      paymentUC,
		EmployeeUC:     employeeUC,
		ContractUC:     contractUC,
		OffboardingUC:  offboardingUC,
		DisciplinaryUC: disciplinaryUC,
		PlanService:    planSvc,
		JWTSecret:      cfg.JWT.Secret,
		Uploads:        uploads,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	sched.Stop()
	registry.Close()

	log.Info().Msg("aplicación detenida")
}
