// reminders ejecuta una vez el barrido de recordatorios de vencimiento del plan
// (para cron del sistema o ejecución manual). Termina con código 1 si alguna empresa falló.
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/hrms-api/internal/application/reminder"
	"github.com/jhoicas/hrms-api/internal/infrastructure/mail"
	"github.com/jhoicas/hrms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/hrms-api/pkg/config"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	loc, err := time.LoadLocation(cfg.Reminder.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Reminder.Timezone).Msg("REMINDER_TIMEZONE inválido")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Minute)
	defer cancel()

	pool, err := postgres.ConnectWithRetry(ctx, cfg.DB, 30*time.Second, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	job := reminder.NewJob(postgres.NewCompanyRepository(pool), mail.New(cfg.Mail, log), reminder.Config{
		Location:    loc,
		ExpiredDays: cfg.Reminder.ExpiredDays,
		AppName:     cfg.App.Name,
		PublicURL:   cfg.App.PublicURL,
	}, log)

	out, err := job.Run(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("recordatorios")
		pool.Close()
		os.Exit(1)
	}
	log.Info().
		Int("scanned", out.Scanned).
		Int("sent", out.TotalSent()).
		Int("skipped", out.Skipped).
		Int("expired", out.Expired).
		Int("failures", len(out.Failures)).
		Msg("recordatorios enviados")
	if len(out.Failures) > 0 {
		pool.Close()
		os.Exit(1)
	}
}
