// migrate aplica o revierte las migraciones de la base de control o de la base de una empresa.
//
// Uso:
//
//	go run ./cmd/migrate up|down|status [control|<CODIGO_EMPRESA>]
//
// Sin segundo argumento opera sobre la base de control. down revierte un solo paso.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/hrms-api/pkg/config"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: migrate up|down|status [control|<CODIGO_EMPRESA>]")
		os.Exit(2)
	}
	cmd := os.Args[1]
	target := "control"
	if len(os.Args) > 2 {
		target = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	set, dsn := postgres.MigrationsControl, cfg.DB.ConnectionString()
	if target != "control" {
		code := entity.NormalizeCompanyCode(target)
		if !entity.ValidCompanyCode(code) {
			log.Fatal().Str("target", target).Msg("código de empresa inválido")
		}
		set, dsn = postgres.MigrationsTenant, cfg.DB.DatabaseDSN(cfg.Tenant.DatabaseName(code))
	}

	m, err := postgres.NewMigrator(set, dsn)
	if err != nil {
		log.Fatal().Err(err).Str("target", target).Msg("inicializar migraciones")
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "status":
	default:
		log.Fatal().Str("command", cmd).Msg("comando desconocido")
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("command", cmd).Str("target", target).Msg("migración fallida")
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info().Str("target", target).Msg("sin migraciones aplicadas")
	case err != nil:
		log.Fatal().Err(err).Msg("leer versión")
	default:
		log.Info().Str("target", target).Uint("version", version).Bool("dirty", dirty).Msg("estado de migraciones")
	}
}
