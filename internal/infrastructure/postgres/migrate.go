package postgres

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/control/*.sql migrations/tenant/*.sql
var migrationsFS embed.FS

// Conjuntos de migraciones.
const (
	MigrationsControl = "migrations/control"
	MigrationsTenant  = "migrations/tenant"
)

// NewMigrator construye un migrate.Migrate para el conjunto dado contra dsn (postgres://...).
// El llamador debe cerrarlo.
func NewMigrator(set, dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, set)
	if err != nil {
		return nil, fmt.Errorf("leer migraciones %s: %w", set, err)
	}
	dbURL, err := pgx5URL(dsn)
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("inicializar migraciones: %w", err)
	}
	return m, nil
}

// MigrateUp aplica todas las migraciones pendientes del conjunto. Sin cambios no es error.
func MigrateUp(set, dsn string) error {
	m, err := NewMigrator(set, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrar %s: %w", set, err)
	}
	return nil
}

// pgx5URL cambia el esquema postgres:// por pgx5:// (driver pgx/v5 de golang-migrate).
func pgx5URL(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse DSN: %w", err)
	}
	u.Scheme = "pgx5"
	return u.String(), nil
}
