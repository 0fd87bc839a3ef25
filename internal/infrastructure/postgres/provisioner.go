package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/config"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

var _ ports.TenantProvisioner = (*TenantOpener)(nil)

// TenantOpener abre (y si hace falta crea) la base de datos de una empresa: <prefijo><código en minúsculas>.
type TenantOpener struct {
	db     config.DBConfig
	tenant config.TenantConfig
	admin  Querier // conexión a la base de control, con permiso CREATE DATABASE
	log    *logger.Logger
}

// NewTenantOpener construye el opener. admin suele ser el pool de control.
func NewTenantOpener(db config.DBConfig, tenant config.TenantConfig, admin Querier, log *logger.Logger) *TenantOpener {
	return &TenantOpener{db: db, tenant: tenant, admin: admin, log: log}
}

// DSN devuelve el DSN de la base de la empresa.
func (o *TenantOpener) DSN(companyCode string) string {
	return o.db.DatabaseDSN(o.tenant.DatabaseName(companyCode))
}

// Open abre el pool de la empresa. Si la base no existe (3D000) la crea y reintenta una vez.
func (o *TenantOpener) Open(ctx context.Context, companyCode string) (repository.TenantStore, error) {
	dsn := o.DSN(companyCode)
	opts := PoolOptions{MaxConns: o.tenant.MaxConns, MaxConnIdleTime: o.tenant.IdleTTL}

	pool, err := OpenPool(ctx, dsn, opts)
	if err != nil && isUndefinedDatabase(err) {
		o.log.Info().Str("company_code", companyCode).Msg("base de datos de empresa inexistente, creando")
		if err := o.createDatabase(ctx, companyCode); err != nil {
			return nil, err
		}
		pool, err = OpenPool(ctx, dsn, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("abrir base de empresa %s: %w", companyCode, err)
	}

	if o.tenant.AutoMigrate {
		if err := MigrateUp(MigrationsTenant, dsn); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return NewTenantStore(pool), nil
}

// Provision crea la base de la empresa si no existe y aplica sus migraciones.
func (o *TenantOpener) Provision(ctx context.Context, companyCode string) error {
	if err := o.createDatabase(ctx, companyCode); err != nil {
		return err
	}
	return MigrateUp(MigrationsTenant, o.DSN(companyCode))
}

func (o *TenantOpener) createDatabase(ctx context.Context, companyCode string) error {
	name := o.tenant.DatabaseName(companyCode)
	_, err := o.admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42P04" { // duplicate_database
			return nil
		}
		return fmt.Errorf("crear base %s: %w", name, err)
	}
	o.log.Info().Str("company_code", companyCode).Str("database", name).Msg("base de datos de empresa creada")
	return nil
}
