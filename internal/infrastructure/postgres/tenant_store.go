package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

var _ repository.TenantStore = (*TenantStore)(nil)

// TenantStore repositorios de RR.HH. atados al pool de una empresa.
type TenantStore struct {
	pool         *pgxpool.Pool
	employees    *EmployeeRepo
	contracts    *PayrollContractRepo
	offboardings *OffboardingRepo
	disciplinary *DisciplinaryActionRepo
}

// NewTenantStore envuelve el pool de una empresa. Los repos se crean una sola vez y se reutilizan.
func NewTenantStore(pool *pgxpool.Pool) *TenantStore {
	return &TenantStore{
		pool:         pool,
		employees:    NewEmployeeRepository(pool),
		contracts:    NewPayrollContractRepository(pool),
		offboardings: NewOffboardingRepository(pool),
		disciplinary: NewDisciplinaryActionRepository(pool),
	}
}

func (s *TenantStore) Employees() repository.EmployeeRepository { return s.employees }
func (s *TenantStore) Contracts() repository.PayrollContractRepository { return s.contracts }
func (s *TenantStore) Offboardings() repository.OffboardingRepository { return s.offboardings }
func (s *TenantStore) DisciplinaryActions() repository.DisciplinaryActionRepository { return s.disciplinary }

// CompleteOffboarding guarda el proceso y marca al empleado inactivo en la misma transacción.
func (s *TenantStore) CompleteOffboarding(ctx context.Context, o *entity.Offboarding) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := NewOffboardingRepository(tx).Update(ctx, o); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE employees SET status = $2, updated_at = $3 WHERE id = $1`,
		o.EmployeeID, entity.EmployeeStatusInactive, o.UpdatedAt,
	); err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close cierra el pool de la empresa.
func (s *TenantStore) Close() {
	s.pool.Close()
}
