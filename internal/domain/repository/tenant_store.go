package repository

import (
	"context"

	"github.com/jhoicas/hrms-api/internal/domain/entity"
)

// ListOptions paginación y filtro opcional por empleado.
type ListOptions struct {
	EmployeeID string
	Status     string
	Limit      int
	Offset     int
}

// EmployeeRepository persistencia de empleados en la base de una empresa.
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	List(ctx context.Context, opts ListOptions) ([]*entity.Employee, error)
	Update(ctx context.Context, e *entity.Employee) error
	Delete(ctx context.Context, id string) error
}

// PayrollContractRepository persistencia de contratos de nómina.
type PayrollContractRepository interface {
	Create(ctx context.Context, c *entity.PayrollContract) error
	GetByID(ctx context.Context, id string) (*entity.PayrollContract, error)
	List(ctx context.Context, opts ListOptions) ([]*entity.PayrollContract, error)
	Update(ctx context.Context, c *entity.PayrollContract) error
	Delete(ctx context.Context, id string) error
}

// OffboardingRepository persistencia de procesos de desvinculación.
type OffboardingRepository interface {
	Create(ctx context.Context, o *entity.Offboarding) error
	GetByID(ctx context.Context, id string) (*entity.Offboarding, error)
	List(ctx context.Context, opts ListOptions) ([]*entity.Offboarding, error)
	Update(ctx context.Context, o *entity.Offboarding) error
}

// DisciplinaryActionRepository persistencia de acciones disciplinarias.
type DisciplinaryActionRepository interface {
	Create(ctx context.Context, a *entity.DisciplinaryAction) error
	GetByID(ctx context.Context, id string) (*entity.DisciplinaryAction, error)
	List(ctx context.Context, opts ListOptions) ([]*entity.DisciplinaryAction, error)
	Update(ctx context.Context, a *entity.DisciplinaryAction) error
	Delete(ctx context.Context, id string) error
}

// TenantStore repositorios atados a la base de datos de una empresa.
type TenantStore interface {
	Employees() EmployeeRepository
	Contracts() PayrollContractRepository
	Offboardings() OffboardingRepository
	DisciplinaryActions() DisciplinaryActionRepository
	// CompleteOffboarding guarda el proceso y desactiva al empleado en una sola transacción.
	CompleteOffboarding(ctx context.Context, o *entity.Offboarding) error
	Close()
}

// TenantStores resuelve el TenantStore de una empresa por su código.
// Llamar dos veces con el mismo código reutiliza la misma conexión.
type TenantStores interface {
	Store(ctx context.Context, companyCode string) (TenantStore, error)
}
