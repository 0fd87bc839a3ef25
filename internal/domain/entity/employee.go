package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un empleado.
const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
)

// Employee ficha de un empleado (vive en la base de datos de su empresa).
type Employee struct {
	ID            string
	EmployeeCode  string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Department    string
	Designation   string
	DateOfJoining *time.Time
	Status        string
	ImageURL      string
	ImageKey      string // clave en el almacenamiento de archivos
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Tipos y estados de contrato de nómina.
const (
	ContractTypeFullTime   = "full_time"
	ContractTypePartTime   = "part_time"
	ContractTypeContractor = "contractor"
	ContractTypeIntern     = "intern"

	ContractStatusActive     = "active"
	ContractStatusTerminated = "terminated"
	ContractStatusExpired    = "expired"
)

// PayrollContract contrato de nómina de un empleado.
type PayrollContract struct {
	ID           string
	EmployeeID   string
	ContractType string
	StartDate    time.Time
	EndDate      *time.Time
	BasicSalary  decimal.Decimal
	Allowances   decimal.Decimal
	Deductions   decimal.Decimal
	Currency     string
	Status       string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NetSalary salario neto = básico + asignaciones - deducciones.
func (c *PayrollContract) NetSalary() decimal.Decimal {
	return c.BasicSalary.Add(c.Allowances).Sub(c.Deductions)
}

// Estados del proceso de desvinculación.
const (
	OffboardingStatusInitiated  = "initiated"
	OffboardingStatusInProgress = "in_progress"
	OffboardingStatusCompleted  = "completed"
	OffboardingStatusCancelled  = "cancelled"
)

var offboardingTransitions = map[string][]string{
	OffboardingStatusInitiated:  {OffboardingStatusInProgress, OffboardingStatusCompleted, OffboardingStatusCancelled},
	OffboardingStatusInProgress: {OffboardingStatusCompleted, OffboardingStatusCancelled},
}

// Offboarding proceso de salida de un empleado.
type Offboarding struct {
	ID                 string
	EmployeeID         string
	Reason             string
	LastWorkingDay     time.Time
	Status             string
	ExitInterviewNotes string
	AssetsReturned     bool
	ClearanceCompleted bool
	DocumentURL        string
	DocumentKey        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CanMoveTo informa si el proceso puede pasar al estado to. Mantener el estado actual siempre es válido.
func (o *Offboarding) CanMoveTo(to string) bool {
	if o.Status == to {
		return true
	}
	for _, s := range offboardingTransitions[o.Status] {
		if s == to {
			return true
		}
	}
	return false
}

// Tipos de acción disciplinaria.
const (
	DisciplinaryVerbalWarning  = "verbal_warning"
	DisciplinaryWrittenWarning = "written_warning"
	DisciplinarySuspension     = "suspension"
	DisciplinaryTermination    = "termination"

	DisciplinaryStatusOpen     = "open"
	DisciplinaryStatusResolved = "resolved"
	DisciplinaryStatusAppealed = "appealed"
)

// DisciplinaryAction acción disciplinaria registrada sobre un empleado.
type DisciplinaryAction struct {
	ID          string
	EmployeeID  string
	ActionType  string
	Reason      string
	Description string
	ActionDate  time.Time
	Status      string
	IssuedBy    string // user_id de quien la emite
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
