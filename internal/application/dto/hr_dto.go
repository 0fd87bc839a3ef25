package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas de calendario en la API.
const DateLayout = "2006-01-02"

// ── Empleados ────────────────────────────────────────────────────────────────

// EmployeeRequest alta o reemplazo de un empleado.
type EmployeeRequest struct {
	EmployeeCode  string `json:"employee_code" validate:"required,max=50"`
	FirstName     string `json:"first_name" validate:"required,max=100"`
	LastName      string `json:"last_name" validate:"omitempty,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,max=50"`
	Department    string `json:"department" validate:"omitempty,max=100"`
	Designation   string `json:"designation" validate:"omitempty,max=100"`
	DateOfJoining string `json:"date_of_joining" validate:"omitempty,datetime=2006-01-02"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// EmployeeResponse salida de un empleado.
type EmployeeResponse struct {
	ID            string    `json:"id"`
	EmployeeCode  string    `json:"employee_code"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Department    string    `json:"department"`
	Designation   string    `json:"designation"`
	DateOfJoining string    `json:"date_of_joining,omitempty"`
	Status        string    `json:"status"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EmployeeListRequest filtros del listado de empleados.
type EmployeeListRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=active inactive"`
}

// EmployeeListResponse lista paginada de empleados.
type EmployeeListResponse struct {
	Items []EmployeeResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ── Contratos de nómina ──────────────────────────────────────────────────────

// PayrollContractRequest alta o reemplazo de un contrato.
type PayrollContractRequest struct {
	EmployeeID   string          `json:"employee_id" validate:"required,uuid"`
	ContractType string          `json:"contract_type" validate:"required,oneof=full_time part_time contractor intern"`
	StartDate    string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	BasicSalary  decimal.Decimal `json:"basic_salary"`
	Allowances   decimal.Decimal `json:"allowances"`
	Deductions   decimal.Decimal `json:"deductions"`
	Currency     string          `json:"currency" validate:"omitempty,len=3"`
	Status       string          `json:"status" validate:"omitempty,oneof=active terminated expired"`
	Notes        string          `json:"notes" validate:"omitempty,max=2000"`
}

// PayrollContractResponse salida de un contrato con su salario neto.
type PayrollContractResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	ContractType string          `json:"contract_type"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date,omitempty"`
	BasicSalary  decimal.Decimal `json:"basic_salary"`
	Allowances   decimal.Decimal `json:"allowances"`
	Deductions   decimal.Decimal `json:"deductions"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ── Desvinculación ───────────────────────────────────────────────────────────

// CreateOffboardingRequest inicio de un proceso de salida.
type CreateOffboardingRequest struct {
	EmployeeID     string `json:"employee_id" validate:"required,uuid"`
	Reason         string `json:"reason" validate:"required,max=2000"`
	LastWorkingDay string `json:"last_working_day" validate:"required,datetime=2006-01-02"`
}

// UpdateOffboardingRequest avance del proceso (campos opcionales).
type UpdateOffboardingRequest struct {
	Status             *string `json:"status" validate:"omitempty,oneof=initiated in_progress completed cancelled"`
	Reason             *string `json:"reason" validate:"omitempty,max=2000"`
	LastWorkingDay     *string `json:"last_working_day" validate:"omitempty,datetime=2006-01-02"`
	ExitInterviewNotes *string `json:"exit_interview_notes" validate:"omitempty,max=5000"`
	AssetsReturned     *bool   `json:"assets_returned"`
	ClearanceCompleted *bool   `json:"clearance_completed"`
}

// OffboardingResponse salida de un proceso de salida.
type OffboardingResponse struct {
	ID                 string    `json:"id"`
	EmployeeID         string    `json:"employee_id"`
	Reason             string    `json:"reason"`
	LastWorkingDay     string    `json:"last_working_day"`
	Status             string    `json:"status"`
	ExitInterviewNotes string    `json:"exit_interview_notes,omitempty"`
	AssetsReturned     bool      `json:"assets_returned"`
	ClearanceCompleted bool      `json:"clearance_completed"`
	DocumentURL        string    `json:"document_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ── Acciones disciplinarias ──────────────────────────────────────────────────

// DisciplinaryActionRequest alta o reemplazo de una acción disciplinaria.
type DisciplinaryActionRequest struct {
	EmployeeID  string `json:"employee_id" validate:"required,uuid"`
	ActionType  string `json:"action_type" validate:"required,oneof=verbal_warning written_warning suspension termination"`
	Reason      string `json:"reason" validate:"required,max=2000"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	ActionDate  string `json:"action_date" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status" validate:"omitempty,oneof=open resolved appealed"`
}

// DisciplinaryActionResponse salida de una acción disciplinaria.
type DisciplinaryActionResponse struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employee_id"`
	ActionType  string    `json:"action_type"`
	Reason      string    `json:"reason"`
	Description string    `json:"description,omitempty"`
	ActionDate  string    `json:"action_date"`
	Status      string    `json:"status"`
	IssuedBy    string    `json:"issued_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HRListRequest filtros comunes de los listados de RR.HH.
type HRListRequest struct {
	PageRequest
	EmployeeID string `query:"employee_id" validate:"omitempty,uuid"`
	Status     string `query:"status" validate:"omitempty,max=20"`
}
