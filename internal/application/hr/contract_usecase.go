package hr

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

// ContractUseCase contratos de nómina de los empleados.
type ContractUseCase struct {
	tenantBase
	currency string
}

// NewContractUseCase construye el caso de uso. currency es la moneda por defecto de los contratos.
func NewContractUseCase(stores repository.TenantStores, currency string, log *logger.Logger) *ContractUseCase {
	return &ContractUseCase{tenantBase: newTenantBase(stores, log), currency: currency}
}

// Create registra un contrato para un empleado existente.
func (uc *ContractUseCase) Create(ctx context.Context, companyCode string, in dto.PayrollContractRequest) (*dto.PayrollContractResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	if _, err := findEmployee(ctx, store, in.EmployeeID); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.PayrollContract{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	if err := uc.apply(c, in); err != nil {
		return nil, err
	}
	if err := store.Contracts().Create(ctx, c); err != nil {
		return nil, err
	}
	return toContractResponse(c), nil
}

// GetByID obtiene un contrato.
func (uc *ContractUseCase) GetByID(ctx context.Context, companyCode, id string) (*dto.PayrollContractResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	c, err := findContract(ctx, store, id)
	if err != nil {
		return nil, err
	}
	return toContractResponse(c), nil
}

// List lista contratos, opcionalmente de un empleado.
func (uc *ContractUseCase) List(ctx context.Context, companyCode string, in dto.HRListRequest) ([]dto.PayrollContractResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := store.Contracts().List(ctx, repository.ListOptions{
		EmployeeID: in.EmployeeID, Status: in.Status, Limit: in.Limit, Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(c *entity.PayrollContract, _ int) dto.PayrollContractResponse { return *toContractResponse(c) }), nil
}

// Update reemplaza los datos de un contrato.
func (uc *ContractUseCase) Update(ctx context.Context, companyCode, id string, in dto.PayrollContractRequest) (*dto.PayrollContractResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	c, err := findContract(ctx, store, id)
	if err != nil {
		return nil, err
	}
	if in.EmployeeID != c.EmployeeID {
		if _, err := findEmployee(ctx, store, in.EmployeeID); err != nil {
			return nil, err
		}
	}
	if err := uc.apply(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = uc.now()
	if err := store.Contracts().Update(ctx, c); err != nil {
		return nil, err
	}
	return toContractResponse(c), nil
}

// Delete elimina un contrato.
func (uc *ContractUseCase) Delete(ctx context.Context, companyCode, id string) error {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return err
	}
	return store.Contracts().Delete(ctx, id)
}

func (uc *ContractUseCase) apply(c *entity.PayrollContract, in dto.PayrollContractRequest) error {
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := parseOptionalDate("end_date", in.EndDate)
	if err != nil {
		return err
	}
	fields := domain.FieldErrors{}
	if end != nil && end.Before(start) {
		fields["end_date"] = "gtefield=start_date"
	}
	if in.BasicSalary.IsNegative() {
		fields["basic_salary"] = "min=0"
	}
	if in.Allowances.IsNegative() {
		fields["allowances"] = "min=0"
	}
	if in.Deductions.IsNegative() {
		fields["deductions"] = "min=0"
	}
	if len(fields) > 0 {
		return domain.NewFieldErrors(fields)
	}

	c.EmployeeID = in.EmployeeID
	c.ContractType = in.ContractType
	c.StartDate = start
	c.EndDate = end
	c.BasicSalary = in.BasicSalary
	c.Allowances = in.Allowances
	c.Deductions = in.Deductions
	c.Currency = strings.ToUpper(lo.Ternary(in.Currency != "", in.Currency, uc.currency))
	c.Status = lo.Ternary(in.Status != "", in.Status, entity.ContractStatusActive)
	c.Notes = in.Notes
	return nil
}

func findContract(ctx context.Context, store repository.TenantStore, id string) (*entity.PayrollContract, error) {
	c, err := store.Contracts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewError(domain.ErrNotFound, "contrato no encontrado")
	}
	return c, nil
}

func toContractResponse(c *entity.PayrollContract) *dto.PayrollContractResponse {
	return &dto.PayrollContractResponse{
		ID:           c.ID,
		EmployeeID:   c.EmployeeID,
		ContractType: c.ContractType,
		StartDate:    c.StartDate.Format(dto.DateLayout),
		EndDate:      formatDate(c.EndDate),
		BasicSalary:  c.BasicSalary,
		Allowances:   c.Allowances,
		Deductions:   c.Deductions,
		NetSalary:    c.NetSalary(),
		Currency:     c.Currency,
		Status:       c.Status,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
