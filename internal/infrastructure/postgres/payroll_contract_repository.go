package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

var _ repository.PayrollContractRepository = (*PayrollContractRepo)(nil)

// PayrollContractRepo contratos de nómina en la base de una empresa.
type PayrollContractRepo struct {
	q Querier
}

// NewPayrollContractRepository construye el adaptador.
func NewPayrollContractRepository(q Querier) *PayrollContractRepo {
	return &PayrollContractRepo{q: q}
}

const contractColumns = `id, employee_id, contract_type, start_date, end_date, basic_salary, allowances,
	deductions, currency, status, notes, created_at, updated_at`

func scanContract(row pgx.Row) (*entity.PayrollContract, error) {
	var c entity.PayrollContract
	if err := row.Scan(
		&c.ID, &c.EmployeeID, &c.ContractType, &c.StartDate, &c.EndDate, &c.BasicSalary, &c.Allowances,
		&c.Deductions, &c.Currency, &c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un contrato.
func (r *PayrollContractRepo) Create(ctx context.Context, c *entity.PayrollContract) error {
	query := `INSERT INTO payroll_contracts (` + contractColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.EmployeeID, c.ContractType, c.StartDate, c.EndDate, c.BasicSalary, c.Allowances,
		c.Deductions, c.Currency, c.Status, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payroll contract: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato por ID.
func (r *PayrollContractRepo) GetByID(ctx context.Context, id string) (*entity.PayrollContract, error) {
	c, err := scanContract(r.q.QueryRow(ctx, `SELECT `+contractColumns+` FROM payroll_contracts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payroll contract: %w", err)
	}
	return c, nil
}

// List devuelve contratos, opcionalmente de un empleado y estado.
func (r *PayrollContractRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.PayrollContract, error) {
	limit, offset := pageLimit(opts.Limit, opts.Offset)
	query := `SELECT ` + contractColumns + ` FROM payroll_contracts
		WHERE ($1 = '' OR employee_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY start_date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, opts.EmployeeID, opts.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list payroll contracts: %w", err)
	}
	defer rows.Close()

	var list []*entity.PayrollContract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payroll contract: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un contrato.
func (r *PayrollContractRepo) Update(ctx context.Context, c *entity.PayrollContract) error {
	query := `
		UPDATE payroll_contracts SET contract_type = $2, start_date = $3, end_date = $4, basic_salary = $5,
			allowances = $6, deductions = $7, currency = $8, status = $9, notes = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.ContractType, c.StartDate, c.EndDate, c.BasicSalary,
		c.Allowances, c.Deductions, c.Currency, c.Status, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payroll contract: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "contrato no encontrado")
	}
	return nil
}

// Delete elimina un contrato.
func (r *PayrollContractRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM payroll_contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payroll contract: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "contrato no encontrado")
	}
	return nil
}
