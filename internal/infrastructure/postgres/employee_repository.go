package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo empleados en la base de una empresa.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador. Pasar pool o tx de la empresa.
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

const employeeColumns = `id, employee_code, first_name, last_name, email, phone, department, designation,
	date_of_joining, status, image_url, image_key, created_at, updated_at`

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	if err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Department, &e.Designation,
		&e.DateOfJoining, &e.Status, &e.ImageURL, &e.ImageKey, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create persiste un empleado. Código o email repetidos devuelven un conflicto.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	query := `INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.EmployeeCode, e.FirstName, e.LastName, e.Email, e.Phone, e.Department, e.Designation,
		e.DateOfJoining, e.Status, e.ImageURL, e.ImageKey, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Newf(domain.ErrConflict, "empleado duplicado (%s)", uniqueConstraint(err))
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID obtiene un empleado por ID.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	e, err := scanEmployee(r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// List devuelve empleados filtrando opcionalmente por estado.
func (r *EmployeeRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.Employee, error) {
	limit, offset := pageLimit(opts.Limit, opts.Offset)
	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE ($1 = '' OR status = $1)
		ORDER BY first_name, last_name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, opts.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update actualiza un empleado existente.
func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	query := `
		UPDATE employees SET employee_code = $2, first_name = $3, last_name = $4, email = $5, phone = $6,
			department = $7, designation = $8, date_of_joining = $9, status = $10, image_url = $11,
			image_key = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		e.ID, e.EmployeeCode, e.FirstName, e.LastName, e.Email, e.Phone,
		e.Department, e.Designation, e.DateOfJoining, e.Status, e.ImageURL,
		e.ImageKey, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Newf(domain.ErrConflict, "empleado duplicado (%s)", uniqueConstraint(err))
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "empleado no encontrado")
	}
	return nil
}

// Delete elimina un empleado (y en cascada sus contratos y procesos).
func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "empleado no encontrado")
	}
	return nil
}
