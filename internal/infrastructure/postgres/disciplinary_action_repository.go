package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

var _ repository.DisciplinaryActionRepository = (*DisciplinaryActionRepo)(nil)

// DisciplinaryActionRepo acciones disciplinarias en la base de una empresa.
type DisciplinaryActionRepo struct {
	q Querier
}

// NewDisciplinaryActionRepository construye el adaptador.
func NewDisciplinaryActionRepository(q Querier) *DisciplinaryActionRepo {
	return &DisciplinaryActionRepo{q: q}
}

const disciplinaryColumns = `id, employee_id, action_type, reason, description, action_date, status,
	issued_by, created_at, updated_at`

func scanDisciplinary(row pgx.Row) (*entity.DisciplinaryAction, error) {
	var a entity.DisciplinaryAction
	if err := row.Scan(
		&a.ID, &a.EmployeeID, &a.ActionType, &a.Reason, &a.Description, &a.ActionDate, &a.Status,
		&a.IssuedBy, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste una acción disciplinaria.
func (r *DisciplinaryActionRepo) Create(ctx context.Context, a *entity.DisciplinaryAction) error {
	query := `INSERT INTO disciplinary_actions (` + disciplinaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.EmployeeID, a.ActionType, a.Reason, a.Description, a.ActionDate, a.Status,
		a.IssuedBy, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert disciplinary action: %w", err)
	}
	return nil
}

// GetByID obtiene una acción por ID.
func (r *DisciplinaryActionRepo) GetByID(ctx context.Context, id string) (*entity.DisciplinaryAction, error) {
	a, err := scanDisciplinary(r.q.QueryRow(ctx, `SELECT `+disciplinaryColumns+` FROM disciplinary_actions WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get disciplinary action: %w", err)
	}
	return a, nil
}

// List devuelve acciones, filtrables por empleado y estado.
func (r *DisciplinaryActionRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.DisciplinaryAction, error) {
	limit, offset := pageLimit(opts.Limit, opts.Offset)
	query := `SELECT ` + disciplinaryColumns + ` FROM disciplinary_actions
		WHERE ($1 = '' OR employee_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY action_date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, opts.EmployeeID, opts.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list disciplinary actions: %w", err)
	}
	defer rows.Close()

	var list []*entity.DisciplinaryAction
	for rows.Next() {
		a, err := scanDisciplinary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan disciplinary action: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update actualiza una acción.
func (r *DisciplinaryActionRepo) Update(ctx context.Context, a *entity.DisciplinaryAction) error {
	query := `
		UPDATE disciplinary_actions SET action_type = $2, reason = $3, description = $4, action_date = $5,
			status = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.ActionType, a.Reason, a.Description, a.ActionDate, a.Status, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update disciplinary action: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "acción disciplinaria no encontrada")
	}
	return nil
}

// Delete elimina una acción.
func (r *DisciplinaryActionRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM disciplinary_actions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete disciplinary action: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "acción disciplinaria no encontrada")
	}
	return nil
}
