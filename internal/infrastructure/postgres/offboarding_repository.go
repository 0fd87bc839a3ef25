package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

var _ repository.OffboardingRepository = (*OffboardingRepo)(nil)

// OffboardingRepo procesos de desvinculación en la base de una empresa.
type OffboardingRepo struct {
	q Querier
}

// NewOffboardingRepository construye el adaptador.
func NewOffboardingRepository(q Querier) *OffboardingRepo {
	return &OffboardingRepo{q: q}
}

const offboardingColumns = `id, employee_id, reason, last_working_day, status, exit_interview_notes,
	assets_returned, clearance_completed, document_url, document_key, created_at, updated_at`

func scanOffboarding(row pgx.Row) (*entity.Offboarding, error) {
	var o entity.Offboarding
	if err := row.Scan(
		&o.ID, &o.EmployeeID, &o.Reason, &o.LastWorkingDay, &o.Status, &o.ExitInterviewNotes,
		&o.AssetsReturned, &o.ClearanceCompleted, &o.DocumentURL, &o.DocumentKey, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste un proceso de desvinculación.
func (r *OffboardingRepo) Create(ctx context.Context, o *entity.Offboarding) error {
	query := `INSERT INTO offboardings (` + offboardingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.EmployeeID, o.Reason, o.LastWorkingDay, o.Status, o.ExitInterviewNotes,
		o.AssetsReturned, o.ClearanceCompleted, o.DocumentURL, o.DocumentKey, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert offboarding: %w", err)
	}
	return nil
}

// GetByID obtiene un proceso por ID.
func (r *OffboardingRepo) GetByID(ctx context.Context, id string) (*entity.Offboarding, error) {
	o, err := scanOffboarding(r.q.QueryRow(ctx, `SELECT `+offboardingColumns+` FROM offboardings WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offboarding: %w", err)
	}
	return o, nil
}

// List devuelve procesos, opcionalmente de un empleado y estado.
func (r *OffboardingRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.Offboarding, error) {
	limit, offset := pageLimit(opts.Limit, opts.Offset)
	query := `SELECT ` + offboardingColumns + ` FROM offboardings
		WHERE ($1 = '' OR employee_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, opts.EmployeeID, opts.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list offboardings: %w", err)
	}
	defer rows.Close()

	var list []*entity.Offboarding
	for rows.Next() {
		o, err := scanOffboarding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offboarding: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Update actualiza un proceso.
func (r *OffboardingRepo) Update(ctx context.Context, o *entity.Offboarding) error {
	query := `
		UPDATE offboardings SET reason = $2, last_working_day = $3, status = $4, exit_interview_notes = $5,
			assets_returned = $6, clearance_completed = $7, document_url = $8, document_key = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.Reason, o.LastWorkingDay, o.Status, o.ExitInterviewNotes,
		o.AssetsReturned, o.ClearanceCompleted, o.DocumentURL, o.DocumentKey, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update offboarding: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, "proceso de desvinculación no encontrado")
	}
	return nil
}
