package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL (pool o tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, company_code, name, email, phone, address, status,
	is_email_verified, COALESCE(email_verification_token, ''), payment_completed, is_payment_expired, is_active,
	plan_start_date, plan_end_date, plan_duration_days, created_at, updated_at`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.CompanyCode, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Status,
		&c.IsEmailVerified, &c.EmailVerificationToken, &c.PaymentCompleted, &c.IsPaymentExpired, &c.IsActive,
		&c.PlanStartDate, &c.PlanEndDate, &c.PlanDurationDays, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create persiste una nueva empresa. Un código repetido devuelve domain.ErrCompanyCodeTaken.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, company_code, name, email, phone, address, status,
			is_email_verified, email_verification_token, payment_completed, is_payment_expired, is_active,
			plan_start_date, plan_end_date, plan_duration_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyCode, c.Name, c.Email, c.Phone, c.Address, c.Status,
		c.IsEmailVerified, nullableString(c.EmailVerificationToken), c.PaymentCompleted, c.IsPaymentExpired, c.IsActive,
		c.PlanStartDate, c.PlanEndDate, c.PlanDurationDays, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCompanyCodeTaken
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID con su historial de recordatorios.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByCode obtiene una empresa por su código (ya normalizado).
func (r *CompanyRepo) GetByCode(ctx context.Context, code string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE company_code = $1`, code)
}

// GetByVerificationToken obtiene la empresa dueña del token de verificación.
func (r *CompanyRepo) GetByVerificationToken(ctx context.Context, token string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE email_verification_token = $1`, token)
}

func (r *CompanyRepo) getOne(ctx context.Context, query string, arg string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	logs, err := r.reminders(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.RemindersSent = logs[c.ID]
	return c, nil
}

// Update actualiza los datos y banderas de una empresa existente.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, email = $3, phone = $4, address = $5, status = $6,
			is_email_verified = $7, email_verification_token = $8, payment_completed = $9,
			is_payment_expired = $10, is_active = $11, plan_start_date = $12, plan_end_date = $13,
			plan_duration_days = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.Status,
		c.IsEmailVerified, nullableString(c.EmailVerificationToken), c.PaymentCompleted,
		c.IsPaymentExpired, c.IsActive, c.PlanStartDate, c.PlanEndDate,
		c.PlanDurationDays, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

// MarkPlanExpired actualiza solo las banderas de vencimiento. La condición sobre plan_end_date
// evita pisar una renovación confirmada después de leer los candidatos.
func (r *CompanyRepo) MarkPlanExpired(ctx context.Context, companyID string, now time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE companies SET is_payment_expired = TRUE, is_active = FALSE, status = $3, updated_at = $2
		WHERE id = $1 AND payment_completed AND plan_end_date <= $2 AND NOT is_payment_expired`,
		companyID, now, entity.CompanyStatusExpired,
	)
	if err != nil {
		return false, fmt.Errorf("mark plan expired: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListReminderCandidates empresas pagadas cuyo plan termina dentro de [from, to].
func (r *CompanyRepo) ListReminderCandidates(ctx context.Context, from, to time.Time) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + `
		FROM companies
		WHERE payment_completed AND plan_end_date BETWEEN $1 AND $2
		ORDER BY plan_end_date`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	var ids []string
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	logs, err := r.reminders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		c.RemindersSent = logs[c.ID]
	}
	return list, nil
}

func (r *CompanyRepo) reminders(ctx context.Context, companyIDs []string) (map[string][]entity.ReminderLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT company_id, reminder_type, sent_at
		FROM company_reminders WHERE company_id = ANY($1)
		ORDER BY sent_at`, companyIDs)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.ReminderLog)
	for rows.Next() {
		var companyID string
		var l entity.ReminderLog
		if err := rows.Scan(&companyID, &l.Type, &l.SentAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out[companyID] = append(out[companyID], l)
	}
	return out, rows.Err()
}

// ClaimReminder inserta la reserva del día; el UNIQUE (company_id, reminder_type, sent_on)
// garantiza un único envío por tipo y día aunque corran dos procesos.
func (r *CompanyRepo) ClaimReminder(ctx context.Context, companyID, reminderType string, sentOn, sentAt time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO company_reminders (company_id, reminder_type, sent_on, sent_at)
		VALUES ($1, $2, $3::date, $4)
		ON CONFLICT (company_id, reminder_type, sent_on) DO NOTHING`,
		companyID, reminderType, sentOn.Format(time.DateOnly), sentAt,
	)
	if err != nil {
		return false, fmt.Errorf("claim reminder: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ReleaseReminder borra la reserva del día.
func (r *CompanyRepo) ReleaseReminder(ctx context.Context, companyID, reminderType string, sentOn time.Time) error {
	_, err := r.q.Exec(ctx, `
		DELETE FROM company_reminders
		WHERE company_id = $1 AND reminder_type = $2 AND sent_on = $3::date`,
		companyID, reminderType, sentOn.Format(time.DateOnly),
	)
	if err != nil {
		return fmt.Errorf("release reminder: %w", err)
	}
	return nil
}
