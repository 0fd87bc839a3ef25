package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, order_id, company_id, user_id, provider_order_id, provider_payment_id,
	provider_signature, amount, currency, status, failure_reason, webhook_events, paid_at, expires_at,
	created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	var status string
	var events []byte
	if err := row.Scan(
		&p.ID, &p.OrderID, &p.CompanyID, &p.UserID, &p.ProviderOrderID, &p.ProviderPaymentID,
		&p.ProviderSignature, &p.Amount, &p.Currency, &status, &p.FailureReason, &events, &p.PaidAt, &p.ExpiresAt,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Status = entity.PaymentStatus(status)
	if len(events) > 0 {
		if err := json.Unmarshal(events, &p.WebhookEvents); err != nil {
			return nil, fmt.Errorf("decode webhook_events: %w", err)
		}
	}
	return &p, nil
}

// Create persiste un nuevo intento de pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, company_id, user_id, provider_order_id, provider_payment_id,
			provider_signature, amount, currency, status, failure_reason, paid_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrderID, p.CompanyID, p.UserID, p.ProviderOrderID, p.ProviderPaymentID,
		p.ProviderSignature, p.Amount, p.Currency, string(p.Status), p.FailureReason, p.PaidAt, p.ExpiresAt,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByOrderID obtiene un pago por su order_id interno (sin filtro de vencimiento).
func (r *PaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)
}

// GetByProviderOrderID obtiene un pago por el id de orden del proveedor (sin filtro de vencimiento).
func (r *PaymentRepo) GetByProviderOrderID(ctx context.Context, providerOrderID string) (*entity.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE provider_order_id = $1`, providerOrderID)
}

func (r *PaymentRepo) getOne(ctx context.Context, query, arg string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List devuelve los pagos de una empresa, más recientes primero.
func (r *PaymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]*entity.Payment, error) {
	limit, offset := pageLimit(f.Limit, f.Offset)
	conds := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if !f.IncludeExpired {
		args = append(args, f.Now)
		conds = append(conds, fmt.Sprintf("NOT (status IN ('created', 'pending') AND expires_at < $%d)", len(args)))
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, strings.Join(conds, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// HasPaid informa si existe un pago paid para la empresa.
func (r *PaymentRepo) HasPaid(ctx context.Context, companyID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE company_id = $1 AND status = 'paid')`, companyID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has paid payment: %w", err)
	}
	return exists, nil
}

// UpdateStatus compare-and-set: solo escribe si el estado actual está en from.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, p *entity.Payment, from []entity.PaymentStatus) (bool, error) {
	query := `
		UPDATE payments SET status = $2, provider_payment_id = $3, provider_signature = $4,
			failure_reason = $5, paid_at = $6, updated_at = $7
		WHERE id = $1 AND status = ANY($8)`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, string(p.Status), p.ProviderPaymentID, p.ProviderSignature,
		p.FailureReason, p.PaidAt, p.UpdatedAt,
		lo.Map(from, func(s entity.PaymentStatus, _ int) string { return string(s) }),
	)
	if err != nil {
		return false, fmt.Errorf("update payment status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// AppendWebhookEvent concatena el evento al arreglo JSONB del pago.
func (r *PaymentRepo) AppendWebhookEvent(ctx context.Context, paymentID string, ev entity.WebhookEvent) error {
	raw, err := json.Marshal([]entity.WebhookEvent{ev})
	if err != nil {
		return fmt.Errorf("encode webhook event: %w", err)
	}
	_, err = r.q.Exec(ctx,
		`UPDATE payments SET webhook_events = webhook_events || $2::jsonb WHERE id = $1`,
		paymentID, string(raw),
	)
	if err != nil {
		return fmt.Errorf("append webhook event: %w", err)
	}
	return nil
}
