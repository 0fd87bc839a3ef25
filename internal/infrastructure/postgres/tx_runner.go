package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/hrms-api/internal/application/auth"
	"github.com/jhoicas/hrms-api/internal/application/payment"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

// Ensure TxRunner implements auth.RegistrationTxRunner and payment.TxRunner.
var _ auth.RegistrationTxRunner = (*TxRunner)(nil)
var _ payment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción sobre la base de control.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRegistration ejecuta fn con repos de empresa y usuario atados a la tx (alta de empresa + admin).
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewUserRepository(tx))
	})
}

// RunPayment ejecuta fn con repos de pago y empresa atados a la tx (transición a paid + activación del plan).
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	paymentRepo repository.PaymentRepository,
	companyRepo repository.CompanyRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewPaymentRepository(tx), NewCompanyRepository(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
