package repository

import (
	"context"
	"time"

	"github.com/jhoicas/hrms-api/internal/domain/entity"
)

// PaymentFilter filtros de consulta. Sin IncludeExpired se aplica el vencimiento lógico:
// las órdenes created/pending con expires_at < Now no se devuelven.
type PaymentFilter struct {
	CompanyID      string
	Status         entity.PaymentStatus
	IncludeExpired bool
	Now            time.Time
	Limit          int
	Offset         int
}

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.Payment, error)
	GetByProviderOrderID(ctx context.Context, providerOrderID string) (*entity.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]*entity.Payment, error)
	// HasPaid informa si la empresa tiene algún pago en estado paid.
	HasPaid(ctx context.Context, companyID string) (bool, error)

	// UpdateStatus persiste estado y datos del proveedor solo si el estado actual está en from
	// (compare-and-set). Devuelve false si otro proceso ya movió el pago.
	UpdateStatus(ctx context.Context, p *entity.Payment, from []entity.PaymentStatus) (bool, error)

	// AppendWebhookEvent agrega el evento crudo al log del pago.
	AppendWebhookEvent(ctx context.Context, paymentID string, ev entity.WebhookEvent) error
}
