package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

// ErrWebhookSignature firma de webhook inválida.
var ErrWebhookSignature = domain.NewError(domain.ErrUnauthenticated, "firma de webhook inválida")

// Eventos de webhook manejados.
const (
	EventPaymentAuthorized = "payment.authorized"
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventRefundProcessed   = "refund.processed"
)

// TxRunner ejecuta fn en una transacción con repos de pago y empresa.
type TxRunner interface {
	RunPayment(ctx context.Context, fn func(
		paymentRepo repository.PaymentRepository,
		companyRepo repository.CompanyRepository,
	) error) error
}

// Config precio del plan, secretos de firma y destinatario interno.
type Config struct {
	Amount        decimal.Decimal
	Currency      string
	OrderTTL      time.Duration
	KeySecret     string
	WebhookSecret string
	AdminEmail    string
	AppName       string
}

// Deps colaboradores del caso de uso.
type Deps struct {
	Payments  repository.PaymentRepository
	Companies repository.CompanyRepository
	Users     repository.UserRepository
	Tx        TxRunner
	Provider  ports.PaymentProvider
	Mailer    ports.Mailer
	Receipts  ports.ReceiptGenerator
	Log       *logger.Logger
	Now       func() time.Time
}

// UseCase ciclo de vida de los pagos del plan: orden, verificación, webhook.
// Toda transición se aplica con compare-and-set; solo quien la aplica dispara los efectos.
type UseCase struct {
	payments  repository.PaymentRepository
	companies repository.CompanyRepository
	users     repository.UserRepository
	tx        TxRunner
	provider  ports.PaymentProvider
	mailer    ports.Mailer
	receipts  ports.ReceiptGenerator
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps, cfg Config) *UseCase {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	if cfg.OrderTTL <= 0 {
		cfg.OrderTTL = 30 * time.Minute
	}
	return &UseCase{
		payments:  d.Payments,
		companies: d.Companies,
		users:     d.Users,
		tx:        d.Tx,
		provider:  d.Provider,
		mailer:    d.Mailer,
		receipts:  d.Receipts,
		cfg:       cfg,
		log:       d.Log.Component("payment"),
		now:       now,
	}
}

// CreateOrder crea la orden del plan para la empresa del usuario.
func (uc *UseCase) CreateOrder(ctx context.Context, companyCode, userID string) (*dto.CreateOrderResponse, error) {
	company, err := uc.company(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	admin, err := uc.users.FindAdmin(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domain.NewError(domain.ErrValidation, "la empresa no tiene un usuario administrador")
	}

	now := uc.now()
	hasPaid, err := uc.payments.HasPaid(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if hasPaid && !company.IsPaymentExpired && !company.PlanExpiredAt(now) {
		return nil, domain.WithHint(domain.ErrPlanAlreadyPaid, "El plan vigente ya está pagado; podrá renovarlo al vencer")
	}

	orderID := newOrderID(now)
	po, err := uc.provider.CreateOrder(ctx, ports.ProviderOrderRequest{
		Amount:   uc.cfg.Amount,
		Currency: uc.cfg.Currency,
		Receipt:  orderID,
		Notes:    map[string]string{"company_code": company.CompanyCode, "order_id": orderID},
	})
	if err != nil {
		return nil, err
	}

	p := &entity.Payment{
		ID:              uuid.New().String(),
		OrderID:         orderID,
		CompanyID:       company.ID,
		UserID:          lo.Ternary(userID != "", userID, admin.ID),
		ProviderOrderID: po.ID,
		Amount:          uc.cfg.Amount,
		Currency:        uc.cfg.Currency,
		Status:          entity.PaymentStatusCreated,
		ExpiresAt:       now.Add(uc.cfg.OrderTTL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_code", company.CompanyCode).Str("order_id", orderID).
		Str("provider_order_id", po.ID).Msg("orden de pago creada")

	return &dto.CreateOrderResponse{
		OrderID:         orderID,
		ProviderOrderID: po.ID,
		KeyID:           uc.provider.KeyID(),
		Amount:          p.Amount.StringFixed(2),
		AmountMinor:     po.AmountMinor,
		Currency:        p.Currency,
		ExpiresAt:       p.ExpiresAt,
	}, nil
}

// VerifyPayment confirma el pago devuelto por el checkout. Solo llega a paid si la firma
// coincide y la pasarela reporta el pago como capturado; cualquier otro caso lo deja failed.
func (uc *UseCase) VerifyPayment(ctx context.Context, companyCode string, in dto.VerifyPaymentRequest) (*dto.PaymentResponse, error) {
	company, err := uc.company(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	p, err := uc.payments.GetByProviderOrderID(ctx, in.ProviderOrderID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != company.ID {
		return nil, domain.ErrPaymentNotFound
	}
	if p.Status == entity.PaymentStatusPaid {
		return toPaymentResponse(p), nil
	}
	if p.IsSoftExpired(uc.now()) {
		return nil, domain.WithHint(domain.ErrPaymentNotFound, "La orden venció; cree una nueva")
	}

	if !VerifyCheckoutSignature(uc.cfg.KeySecret, p.ProviderOrderID, in.ProviderPaymentID, in.Signature) {
		uc.fail(ctx, p, in.ProviderPaymentID, "signature mismatch")
		return nil, domain.ErrSignatureMismatch
	}

	pp, err := uc.provider.FetchPayment(ctx, in.ProviderPaymentID)
	if err != nil {
		return nil, err
	}
	if pp.OrderID != p.ProviderOrderID {
		uc.fail(ctx, p, in.ProviderPaymentID, "el pago pertenece a otra orden: "+pp.OrderID)
		return nil, domain.ErrPaymentNotCaptured
	}
	if pp.Status != ports.ProviderPaymentCaptured {
		uc.fail(ctx, p, in.ProviderPaymentID, "estado en pasarela: "+pp.Status)
		return nil, domain.ErrPaymentNotCaptured
	}

	if _, err := uc.markPaid(ctx, p, in.ProviderPaymentID, in.Signature); err != nil {
		return nil, err
	}
	return uc.reload(ctx, p)
}

// HandleWebhook procesa un evento de la pasarela. Eventos u órdenes desconocidas no son error
// para que la pasarela no reintente.
func (uc *UseCase) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !VerifyWebhookSignature(uc.cfg.WebhookSecret, body, signature) {
		uc.log.Warn().Int("body_len", len(body)).Msg("webhook con firma inválida")
		return ErrWebhookSignature
	}

	var ev dto.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return domain.Wrap(err, domain.ErrValidation, "cuerpo de webhook inválido")
	}
	if ev.Payload.Payment == nil {
		uc.log.Debug().Str("event", ev.Event).Msg("webhook sin entidad de pago, ignorado")
		return nil
	}
	entityPay := ev.Payload.Payment.Entity
	if entityPay.OrderID == "" {
		uc.log.Debug().Str("event", ev.Event).Msg("webhook sin order_id, ignorado")
		return nil
	}

	p, err := uc.payments.GetByProviderOrderID(ctx, entityPay.OrderID)
	if err != nil {
		return err
	}
	if p == nil {
		uc.log.Warn().Str("event", ev.Event).Str("provider_order_id", entityPay.OrderID).Msg("webhook para orden desconocida")
		return nil
	}

	now := uc.now()
	if err := uc.payments.AppendWebhookEvent(ctx, p.ID, entity.WebhookEvent{
		Event:      ev.Event,
		ReceivedAt: now,
		Payload:    json.RawMessage(body),
	}); err != nil {
		return err
	}

	log := uc.log.With().Str("event", ev.Event).Str("order_id", p.OrderID).Logger()
	switch ev.Event {
	case EventPaymentAuthorized:
		upd := *p
		upd.Status = entity.PaymentStatusPending
		upd.ProviderPaymentID = entityPay.ID
		upd.UpdatedAt = now
		if _, err := uc.payments.UpdateStatus(ctx, &upd, entity.TransitionSources(entity.PaymentStatusPending)); err != nil {
			return err
		}
	case EventPaymentCaptured:
		applied, err := uc.markPaid(ctx, p, entityPay.ID, "")
		if domain.Is(err, domain.ErrInvalidTransition) {
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().Bool("applied", applied).Msg("captura recibida por webhook")
	case EventPaymentFailed:
		reason := strings.TrimSpace(entityPay.ErrorCode + " " + entityPay.ErrorDescription)
		uc.fail(ctx, p, entityPay.ID, lo.Ternary(reason != "", reason, "payment.failed"))
	case EventRefundProcessed:
		upd := *p
		upd.Status = entity.PaymentStatusRefunded
		upd.UpdatedAt = now
		applied, err := uc.payments.UpdateStatus(ctx, &upd, entity.TransitionSources(entity.PaymentStatusRefunded))
		if err != nil {
			return err
		}
		log.Info().Bool("applied", applied).Msg("reembolso registrado")
	default:
		log.Debug().Msg("evento de webhook no manejado")
	}
	return nil
}

// Get devuelve un pago de la empresa por su order_id. Las órdenes vencidas no se muestran.
func (uc *UseCase) Get(ctx context.Context, companyCode, orderID string) (*dto.PaymentResponse, error) {
	_, p, err := uc.owned(ctx, companyCode, orderID)
	if err != nil {
		return nil, err
	}
	if p.IsSoftExpired(uc.now()) {
		return nil, domain.ErrPaymentNotFound
	}
	return toPaymentResponse(p), nil
}

// List lista los pagos de la empresa.
func (uc *UseCase) List(ctx context.Context, companyCode string, in dto.PaymentListRequest) (*dto.PaymentListResponse, error) {
	company, err := uc.company(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.payments.List(ctx, repository.PaymentFilter{
		CompanyID:      company.ID,
		Status:         entity.PaymentStatus(in.Status),
		IncludeExpired: in.IncludeExpired,
		Now:            uc.now(),
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.PaymentListResponse{
		Items: lo.Map(list, func(p *entity.Payment, _ int) dto.PaymentResponse { return *toPaymentResponse(p) }),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Cancel cancela una orden created o pending.
func (uc *UseCase) Cancel(ctx context.Context, companyCode, orderID string) (*dto.PaymentResponse, error) {
	_, p, err := uc.owned(ctx, companyCode, orderID)
	if err != nil {
		return nil, err
	}
	if !p.CanTransitionTo(entity.PaymentStatusCancelled) {
		return nil, domain.WithHint(domain.ErrInvalidTransition, "Solo se pueden cancelar órdenes sin pagar")
	}
	upd := *p
	upd.Status = entity.PaymentStatusCancelled
	upd.UpdatedAt = uc.now()
	applied, err := uc.payments.UpdateStatus(ctx, &upd, entity.TransitionSources(entity.PaymentStatusCancelled))
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.ErrInvalidTransition
	}
	return toPaymentResponse(&upd), nil
}

// Receipt genera el comprobante PDF de un pago completado.
func (uc *UseCase) Receipt(ctx context.Context, companyCode, orderID string) ([]byte, error) {
	company, p, err := uc.owned(ctx, companyCode, orderID)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.PaymentStatusPaid || p.PaidAt == nil {
		return nil, domain.NewError(domain.ErrConflict, "el pago no está completado")
	}
	return uc.receipts.PaymentReceipt(ports.ReceiptData{
		CompanyName:       company.Name,
		CompanyCode:       company.CompanyCode,
		CompanyEmail:      company.Email,
		OrderID:           p.OrderID,
		ProviderOrderID:   p.ProviderOrderID,
		ProviderPaymentID: p.ProviderPaymentID,
		Amount:            p.Amount,
		Currency:          p.Currency,
		PaidAt:            *p.PaidAt,
		PlanStart:         company.PlanStartDate,
		PlanEnd:           company.PlanEndDate,
	})
}

// markPaid aplica la transición a paid y activa el plan en la misma transacción.
// Devuelve false si otro camino (verify o webhook) ya la aplicó, y ErrInvalidTransition
// si el pago quedó en un estado desde el que no se puede cobrar (p. ej. refunded).
func (uc *UseCase) markPaid(ctx context.Context, p *entity.Payment, providerPaymentID, signature string) (bool, error) {
	now := uc.now()
	var applied bool
	var company *entity.Company
	upd := *p
	upd.MarkAsPaid(providerPaymentID, signature, now)

	err := uc.tx.RunPayment(ctx, func(payments repository.PaymentRepository, companies repository.CompanyRepository) error {
		ok, err := payments.UpdateStatus(ctx, &upd, entity.TransitionSources(entity.PaymentStatusPaid))
		if err != nil || !ok {
			return err
		}
		c, err := companies.GetByID(ctx, p.CompanyID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrCompanyNotFound
		}
		c.ActivatePlan(now)
		if err := companies.Update(ctx, c); err != nil {
			return err
		}
		applied, company = true, c
		return nil
	})
	if err != nil {
		return false, err
	}
	if !applied {
		fresh, err := uc.payments.GetByOrderID(ctx, p.OrderID)
		if err != nil {
			return false, err
		}
		if fresh != nil && fresh.Status == entity.PaymentStatusPaid {
			return false, nil
		}
		status := p.Status
		if fresh != nil {
			status = fresh.Status
		}
		uc.log.Error().Str("order_id", p.OrderID).Str("status", string(status)).
			Str("provider_payment_id", providerPaymentID).Msg("captura sobre una orden no cobrable")
		return false, domain.WithHint(domain.ErrInvalidTransition, "La orden no admite el cobro; contacte a soporte")
	}

	*p = upd
	uc.log.Info().Str("company_code", company.CompanyCode).Str("order_id", p.OrderID).
		Time("plan_end_date", *company.PlanEndDate).Msg("pago confirmado, plan activado")
	uc.notifyPaid(ctx, company, p)
	return true, nil
}

// fail registra el fallo en el pago para auditoría. No devuelve error: el llamador ya responde con uno.
func (uc *UseCase) fail(ctx context.Context, p *entity.Payment, providerPaymentID, reason string) {
	upd := *p
	upd.MarkAsFailed(providerPaymentID, reason, uc.now())
	applied, err := uc.payments.UpdateStatus(ctx, &upd, entity.TransitionSources(entity.PaymentStatusFailed))
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", p.OrderID).Msg("no se pudo marcar el pago como fallido")
		return
	}
	if applied {
		*p = upd
	}
	uc.log.Warn().Str("order_id", p.OrderID).Str("reason", reason).Bool("applied", applied).Msg("pago fallido")
}

// notifyPaid envía confirmación a la empresa y aviso interno. Los errores solo se registran.
func (uc *UseCase) notifyPaid(ctx context.Context, c *entity.Company, p *entity.Payment) {
	end := ""
	if c.PlanEndDate != nil {
		end = c.PlanEndDate.Format("02/01/2006")
	}
	msgs := []ports.Email{{
		To:      []string{c.Email},
		Subject: fmt.Sprintf("%s: pago confirmado", uc.cfg.AppName),
		Text: fmt.Sprintf("Hola %s,\n\nRecibimos su pago de %s %s (orden %s). Su plan está activo hasta el %s.\n\nGracias.",
			c.Name, p.Currency, p.Amount.StringFixed(2), p.OrderID, end),
	}}
	if uc.cfg.AdminEmail != "" {
		msgs = append(msgs, ports.Email{
			To:      []string{uc.cfg.AdminEmail},
			Subject: fmt.Sprintf("Nuevo pago: %s (%s)", c.Name, c.CompanyCode),
			Text: fmt.Sprintf("Empresa: %s\nCódigo: %s\nOrden: %s\nPago: %s\nMonto: %s %s\nPlan hasta: %s",
				c.Name, c.CompanyCode, p.OrderID, p.ProviderPaymentID, p.Currency, p.Amount.StringFixed(2), end),
		})
	}
	for _, m := range msgs {
		if err := uc.mailer.Send(ctx, m); err != nil {
			uc.log.Error().Err(err).Strs("to", m.To).Str("order_id", p.OrderID).Msg("no se pudo enviar el correo de pago")
		}
	}
}

func (uc *UseCase) company(ctx context.Context, code string) (*entity.Company, error) {
	c, err := uc.companies.GetByCode(ctx, entity.NormalizeCompanyCode(code))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return c, nil
}

func (uc *UseCase) owned(ctx context.Context, companyCode, orderID string) (*entity.Company, *entity.Payment, error) {
	company, err := uc.company(ctx, companyCode)
	if err != nil {
		return nil, nil, err
	}
	p, err := uc.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil || p.CompanyID != company.ID {
		return nil, nil, domain.ErrPaymentNotFound
	}
	return company, p, nil
}

func (uc *UseCase) reload(ctx context.Context, p *entity.Payment) (*dto.PaymentResponse, error) {
	fresh, err := uc.payments.GetByOrderID(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, domain.ErrPaymentNotFound
	}
	return toPaymentResponse(fresh), nil
}

// newOrderID ORD-<yyyymmddhhmmss>-<8 hex>.
func newOrderID(now time.Time) string {
	return "ORD-" + now.UTC().Format("20060102150405") + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:                p.ID,
		OrderID:           p.OrderID,
		ProviderOrderID:   p.ProviderOrderID,
		ProviderPaymentID: p.ProviderPaymentID,
		Amount:            p.Amount.StringFixed(2),
		Currency:          p.Currency,
		Status:            string(p.Status),
		FailureReason:     p.FailureReason,
		PaidAt:            p.PaidAt,
		ExpiresAt:         p.ExpiresAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
