package payment_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/payment"
	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

const (
	keySecret     = "key_secret"
	webhookSecret = "wh_secret"
)

// --- fakes ---

type memPayments struct {
	mu     sync.Mutex
	byID   map[string]*entity.Payment
	events map[string][]entity.WebhookEvent
}

func newMemPayments() *memPayments {
	return &memPayments{byID: map[string]*entity.Payment{}, events: map[string][]entity.WebhookEvent{}}
}

func (m *memPayments) Create(_ context.Context, p *entity.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPayments) find(match func(*entity.Payment) bool) *entity.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if match(p) {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (m *memPayments) GetByOrderID(_ context.Context, orderID string) (*entity.Payment, error) {
	return m.find(func(p *entity.Payment) bool { return p.OrderID == orderID }), nil
}

func (m *memPayments) GetByProviderOrderID(_ context.Context, id string) (*entity.Payment, error) {
	return m.find(func(p *entity.Payment) bool { return p.ProviderOrderID == id }), nil
}

func (m *memPayments) List(_ context.Context, f repository.PaymentFilter) ([]*entity.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Payment
	for _, p := range m.byID {
		if p.CompanyID != f.CompanyID || (f.Status != "" && p.Status != f.Status) {
			continue
		}
		if !f.IncludeExpired && p.IsSoftExpired(f.Now) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPayments) HasPaid(_ context.Context, companyID string) (bool, error) {
	return m.find(func(p *entity.Payment) bool {
		return p.CompanyID == companyID && p.Status == entity.PaymentStatusPaid
	}) != nil, nil
}

func (m *memPayments) UpdateStatus(_ context.Context, p *entity.Payment, from []entity.PaymentStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[p.ID]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if cur.Status == s {
			cp := *p
			m.byID[p.ID] = &cp
			return true, nil
		}
	}
	return false, nil
}

func (m *memPayments) AppendWebhookEvent(_ context.Context, id string, ev entity.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[id] = append(m.events[id], ev)
	return nil
}

func (m *memPayments) eventsFor(orderID string) []entity.WebhookEvent {
	p, _ := m.GetByOrderID(context.Background(), orderID)
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.WebhookEvent(nil), m.events[p.ID]...)
}

func (m *memPayments) status(orderID string) entity.PaymentStatus {
	p, _ := m.GetByOrderID(context.Background(), orderID)
	return p.Status
}

type memCompanies struct {
	repository.CompanyRepository
	mu   sync.Mutex
	byID map[string]*entity.Company
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCompanies) GetByCode(_ context.Context, code string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.CompanyCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCompanies) Update(_ context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

type memUsers struct {
	repository.UserRepository
	admin *entity.User
}

func (m *memUsers) FindAdmin(_ context.Context, companyID string) (*entity.User, error) {
	if m.admin != nil && m.admin.CompanyID == companyID {
		return m.admin, nil
	}
	return nil, nil
}

type directTx struct {
	payments  repository.PaymentRepository
	companies repository.CompanyRepository
}

func (d directTx) RunPayment(_ context.Context, fn func(repository.PaymentRepository, repository.CompanyRepository) error) error {
	return fn(d.payments, d.companies)
}

type fakeProvider struct {
	payments map[string]*ports.ProviderPayment
	orders   int
	fetchErr error
}

func (f *fakeProvider) CreateOrder(_ context.Context, req ports.ProviderOrderRequest) (*ports.ProviderOrder, error) {
	f.orders++
	return &ports.ProviderOrder{
		ID:          fmt.Sprintf("order_%d", f.orders),
		AmountMinor: req.Amount.Shift(2).IntPart(),
		Currency:    req.Currency,
		Status:      "created",
	}, nil
}

func (f *fakeProvider) FetchPayment(_ context.Context, id string) (*ports.ProviderPayment, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if p, ok := f.payments[id]; ok {
		return p, nil
	}
	return nil, domain.NewError(domain.ErrNotFound, "pago inexistente en la pasarela")
}

func (f *fakeProvider) KeyID() string { return "rzp_test_key" }

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.Email
}

func (r *recordingMailer) Send(_ context.Context, m ports.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, m)
	return nil
}

func (r *recordingMailer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type stubReceipts struct{}

func (stubReceipts) PaymentReceipt(d ports.ReceiptData) ([]byte, error) {
	return []byte("%PDF-" + d.OrderID), nil
}

// --- fixture ---

type fixture struct {
	uc        *payment.UseCase
	payments  *memPayments
	companies *memCompanies
	provider  *fakeProvider
	mailer    *recordingMailer
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := &fixture{
		payments: newMemPayments(),
		companies: &memCompanies{byID: map[string]*entity.Company{
			"c1": {ID: "c1", CompanyCode: "ACME01", Name: "Acme", Email: "ops@acme.test", IsEmailVerified: true},
		}},
		provider: &fakeProvider{payments: map[string]*ports.ProviderPayment{}},
		mailer:   &recordingMailer{},
		now:      now,
	}
	f.uc = payment.NewUseCase(payment.Deps{
		Payments:  f.payments,
		Companies: f.companies,
		Users:     &memUsers{admin: &entity.User{ID: "u1", CompanyID: "c1", Role: entity.RoleAdmin}},
		Tx:        directTx{payments: f.payments, companies: f.companies},
		Provider:  f.provider,
		Mailer:    f.mailer,
		Receipts:  stubReceipts{},
		Log:       logger.Nop(),
		Now:       func() time.Time { return f.now },
	}, payment.Config{
		Amount:        decimal.RequireFromString("4999.00"),
		Currency:      "INR",
		OrderTTL:      30 * time.Minute,
		KeySecret:     keySecret,
		WebhookSecret: webhookSecret,
		AdminEmail:    "billing@hrms.test",
		AppName:       "HRMS",
	})
	return f
}

func (f *fixture) order(t *testing.T) *dto.CreateOrderResponse {
	t.Helper()
	out, err := f.uc.CreateOrder(context.Background(), "acme01", "u1")
	require.NoError(t, err)
	return out
}

func (f *fixture) captured(orderID, paymentID string) {
	f.provider.payments[paymentID] = &ports.ProviderPayment{ID: paymentID, OrderID: orderID, Status: ports.ProviderPaymentCaptured}
}

func webhookBody(event, orderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(`{"event":%q,"payload":{"payment":{"entity":{"id":%q,"order_id":%q,"status":"captured"}}}}`,
		event, paymentID, orderID))
}

// --- tests ---

func TestCreateOrder_PersisteOrdenCreated(t *testing.T) {
	f := newFixture(t)

	out := f.order(t)

	assert.Equal(t, "order_1", out.ProviderOrderID)
	assert.Equal(t, int64(499900), out.AmountMinor)
	assert.Equal(t, "4999.00", out.Amount)
	assert.Equal(t, "rzp_test_key", out.KeyID)
	assert.Equal(t, f.now.Add(30*time.Minute), out.ExpiresAt)
	assert.Equal(t, entity.PaymentStatusCreated, f.payments.status(out.OrderID))
}

func TestCreateOrder_EmpresaInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), "NOPE99", "u1")

	assert.True(t, domain.Is(err, domain.ErrNotFound))
}

func TestVerifyPayment_FirmaFalsificadaMarcaFailed(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	f.captured(out.ProviderOrderID, "pay_1")

	_, err := f.uc.VerifyPayment(context.Background(), "ACME01", dto.VerifyPaymentRequest{
		ProviderOrderID:   out.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.CheckoutSignature("otro_secreto", out.ProviderOrderID, "pay_1"),
	})

	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.ErrSignatureMismatch))
	assert.Equal(t, entity.PaymentStatusFailed, f.payments.status(out.OrderID))
	c, _ := f.companies.GetByID(context.Background(), "c1")
	assert.False(t, c.PaymentCompleted)
	assert.Nil(t, c.PlanEndDate)
	assert.Zero(t, f.mailer.count())
}

func TestVerifyPayment_NoCapturadoMarcaFailed(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	f.provider.payments["pay_1"] = &ports.ProviderPayment{ID: "pay_1", OrderID: out.ProviderOrderID, Status: "authorized"}

	_, err := f.uc.VerifyPayment(context.Background(), "ACME01", dto.VerifyPaymentRequest{
		ProviderOrderID:   out.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.CheckoutSignature(keySecret, out.ProviderOrderID, "pay_1"),
	})

	assert.True(t, domain.Is(err, domain.ErrPaymentNotCaptured))
	assert.Equal(t, entity.PaymentStatusFailed, f.payments.status(out.OrderID))
}

func TestVerifyPayment_ErrorDeLaPasarelaNoMarcaFailed(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	f.provider.fetchErr = domain.NewError(domain.ErrInternal, "timeout")

	_, err := f.uc.VerifyPayment(context.Background(), "ACME01", dto.VerifyPaymentRequest{
		ProviderOrderID:   out.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.CheckoutSignature(keySecret, out.ProviderOrderID, "pay_1"),
	})

	require.Error(t, err)
	assert.Equal(t, entity.PaymentStatusCreated, f.payments.status(out.OrderID))
}

func TestVerifyPayment_ExitoActivaPlan365Dias(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	f.captured(out.ProviderOrderID, "pay_1")

	res, err := f.uc.VerifyPayment(context.Background(), "ACME01", dto.VerifyPaymentRequest{
		ProviderOrderID:   out.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.CheckoutSignature(keySecret, out.ProviderOrderID, "pay_1"),
	})

	require.NoError(t, err)
	assert.Equal(t, "paid", res.Status)
	assert.Equal(t, "pay_1", res.ProviderPaymentID)
	c, _ := f.companies.GetByID(context.Background(), "c1")
	assert.True(t, c.PaymentCompleted)
	assert.True(t, c.IsActive)
	assert.False(t, c.IsPaymentExpired)
	assert.Equal(t, f.now.AddDate(0, 0, 365), *c.PlanEndDate)
	assert.Equal(t, 2, f.mailer.count(), "confirmación a la empresa y aviso interno")
}

func TestVerifyPayment_OrdenVencidaNoSeVerifica(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	f.captured(out.ProviderOrderID, "pay_1")
	f.now = f.now.Add(31 * time.Minute)

	_, err := f.uc.VerifyPayment(context.Background(), "ACME01", dto.VerifyPaymentRequest{
		ProviderOrderID:   out.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.CheckoutSignature(keySecret, out.ProviderOrderID, "pay_1"),
	})

	assert.True(t, domain.Is(err, domain.ErrNotFound))
}

func TestWebhook_IdempotenteConVerify(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	f.captured(out.ProviderOrderID, "pay_1")
	body := webhookBody(payment.EventPaymentCaptured, out.ProviderOrderID, "pay_1")

	_, err := f.uc.VerifyPayment(context.Background(), "ACME01", dto.VerifyPaymentRequest{
		ProviderOrderID:   out.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.CheckoutSignature(keySecret, out.ProviderOrderID, "pay_1"),
	})
	require.NoError(t, err)
	c1, _ := f.companies.GetByID(context.Background(), "c1")

	f.now = f.now.Add(time.Minute)
	require.NoError(t, f.uc.HandleWebhook(context.Background(), body, payment.WebhookSignature(webhookSecret, body)))
	require.NoError(t, f.uc.HandleWebhook(context.Background(), body, payment.WebhookSignature(webhookSecret, body)))

	c2, _ := f.companies.GetByID(context.Background(), "c1")
	assert.Equal(t, *c1.PlanEndDate, *c2.PlanEndDate, "la ventana del plan no se recalcula")
	assert.Equal(t, 2, f.mailer.count(), "los correos se envían una sola vez")
	assert.Len(t, f.payments.eventsFor(out.OrderID), 2)
}

func TestWebhook_CapturaSinVerifyActivaPlan(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	body := webhookBody(payment.EventPaymentCaptured, out.ProviderOrderID, "pay_9")

	require.NoError(t, f.uc.HandleWebhook(context.Background(), body, payment.WebhookSignature(webhookSecret, body)))

	assert.Equal(t, entity.PaymentStatusPaid, f.payments.status(out.OrderID))
	c, _ := f.companies.GetByID(context.Background(), "c1")
	assert.True(t, c.HasActivePlan(f.now.Add(time.Hour)))
}

func TestWebhook_FirmaInvalida(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	body := webhookBody(payment.EventPaymentCaptured, out.ProviderOrderID, "pay_1")

	err := f.uc.HandleWebhook(context.Background(), body, payment.WebhookSignature("otro", body))

	assert.True(t, domain.Is(err, domain.ErrUnauthenticated))
	assert.Equal(t, entity.PaymentStatusCreated, f.payments.status(out.OrderID))
}

func TestWebhook_OrdenDesconocidaSeIgnora(t *testing.T) {
	f := newFixture(t)
	body := webhookBody(payment.EventPaymentCaptured, "order_x", "pay_1")

	assert.NoError(t, f.uc.HandleWebhook(context.Background(), body, payment.WebhookSignature(webhookSecret, body)))
}

func TestWebhook_ReembolsoDesdePaid(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	captured := webhookBody(payment.EventPaymentCaptured, out.ProviderOrderID, "pay_1")
	refund := webhookBody(payment.EventRefundProcessed, out.ProviderOrderID, "pay_1")

	require.NoError(t, f.uc.HandleWebhook(context.Background(), captured, payment.WebhookSignature(webhookSecret, captured)))
	require.NoError(t, f.uc.HandleWebhook(context.Background(), refund, payment.WebhookSignature(webhookSecret, refund)))

	assert.Equal(t, entity.PaymentStatusRefunded, f.payments.status(out.OrderID))
}

func TestCreateOrder_PlanPagadoBloqueaNuevaOrden(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	f.captured(out.ProviderOrderID, "pay_1")
	_, err := f.uc.VerifyPayment(context.Background(), "ACME01", dto.VerifyPaymentRequest{
		ProviderOrderID:   out.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.CheckoutSignature(keySecret, out.ProviderOrderID, "pay_1"),
	})
	require.NoError(t, err)

	_, err = f.uc.CreateOrder(context.Background(), "ACME01", "u1")
	assert.True(t, domain.Is(err, domain.ErrPlanAlreadyPaid))

	f.now = f.now.AddDate(0, 0, 366)
	_, err = f.uc.CreateOrder(context.Background(), "ACME01", "u1")
	assert.NoError(t, err, "al vencer el plan se permite renovar")
}

func TestCancel_SoloSinPagar(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)

	res, err := f.uc.Cancel(context.Background(), "ACME01", out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", res.Status)

	_, err = f.uc.Cancel(context.Background(), "ACME01", out.OrderID)
	assert.True(t, domain.Is(err, domain.ErrInvalidTransition))
}

func TestList_OcultaOrdenesVencidas(t *testing.T) {
	f := newFixture(t)
	f.order(t)
	f.now = f.now.Add(time.Hour)

	res, err := f.uc.List(context.Background(), "ACME01", dto.PaymentListRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	res, err = f.uc.List(context.Background(), "ACME01", dto.PaymentListRequest{IncludeExpired: true})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestReceipt_SoloPagosCompletados(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)

	_, err := f.uc.Receipt(context.Background(), "ACME01", out.OrderID)
	assert.True(t, domain.Is(err, domain.ErrConflict))

	body := webhookBody(payment.EventPaymentCaptured, out.ProviderOrderID, "pay_1")
	require.NoError(t, f.uc.HandleWebhook(context.Background(), body, payment.WebhookSignature(webhookSecret, body)))

	pdf, err := f.uc.Receipt(context.Background(), "ACME01", out.OrderID)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), out.OrderID)
}

func TestVerifyPayment_CapturaSobreOrdenCanceladaActivaPlan(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	_, err := f.uc.Cancel(context.Background(), "ACME01", out.OrderID)
	require.NoError(t, err)
	f.captured(out.ProviderOrderID, "pay_1")

	res, err := f.uc.VerifyPayment(context.Background(), "ACME01", dto.VerifyPaymentRequest{
		ProviderOrderID:   out.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.CheckoutSignature(keySecret, out.ProviderOrderID, "pay_1"),
	})

	require.NoError(t, err)
	assert.Equal(t, "paid", res.Status)
	c, _ := f.companies.GetByID(context.Background(), "c1")
	assert.True(t, c.HasActivePlan(f.now.Add(time.Hour)))
	assert.Equal(t, 2, f.mailer.count())
}

func TestWebhook_CapturaSobreOrdenCanceladaActivaPlan(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	_, err := f.uc.Cancel(context.Background(), "ACME01", out.OrderID)
	require.NoError(t, err)
	body := webhookBody(payment.EventPaymentCaptured, out.ProviderOrderID, "pay_1")

	require.NoError(t, f.uc.HandleWebhook(context.Background(), body, payment.WebhookSignature(webhookSecret, body)))

	assert.Equal(t, entity.PaymentStatusPaid, f.payments.status(out.OrderID))
	c, _ := f.companies.GetByID(context.Background(), "c1")
	assert.True(t, c.HasActivePlan(f.now.Add(time.Hour)))
}

func TestVerifyPayment_OrdenReembolsadaNoSeConfirma(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	f.captured(out.ProviderOrderID, "pay_1")
	captured := webhookBody(payment.EventPaymentCaptured, out.ProviderOrderID, "pay_1")
	refund := webhookBody(payment.EventRefundProcessed, out.ProviderOrderID, "pay_1")
	require.NoError(t, f.uc.HandleWebhook(context.Background(), captured, payment.WebhookSignature(webhookSecret, captured)))
	require.NoError(t, f.uc.HandleWebhook(context.Background(), refund, payment.WebhookSignature(webhookSecret, refund)))

	_, err := f.uc.VerifyPayment(context.Background(), "ACME01", dto.VerifyPaymentRequest{
		ProviderOrderID:   out.ProviderOrderID,
		ProviderPaymentID: "pay_1",
		Signature:         payment.CheckoutSignature(keySecret, out.ProviderOrderID, "pay_1"),
	})

	assert.True(t, domain.Is(err, domain.ErrInvalidTransition))
	assert.Equal(t, entity.PaymentStatusRefunded, f.payments.status(out.OrderID))

	// Un captured repetido después del reembolso no hace reintentar a la pasarela.
	assert.NoError(t, f.uc.HandleWebhook(context.Background(), captured, payment.WebhookSignature(webhookSecret, captured)))
	assert.Equal(t, entity.PaymentStatusRefunded, f.payments.status(out.OrderID))
}

func TestWebhook_AutorizadoPasaAPending(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	body := webhookBody(payment.EventPaymentAuthorized, out.ProviderOrderID, "pay_1")

	require.NoError(t, f.uc.HandleWebhook(context.Background(), body, payment.WebhookSignature(webhookSecret, body)))

	p, _ := f.payments.GetByOrderID(context.Background(), out.OrderID)
	assert.Equal(t, entity.PaymentStatusPending, p.Status)
	assert.Equal(t, "pay_1", p.ProviderPaymentID)
	c, _ := f.companies.GetByID(context.Background(), "c1")
	assert.False(t, c.PaymentCompleted)
}

func TestWebhook_FallidoRegistraMotivo(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	authorized := webhookBody(payment.EventPaymentAuthorized, out.ProviderOrderID, "pay_1")
	require.NoError(t, f.uc.HandleWebhook(context.Background(), authorized, payment.WebhookSignature(webhookSecret, authorized)))
	failed := []byte(fmt.Sprintf(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":%q,"status":"failed","error_code":"BAD_REQUEST_ERROR","error_description":"Tarjeta rechazada"}}}}`,
		out.ProviderOrderID))

	require.NoError(t, f.uc.HandleWebhook(context.Background(), failed, payment.WebhookSignature(webhookSecret, failed)))

	p, _ := f.payments.GetByOrderID(context.Background(), out.OrderID)
	assert.Equal(t, entity.PaymentStatusFailed, p.Status)
	assert.Equal(t, "BAD_REQUEST_ERROR Tarjeta rechazada", p.FailureReason)
	assert.Zero(t, f.mailer.count())
}

func TestWebhook_FallidoSinDetalleUsaNombreDelEvento(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	body := webhookBody(payment.EventPaymentFailed, out.ProviderOrderID, "pay_1")

	require.NoError(t, f.uc.HandleWebhook(context.Background(), body, payment.WebhookSignature(webhookSecret, body)))

	p, _ := f.payments.GetByOrderID(context.Background(), out.OrderID)
	assert.Equal(t, entity.PaymentStatusFailed, p.Status)
	assert.Equal(t, "payment.failed", p.FailureReason)
}

func TestWebhook_RegistraEventoCrudo(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	authorized := webhookBody(payment.EventPaymentAuthorized, out.ProviderOrderID, "pay_1")
	captured := webhookBody(payment.EventPaymentCaptured, out.ProviderOrderID, "pay_1")

	require.NoError(t, f.uc.HandleWebhook(context.Background(), authorized, payment.WebhookSignature(webhookSecret, authorized)))
	f.now = f.now.Add(time.Minute)
	require.NoError(t, f.uc.HandleWebhook(context.Background(), captured, payment.WebhookSignature(webhookSecret, captured)))

	events := f.payments.eventsFor(out.OrderID)
	require.Len(t, events, 2)
	assert.Equal(t, payment.EventPaymentAuthorized, events[0].Event)
	assert.JSONEq(t, string(authorized), string(events[0].Payload))
	assert.Equal(t, payment.EventPaymentCaptured, events[1].Event)
	assert.Equal(t, f.now, events[1].ReceivedAt)
	assert.JSONEq(t, string(captured), string(events[1].Payload))
}

func TestWebhook_FirmaInvalidaNoRegistraEvento(t *testing.T) {
	f := newFixture(t)
	out := f.order(t)
	body := webhookBody(payment.EventPaymentCaptured, out.ProviderOrderID, "pay_1")

	_ = f.uc.HandleWebhook(context.Background(), body, "firma-falsa")

	assert.Empty(t, f.payments.eventsFor(out.OrderID))
}
