package razorpay

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/pkg/config"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

var _ ports.PaymentProvider = (*Provider)(nil)

// Provider adaptador de la pasarela Razorpay sobre el SDK oficial.
type Provider struct {
	client *razorpay.Client
	keyID  string
	log    *logger.Logger
}

// NewProvider construye el adaptador con las credenciales de la API.
func NewProvider(cfg config.RazorpayConfig, log *logger.Logger) *Provider {
	return &Provider{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:  cfg.KeyID,
		log:    log,
	}
}

// KeyID clave pública para el checkout.
func (p *Provider) KeyID() string {
	return p.keyID
}

// CreateOrder crea la orden en Razorpay. El monto se envía en la unidad menor (paise).
func (p *Provider) CreateOrder(ctx context.Context, req ports.ProviderOrderRequest) (*ports.ProviderOrder, error) {
	minor := ToMinorUnits(req.Amount)
	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}
	data := map[string]interface{}{
		"amount":   minor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}

	order, err := p.client.Order.Create(data, nil)
	if err != nil {
		p.log.Error().Err(err).Str("receipt", req.Receipt).Msg("razorpay: error creando orden")
		return nil, domain.WithHint(
			domain.Wrap(err, domain.ErrInternal, "crear orden en razorpay"),
			"No fue posible conectar con la pasarela de pagos",
		)
	}

	out := &ports.ProviderOrder{
		ID:          stringField(order, "id"),
		AmountMinor: int64Field(order, "amount"),
		Currency:    stringField(order, "currency"),
		Status:      stringField(order, "status"),
	}
	if out.ID == "" {
		return nil, domain.NewError(domain.ErrInternal, "razorpay devolvió una orden sin id")
	}
	p.log.Info().Str("provider_order_id", out.ID).Str("receipt", req.Receipt).Msg("razorpay: orden creada")
	return out, nil
}

// FetchPayment consulta el estado real de un pago.
func (p *Provider) FetchPayment(ctx context.Context, paymentID string) (*ports.ProviderPayment, error) {
	pay, err := p.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		p.log.Error().Err(err).Str("payment_id", paymentID).Msg("razorpay: error consultando pago")
		return nil, domain.Wrap(err, domain.ErrInternal, "consultar pago en razorpay")
	}
	return &ports.ProviderPayment{
		ID:      stringField(pay, "id"),
		OrderID: stringField(pay, "order_id"),
		Status:  stringField(pay, "status"),
		Method:  stringField(pay, "method"),
		Amount:  int64Field(pay, "amount"),
	}, nil
}

// ToMinorUnits convierte un monto decimal a la unidad menor (x100, redondeado).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// int64Field los números del JSON llegan como float64.
func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
