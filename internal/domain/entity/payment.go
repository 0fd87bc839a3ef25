package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de un intento de pago.
type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "created"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// paymentTransitions estados de origen permitidos para cada estado destino.
// Una captura confirmada por la pasarela manda: failed y cancelled también pasan a paid
// porque el cliente ya fue cobrado.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCreated},
	PaymentStatusPaid:      {PaymentStatusCreated, PaymentStatusPending, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusFailed:    {PaymentStatusCreated, PaymentStatusPending},
	PaymentStatusCancelled: {PaymentStatusCreated, PaymentStatusPending},
	PaymentStatusRefunded:  {PaymentStatusPaid},
}

// TransitionSources devuelve los estados desde los que se puede llegar a to.
func TransitionSources(to PaymentStatus) []PaymentStatus {
	return paymentTransitions[to]
}

// Payment un intento de pago de una empresa. OrderID es interno; ProviderOrderID lo asigna el proveedor.
type Payment struct {
	ID                string
	OrderID           string
	CompanyID         string
	UserID            string
	ProviderOrderID   string
	ProviderPaymentID string
	ProviderSignature string
	Amount            decimal.Decimal
	Currency          string
	Status            PaymentStatus
	FailureReason     string
	WebhookEvents     []WebhookEvent
	PaidAt            *time.Time
	ExpiresAt         time.Time // las órdenes created/pending vencidas se excluyen de las consultas por defecto
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WebhookEvent evento crudo recibido del proveedor.
type WebhookEvent struct {
	Event      string          `json:"event"`
	ReceivedAt time.Time       `json:"received_at"`
	Payload    json.RawMessage `json:"payload"`
}

// CanTransitionTo informa si el pago puede pasar al estado to.
func (p *Payment) CanTransitionTo(to PaymentStatus) bool {
	for _, s := range paymentTransitions[to] {
		if p.Status == s {
			return true
		}
	}
	return false
}

// IsSoftExpired informa si la orden quedó abandonada (created/pending con expiresAt vencido).
func (p *Payment) IsSoftExpired(now time.Time) bool {
	return (p.Status == PaymentStatusCreated || p.Status == PaymentStatusPending) && p.ExpiresAt.Before(now)
}

// MarkAsPaid aplica los datos de captura del proveedor.
func (p *Payment) MarkAsPaid(paymentID, signature string, now time.Time) {
	p.Status = PaymentStatusPaid
	p.ProviderPaymentID = paymentID
	if signature != "" {
		p.ProviderSignature = signature
	}
	p.FailureReason = ""
	p.PaidAt = &now
	p.UpdatedAt = now
}

// MarkAsFailed registra el motivo del fallo para auditoría.
func (p *Payment) MarkAsFailed(paymentID, reason string, now time.Time) {
	p.Status = PaymentStatusFailed
	if paymentID != "" {
		p.ProviderPaymentID = paymentID
	}
	p.FailureReason = reason
	p.UpdatedAt = now
}
