package dto

import (
	"encoding/json"
	"time"
)

// CreateOrderResponse datos para abrir el checkout de la pasarela.
type CreateOrderResponse struct {
	OrderID         string    `json:"order_id"`
	ProviderOrderID string    `json:"provider_order_id"`
	KeyID           string    `json:"key_id"`
	Amount          string    `json:"amount"`
	AmountMinor     int64     `json:"amount_minor"`
	Currency        string    `json:"currency"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// VerifyPaymentRequest datos que devuelve el checkout al completar el pago.
type VerifyPaymentRequest struct {
	ProviderOrderID   string `json:"razorpay_order_id" validate:"required"`
	ProviderPaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature         string `json:"razorpay_signature" validate:"required,hexadecimal"`
}

// PaymentListRequest filtros del listado de pagos.
type PaymentListRequest struct {
	PageRequest
	Status         string `query:"status" validate:"omitempty,oneof=created pending paid failed cancelled refunded"`
	IncludeExpired bool   `query:"include_expired"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID                string     `json:"id"`
	OrderID           string     `json:"order_id"`
	ProviderOrderID   string     `json:"provider_order_id"`
	ProviderPaymentID string     `json:"provider_payment_id,omitempty"`
	Amount            string     `json:"amount"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	ExpiresAt         time.Time  `json:"expires_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// PaymentListResponse lista paginada de pagos.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// WebhookEvent cuerpo de un webhook de Razorpay (solo los campos usados).
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity WebhookPaymentEntity `json:"entity"`
		} `json:"payment"`
		Refund *struct {
			Entity struct {
				ID        string `json:"id"`
				PaymentID string `json:"payment_id"`
			} `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
	CreatedAt int64           `json:"created_at"`
	Raw       json.RawMessage `json:"-"`
}

// WebhookPaymentEntity pago dentro del webhook.
type WebhookPaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}
