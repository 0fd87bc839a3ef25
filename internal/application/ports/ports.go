package ports

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// ProviderOrderRequest datos para crear una orden en la pasarela. Amount va en unidades mayores.
type ProviderOrderRequest struct {
	Amount   decimal.Decimal
	Currency string
	Receipt  string
	Notes    map[string]string
}

// ProviderOrder orden creada en la pasarela.
type ProviderOrder struct {
	ID          string
	AmountMinor int64
	Currency    string
	Status      string
}

// ProviderPayment estado de un pago según la pasarela.
type ProviderPayment struct {
	ID      string
	OrderID string
	Status  string // created, authorized, captured, refunded, failed
	Method  string
	Amount  int64
}

// ProviderPaymentCaptured estado que exige la pasarela antes de dar un pago por bueno.
const ProviderPaymentCaptured = "captured"

// PaymentProvider puerto de salida hacia la pasarela de pagos.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, req ProviderOrderRequest) (*ProviderOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*ProviderPayment, error)
	// KeyID clave pública que el frontend usa para abrir el checkout.
	KeyID() string
}

// Email mensaje de texto plano.
type Email struct {
	To      []string
	Subject string
	Text    string
}

// Mailer puerto de envío de correos.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// FileStorage almacenamiento de archivos subidos (disco local u objeto S3).
type FileStorage interface {
	// Put guarda el contenido bajo key y devuelve la URL pública.
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Locker exclusión mutua entre procesos.
type Locker interface {
	// TryLock intenta tomar key por ttl. ok=false si otro proceso lo tiene.
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), ok bool, err error)
}

// ReceiptData datos del comprobante de pago.
type ReceiptData struct {
	CompanyName       string
	CompanyCode       string
	CompanyEmail      string
	OrderID           string
	ProviderOrderID   string
	ProviderPaymentID string
	Amount            decimal.Decimal
	Currency          string
	PaidAt            time.Time
	PlanStart         *time.Time
	PlanEnd           *time.Time
}

// ReceiptGenerator genera el PDF del comprobante.
type ReceiptGenerator interface {
	PaymentReceipt(data ReceiptData) ([]byte, error)
}

// TenantProvisioner crea y migra la base de datos de una empresa.
type TenantProvisioner interface {
	Provision(ctx context.Context, companyCode string) error
}
