package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/resend/resend-go/v2"

	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/pkg/config"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

var _ ports.Mailer = (*ResendMailer)(nil)

// ResendMailer envía correos con la API de Resend.
type ResendMailer struct {
	client  *resend.Client
	from    string
	retries uint64
	log     *logger.Logger
}

// NewResendMailer construye el mailer. Reintenta dos veces ante errores de red.
func NewResendMailer(apiKey, from string, log *logger.Logger) *ResendMailer {
	return &ResendMailer{
		client:  resend.NewClient(apiKey),
		from:    from,
		retries: 2,
		log:     log,
	}
}

// Send envía un correo de texto plano.
func (m *ResendMailer) Send(ctx context.Context, msg ports.Email) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(b, m.retries), ctx)

	var id string
	err := backoff.Retry(func() error {
		sent, err := m.client.Emails.SendWithContext(ctx, params)
		if err != nil {
			return err
		}
		id = sent.Id
		return nil
	}, policy)
	if err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	m.log.Debug().Str("email_id", id).Strs("to", msg.To).Str("subject", msg.Subject).Msg("correo enviado")
	return nil
}

// LogMailer escribe los correos en el log en lugar de enviarlos (desarrollo sin API key).
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de log.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send registra el correo.
func (m *LogMailer) Send(_ context.Context, msg ports.Email) error {
	m.log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Str("body", msg.Text).Msg("correo (no enviado)")
	return nil
}

// New elige Resend si hay API key; si no, LogMailer.
func New(cfg config.MailConfig, log *logger.Logger) ports.Mailer {
	if cfg.ResendAPIKey == "" {
		log.Warn().Msg("RESEND_API_KEY vacío: los correos solo se registran en el log")
		return NewLogMailer(log)
	}
	return NewResendMailer(cfg.ResendAPIKey, cfg.From, log)
}
