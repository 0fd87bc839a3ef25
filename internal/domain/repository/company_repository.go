package repository

import (
	"context"
	"time"

	"github.com/jhoicas/hrms-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company en la base de control.
// Las búsquedas devuelven (nil, nil) si no existe el registro.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByCode(ctx context.Context, code string) (*entity.Company, error)
	GetByVerificationToken(ctx context.Context, token string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error

	// ListReminderCandidates empresas con pago completado cuyo plan termina en [from, to],
	// con su historial de recordatorios cargado.
	ListReminderCandidates(ctx context.Context, from, to time.Time) ([]*entity.Company, error)

	// MarkPlanExpired marca el plan como vencido solo si sigue vencido en now y no estaba marcado.
	// Devuelve false si la empresa renovó o ya estaba marcada; no toca el resto de la fila.
	MarkPlanExpired(ctx context.Context, companyID string, now time.Time) (bool, error)

	// ClaimReminder reserva el envío de un recordatorio para el día sentOn.
	// Devuelve false si ya estaba reservado (otra ejecución lo envió o lo está enviando).
	ClaimReminder(ctx context.Context, companyID, reminderType string, sentOn, sentAt time.Time) (bool, error)

	// ReleaseReminder libera una reserva cuyo envío falló.
	ReleaseReminder(ctx context.Context, companyID, reminderType string, sentOn time.Time) error
}
