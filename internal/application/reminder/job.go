package reminder

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

const (
	fiveDayWindow = 5 * 24 * time.Hour
	oneDayWindow  = 24 * time.Hour
)

// Config zona horaria del día calendario y datos de los correos.
type Config struct {
	Location    *time.Location
	ExpiredDays int // días tras el vencimiento en que todavía se envía expired_reminder
	AppName     string
	PublicURL   string
}

// Failure fallo aislado de una empresa.
type Failure struct {
	CompanyCode string
	Err         error
}

// Outcome resumen de una ejecución.
type Outcome struct {
	Scanned  int
	Sent     map[string]int // por tipo de recordatorio
	Skipped  int
	Expired  int // planes marcados como vencidos
	Failures []Failure
}

// TotalSent total de correos enviados.
func (o Outcome) TotalSent() int {
	return lo.Sum(lo.Values(o.Sent))
}

// Job barrido diario de planes próximos a vencer o vencidos.
type Job struct {
	companies repository.CompanyRepository
	mailer    ports.Mailer
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// NewJob construye el job.
func NewJob(companies repository.CompanyRepository, mailer ports.Mailer, cfg Config, log *logger.Logger) *Job {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.ExpiredDays <= 0 {
		cfg.ExpiredDays = 7
	}
	return &Job{companies: companies, mailer: mailer, cfg: cfg, log: log.Component("reminder"), now: time.Now}
}

// Name nombre del job para el scheduler y el lock.
func (j *Job) Name() string { return "plan-expiry-reminders" }

// Execute corre el barrido con la hora actual.
func (j *Job) Execute(ctx context.Context) error {
	out, err := j.Run(ctx, j.now())
	if err != nil {
		return err
	}
	j.log.Info().Int("scanned", out.Scanned).Int("sent", out.TotalSent()).Int("skipped", out.Skipped).
		Int("expired", out.Expired).Int("failures", len(out.Failures)).Msg("recordatorios procesados")
	return nil
}

// Run procesa las empresas candidatas en now. Un error por empresa queda en Outcome.Failures;
// solo la consulta inicial aborta la ejecución.
func (j *Job) Run(ctx context.Context, now time.Time) (Outcome, error) {
	out := Outcome{Sent: map[string]int{}}
	from := now.AddDate(0, 0, -j.cfg.ExpiredDays)
	to := now.Add(fiveDayWindow)

	companies, err := j.companies.ListReminderCandidates(ctx, from, to)
	if err != nil {
		return out, err
	}
	day := now.In(j.cfg.Location)

	for _, c := range companies {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out.Scanned++
		sent, expired, err := j.process(ctx, c, now, day)
		if err != nil {
			j.log.Error().Err(err).Str("company_code", c.CompanyCode).Msg("recordatorio fallido")
			out.Failures = append(out.Failures, Failure{CompanyCode: c.CompanyCode, Err: err})
			continue
		}
		if expired {
			out.Expired++
		}
		if sent == "" {
			out.Skipped++
			continue
		}
		out.Sent[sent]++
	}
	return out, nil
}

// process devuelve el tipo enviado ("" si no correspondía) y si el plan se marcó como vencido.
func (j *Job) process(ctx context.Context, c *entity.Company, now, day time.Time) (string, bool, error) {
	if c.PlanEndDate == nil {
		return "", false, nil
	}
	typ := Tier(*c.PlanEndDate, now)
	if typ == "" {
		return "", false, nil
	}

	expired := false
	if typ == entity.ReminderExpired && !c.IsPaymentExpired {
		applied, err := j.companies.MarkPlanExpired(ctx, c.ID, now)
		if err != nil {
			return "", false, fmt.Errorf("marcar plan vencido: %w", err)
		}
		if !applied {
			// La fila cambió desde la consulta de candidatos: se decide con el estado actual.
			fresh, err := j.companies.GetByID(ctx, c.ID)
			if err != nil {
				return "", false, err
			}
			if fresh == nil || !fresh.PlanExpiredAt(now) {
				j.log.Info().Str("company_code", c.CompanyCode).Msg("plan renovado durante el barrido, sin recordatorio")
				return "", false, nil
			}
		}
		c.ExpirePlan(now)
		expired = applied
	}

	if c.ReminderSentOn(typ, day) {
		return "", expired, nil
	}
	claimed, err := j.companies.ClaimReminder(ctx, c.ID, typ, day, now)
	if err != nil {
		return "", expired, err
	}
	if !claimed {
		return "", expired, nil
	}

	if err := j.mailer.Send(ctx, j.message(c, typ, day)); err != nil {
		if rerr := j.companies.ReleaseReminder(ctx, c.ID, typ, day); rerr != nil {
			j.log.Error().Err(rerr).Str("company_code", c.CompanyCode).Str("reminder", typ).Msg("no se pudo liberar la reserva")
		}
		return "", expired, fmt.Errorf("enviar %s: %w", typ, err)
	}
	c.RemindersSent = append(c.RemindersSent, entity.ReminderLog{Type: typ, SentAt: now})
	j.log.Info().Str("company_code", c.CompanyCode).Str("reminder", typ).Msg("recordatorio enviado")
	return typ, expired, nil
}

// Tier tipo de recordatorio que corresponde a un plan que termina en end, o "" si ninguno.
func Tier(end, now time.Time) string {
	left := end.Sub(now)
	switch {
	case left <= 0:
		return entity.ReminderExpired
	case left <= oneDayWindow:
		return entity.Reminder1Day
	case left <= fiveDayWindow:
		return entity.Reminder5Day
	}
	return ""
}

func (j *Job) message(c *entity.Company, typ string, day time.Time) ports.Email {
	end := c.PlanEndDate.In(j.cfg.Location).Format("02/01/2006")
	renew := j.cfg.PublicURL + "/billing"
	var subject, body string
	switch typ {
	case entity.ReminderExpired:
		subject = fmt.Sprintf("%s: su plan venció", j.cfg.AppName)
		body = fmt.Sprintf("Hola %s,\n\nSu plan venció el %s y los módulos de RR.HH. quedaron deshabilitados. Renueve en %s para reactivarlos.",
			c.Name, end, renew)
	case entity.Reminder1Day:
		subject = fmt.Sprintf("%s: su plan vence mañana", j.cfg.AppName)
		body = fmt.Sprintf("Hola %s,\n\nSu plan vence el %s. Renueve hoy en %s para no perder el acceso.", c.Name, end, renew)
	default:
		days := int(math.Ceil(c.PlanEndDate.Sub(day).Hours() / 24))
		subject = fmt.Sprintf("%s: su plan vence en %d días", j.cfg.AppName, days)
		body = fmt.Sprintf("Hola %s,\n\nSu plan vence el %s. Puede renovarlo en %s.", c.Name, end, renew)
	}
	return ports.Email{To: []string{c.Email}, Subject: subject, Text: body}
}
