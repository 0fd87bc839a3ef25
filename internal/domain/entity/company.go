package entity

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Estados de una Company a lo largo de su ciclo de vida.
const (
	CompanyStatusPendingVerification = "pending_verification"
	CompanyStatusVerified            = "verified"
	CompanyStatusActive              = "active"
	CompanyStatusExpired             = "expired"
)

// DefaultPlanDurationDays duración del plan si la empresa no define otra.
const DefaultPlanDurationDays = 365

// Tipos de recordatorio de vencimiento.
const (
	Reminder5Day    = "5_day_reminder"
	Reminder1Day    = "1_day_reminder"
	ReminderExpired = "expired_reminder"
)

var companyCodePattern = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Company representa una organización/tenant. CompanyCode es la clave de enrutamiento
// hacia su base de datos propia.
type Company struct {
	ID                     string
	CompanyCode            string
	Name                   string
	Email                  string
	Phone                  string
	Address                string
	Status                 string
	IsEmailVerified        bool
	EmailVerificationToken string
	PaymentCompleted       bool
	IsPaymentExpired       bool
	IsActive               bool
	PlanStartDate          *time.Time
	PlanEndDate            *time.Time
	PlanDurationDays       int
	RemindersSent          []ReminderLog // solo se agrega, nunca se edita
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ReminderLog registro de un recordatorio enviado.
type ReminderLog struct {
	Type   string
	SentAt time.Time
}

// ActivatePlan abre la ventana del plan a partir de now y marca el pago como completado.
func (c *Company) ActivatePlan(now time.Time) {
	days := c.PlanDurationDays
	if days <= 0 {
		days = DefaultPlanDurationDays
		c.PlanDurationDays = days
	}
	start := now
	end := now.AddDate(0, 0, days)
	c.PlanStartDate = &start
	c.PlanEndDate = &end
	c.PaymentCompleted = true
	c.IsPaymentExpired = false
	c.IsActive = true
	c.Status = CompanyStatusActive
	c.UpdatedAt = now
}

// ExpirePlan marca el plan como vencido.
func (c *Company) ExpirePlan(now time.Time) {
	c.IsPaymentExpired = true
	c.IsActive = false
	c.Status = CompanyStatusExpired
	c.UpdatedAt = now
}

// HasActivePlan informa si la empresa puede usar los módulos de RR.HH. en now.
func (c *Company) HasActivePlan(now time.Time) bool {
	return c.PaymentCompleted && !c.IsPaymentExpired && c.IsActive &&
		c.PlanEndDate != nil && c.PlanEndDate.After(now)
}

// PlanExpiredAt informa si la ventana del plan terminó en now.
func (c *Company) PlanExpiredAt(now time.Time) bool {
	return c.PlanEndDate != nil && !c.PlanEndDate.After(now)
}

// ReminderSentOn informa si ya se envió un recordatorio del tipo dado el mismo día
// calendario que day (en la zona horaria de day).
func (c *Company) ReminderSentOn(reminderType string, day time.Time) bool {
	y, m, d := day.Date()
	for _, r := range c.RemindersSent {
		if r.Type != reminderType {
			continue
		}
		ry, rm, rd := r.SentAt.In(day.Location()).Date()
		if ry == y && rm == m && rd == d {
			return true
		}
	}
	return false
}

// NormalizeCompanyCode pasa a mayúsculas y quita espacios. No valida el formato.
func NormalizeCompanyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCompanyCode valida un código ya normalizado.
func ValidCompanyCode(code string) bool {
	return companyCodePattern.MatchString(code)
}

// DeriveCompanyCode genera un código base a partir del nombre: sin tildes,
// solo A-Z y 0-9, máximo 8 caracteres. Devuelve "" si el nombre no aporta caracteres útiles.
func DeriveCompanyCode(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(plain) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == 8 {
			break
		}
	}
	return b.String()
}
