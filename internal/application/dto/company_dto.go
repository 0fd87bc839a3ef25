package dto

import "time"

// RegisterCompanyRequest alta de empresa con su usuario administrador.
// CompanyCode es opcional: si no viene se deriva del nombre.
type RegisterCompanyRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=200"`
	CompanyCode string `json:"company_code" validate:"omitempty,alphanum,min=3,max=20"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	AdminName   string `json:"admin_name" validate:"required,min=1,max=200"`
	AdminEmail  string `json:"admin_email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// RegisterCompanyResponse resultado del alta.
type RegisterCompanyResponse struct {
	Company CompanyResponse `json:"company"`
	Admin   UserResponse    `json:"admin"`
	Message string          `json:"message"`
}

// CompanyResponse salida de una empresa con su plan (sin token de verificación).
type CompanyResponse struct {
	ID               string     `json:"id"`
	CompanyCode      string     `json:"company_code"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Address          string     `json:"address"`
	Status           string     `json:"status"`
	IsEmailVerified  bool       `json:"is_email_verified"`
	PaymentCompleted bool       `json:"payment_completed"`
	IsPaymentExpired bool       `json:"is_payment_expired"`
	IsActive         bool       `json:"is_active"`
	PlanStartDate    *time.Time `json:"plan_start_date,omitempty"`
	PlanEndDate      *time.Time `json:"plan_end_date,omitempty"`
	PlanDurationDays int        `json:"plan_duration_days"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
