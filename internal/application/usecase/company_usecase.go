package usecase

import (
	"context"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

// CompanyUseCase consulta de la empresa del usuario autenticado.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// GetByCode obtiene la empresa por su código. Devuelve ErrCompanyNotFound si no existe.
func (uc *CompanyUseCase) GetByCode(ctx context.Context, code string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByCode(ctx, entity.NormalizeCompanyCode(code))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return ToCompanyResponse(company), nil
}

// ToCompanyResponse mapea la entidad a su salida HTTP (sin token de verificación).
func ToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:               c.ID,
		CompanyCode:      c.CompanyCode,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		Status:           c.Status,
		IsEmailVerified:  c.IsEmailVerified,
		PaymentCompleted: c.PaymentCompleted,
		IsPaymentExpired: c.IsPaymentExpired,
		IsActive:         c.IsActive,
		PlanStartDate:    c.PlanStartDate,
		PlanEndDate:      c.PlanEndDate,
		PlanDurationDays: c.PlanDurationDays,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
