package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
)

// PlanService verifica si una empresa tiene el plan vigente.
// Es el único punto de la aplicación que decide el acceso a los módulos de RR.HH.
type PlanService struct {
	companyRepo repository.CompanyRepository
	now         func() time.Time
}

// NewPlanService construye el servicio de plan.
func NewPlanService(companyRepo repository.CompanyRepository) *PlanService {
	return &PlanService{companyRepo: companyRepo, now: time.Now}
}

// HasActivePlan informa si la empresa tiene el plan pagado y sin vencer.
// Devuelve false (sin error) si la empresa no existe o no pagó.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *PlanService) HasActivePlan(ctx context.Context, companyCode string) (bool, error) {
	if companyCode == "" {
		return false, domain.ErrMissingCompanyCode
	}
	c, err := s.companyRepo.GetByCode(ctx, entity.NormalizeCompanyCode(companyCode))
	if err != nil {
		return false, err
	}
	if c == nil {
		return false, nil
	}
	return c.HasActivePlan(s.now()), nil
}
