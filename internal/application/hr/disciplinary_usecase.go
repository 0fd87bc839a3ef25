package hr

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

// DisciplinaryUseCase acciones disciplinarias sobre empleados.
type DisciplinaryUseCase struct {
	tenantBase
}

// NewDisciplinaryUseCase construye el caso de uso.
func NewDisciplinaryUseCase(stores repository.TenantStores, log *logger.Logger) *DisciplinaryUseCase {
	return &DisciplinaryUseCase{tenantBase: newTenantBase(stores, log)}
}

// Create registra una acción emitida por issuedBy (user_id del token).
func (uc *DisciplinaryUseCase) Create(ctx context.Context, companyCode, issuedBy string, in dto.DisciplinaryActionRequest) (*dto.DisciplinaryActionResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	if _, err := findEmployee(ctx, store, in.EmployeeID); err != nil {
		return nil, err
	}
	now := uc.now()
	a := &entity.DisciplinaryAction{ID: uuid.New().String(), IssuedBy: issuedBy, CreatedAt: now, UpdatedAt: now}
	if err := applyDisciplinary(a, in); err != nil {
		return nil, err
	}
	if err := store.DisciplinaryActions().Create(ctx, a); err != nil {
		return nil, err
	}
	return toDisciplinaryResponse(a), nil
}

// GetByID obtiene una acción.
func (uc *DisciplinaryUseCase) GetByID(ctx context.Context, companyCode, id string) (*dto.DisciplinaryActionResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	a, err := findDisciplinary(ctx, store, id)
	if err != nil {
		return nil, err
	}
	return toDisciplinaryResponse(a), nil
}

// List lista acciones, filtrables por employee_id y estado.
func (uc *DisciplinaryUseCase) List(ctx context.Context, companyCode string, in dto.HRListRequest) ([]dto.DisciplinaryActionResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := store.DisciplinaryActions().List(ctx, repository.ListOptions{
		EmployeeID: in.EmployeeID, Status: in.Status, Limit: in.Limit, Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(a *entity.DisciplinaryAction, _ int) dto.DisciplinaryActionResponse {
		return *toDisciplinaryResponse(a)
	}), nil
}

// Update reemplaza los datos de una acción. IssuedBy no cambia.
func (uc *DisciplinaryUseCase) Update(ctx context.Context, companyCode, id string, in dto.DisciplinaryActionRequest) (*dto.DisciplinaryActionResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	a, err := findDisciplinary(ctx, store, id)
	if err != nil {
		return nil, err
	}
	if in.EmployeeID != a.EmployeeID {
		if _, err := findEmployee(ctx, store, in.EmployeeID); err != nil {
			return nil, err
		}
	}
	if err := applyDisciplinary(a, in); err != nil {
		return nil, err
	}
	a.UpdatedAt = uc.now()
	if err := store.DisciplinaryActions().Update(ctx, a); err != nil {
		return nil, err
	}
	return toDisciplinaryResponse(a), nil
}

// Delete elimina una acción.
func (uc *DisciplinaryUseCase) Delete(ctx context.Context, companyCode, id string) error {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return err
	}
	return store.DisciplinaryActions().Delete(ctx, id)
}

func applyDisciplinary(a *entity.DisciplinaryAction, in dto.DisciplinaryActionRequest) error {
	date, err := parseDate("action_date", in.ActionDate)
	if err != nil {
		return err
	}
	a.EmployeeID = in.EmployeeID
	a.ActionType = in.ActionType
	a.Reason = in.Reason
	a.Description = in.Description
	a.ActionDate = date
	a.Status = lo.Ternary(in.Status != "", in.Status, entity.DisciplinaryStatusOpen)
	return nil
}

func findDisciplinary(ctx context.Context, store repository.TenantStore, id string) (*entity.DisciplinaryAction, error) {
	a, err := store.DisciplinaryActions().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.NewError(domain.ErrNotFound, "acción disciplinaria no encontrada")
	}
	return a, nil
}

func toDisciplinaryResponse(a *entity.DisciplinaryAction) *dto.DisciplinaryActionResponse {
	return &dto.DisciplinaryActionResponse{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		ActionType:  a.ActionType,
		Reason:      a.Reason,
		Description: a.Description,
		ActionDate:  a.ActionDate.Format(dto.DateLayout),
		Status:      a.Status,
		IssuedBy:    a.IssuedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
