package hr

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

// OffboardingUseCase procesos de salida de empleados.
type OffboardingUseCase struct {
	tenantBase
	storage ports.FileStorage
}

// NewOffboardingUseCase construye el caso de uso.
func NewOffboardingUseCase(stores repository.TenantStores, storage ports.FileStorage, log *logger.Logger) *OffboardingUseCase {
	return &OffboardingUseCase{tenantBase: newTenantBase(stores, log), storage: storage}
}

// Create inicia el proceso de salida de un empleado.
func (uc *OffboardingUseCase) Create(ctx context.Context, companyCode string, in dto.CreateOffboardingRequest) (*dto.OffboardingResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	if _, err := findEmployee(ctx, store, in.EmployeeID); err != nil {
		return nil, err
	}
	last, err := parseDate("last_working_day", in.LastWorkingDay)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	o := &entity.Offboarding{
		ID:             uuid.New().String(),
		EmployeeID:     in.EmployeeID,
		Reason:         in.Reason,
		LastWorkingDay: last,
		Status:         entity.OffboardingStatusInitiated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.Offboardings().Create(ctx, o); err != nil {
		return nil, err
	}
	return toOffboardingResponse(o), nil
}

// GetByID obtiene un proceso de salida.
func (uc *OffboardingUseCase) GetByID(ctx context.Context, companyCode, id string) (*dto.OffboardingResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	o, err := findOffboarding(ctx, store, id)
	if err != nil {
		return nil, err
	}
	return toOffboardingResponse(o), nil
}

// List lista procesos de salida.
func (uc *OffboardingUseCase) List(ctx context.Context, companyCode string, in dto.HRListRequest) ([]dto.OffboardingResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := store.Offboardings().List(ctx, repository.ListOptions{
		EmployeeID: in.EmployeeID, Status: in.Status, Limit: in.Limit, Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(o *entity.Offboarding, _ int) dto.OffboardingResponse { return *toOffboardingResponse(o) }), nil
}

// Update avanza el proceso. Pasar a completed desactiva al empleado en la misma transacción.
func (uc *OffboardingUseCase) Update(ctx context.Context, companyCode, id string, in dto.UpdateOffboardingRequest) (*dto.OffboardingResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	o, err := findOffboarding(ctx, store, id)
	if err != nil {
		return nil, err
	}
	previous := o.Status
	if in.Status != nil {
		if !o.CanMoveTo(*in.Status) {
			return nil, domain.WithHint(domain.ErrInvalidTransition, "No se puede pasar de "+o.Status+" a "+*in.Status)
		}
		o.Status = *in.Status
	}
	if in.LastWorkingDay != nil {
		last, err := parseDate("last_working_day", *in.LastWorkingDay)
		if err != nil {
			return nil, err
		}
		o.LastWorkingDay = last
	}
	if in.Reason != nil {
		o.Reason = *in.Reason
	}
	if in.ExitInterviewNotes != nil {
		o.ExitInterviewNotes = *in.ExitInterviewNotes
	}
	if in.AssetsReturned != nil {
		o.AssetsReturned = *in.AssetsReturned
	}
	if in.ClearanceCompleted != nil {
		o.ClearanceCompleted = *in.ClearanceCompleted
	}
	o.UpdatedAt = uc.now()

	if o.Status == entity.OffboardingStatusCompleted && previous != entity.OffboardingStatusCompleted {
		if err := store.CompleteOffboarding(ctx, o); err != nil {
			return nil, err
		}
		uc.log.Info().Str("company_code", companyCode).Str("employee_id", o.EmployeeID).Msg("desvinculación completada")
		return toOffboardingResponse(o), nil
	}
	if err := store.Offboardings().Update(ctx, o); err != nil {
		return nil, err
	}
	return toOffboardingResponse(o), nil
}

// UploadDocument adjunta el documento de salida (pdf, jpeg o png) y reemplaza el anterior.
func (uc *OffboardingUseCase) UploadDocument(ctx context.Context, companyCode, id string, file Upload) (*dto.OffboardingResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	o, err := findOffboarding(ctx, store, id)
	if err != nil {
		return nil, err
	}
	doc, err := readUpload(file, documentTypes)
	if err != nil {
		return nil, err
	}
	key := objectKey(companyCode, "offboarding", o.ID, doc.ext)
	url, err := putFile(ctx, uc.storage, key, doc)
	if err != nil {
		return nil, err
	}
	previous := o.DocumentKey
	o.DocumentURL, o.DocumentKey, o.UpdatedAt = url, key, uc.now()
	if err := store.Offboardings().Update(ctx, o); err != nil {
		dropFile(ctx, uc.storage, uc.log, key)
		return nil, err
	}
	dropFile(ctx, uc.storage, uc.log, previous)
	return toOffboardingResponse(o), nil
}

func findOffboarding(ctx context.Context, store repository.TenantStore, id string) (*entity.Offboarding, error) {
	o, err := store.Offboardings().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NewError(domain.ErrNotFound, "proceso de salida no encontrado")
	}
	return o, nil
}

func toOffboardingResponse(o *entity.Offboarding) *dto.OffboardingResponse {
	return &dto.OffboardingResponse{
		ID:                 o.ID,
		EmployeeID:         o.EmployeeID,
		Reason:             o.Reason,
		LastWorkingDay:     o.LastWorkingDay.Format(dto.DateLayout),
		Status:             o.Status,
		ExitInterviewNotes: o.ExitInterviewNotes,
		AssetsReturned:     o.AssetsReturned,
		ClearanceCompleted: o.ClearanceCompleted,
		DocumentURL:        o.DocumentURL,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}
