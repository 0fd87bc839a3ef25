package hr

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

// ErrEmployeeNotFound empleado inexistente en la base de la empresa.
var ErrEmployeeNotFound = domain.NewError(domain.ErrNotFound, "empleado no encontrado")

// EmployeeUseCase altas, consultas y foto de los empleados de una empresa.
type EmployeeUseCase struct {
	tenantBase
	storage ports.FileStorage
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(stores repository.TenantStores, storage ports.FileStorage, log *logger.Logger) *EmployeeUseCase {
	return &EmployeeUseCase{tenantBase: newTenantBase(stores, log), storage: storage}
}

// Create da de alta un empleado.
func (uc *EmployeeUseCase) Create(ctx context.Context, companyCode string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	joined, err := parseOptionalDate("date_of_joining", in.DateOfJoining)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	e := &entity.Employee{
		ID:            uuid.New().String(),
		DateOfJoining: joined,
		Status:        lo.Ternary(in.Status != "", in.Status, entity.EmployeeStatusActive),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applyEmployee(e, in)
	if err := store.Employees().Create(ctx, e); err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

// GetByID obtiene un empleado.
func (uc *EmployeeUseCase) GetByID(ctx context.Context, companyCode, id string) (*dto.EmployeeResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	e, err := findEmployee(ctx, store, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

// List lista empleados con paginación.
func (uc *EmployeeUseCase) List(ctx context.Context, companyCode string, in dto.EmployeeListRequest) (*dto.EmployeeListResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := store.Employees().List(ctx, repository.ListOptions{Status: in.Status, Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	return &dto.EmployeeListResponse{
		Items: lo.Map(list, func(e *entity.Employee, _ int) dto.EmployeeResponse { return *toEmployeeResponse(e) }),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Update reemplaza los datos de un empleado. La foto se gestiona con UploadImage.
func (uc *EmployeeUseCase) Update(ctx context.Context, companyCode, id string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	e, err := findEmployee(ctx, store, id)
	if err != nil {
		return nil, err
	}
	joined, err := parseOptionalDate("date_of_joining", in.DateOfJoining)
	if err != nil {
		return nil, err
	}
	applyEmployee(e, in)
	e.DateOfJoining = joined
	if in.Status != "" {
		e.Status = in.Status
	}
	e.UpdatedAt = uc.now()
	if err := store.Employees().Update(ctx, e); err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

// Delete elimina un empleado y su foto.
func (uc *EmployeeUseCase) Delete(ctx context.Context, companyCode, id string) error {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return err
	}
	e, err := findEmployee(ctx, store, id)
	if err != nil {
		return err
	}
	if err := store.Employees().Delete(ctx, id); err != nil {
		return err
	}
	dropFile(ctx, uc.storage, uc.log, e.ImageKey)
	return nil
}

// UploadImage guarda la foto del empleado (jpeg, png o webp) y reemplaza la anterior.
func (uc *EmployeeUseCase) UploadImage(ctx context.Context, companyCode, id string, file Upload) (*dto.EmployeeResponse, error) {
	store, err := uc.store(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	e, err := findEmployee(ctx, store, id)
	if err != nil {
		return nil, err
	}
	img, err := readUpload(file, imageTypes)
	if err != nil {
		return nil, err
	}
	key := objectKey(companyCode, "employees", e.ID, img.ext)
	url, err := putFile(ctx, uc.storage, key, img)
	if err != nil {
		return nil, err
	}

	previous := e.ImageKey
	e.ImageURL, e.ImageKey, e.UpdatedAt = url, key, uc.now()
	if err := store.Employees().Update(ctx, e); err != nil {
		dropFile(ctx, uc.storage, uc.log, key)
		return nil, err
	}
	dropFile(ctx, uc.storage, uc.log, previous)
	uc.log.Info().Str("company_code", companyCode).Str("employee_id", e.ID).Str("mime", img.mime).Msg("foto de empleado actualizada")
	return toEmployeeResponse(e), nil
}

func findEmployee(ctx context.Context, store repository.TenantStore, id string) (*entity.Employee, error) {
	e, err := store.Employees().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

func applyEmployee(e *entity.Employee, in dto.EmployeeRequest) {
	e.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	e.FirstName = strings.TrimSpace(in.FirstName)
	e.LastName = strings.TrimSpace(in.LastName)
	e.Email = strings.ToLower(strings.TrimSpace(in.Email))
	e.Phone = in.Phone
	e.Department = in.Department
	e.Designation = in.Designation
}

func toEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:            e.ID,
		EmployeeCode:  e.EmployeeCode,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		Phone:         e.Phone,
		Department:    e.Department,
		Designation:   e.Designation,
		DateOfJoining: formatDate(e.DateOfJoining),
		Status:        e.Status,
		ImageURL:      e.ImageURL,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
