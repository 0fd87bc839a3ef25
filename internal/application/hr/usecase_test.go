package hr_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/hr"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

func upload(data []byte) hr.Upload {
	return hr.Upload{Filename: "archivo", Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func newEmployee(t *testing.T, uc *hr.EmployeeUseCase, code, empCode string) *dto.EmployeeResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), code, dto.EmployeeRequest{
		EmployeeCode:  empCode,
		FirstName:     "Ana",
		LastName:      "Pérez",
		Email:         strings.ToLower(empCode) + "@acme.test",
		DateOfJoining: "2025-06-01",
	})
	require.NoError(t, err)
	return out
}

func TestEmployee_AisladoPorEmpresa(t *testing.T) {
	stores := newMemStores()
	uc := hr.NewEmployeeUseCase(stores, newMemStorage(), logger.Nop())
	emp := newEmployee(t, uc, "ACME01", "E001")

	got, err := uc.GetByID(context.Background(), "ACME01", emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", got.DateOfJoining)
	assert.Equal(t, entity.EmployeeStatusActive, got.Status)

	_, err = uc.GetByID(context.Background(), "BETA01", emp.ID)
	assert.True(t, domain.Is(err, domain.ErrNotFound), "otra empresa no ve el empleado")
}

func TestEmployee_SinCodigoDeEmpresa(t *testing.T) {
	uc := hr.NewEmployeeUseCase(newMemStores(), newMemStorage(), logger.Nop())

	_, err := uc.List(context.Background(), "", dto.EmployeeListRequest{})

	assert.True(t, domain.Is(err, domain.ErrUnauthenticated))
}

func TestEmployee_FechaInvalida(t *testing.T) {
	uc := hr.NewEmployeeUseCase(newMemStores(), newMemStorage(), logger.Nop())

	_, err := uc.Create(context.Background(), "ACME01", dto.EmployeeRequest{
		EmployeeCode: "E1", FirstName: "Ana", Email: "ana@acme.test", DateOfJoining: "01/06/2025",
	})

	fields, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "date_of_joining")
}

func TestUploadImage_GuardaYDevuelveLosMismosBytes(t *testing.T) {
	storage := newMemStorage()
	uc := hr.NewEmployeeUseCase(newMemStores(), storage, logger.Nop())
	emp := newEmployee(t, uc, "ACME01", "E001")

	out, err := uc.UploadImage(context.Background(), "ACME01", emp.ID, upload(pngBytes))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out.ImageURL, "/uploads/acme01/employees/"+emp.ID+"/"))
	assert.True(t, strings.HasSuffix(out.ImageURL, ".png"))
	key := strings.TrimPrefix(out.ImageURL, "/uploads/")
	rc, err := storage.Open(context.Background(), key)
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	assert.Equal(t, pngBytes, got)
	assert.Equal(t, "image/png", storage.types[key])

	again, err := uc.UploadImage(context.Background(), "ACME01", emp.ID, upload(pngBytes))
	require.NoError(t, err)
	assert.NotEqual(t, out.ImageURL, again.ImageURL)
	assert.Len(t, storage.files, 1, "la foto anterior se borra")
}

func TestUploadImage_RechazaTipoNoPermitido(t *testing.T) {
	uc := hr.NewEmployeeUseCase(newMemStores(), newMemStorage(), logger.Nop())
	emp := newEmployee(t, uc, "ACME01", "E001")

	_, err := uc.UploadImage(context.Background(), "ACME01", emp.ID, upload([]byte("hola, no soy una imagen")))
	assert.True(t, domain.Is(err, domain.ErrUnsupportedFile))

	_, err = uc.UploadImage(context.Background(), "ACME01", emp.ID, upload(pdfBytes))
	assert.True(t, domain.Is(err, domain.ErrValidation), "un pdf no es foto")
}

func TestUploadImage_RechazaArchivoGrande(t *testing.T) {
	uc := hr.NewEmployeeUseCase(newMemStores(), newMemStorage(), logger.Nop())
	emp := newEmployee(t, uc, "ACME01", "E001")
	big := append(append([]byte{}, pngBytes...), make([]byte, hr.MaxUploadSize)...)

	_, err := uc.UploadImage(context.Background(), "ACME01", emp.ID, hr.Upload{Size: -1, Body: bytes.NewReader(big)})

	assert.True(t, domain.Is(err, domain.ErrValidation))
}

func TestOffboarding_CompletarDesactivaEmpleado(t *testing.T) {
	stores := newMemStores()
	storage := newMemStorage()
	employees := hr.NewEmployeeUseCase(stores, storage, logger.Nop())
	uc := hr.NewOffboardingUseCase(stores, storage, logger.Nop())
	emp := newEmployee(t, employees, "ACME01", "E001")

	o, err := uc.Create(context.Background(), "ACME01", dto.CreateOffboardingRequest{
		EmployeeID: emp.ID, Reason: "renuncia", LastWorkingDay: "2026-04-30",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OffboardingStatusInitiated, o.Status)

	doc, err := uc.UploadDocument(context.Background(), "ACME01", o.ID, upload(pdfBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(doc.DocumentURL, ".pdf"))

	inProgress, completed, returned := entity.OffboardingStatusInProgress, entity.OffboardingStatusCompleted, true
	_, err = uc.Update(context.Background(), "ACME01", o.ID, dto.UpdateOffboardingRequest{Status: &inProgress, AssetsReturned: &returned})
	require.NoError(t, err)
	done, err := uc.Update(context.Background(), "ACME01", o.ID, dto.UpdateOffboardingRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, completed, done.Status)
	assert.True(t, done.AssetsReturned)

	e, err := employees.GetByID(context.Background(), "ACME01", emp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmployeeStatusInactive, e.Status)

	_, err = uc.Update(context.Background(), "ACME01", o.ID, dto.UpdateOffboardingRequest{Status: &inProgress})
	assert.True(t, domain.Is(err, domain.ErrInvalidTransition))
}

func TestOffboarding_EmpleadoInexistente(t *testing.T) {
	uc := hr.NewOffboardingUseCase(newMemStores(), newMemStorage(), logger.Nop())

	_, err := uc.Create(context.Background(), "ACME01", dto.CreateOffboardingRequest{
		EmployeeID: "8d1f6a3e-4b7c-4d2e-9f10-2a3b4c5d6e7f", Reason: "x", LastWorkingDay: "2026-04-30",
	})

	assert.True(t, domain.Is(err, hr.ErrEmployeeNotFound))
}

func TestContract_SalarioNeto(t *testing.T) {
	stores := newMemStores()
	emp := newEmployee(t, hr.NewEmployeeUseCase(stores, newMemStorage(), logger.Nop()), "ACME01", "E001")
	uc := hr.NewContractUseCase(stores, "INR", logger.Nop())

	out, err := uc.Create(context.Background(), "ACME01", dto.PayrollContractRequest{
		EmployeeID:   emp.ID,
		ContractType: entity.ContractTypeFullTime,
		StartDate:    "2026-01-01",
		BasicSalary:  decimal.RequireFromString("50000.00"),
		Allowances:   decimal.RequireFromString("7500.50"),
		Deductions:   decimal.RequireFromString("2500.25"),
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("55000.25").Equal(out.NetSalary))
	assert.Equal(t, "INR", out.Currency)
	assert.Equal(t, entity.ContractStatusActive, out.Status)
}

func TestContract_ValidaMontosYFechas(t *testing.T) {
	stores := newMemStores()
	emp := newEmployee(t, hr.NewEmployeeUseCase(stores, newMemStorage(), logger.Nop()), "ACME01", "E001")
	uc := hr.NewContractUseCase(stores, "INR", logger.Nop())

	_, err := uc.Create(context.Background(), "ACME01", dto.PayrollContractRequest{
		EmployeeID:   emp.ID,
		ContractType: entity.ContractTypeIntern,
		StartDate:    "2026-01-01",
		EndDate:      "2025-12-31",
		BasicSalary:  decimal.NewFromInt(-1),
	})

	fields, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "basic_salary")
}

func TestDisciplinary_FiltraPorEmpleado(t *testing.T) {
	stores := newMemStores()
	employees := hr.NewEmployeeUseCase(stores, newMemStorage(), logger.Nop())
	a := newEmployee(t, employees, "ACME01", "E001")
	b := newEmployee(t, employees, "ACME01", "E002")
	uc := hr.NewDisciplinaryUseCase(stores, logger.Nop())

	for _, id := range []string{a.ID, a.ID, b.ID} {
		_, err := uc.Create(context.Background(), "ACME01", "user-1", dto.DisciplinaryActionRequest{
			EmployeeID: id, ActionType: entity.DisciplinaryVerbalWarning, Reason: "tardanza", ActionDate: "2026-02-10",
		})
		require.NoError(t, err)
	}

	list, err := uc.List(context.Background(), "ACME01", dto.HRListRequest{EmployeeID: a.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "user-1", list[0].IssuedBy)
	assert.Equal(t, entity.DisciplinaryStatusOpen, list[0].Status)
}
