package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/hrms-api/internal/application/auth"
	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/jwt"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

type memStore struct {
	mu        sync.Mutex
	companies map[string]*entity.Company
	users     map[string]*entity.User
}

func newMemStore() *memStore {
	return &memStore{companies: map[string]*entity.Company{}, users: map[string]*entity.User{}}
}

type memCompanies struct {
	repository.CompanyRepository
	s *memStore
}

func (m memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, x := range m.s.companies {
		if x.CompanyCode == c.CompanyCode {
			return domain.ErrCompanyCodeTaken
		}
	}
	cp := *c
	m.s.companies[c.ID] = &cp
	return nil
}

func (m memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c, ok := m.s.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m memCompanies) GetByVerificationToken(_ context.Context, token string) (*entity.Company, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.companies {
		if c.EmailVerificationToken == token {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m memCompanies) Update(_ context.Context, c *entity.Company) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *c
	m.s.companies[c.ID] = &cp
	return nil
}

type memUsers struct {
	repository.UserRepository
	s *memStore
}

func (m memUsers) Create(_ context.Context, u *entity.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, x := range m.s.users {
		if x.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	m.s.users[u.ID] = &cp
	return nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type directTx struct{ s *memStore }

func (d directTx) RunRegistration(_ context.Context, fn func(repository.CompanyRepository, repository.UserRepository) error) error {
	return fn(memCompanies{s: d.s}, memUsers{s: d.s})
}

type recordingProvisioner struct {
	codes []string
	err   error
}

func (r *recordingProvisioner) Provision(_ context.Context, code string) error {
	r.codes = append(r.codes, code)
	return r.err
}

type recordingMailer struct{ sent []ports.Email }

func (r *recordingMailer) Send(_ context.Context, m ports.Email) error {
	r.sent = append(r.sent, m)
	return nil
}

const jwtSecret = "test-secret"

type fixture struct {
	uc          *auth.AuthUseCase
	store       *memStore
	provisioner *recordingProvisioner
	mailer      *recordingMailer
}

func newFixture() *fixture {
	f := &fixture{store: newMemStore(), provisioner: &recordingProvisioner{}, mailer: &recordingMailer{}}
	f.uc = auth.NewAuthUseCase(
		memUsers{s: f.store},
		memCompanies{s: f.store},
		directTx{s: f.store},
		f.provisioner,
		f.mailer,
		auth.Config{
			JWT:        auth.JWTConfig{Secret: jwtSecret, ExpMinutes: 60, Issuer: "hrms-test"},
			AppName:    "HRMS",
			PublicURL:  "https://api.test/",
			BcryptCost: bcrypt.MinCost,
		},
		logger.Nop(),
	)
	return f
}

func registerRequest(name, code, adminEmail string) dto.RegisterCompanyRequest {
	return dto.RegisterCompanyRequest{
		CompanyName: name,
		CompanyCode: code,
		Email:       "contacto@" + strings.ToLower(strings.ReplaceAll(name, " ", "")) + ".test",
		AdminName:   "Admin",
		AdminEmail:  adminEmail,
		Password:    "supersecreta",
	}
}

func TestRegisterCompany_DerivaCodigoYProvisiona(t *testing.T) {
	f := newFixture()

	out, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme Ltda", "", "Admin@Acme.test"))

	require.NoError(t, err)
	assert.Equal(t, "ACMELTDA", out.Company.CompanyCode)
	assert.Equal(t, entity.CompanyStatusPendingVerification, out.Company.Status)
	assert.Equal(t, entity.DefaultPlanDurationDays, out.Company.PlanDurationDays)
	assert.False(t, out.Company.IsEmailVerified)
	assert.Equal(t, "admin@acme.test", out.Admin.Email)
	assert.Equal(t, entity.RoleAdmin, out.Admin.Role)
	assert.Equal(t, []string{"ACMELTDA"}, f.provisioner.codes)
	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0].Text, "https://api.test/api/auth/verify-email?token=")
}

func TestRegisterCompany_CodigoOcupadoAgregaSufijo(t *testing.T) {
	f := newFixture()
	_, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme", "", "a@acme.test"))
	require.NoError(t, err)

	out, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme", "", "b@acme.test"))

	require.NoError(t, err)
	assert.Regexp(t, `^ACME\d{2}$`, out.Company.CompanyCode)
}

func TestRegisterCompany_CodigoExplicitoOcupado(t *testing.T) {
	f := newFixture()
	_, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme", "acme01", "a@acme.test"))
	require.NoError(t, err)

	_, err = f.uc.RegisterCompany(context.Background(), registerRequest("Otra", "ACME01", "b@otra.test"))

	assert.True(t, domain.Is(err, domain.ErrCompanyCodeTaken))
}

func TestRegisterCompany_CodigoInvalido(t *testing.T) {
	f := newFixture()

	_, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme", "ab", "a@acme.test"))

	assert.True(t, domain.Is(err, domain.ErrValidation))
	fields, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "company_code")
}

func TestRegisterCompany_EmailDuplicado(t *testing.T) {
	f := newFixture()
	_, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme", "", "a@acme.test"))
	require.NoError(t, err)

	_, err = f.uc.RegisterCompany(context.Background(), registerRequest("Beta", "", "A@acme.test"))

	assert.True(t, domain.Is(err, domain.ErrEmailAlreadyExists))
}

func TestRegisterCompany_FalloDeProvisionNoAbortaElAlta(t *testing.T) {
	f := newFixture()
	f.provisioner.err = errors.New("postgres caído")

	out, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme", "", "a@acme.test"))

	require.NoError(t, err)
	assert.Equal(t, "ACME", out.Company.CompanyCode)
}

func TestLogin_RequiereEmailVerificado(t *testing.T) {
	f := newFixture()
	_, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme", "ACME01", "a@acme.test"))
	require.NoError(t, err)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "a@acme.test", Password: "supersecreta"})

	assert.True(t, domain.Is(err, domain.ErrForbidden))
	assert.True(t, domain.Is(err, domain.ErrEmailNotVerified))
}

func TestLogin_TrasVerificarEmiteTokenConCodigo(t *testing.T) {
	f := newFixture()
	_, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme", "ACME01", "a@acme.test"))
	require.NoError(t, err)
	token := f.store.companies[firstCompanyID(f.store)].EmailVerificationToken

	company, err := f.uc.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, company.IsEmailVerified)
	assert.Equal(t, entity.CompanyStatusVerified, company.Status)

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "A@acme.test", Password: "supersecreta"})
	require.NoError(t, err)
	assert.Equal(t, "ACME01", out.CompanyCode)
	claims, err := jwt.Parse(jwtSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "ACME01", claims.CompanyCode)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, out.User.ID, claims.UserID)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	f := newFixture()
	_, err := f.uc.RegisterCompany(context.Background(), registerRequest("Acme", "ACME01", "a@acme.test"))
	require.NoError(t, err)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "a@acme.test", Password: "otra-clave"})
	assert.True(t, domain.Is(err, domain.ErrUnauthenticated))

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@acme.test", Password: "supersecreta"})
	assert.True(t, domain.Is(err, domain.ErrInvalidCredentials))
}

func TestVerifyEmail_TokenInvalido(t *testing.T) {
	f := newFixture()

	_, err := f.uc.VerifyEmail(context.Background(), "no-existe")
	assert.True(t, domain.Is(err, domain.ErrNotFound))

	_, err = f.uc.VerifyEmail(context.Background(), " ")
	assert.True(t, domain.Is(err, domain.ErrValidation))
}

func firstCompanyID(s *memStore) string {
	for id := range s.companies {
		return id
	}
	return ""
}
