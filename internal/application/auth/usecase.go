package auth

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/hrms-api/internal/application/dto"
	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/application/usecase"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/jwt"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

// maxCodeAttempts intentos con sufijo aleatorio cuando el código derivado ya existe.
const maxCodeAttempts = 5

// RegistrationTxRunner crea empresa y administrador en una sola transacción.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
	) error) error
}

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Config parámetros del alta y del login.
type Config struct {
	JWT              JWTConfig
	PlanDurationDays int
	AppName          string
	PublicURL        string // base de los enlaces de verificación
	BcryptCost       int
}

// AuthUseCase casos de uso de autenticación: alta de empresa, verificación de email y login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	tx          RegistrationTxRunner
	provisioner ports.TenantProvisioner
	mailer      ports.Mailer
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. provisioner puede ser nil: la base de la
// empresa se crea entonces en su primer uso.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	tx RegistrationTxRunner,
	provisioner ports.TenantProvisioner,
	mailer ports.Mailer,
	cfg Config,
	log *logger.Logger,
) *AuthUseCase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.PlanDurationDays <= 0 {
		cfg.PlanDurationDays = entity.DefaultPlanDurationDays
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		tx:          tx,
		provisioner: provisioner,
		mailer:      mailer,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// RegisterCompany da de alta la empresa con su usuario administrador. El código de empresa
// se normaliza si viene en la petición o se deriva del nombre.
func (uc *AuthUseCase) RegisterCompany(ctx context.Context, in dto.RegisterCompanyRequest) (*dto.RegisterCompanyResponse, error) {
	adminEmail := strings.ToLower(strings.TrimSpace(in.AdminEmail))
	existing, err := uc.userRepo.GetByEmail(ctx, adminEmail)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	candidates, err := codeCandidates(in.CompanyCode, in.CompanyName)
	if err != nil {
		return nil, err
	}

	var company *entity.Company
	var admin *entity.User
	for _, code := range candidates {
		company, admin = uc.newRegistration(code, in, adminEmail, string(hash))
		err = uc.tx.RunRegistration(ctx, func(companies repository.CompanyRepository, users repository.UserRepository) error {
			if err := companies.Create(ctx, company); err != nil {
				return err
			}
			return users.Create(ctx, admin)
		})
		if err == nil || !domain.Is(err, domain.ErrCompanyCodeTaken) {
			break
		}
		uc.log.Debug().Str("company_code", code).Msg("código de empresa ocupado, probando otro")
	}
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_code", company.CompanyCode).Str("company_id", company.ID).Msg("empresa registrada")

	if uc.provisioner != nil {
		if err := uc.provisioner.Provision(ctx, company.CompanyCode); err != nil {
			uc.log.Error().Err(err).Str("company_code", company.CompanyCode).Msg("no se pudo aprovisionar la base de la empresa; se reintentará en el primer uso")
		}
	}
	uc.sendVerification(ctx, company)

	return &dto.RegisterCompanyResponse{
		Company: *usecase.ToCompanyResponse(company),
		Admin:   *toUserResponse(admin),
		Message: "Empresa registrada. Revise su correo para verificar la cuenta.",
	}, nil
}

// VerifyEmail marca el email de la empresa como verificado. Verificar dos veces no es error.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, token string) (*dto.CompanyResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.NewFieldErrors(domain.FieldErrors{"token": "required"})
	}
	company, err := uc.companyRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NewError(domain.ErrNotFound, "token de verificación inválido o ya usado")
	}
	if company.IsEmailVerified {
		return usecase.ToCompanyResponse(company), nil
	}
	company.IsEmailVerified = true
	company.EmailVerificationToken = ""
	if company.Status == entity.CompanyStatusPendingVerification {
		company.Status = entity.CompanyStatusVerified
	}
	company.UpdatedAt = uc.now()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_code", company.CompanyCode).Msg("email de empresa verificado")
	return usecase.ToCompanyResponse(company), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario + código de empresa.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Status != "active" {
		return nil, domain.ErrAccountInactive
	}
	company, err := uc.companyRepo.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	if !company.IsEmailVerified {
		return nil, domain.WithHint(domain.ErrEmailNotVerified, "Abra el enlace de verificación enviado al correo de la empresa")
	}
	token, err := jwt.Generate(uc.cfg.JWT.Secret, user.ID, company.CompanyCode, user.Role, uc.cfg.JWT.Issuer, uc.cfg.JWT.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:       token,
		CompanyCode: company.CompanyCode,
		User:        *toUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) newRegistration(code string, in dto.RegisterCompanyRequest, adminEmail, hash string) (*entity.Company, *entity.User) {
	now := uc.now()
	company := &entity.Company{
		ID:                     uuid.New().String(),
		CompanyCode:            code,
		Name:                   strings.TrimSpace(in.CompanyName),
		Email:                  strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:                  in.Phone,
		Address:                in.Address,
		Status:                 entity.CompanyStatusPendingVerification,
		EmailVerificationToken: strings.ReplaceAll(uuid.NewString(), "-", ""),
		PlanDurationDays:       uc.cfg.PlanDurationDays,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        adminEmail,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.AdminName),
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return company, admin
}

func (uc *AuthUseCase) sendVerification(ctx context.Context, c *entity.Company) {
	link := fmt.Sprintf("%s/api/auth/verify-email?token=%s", strings.TrimRight(uc.cfg.PublicURL, "/"), c.EmailVerificationToken)
	err := uc.mailer.Send(ctx, ports.Email{
		To:      []string{c.Email},
		Subject: fmt.Sprintf("%s: verifique el correo de %s", uc.cfg.AppName, c.Name),
		Text: fmt.Sprintf("Hola,\n\nSe registró la empresa %s con el código %s.\nPara activar la cuenta abra el siguiente enlace:\n\n%s\n",
			c.Name, c.CompanyCode, link),
	})
	if err != nil {
		uc.log.Error().Err(err).Str("company_code", c.CompanyCode).Msg("no se pudo enviar el correo de verificación")
	}
}

// codeCandidates códigos a probar en orden. Un código explícito es el único candidato.
func codeCandidates(requested, name string) ([]string, error) {
	if strings.TrimSpace(requested) != "" {
		code := entity.NormalizeCompanyCode(requested)
		if !entity.ValidCompanyCode(code) {
			return nil, domain.NewFieldErrors(domain.FieldErrors{"company_code": "formato A-Z0-9, 3 a 20 caracteres"})
		}
		return []string{code}, nil
	}
	base := entity.DeriveCompanyCode(name)
	if base == "" {
		base = "HR"
	}
	var out []string
	if entity.ValidCompanyCode(base) {
		out = append(out, base)
	}
	for i := 0; i < maxCodeAttempts; i++ {
		out = append(out, fmt.Sprintf("%s%02d", base, rand.IntN(100)))
	}
	return out, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
