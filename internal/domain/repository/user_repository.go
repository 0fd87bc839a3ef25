package repository

import (
	"context"

	"github.com/jhoicas/hrms-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindAdmin devuelve el primer usuario admin activo de la empresa.
	FindAdmin(ctx context.Context, companyID string) (*entity.User, error)
}
