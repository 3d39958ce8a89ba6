package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// UserRepository define el puerto de lectura de cuentas para autenticación.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
