package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var (
	_ repository.UserRepository      = (*UserRepo)(nil)
	_ repository.UserStatsRepository = (*UserRepo)(nil)
)

// UserRepo implementación de UserRepository y UserStatsRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Acepta pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id::TEXT, email, password_hash, name, role, status, created_at, updated_at`

// FindByID obtiene un usuario por ID. nil, nil si no existe.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail obtiene un usuario por email (sin distinguir mayúsculas). nil, nil si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("users.findOne: %w", err)
	}
	return &u, nil
}

// CountUsers total de cuentas de clientes.
func (r *UserRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, entity.RoleCustomer).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("users.CountUsers: %w", err)
	}
	return n, nil
}

// CountUsersCreatedBetween clientes registrados en [from, to).
func (r *UserRepo) CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	const query = `
	SELECT COUNT(*)
	FROM users
	WHERE role = $1
	  AND created_at >= $2
	  AND created_at <  $3`

	var n int64
	if err := r.q.QueryRow(ctx, query, entity.RoleCustomer, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("users.CountUsersCreatedBetween: %w", err)
	}
	return n, nil
}

// CountBuyersBetween clientes distintos con al menos un pedido no cancelado en [from, to).
func (r *UserRepo) CountBuyersBetween(ctx context.Context, from, to time.Time) (int64, error) {
	const query = `
	SELECT COUNT(DISTINCT o.user_id)
	FROM orders o
	WHERE o.status <> $1
	  AND o.created_at >= $2
	  AND o.created_at <  $3`

	var n int64
	if err := r.q.QueryRow(ctx, query, orderStatusCancelled, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("users.CountBuyersBetween: %w", err)
	}
	return n, nil
}
