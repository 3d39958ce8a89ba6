package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx usado por los adaptadores.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// nullableText convierte un *string escaneado en el valor crudo que esperan
// los puertos: nil si la columna vino NULL.
func nullableText(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
