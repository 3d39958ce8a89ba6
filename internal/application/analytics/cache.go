package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

// cacheKey clave lógica de un resultado: operación + filtro + inicio de la ventana.
// La ventana cambia sola al avanzar el reloj, así que no hace falta expirar por período.
func cacheKey(op string, filter timewindow.Filter, w timewindow.Window) string {
	return fmt.Sprintf("dashboard:%s:%s:%s", op, filter, w.StartDate())
}

type refreshKey struct{}

// WithRefresh marca ctx para que las operaciones cacheadas recalculen y
// sobrescriban su entrada en lugar de leerla. Lo usa el precalentamiento.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func refreshRequested(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

// cached resuelve load a través de la caché del caso de uso.
// Los errores de load se devuelven sin tocar; un fallo de la caché solo se
// registra y se responde con la consulta directa.
func cached[T any](ctx context.Context, uc *DashboardUseCase, key string, load func(context.Context) (T, error)) (T, error) {
	if uc.cache == nil {
		return load(ctx)
	}
	if refreshRequested(ctx) {
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		if err := uc.cache.StoreJSON(ctx, key, value); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("dashboard: no se pudo refrescar la caché")
		}
		return value, nil
	}

	var (
		loaded    T
		didLoad   bool
		loaderErr error
		dest      T
	)
	err := uc.cache.FetchJSON(ctx, key, &dest, func(ctx context.Context) (any, error) {
		loaded, loaderErr = load(ctx)
		didLoad = true
		return loaded, loaderErr
	})
	if loaderErr != nil {
		return loaded, loaderErr
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("dashboard: caché no disponible, consulta directa")
		if didLoad {
			return loaded, nil
		}
		return load(ctx)
	}
	return dest, nil
}
