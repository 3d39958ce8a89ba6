package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

// DashboardWarmer operaciones con ventana que pasan por la caché de resultados.
// Lo implementa *analytics.DashboardUseCase.
type DashboardWarmer interface {
	GetSummaryStatistic(ctx context.Context, filter timewindow.Filter) (*dto.SummaryStatisticDTO, error)
	GetFinancialSummaryByTime(ctx context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.FinancialSummaryDTO], error)
	GetTopProductsByRevenue(ctx context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.ProductRevenueDTO], error)
	GetTopCustomersByRevenue(ctx context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.CustomerRevenueDTO], error)
	GetRevenueBySupplier(ctx context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.RevenueGroupDTO], error)
	GetRevenueByCategory(ctx context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.RevenueGroupDTO], error)
}

// DashboardWarmupJob recorre cada filtro y recalcula las operaciones cacheadas,
// sobrescribiendo las entradas vigentes para que no expiren entre disparos.
type DashboardWarmupJob struct {
	dashboard DashboardWarmer
	log       zerolog.Logger
	timeout   time.Duration // por filtro
}

// NewDashboardWarmupJob construye el handler.
func NewDashboardWarmupJob(dashboard DashboardWarmer, log zerolog.Logger) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		dashboard: dashboard,
		log:       log.With().Str("job", TaskDashboardWarmup).Logger(),
		timeout:   30 * time.Second,
	}
}

// Handle procesa TaskDashboardWarmup. Un payload inválido no se reintenta;
// un fallo de consulta en cualquier filtro sí (se devuelve el error agregado).
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.dashboard == nil {
		return errors.New("dashboard warmup: handler no configurado")
	}
	var payload WarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("dashboard warmup: payload: %v: %w", err, asynq.SkipRetry)
	}
	filters := payload.Filters
	if len(filters) == 0 {
		filters = timewindow.Filters()
	}
	for _, f := range filters {
		if !f.Valid() {
			return fmt.Errorf("dashboard warmup: filtro %q: %w", f, asynq.SkipRetry)
		}
	}

	start := time.Now()
	var errs []error
	for _, f := range filters {
		if err := j.warmFilter(ctx, f); err != nil {
			j.log.Error().Err(err).Str("filter", string(f)).Msg("warmup del filtro falló")
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("dashboard warmup: %w", err)
	}

	j.log.Info().Int("filters", len(filters)).Dur("duration", time.Since(start)).Msg("warmup completado")
	return nil
}

func (j *DashboardWarmupJob) warmFilter(ctx context.Context, f timewindow.Filter) error {
	ctx, cancel := context.WithTimeout(analytics.WithRefresh(ctx), j.timeout)
	defer cancel()

	steps := []func(context.Context, timewindow.Filter) error{
		func(ctx context.Context, f timewindow.Filter) error {
			_, err := j.dashboard.GetSummaryStatistic(ctx, f)
			return err
		},
		func(ctx context.Context, f timewindow.Filter) error {
			_, err := j.dashboard.GetFinancialSummaryByTime(ctx, f)
			return err
		},
		func(ctx context.Context, f timewindow.Filter) error {
			_, err := j.dashboard.GetTopProductsByRevenue(ctx, f)
			return err
		},
		func(ctx context.Context, f timewindow.Filter) error {
			_, err := j.dashboard.GetTopCustomersByRevenue(ctx, f)
			return err
		},
		func(ctx context.Context, f timewindow.Filter) error {
			_, err := j.dashboard.GetRevenueBySupplier(ctx, f)
			return err
		},
		func(ctx context.Context, f timewindow.Filter) error {
			_, err := j.dashboard.GetRevenueByCategory(ctx, f)
			return err
		},
	}
	for _, step := range steps {
		if err := step(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
