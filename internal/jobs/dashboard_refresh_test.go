package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
	"github.com/jhoicas/storefront-api/internal/infrastructure/cache"
)

// countingStats cuenta las consultas que llegan al puerto.
type countingStats struct {
	mu      sync.Mutex
	calls   int
	revenue decimal.Decimal
}

func (c *countingStats) hit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
}

func (c *countingStats) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *countingStats) CalculateStatsForTwoPeriods(context.Context, time.Time, time.Time, time.Time, time.Time) (repository.TwoPeriodStats, error) {
	c.hit()
	c.mu.Lock()
	defer c.mu.Unlock()
	return repository.TwoPeriodStats{CurrentRevenue: c.revenue}, nil
}

func (c *countingStats) GetFinancialSummary(context.Context, timewindow.Filter) ([]repository.FinancialSummaryRow, error) {
	c.hit()
	return nil, nil
}

func (c *countingStats) GetTopProductsByRevenue(context.Context, time.Time, time.Time) ([]entity.ProductRevenue, error) {
	c.hit()
	return nil, nil
}

func (c *countingStats) GetTopCustomersByRevenue(context.Context, time.Time, time.Time) ([]entity.CustomerRevenue, error) {
	c.hit()
	return nil, nil
}

func (c *countingStats) GetRevenueBySupplier(context.Context, time.Time, time.Time) ([]entity.SupplierRevenue, error) {
	c.hit()
	return nil, nil
}

func (c *countingStats) GetRevenueByCategory(context.Context, time.Time, time.Time) ([]entity.CategoryRevenue, error) {
	c.hit()
	return nil, nil
}

func (c *countingStats) FindLatestProducts(context.Context, int) ([]entity.Product, error) {
	return nil, nil
}

func (c *countingStats) GetFeatureProductsByRevenue(context.Context) ([]entity.Product, error) {
	return nil, nil
}

type zeroUsers struct{}

func (zeroUsers) CountUsers(context.Context) (int64, error) { return 0, nil }
func (zeroUsers) CountUsersCreatedBetween(context.Context, time.Time, time.Time) (int64, error) {
	return 0, nil
}
func (zeroUsers) CountBuyersBetween(context.Context, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func TestWarmup_RenuevaEntradasVigentes(t *testing.T) {
	const ttl = 10 * time.Minute
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	stats := &countingStats{revenue: decimal.NewFromInt(100)}
	now := time.Date(2023, time.April, 15, 10, 0, 0, 0, time.UTC)
	uc := analytics.NewDashboardUseCase(stats, zeroUsers{}, timewindow.FixedClock(now),
		analytics.WithCache(cache.NewRedisCache(client, ttl)),
	)
	job := NewDashboardWarmupJob(uc, zerolog.Nop())
	task, err := NewDashboardWarmupTask(timewindow.Month)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, job.Handle(ctx, task))
	assert.Equal(t, 6, stats.count())

	// dentro del TTL la lectura sale de la caché
	mr.FastForward(8 * time.Minute)
	_, err = uc.GetSummaryStatistic(ctx, timewindow.Month)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.count())

	// el siguiente disparo recalcula aunque la entrada siga viva
	stats.mu.Lock()
	stats.revenue = decimal.NewFromInt(250)
	stats.mu.Unlock()
	require.NoError(t, job.Handle(ctx, task))
	assert.Equal(t, 12, stats.count())

	// pasado el TTL original la entrada renovada sigue sirviendo
	mr.FastForward(8 * time.Minute)
	got, err := uc.GetSummaryStatistic(ctx, timewindow.Month)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.count())
	assert.True(t, decimal.NewFromInt(250).Equal(got.Current.Revenue))
}
