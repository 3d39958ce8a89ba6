package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

type fakeWarmer struct {
	mu     sync.Mutex
	calls  map[timewindow.Filter][]string
	failOn timewindow.Filter
}

func newFakeWarmer() *fakeWarmer {
	return &fakeWarmer{calls: make(map[timewindow.Filter][]string)}
}

func (f *fakeWarmer) record(filter timewindow.Filter, op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[filter] = append(f.calls[filter], op)
	if filter == f.failOn {
		return errors.New("db caída")
	}
	return nil
}

func (f *fakeWarmer) GetSummaryStatistic(_ context.Context, filter timewindow.Filter) (*dto.SummaryStatisticDTO, error) {
	return nil, f.record(filter, "summary")
}

func (f *fakeWarmer) GetFinancialSummaryByTime(_ context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.FinancialSummaryDTO], error) {
	return nil, f.record(filter, "financial")
}

func (f *fakeWarmer) GetTopProductsByRevenue(_ context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.ProductRevenueDTO], error) {
	return nil, f.record(filter, "top-products")
}

func (f *fakeWarmer) GetTopCustomersByRevenue(_ context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.CustomerRevenueDTO], error) {
	return nil, f.record(filter, "top-customers")
}

func (f *fakeWarmer) GetRevenueBySupplier(_ context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
	return nil, f.record(filter, "suppliers")
}

func (f *fakeWarmer) GetRevenueByCategory(_ context.Context, filter timewindow.Filter) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
	return nil, f.record(filter, "categories")
}

func TestWarmup_SinFiltrosRecorreTodos(t *testing.T) {
	w := newFakeWarmer()
	job := NewDashboardWarmupJob(w, zerolog.Nop())

	task, err := NewDashboardWarmupTask()
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, w.calls, len(timewindow.Filters()))
	for _, f := range timewindow.Filters() {
		assert.Equal(t,
			[]string{"summary", "financial", "top-products", "top-customers", "suppliers", "categories"},
			w.calls[f], "filtro %s", f)
	}
}

func TestWarmup_FiltrosDelPayload(t *testing.T) {
	w := newFakeWarmer()
	task, err := NewDashboardWarmupTask(timewindow.Month)
	require.NoError(t, err)

	require.NoError(t, NewDashboardWarmupJob(w, zerolog.Nop()).Handle(context.Background(), task))
	assert.Len(t, w.calls, 1)
	assert.Contains(t, w.calls, timewindow.Month)
}

func TestWarmup_PayloadInvalidoNoSeReintenta(t *testing.T) {
	job := NewDashboardWarmupJob(newFakeWarmer(), zerolog.Nop())

	err := job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, []byte("{no json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	data, _ := json.Marshal(map[string]any{"filters": []string{"decade"}})
	err = job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, data))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestWarmup_FalloDeUnFiltroNoDetieneLosDemas(t *testing.T) {
	w := newFakeWarmer()
	w.failOn = timewindow.Week
	task, err := NewDashboardWarmupTask()
	require.NoError(t, err)

	err = NewDashboardWarmupJob(w, zerolog.Nop()).Handle(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	assert.Contains(t, err.Error(), "week")

	// week corta en la primera operación, el resto completa
	assert.Equal(t, []string{"summary"}, w.calls[timewindow.Week])
	assert.Len(t, w.calls[timewindow.Year], 6)
}

func TestWarmup_SinDashboard(t *testing.T) {
	var job *DashboardWarmupJob
	assert.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, nil)))
}

func TestClient_EnqueueDashboardWarmup(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := asynq.RedisClientOpt{Addr: mr.Addr()}

	client := NewClient(opts)
	defer client.Close()

	info, err := client.EnqueueDashboardWarmup(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, TaskDashboardWarmup, info.Type)
	assert.Equal(t, QueueDefault, info.Queue)

	var payload WarmupPayload
	require.NoError(t, json.Unmarshal(info.Payload, &payload))
	assert.Empty(t, payload.Filters)

	// la segunda queda bloqueada por Unique
	_, err = client.EnqueueDashboardWarmup(context.Background(), time.Minute)
	assert.ErrorIs(t, err, asynq.ErrDuplicateTask)
}

func TestNewWorker_CronInvalido(t *testing.T) {
	task, err := NewDashboardWarmupTask()
	require.NoError(t, err)

	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "localhost:0"},
		Logger:    zerolog.Nop(),
		Cron:      []CronRegistration{{Spec: "cada media hora", Task: task}},
	})
	assert.ErrorContains(t, err, "cada media hora")
}

func TestNewWorker_CronVacioDesactivaScheduler(t *testing.T) {
	task, err := NewDashboardWarmupTask()
	require.NoError(t, err)

	w, err := NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "localhost:0"},
		Logger:    zerolog.Nop(),
		Handlers:  []TaskHandler{{Type: TaskDashboardWarmup, Handler: NewDashboardWarmupJob(newFakeWarmer(), zerolog.Nop()).Handle}},
		Cron:      []CronRegistration{{Spec: "", Task: task}},
	})
	require.NoError(t, err)
	assert.Nil(t, w.scheduler)
}
