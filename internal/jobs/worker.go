package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TaskHandler asocia un tipo de tarea a su handler.
type TaskHandler struct {
	Type    string
	Handler asynq.HandlerFunc
}

// CronRegistration programa una tarea con una expresión cron.
type CronRegistration struct {
	Spec    string
	Task    *asynq.Task
	Options []asynq.Option
}

// WorkerConfig dependencias para levantar el worker.
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Logger      zerolog.Logger
	Location    *time.Location // zona de las expresiones cron; nil = UTC
	Concurrency int
	Handlers    []TaskHandler
	Cron        []CronRegistration
}

// Worker servidor asynq con scheduler opcional.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	log       zerolog.Logger
}

// NewWorker construye el worker. Las registraciones cron con Spec vacío se omiten.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	asynqLog := zerologAdapter{l: cfg.Logger.With().Str("component", "asynq").Logger()}

	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueDefault: 1},
		Logger:      asynqLog,
	})
	mux := asynq.NewServeMux()
	for _, h := range cfg.Handlers {
		if h.Type == "" || h.Handler == nil {
			continue
		}
		mux.HandleFunc(h.Type, h.Handler)
	}

	var scheduler *asynq.Scheduler
	for _, entry := range cfg.Cron {
		if entry.Spec == "" || entry.Task == nil {
			continue
		}
		if scheduler == nil {
			scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: loc, Logger: asynqLog})
		}
		if _, err := scheduler.Register(entry.Spec, entry.Task, entry.Options...); err != nil {
			return nil, fmt.Errorf("jobs: registrar cron %q: %w", entry.Spec, err)
		}
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, log: cfg.Logger}, nil
}

// Run procesa tareas hasta que se cancela el contexto.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: no configurado")
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	w.log.Info().Bool("scheduler", w.scheduler != nil).Msg("worker iniciado")

	select {
	case <-ctx.Done():
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		return err
	}
}

// Client encola tareas.
type Client struct {
	client *asynq.Client
}

// NewClient construye el cliente asynq.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueDashboardWarmup encola un precalentamiento. unique evita duplicados
// mientras la tarea anterior siga pendiente.
func (c *Client) EnqueueDashboardWarmup(ctx context.Context, unique time.Duration) (*asynq.TaskInfo, error) {
	task, err := NewDashboardWarmupTask()
	if err != nil {
		return nil, err
	}
	opts := []asynq.Option{asynq.Queue(QueueDefault), asynq.MaxRetry(3)}
	if unique > 0 {
		opts = append(opts, asynq.Unique(unique))
	}
	return c.client.EnqueueContext(ctx, task, opts...)
}

// Close libera el cliente.
func (c *Client) Close() error {
	return c.client.Close()
}

// zerologAdapter implementa asynq.Logger sobre zerolog.
type zerologAdapter struct {
	l zerolog.Logger
}

func (a zerologAdapter) Debug(args ...any) { a.l.Debug().Msg(fmt.Sprint(args...)) }
func (a zerologAdapter) Info(args ...any)  { a.l.Info().Msg(fmt.Sprint(args...)) }
func (a zerologAdapter) Warn(args ...any)  { a.l.Warn().Msg(fmt.Sprint(args...)) }
func (a zerologAdapter) Error(args ...any) { a.l.Error().Msg(fmt.Sprint(args...)) }
func (a zerologAdapter) Fatal(args ...any) { a.l.Fatal().Msg(fmt.Sprint(args...)) }
