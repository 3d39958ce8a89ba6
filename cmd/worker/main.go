package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
	"github.com/jhoicas/storefront-api/internal/infrastructure/cache"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storefront-api/internal/jobs"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name + "-worker",
	})

	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{AppName: cfg.App.Name + "-worker", MaxConns: 4})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loc, err := cfg.Dashboard.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria del dashboard")
	}
	clock := timewindow.NewSystemClock(loc)

	dashboardUC := appanalytics.NewDashboardUseCase(
		postgres.NewStatisticsRepository(pool, clock),
		postgres.NewUserRepository(pool),
		clock,
		appanalytics.WithCache(cache.NewRedisCache(redisClient, cfg.Dashboard.CacheTTL)),
		appanalytics.WithLogger(log.Zerolog()),
	)
	warmupJob := jobs.NewDashboardWarmupJob(dashboardUC, log.Zerolog())

	warmupTask, err := jobs.NewDashboardWarmupTask()
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de warmup")
	}

	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    log.Zerolog(),
		Location:  loc,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDashboardWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Dashboard.WarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar worker")
	}

	// Precalentamiento inicial para no esperar al primer disparo del cron.
	client := jobs.NewClient(redisOpts)
	if _, err := client.EnqueueDashboardWarmup(ctx, 5*time.Minute); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		log.Warn().Err(err).Msg("encolar warmup inicial")
	}
	_ = client.Close()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
