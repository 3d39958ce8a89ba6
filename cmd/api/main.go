package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
	"github.com/jhoicas/storefront-api/internal/infrastructure/cache"
	"github.com/jhoicas/storefront-api/internal/infrastructure/csvexport"
	infrapdf "github.com/jhoicas/storefront-api/internal/infrastructure/pdf"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/storefront-api/internal/interfaces/http"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"

	_ "github.com/jhoicas/storefront-api/docs"
)

// @title                       Storefront API
// @version                     1.0
// @description                 Dashboard de análisis del back-office de la tienda.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("timezone", cfg.Dashboard.Timezone).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{
		AppName:          cfg.App.Name,
		StatementTimeout: 15 * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar redis")
		}
	}()
	// Sin Redis el dashboard sigue respondiendo con consultas directas.
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis no disponible al arrancar")
	}
	resultCache := cache.NewRedisCache(redisClient, cfg.Dashboard.CacheTTL)

	loc, err := cfg.Dashboard.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria del dashboard")
	}
	clock := timewindow.NewSystemClock(loc)

	userRepo := postgres.NewUserRepository(pool)
	statsRepo := postgres.NewStatisticsRepository(pool, clock)

	dashboardUC := appanalytics.NewDashboardUseCase(statsRepo, userRepo, clock,
		appanalytics.WithCache(resultCache),
		appanalytics.WithLogger(log.Zerolog()),
		appanalytics.WithExporters(
			csvexport.NewFinancialSummaryCSV(),
			infrapdf.NewFinancialSummaryPDF(cfg.Dashboard.StoreName),
		),
	)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
		Checks: map[string]httpRouter.Pinger{
			"postgres": pool,
			"redis":    resultCache,
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
