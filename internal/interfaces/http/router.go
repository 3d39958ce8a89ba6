package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	ServiceName string
	Checks      map[string]Pinger // dependencias verificadas por /health
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.ServiceName, deps.Checks).Check)

	api := app.Group("/api")

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Dashboard (solo administradores)
	dashboard := api.Group("/dashboard",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin),
	)
	h := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", h.GetSummary)
	dashboard.Get("/financial-summary", h.GetFinancialSummary)
	dashboard.Get("/financial-summary/export", h.ExportFinancialSummary)
	dashboard.Get("/top-products", h.GetTopProducts)
	dashboard.Get("/top-customers", h.GetTopCustomers)
	dashboard.Get("/revenue/suppliers", h.GetRevenueBySupplier)
	dashboard.Get("/revenue/categories", h.GetRevenueByCategory)
	dashboard.Get("/latest-products", h.GetLatestProducts)
	dashboard.Get("/feature-products", h.GetFeatureProducts)
	dashboard.Get("/users", h.GetManageUsers)
	dashboard.Get("/overview", h.GetOverview)
	dashboard.Post("/cache/invalidate", h.InvalidateCache)
}
