package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

// DashboardHandler maneja los endpoints del dashboard del back-office.
// Los endpoints con ventana reciben ?filter=week|month|quarter|year.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// parseFilter lee ?filter=. Un filtro ausente o desconocido es 400 INVALID_FILTER.
func parseFilter(c *fiber.Ctx) (timewindow.Filter, error) {
	return timewindow.ParseFilter(c.Query("filter"))
}

// windowed adapta una operación con ventana a un handler Fiber.
func windowed[T any](op func(*fiber.Ctx, timewindow.Filter) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := parseFilter(c)
		if err != nil {
			return writeError(c, err)
		}
		out, err := op(c, filter)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}

// GetSummary godoc
// @Summary      KPIs del período vs período anterior
// @Description  Ingresos, unidades, clientes y pedidos de la ventana actual junto a la ventana anterior equivalente y la variación porcentual.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  true  "Ventana de reporte"  Enums(week, month, quarter, year)
// @Success      200  {object}  dto.SummaryStatisticDTO
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_FILTER"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	return windowed(func(c *fiber.Ctx, f timewindow.Filter) (*dto.SummaryStatisticDTO, error) {
		return h.uc.GetSummaryStatistic(c.UserContext(), f)
	})(c)
}

// GetFinancialSummary godoc
// @Summary      Ingresos, costo y utilidad por intervalo
// @Description  Un intervalo por día (week, month), por mes (quarter, year). Los importes nulos se informan en cero.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  true  "Ventana de reporte"  Enums(week, month, quarter, year)
// @Success      200  {object}  dto.ListResponse[dto.FinancialSummaryDTO]
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_FILTER"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/financial-summary [get]
func (h *DashboardHandler) GetFinancialSummary(c *fiber.Ctx) error {
	return windowed(func(c *fiber.Ctx, f timewindow.Filter) (*dto.ListResponse[dto.FinancialSummaryDTO], error) {
		return h.uc.GetFinancialSummaryByTime(c.UserContext(), f)
	})(c)
}

// ExportFinancialSummary godoc
// @Summary      Descarga del resumen financiero (CSV o PDF)
// @Tags         dashboard
// @Produce      text/csv,application/pdf
// @Security     BearerAuth
// @Param        filter  query  string  true  "Ventana de reporte"  Enums(week, month, quarter, year)
// @Param        format  query  string  true  "Formato de descarga"  Enums(csv, pdf)
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_FILTER o VALIDATION"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/financial-summary/export [get]
func (h *DashboardHandler) ExportFinancialSummary(c *fiber.Ctx) error {
	var q dto.ExportQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	// mismo criterio que ?filter=: sin distinguir mayúsculas
	q.Format = strings.ToLower(strings.TrimSpace(q.Format))
	if err := validate.Struct(q); err != nil {
		return validationError(c, err)
	}
	filter, err := timewindow.ParseFilter(q.Filter)
	if err != nil {
		return writeError(c, err)
	}

	data, contentType, err := h.uc.ExportFinancialSummary(c.UserContext(), filter, q.Format)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="resumen-financiero-%s.%s"`, filter, q.Format))
	return c.Send(data)
}

// GetTopProducts godoc
// @Summary      Ranking de productos por ingreso
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  true  "Ventana de reporte"  Enums(week, month, quarter, year)
// @Success      200  {object}  dto.ListResponse[dto.ProductRevenueDTO]
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_FILTER"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/top-products [get]
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	return windowed(func(c *fiber.Ctx, f timewindow.Filter) (*dto.ListResponse[dto.ProductRevenueDTO], error) {
		return h.uc.GetTopProductsByRevenue(c.UserContext(), f)
	})(c)
}

// GetTopCustomers godoc
// @Summary      Ranking de clientes por ingreso
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  true  "Ventana de reporte"  Enums(week, month, quarter, year)
// @Success      200  {object}  dto.ListResponse[dto.CustomerRevenueDTO]
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_FILTER"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/top-customers [get]
func (h *DashboardHandler) GetTopCustomers(c *fiber.Ctx) error {
	return windowed(func(c *fiber.Ctx, f timewindow.Filter) (*dto.ListResponse[dto.CustomerRevenueDTO], error) {
		return h.uc.GetTopCustomersByRevenue(c.UserContext(), f)
	})(c)
}

// GetRevenueBySupplier godoc
// @Summary      Ingreso por proveedor
// @Description  Ingreso de la ventana actual agrupado por proveedor, con su participación porcentual.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  true  "Ventana de reporte"  Enums(week, month, quarter, year)
// @Success      200  {object}  dto.ListResponse[dto.RevenueGroupDTO]
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_FILTER"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/revenue/suppliers [get]
func (h *DashboardHandler) GetRevenueBySupplier(c *fiber.Ctx) error {
	return windowed(func(c *fiber.Ctx, f timewindow.Filter) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
		return h.uc.GetRevenueBySupplier(c.UserContext(), f)
	})(c)
}

// GetRevenueByCategory godoc
// @Summary      Ingreso por categoría
// @Description  Ingreso de la ventana actual agrupado por categoría, con su participación porcentual.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  true  "Ventana de reporte"  Enums(week, month, quarter, year)
// @Success      200  {object}  dto.ListResponse[dto.RevenueGroupDTO]
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_FILTER"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/revenue/categories [get]
func (h *DashboardHandler) GetRevenueByCategory(c *fiber.Ctx) error {
	return windowed(func(c *fiber.Ctx, f timewindow.Filter) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
		return h.uc.GetRevenueByCategory(c.UserContext(), f)
	})(c)
}

// GetLatestProducts godoc
// @Summary      Últimos productos importados
// @Description  Sin ventana de reporte: la respuesta no incluye period.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListResponse[dto.ProductDTO]
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/latest-products [get]
func (h *DashboardHandler) GetLatestProducts(c *fiber.Ctx) error {
	out, err := h.uc.GetLatestProducts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetFeatureProducts godoc
// @Summary      Productos destacados por ingreso histórico
// @Description  Sin ventana de reporte: la respuesta no incluye period.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListResponse[dto.ProductDTO]
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/feature-products [get]
func (h *DashboardHandler) GetFeatureProducts(c *fiber.Ctx) error {
	out, err := h.uc.GetFeatureProducts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetManageUsers godoc
// @Summary      Conteos de usuarios de esta semana y la anterior
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserCountsDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse  "PARTIAL_RESULT: algún conteo falló"
// @Router       /api/dashboard/users [get]
func (h *DashboardHandler) GetManageUsers(c *fiber.Ctx) error {
	out := h.uc.GetManageUserDashboard(c.UserContext())
	if out.Failed() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "PARTIAL_RESULT", Message: out.Error,
		})
	}
	return c.JSON(out)
}

// GetOverview godoc
// @Summary      Widgets principales en una sola llamada
// @Description  Resumen, top productos, top clientes e ingresos por categoría calculados sobre la misma ventana.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        filter  query  string  true  "Ventana de reporte"  Enums(week, month, quarter, year)
// @Success      200  {object}  dto.OverviewDTO
// @Failure      400  {object}  dto.ErrorResponse  "INVALID_FILTER"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/overview [get]
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	return windowed(func(c *fiber.Ctx, f timewindow.Filter) (*dto.OverviewDTO, error) {
		return h.uc.GetOverview(c.UserContext(), f)
	})(c)
}

// InvalidateCache godoc
// @Summary      Descarta los resultados cacheados del dashboard
// @Tags         dashboard
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/cache/invalidate [post]
func (h *DashboardHandler) InvalidateCache(c *fiber.Ctx) error {
	if err := h.uc.InvalidateCache(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
