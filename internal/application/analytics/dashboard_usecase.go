// Package analytics contiene los casos de uso del dashboard de la tienda:
// resolución de la ventana de reporte, período anterior equivalente y armado
// de las comparaciones a partir de los puertos de consulta.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

const latestProductsLimit = 8 // tamaño del widget "últimos productos"

var hundred = decimal.NewFromInt(100)

// DashboardUseCase orquesta las consultas del dashboard.
//
// Fuente de datos: StatisticsRepository y UserStatsRepository (read-only).
// Cada operación es un pipeline independiente: ventana → (ventana anterior) →
// consultas → armado del DTO. No guarda estado entre llamadas.
type DashboardUseCase struct {
	statsRepo repository.StatisticsRepository
	userRepo  repository.UserStatsRepository
	clock     timewindow.Clock
	cache     ResultCache
	log       zerolog.Logger
	exporters map[string]FinancialSummaryExporter
}

// Option configura dependencias opcionales del caso de uso.
type Option func(*DashboardUseCase)

// WithCache activa la caché de resultados para las operaciones con ventana.
func WithCache(c ResultCache) Option {
	return func(uc *DashboardUseCase) { uc.cache = c }
}

// WithLogger inyecta el logger (por defecto zerolog.Nop).
func WithLogger(l zerolog.Logger) Option {
	return func(uc *DashboardUseCase) { uc.log = l }
}

// WithExporters registra los formatos de exportación del resumen financiero.
func WithExporters(exporters ...FinancialSummaryExporter) Option {
	return func(uc *DashboardUseCase) {
		for _, e := range exporters {
			uc.exporters[e.Format()] = e
		}
	}
}

// NewDashboardUseCase construye el caso de uso. clock nil = reloj del sistema.
func NewDashboardUseCase(
	statsRepo repository.StatisticsRepository,
	userRepo repository.UserStatsRepository,
	clock timewindow.Clock,
	opts ...Option,
) *DashboardUseCase {
	if clock == nil {
		clock = timewindow.NewSystemClock(nil)
	}
	uc := &DashboardUseCase{
		statsRepo: statsRepo,
		userRepo:  userRepo,
		clock:     clock,
		log:       zerolog.Nop(),
		exporters: make(map[string]FinancialSummaryExporter),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// GetSummaryStatistic compara ingresos, unidades, clientes y pedidos del
// período actual contra el período anterior equivalente.
func (uc *DashboardUseCase) GetSummaryStatistic(
	ctx context.Context,
	filter timewindow.Filter,
) (*dto.SummaryStatisticDTO, error) {
	return uc.summaryAt(ctx, filter, uc.clock.Now())
}

func (uc *DashboardUseCase) summaryAt(ctx context.Context, filter timewindow.Filter, now time.Time) (*dto.SummaryStatisticDTO, error) {
	current, previous, err := timewindow.ResolveWithPrevious(filter, now)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc, cacheKey("summary", filter, current), func(ctx context.Context) (*dto.SummaryStatisticDTO, error) {
		stats, err := uc.statsRepo.CalculateStatsForTwoPeriods(ctx, current.Start, current.End, previous.Start, previous.End)
		if err != nil {
			return nil, fmt.Errorf("dashboard: estadísticas de dos períodos: %w", err)
		}
		return buildSummary(stats, current, previous), nil
	})
}

// GetFinancialSummaryByTime devuelve ingresos, costo y utilidad por intervalo.
// El repositorio decide los intervalos a partir del filtro.
func (uc *DashboardUseCase) GetFinancialSummaryByTime(
	ctx context.Context,
	filter timewindow.Filter,
) (*dto.ListResponse[dto.FinancialSummaryDTO], error) {
	return uc.financialAt(ctx, filter, uc.clock.Now())
}

func (uc *DashboardUseCase) financialAt(ctx context.Context, filter timewindow.Filter, now time.Time) (*dto.ListResponse[dto.FinancialSummaryDTO], error) {
	current, err := timewindow.Resolve(filter, now)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc, cacheKey("financial", filter, current), func(ctx context.Context) (*dto.ListResponse[dto.FinancialSummaryDTO], error) {
		rows, err := uc.statsRepo.GetFinancialSummary(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("dashboard: resumen financiero: %w", err)
		}
		return newList(normalizeFinancialRows(rows), &current), nil
	})
}

// GetTopProductsByRevenue ranking de productos por ingreso en el período actual.
func (uc *DashboardUseCase) GetTopProductsByRevenue(
	ctx context.Context,
	filter timewindow.Filter,
) (*dto.ListResponse[dto.ProductRevenueDTO], error) {
	return uc.topProductsAt(ctx, filter, uc.clock.Now())
}

func (uc *DashboardUseCase) topProductsAt(ctx context.Context, filter timewindow.Filter, now time.Time) (*dto.ListResponse[dto.ProductRevenueDTO], error) {
	current, err := timewindow.Resolve(filter, now)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc, cacheKey("top-products", filter, current), func(ctx context.Context) (*dto.ListResponse[dto.ProductRevenueDTO], error) {
		rows, err := uc.statsRepo.GetTopProductsByRevenue(ctx, current.Start, current.End)
		if err != nil {
			return nil, fmt.Errorf("dashboard: top productos: %w", err)
		}
		items := make([]dto.ProductRevenueDTO, 0, len(rows))
		for i, r := range rows {
			items = append(items, dto.ProductRevenueDTO{
				Rank:         i + 1,
				ProductID:    r.ProductID,
				SKU:          r.SKU,
				Name:         r.Name,
				ImageURL:     r.ImageURL,
				QuantitySold: r.QuantitySold,
				Revenue:      r.Revenue.Round(2),
			})
		}
		return newList(items, &current), nil
	})
}

// GetTopCustomersByRevenue ranking de clientes por ingreso en el período actual.
func (uc *DashboardUseCase) GetTopCustomersByRevenue(
	ctx context.Context,
	filter timewindow.Filter,
) (*dto.ListResponse[dto.CustomerRevenueDTO], error) {
	return uc.topCustomersAt(ctx, filter, uc.clock.Now())
}

func (uc *DashboardUseCase) topCustomersAt(ctx context.Context, filter timewindow.Filter, now time.Time) (*dto.ListResponse[dto.CustomerRevenueDTO], error) {
	current, err := timewindow.Resolve(filter, now)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc, cacheKey("top-customers", filter, current), func(ctx context.Context) (*dto.ListResponse[dto.CustomerRevenueDTO], error) {
		rows, err := uc.statsRepo.GetTopCustomersByRevenue(ctx, current.Start, current.End)
		if err != nil {
			return nil, fmt.Errorf("dashboard: top clientes: %w", err)
		}
		items := make([]dto.CustomerRevenueDTO, 0, len(rows))
		for i, r := range rows {
			items = append(items, dto.CustomerRevenueDTO{
				Rank:       i + 1,
				CustomerID: r.CustomerID,
				Name:       r.Name,
				Email:      r.Email,
				OrderCount: r.OrderCount,
				Revenue:    r.Revenue.Round(2),
			})
		}
		return newList(items, &current), nil
	})
}

// GetRevenueBySupplier ingreso del período actual agrupado por proveedor.
func (uc *DashboardUseCase) GetRevenueBySupplier(
	ctx context.Context,
	filter timewindow.Filter,
) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
	return uc.suppliersAt(ctx, filter, uc.clock.Now())
}

func (uc *DashboardUseCase) suppliersAt(ctx context.Context, filter timewindow.Filter, now time.Time) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
	current, err := timewindow.Resolve(filter, now)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc, cacheKey("suppliers", filter, current), func(ctx context.Context) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
		rows, err := uc.statsRepo.GetRevenueBySupplier(ctx, current.Start, current.End)
		if err != nil {
			return nil, fmt.Errorf("dashboard: ingresos por proveedor: %w", err)
		}
		groups := make([]revenueGroup, 0, len(rows))
		for _, r := range rows {
			groups = append(groups, revenueGroup{id: r.SupplierID, name: r.Name, qty: r.QuantitySold, revenue: r.Revenue})
		}
		return newList(buildRevenueGroups(groups), &current), nil
	})
}

// GetRevenueByCategory ingreso del período actual agrupado por categoría.
func (uc *DashboardUseCase) GetRevenueByCategory(
	ctx context.Context,
	filter timewindow.Filter,
) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
	return uc.categoriesAt(ctx, filter, uc.clock.Now())
}

func (uc *DashboardUseCase) categoriesAt(ctx context.Context, filter timewindow.Filter, now time.Time) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
	current, err := timewindow.Resolve(filter, now)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc, cacheKey("categories", filter, current), func(ctx context.Context) (*dto.ListResponse[dto.RevenueGroupDTO], error) {
		rows, err := uc.statsRepo.GetRevenueByCategory(ctx, current.Start, current.End)
		if err != nil {
			return nil, fmt.Errorf("dashboard: ingresos por categoría: %w", err)
		}
		groups := make([]revenueGroup, 0, len(rows))
		for _, r := range rows {
			groups = append(groups, revenueGroup{id: r.CategoryID, name: r.Name, qty: r.QuantitySold, revenue: r.Revenue})
		}
		return newList(buildRevenueGroups(groups), &current), nil
	})
}

// GetLatestProducts últimos productos importados (máximo latestProductsLimit).
func (uc *DashboardUseCase) GetLatestProducts(ctx context.Context) (*dto.ListResponse[dto.ProductDTO], error) {
	rows, err := uc.statsRepo.FindLatestProducts(ctx, latestProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: últimos productos: %w", err)
	}
	if len(rows) > latestProductsLimit {
		rows = rows[:latestProductsLimit]
	}
	return newList(toProductDTOs(rows), nil), nil
}

// GetFeatureProducts productos destacados por ingreso histórico.
func (uc *DashboardUseCase) GetFeatureProducts(ctx context.Context) (*dto.ListResponse[dto.ProductDTO], error) {
	rows, err := uc.statsRepo.GetFeatureProductsByRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: productos destacados: %w", err)
	}
	return newList(toProductDTOs(rows), nil), nil
}

// GetManageUserDashboard conteos de usuarios de esta semana y la anterior.
//
// A diferencia del resto de operaciones NO propaga errores: cualquier fallo de
// los puertos se registra y se devuelve como DTO con Error poblado. La capa HTTP
// decide cómo presentarlo.
func (uc *DashboardUseCase) GetManageUserDashboard(ctx context.Context) *dto.ManageUserDashboardDTO {
	// Semanas lunes-lunes como rangos semiabiertos [desde, hasta).
	thisWeek := timewindow.StartOfWeek(uc.clock.Now())
	nextWeek := thisWeek.AddDate(0, 0, 7)
	lastWeek := thisWeek.AddDate(0, 0, -7)

	var counts dto.UserCountsDTO
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.userRepo.CountUsers(gctx)
		if err != nil {
			return fmt.Errorf("total de usuarios: %w", err)
		}
		counts.TotalUsers = n
		return nil
	})
	countRange := func(dst *int64, what string, fn func(context.Context, time.Time, time.Time) (int64, error), from, to time.Time) {
		g.Go(func() error {
			n, err := fn(gctx, from, to)
			if err != nil {
				return fmt.Errorf("%s: %w", what, err)
			}
			*dst = n
			return nil
		})
	}
	countRange(&counts.UsersThisWeek, "usuarios nuevos esta semana", uc.userRepo.CountUsersCreatedBetween, thisWeek, nextWeek)
	countRange(&counts.UsersLastWeek, "usuarios nuevos semana anterior", uc.userRepo.CountUsersCreatedBetween, lastWeek, thisWeek)
	countRange(&counts.UsersBoughtThisWeek, "compradores esta semana", uc.userRepo.CountBuyersBetween, thisWeek, nextWeek)
	countRange(&counts.UsersBoughtLastWeek, "compradores semana anterior", uc.userRepo.CountBuyersBetween, lastWeek, thisWeek)

	if err := g.Wait(); err != nil {
		uc.log.Error().Err(err).Msg("dashboard: panel de gestión de usuarios")
		return &dto.ManageUserDashboardDTO{Error: err.Error()}
	}
	return &dto.ManageUserDashboardDTO{UserCountsDTO: &counts}
}

// GetOverview arma los widgets principales en paralelo: resumen, top productos,
// top clientes e ingresos por categoría. El primer error cancela el resto.
// Todos los widgets comparten el mismo instante de referencia.
func (uc *DashboardUseCase) GetOverview(ctx context.Context, filter timewindow.Filter) (*dto.OverviewDTO, error) {
	now := uc.clock.Now()
	// Validar antes de lanzar goroutines: sin ventana no hay nada que consultar.
	if _, err := timewindow.Resolve(filter, now); err != nil {
		return nil, err
	}

	var out dto.OverviewDTO
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := uc.summaryAt(gctx, filter, now)
		if err != nil {
			return err
		}
		out.Summary = *summary
		return nil
	})
	g.Go(func() error {
		list, err := uc.topProductsAt(gctx, filter, now)
		if err != nil {
			return err
		}
		out.TopProducts = list.Items
		return nil
	})
	g.Go(func() error {
		list, err := uc.topCustomersAt(gctx, filter, now)
		if err != nil {
			return err
		}
		out.TopCustomers = list.Items
		return nil
	})
	g.Go(func() error {
		list, err := uc.categoriesAt(gctx, filter, now)
		if err != nil {
			return err
		}
		out.Categories = list.Items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportFinancialSummary genera el resumen financiero en el formato pedido.
// Devuelve el contenido y su content-type.
func (uc *DashboardUseCase) ExportFinancialSummary(
	ctx context.Context,
	filter timewindow.Filter,
	format string,
) ([]byte, string, error) {
	exporter, ok := uc.exporters[format]
	if !ok {
		return nil, "", fmt.Errorf("%w: formato de exportación %q", domain.ErrInvalidInput, format)
	}
	now := uc.clock.Now()
	list, err := uc.financialAt(ctx, filter, now)
	if err != nil {
		return nil, "", err
	}

	report := FinancialReport{
		Title:  "Resumen financiero " + periodLabel(filter, now),
		Filter: filter.String(),
		Rows:   list.Items,
	}
	if list.Period != nil {
		report.Period = *list.Period
	}
	data, err := exporter.Export(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("dashboard: exportar resumen financiero (%s): %w", format, err)
	}
	return data, exporter.ContentType(), nil
}

// InvalidateCache descarta los resultados cacheados del dashboard.
func (uc *DashboardUseCase) InvalidateCache(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("dashboard: invalidar caché: %w", err)
	}
	return nil
}

// ── Armado de DTOs ──────────────────────────────────────────────────────────

func buildSummary(stats repository.TwoPeriodStats, current, previous timewindow.Window) *dto.SummaryStatisticDTO {
	cur := dto.SummaryMetricsDTO{
		Revenue:  stats.CurrentRevenue.Round(2),
		Product:  stats.CurrentQuantity,
		Customer: stats.CurrentTotalCustomers,
		Order:    stats.CurrentTotalOrders,
	}
	prev := dto.SummaryMetricsDTO{
		Revenue:  stats.LastRevenue.Round(2),
		Product:  stats.LastQuantity,
		Customer: stats.LastTotalCustomers,
		Order:    stats.LastTotalOrders,
	}
	return &dto.SummaryStatisticDTO{
		PeriodComparison: dto.PeriodComparison[dto.SummaryMetricsDTO]{Current: cur, Previous: prev},
		Change: dto.SummaryChangeDTO{
			Revenue:  percentChange(cur.Revenue, prev.Revenue),
			Product:  percentChange(decimal.NewFromInt(cur.Product), decimal.NewFromInt(prev.Product)),
			Customer: percentChange(decimal.NewFromInt(cur.Customer), decimal.NewFromInt(prev.Customer)),
			Order:    percentChange(decimal.NewFromInt(cur.Order), decimal.NewFromInt(prev.Order)),
		},
		Period:         toPeriodDTO(current),
		PreviousPeriod: toPeriodDTO(previous),
	}
}

// percentChange (actual - anterior) / |anterior| * 100. nil si el anterior es cero.
func percentChange(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	v := current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(2)
	return &v
}

type revenueGroup struct {
	id, name string
	qty      int64
	revenue  decimal.Decimal
}

// buildRevenueGroups agrega la participación % de cada grupo en el ingreso total.
func buildRevenueGroups(rows []revenueGroup) []dto.RevenueGroupDTO {
	var total decimal.Decimal
	for _, r := range rows {
		total = total.Add(r.revenue)
	}
	out := make([]dto.RevenueGroupDTO, 0, len(rows))
	for _, r := range rows {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = r.revenue.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, dto.RevenueGroupDTO{
			ID:           r.id,
			Name:         r.name,
			QuantitySold: r.qty,
			Revenue:      r.revenue.Round(2),
			RevenuePct:   pct,
		})
	}
	return out
}

func toProductDTOs(rows []entity.Product) []dto.ProductDTO {
	out := make([]dto.ProductDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, dto.ProductDTO{
			ID:           p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			Price:        p.Price.Round(2),
			ImageURL:     p.ImageURL,
			Stock:        p.Stock,
			CategoryName: p.CategoryName,
			SupplierName: p.SupplierName,
			ImportedAt:   p.ImportedAt,
		})
	}
	return out
}

func toPeriodDTO(w timewindow.Window) dto.PeriodDTO {
	return dto.PeriodDTO{StartDate: w.StartDate(), EndDate: w.EndDate()}
}

func newList[T any](items []T, w *timewindow.Window) *dto.ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	list := &dto.ListResponse[T]{Items: items}
	if w != nil {
		p := toPeriodDTO(*w)
		list.Period = &p
	}
	return list
}

// periodLabel etiqueta legible del período, ej: "Abril 2023", "T2 2023".
func periodLabel(filter timewindow.Filter, t time.Time) string {
	switch filter {
	case timewindow.Week:
		year, week := t.ISOWeek()
		return fmt.Sprintf("semana %d de %d", week, year)
	case timewindow.Month:
		months := [...]string{
			"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
			"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
		}
		return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
	case timewindow.Quarter:
		return fmt.Sprintf("T%d %d", (int(t.Month())-1)/3+1, t.Year())
	default:
		return fmt.Sprintf("%d", t.Year())
	}
}
