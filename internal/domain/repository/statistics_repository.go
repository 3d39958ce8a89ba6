package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

// TwoPeriodStats resultado crudo de la consulta combinada período actual / anterior.
type TwoPeriodStats struct {
	CurrentRevenue        decimal.Decimal
	LastRevenue           decimal.Decimal
	CurrentQuantity       int64 // unidades vendidas
	LastQuantity          int64
	CurrentTotalOrders    int64
	LastTotalOrders       int64
	CurrentTotalCustomers int64 // clientes distintos con al menos un pedido
	LastTotalCustomers    int64
}

// FinancialSummaryRow fila cruda del resumen financiero por intervalo.
// Los importes llegan tal cual los entrega el motor (string, número o nil);
// el caso de uso los normaliza.
type FinancialSummaryRow struct {
	TimePeriod   string
	TotalRevenue any
	TotalCost    any
	Profit       any
}

// StatisticsRepository consultas de solo lectura del dashboard de la tienda.
// Las ventanas son cerradas: [start, end].
type StatisticsRepository interface {
	// CalculateStatsForTwoPeriods calcula ingresos, unidades, pedidos y clientes
	// para dos ventanas en una sola ida a la base.
	CalculateStatsForTwoPeriods(
		ctx context.Context,
		start, end, lastStart, lastEnd time.Time,
	) (TwoPeriodStats, error)

	// GetFinancialSummary agrupa ingresos, costo y utilidad en intervalos
	// definidos por el filtro (el adaptador decide el tamaño del intervalo).
	GetFinancialSummary(ctx context.Context, filter timewindow.Filter) ([]FinancialSummaryRow, error)

	GetTopProductsByRevenue(ctx context.Context, start, end time.Time) ([]entity.ProductRevenue, error)
	GetTopCustomersByRevenue(ctx context.Context, start, end time.Time) ([]entity.CustomerRevenue, error)
	GetRevenueBySupplier(ctx context.Context, start, end time.Time) ([]entity.SupplierRevenue, error)
	GetRevenueByCategory(ctx context.Context, start, end time.Time) ([]entity.CategoryRevenue, error)

	// FindLatestProducts devuelve los productos importados más recientemente.
	FindLatestProducts(ctx context.Context, limit int) ([]entity.Product, error)

	// GetFeatureProductsByRevenue devuelve los productos destacados (mayor ingreso histórico).
	GetFeatureProductsByRevenue(ctx context.Context) ([]entity.Product, error)
}

// UserStatsRepository conteos de usuarios para el panel de gestión de usuarios.
// Los rangos son semiabiertos: [from, to).
type UserStatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountBuyersBetween(ctx context.Context, from, to time.Time) (int64, error)
}
