package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/domain/timewindow"
)

var _ repository.StatisticsRepository = (*StatisticsRepo)(nil)

const (
	orderStatusCancelled = "cancelled"
	topRankingLimit      = 10
	featureProductsLimit = 8
)

// bucketing intervalo del gráfico financiero para cada filtro.
type bucketing struct {
	trunc  string // unidad de date_trunc
	step   string // paso de generate_series
	layout string // formato to_char de la etiqueta
}

var financialBuckets = map[timewindow.Filter]bucketing{
	timewindow.Week:    {trunc: "day", step: "1 day", layout: "YYYY-MM-DD"},
	timewindow.Month:   {trunc: "day", step: "1 day", layout: "YYYY-MM-DD"},
	timewindow.Quarter: {trunc: "month", step: "1 month", layout: "YYYY-MM"},
	timewindow.Year:    {trunc: "month", step: "1 month", layout: "YYYY-MM"},
}

// StatisticsRepo consultas de solo lectura del dashboard sobre el esquema de la tienda
// (orders, order_items, products, categories, suppliers, users).
// Ingreso = quantity × unit_price; costo = quantity × unit_cost. Se excluyen pedidos cancelados.
type StatisticsRepo struct {
	q     Querier
	clock timewindow.Clock
}

// NewStatisticsRepository construye el adaptador. El reloj define la ventana
// del resumen financiero, que el puerto recibe solo como filtro.
func NewStatisticsRepository(q Querier, clock timewindow.Clock) *StatisticsRepo {
	if clock == nil {
		clock = timewindow.NewSystemClock(nil)
	}
	return &StatisticsRepo{q: q, clock: clock}
}

// CalculateStatsForTwoPeriods resuelve ambas ventanas en una sola consulta con FILTER.
func (r *StatisticsRepo) CalculateStatsForTwoPeriods(
	ctx context.Context,
	start, end, lastStart, lastEnd time.Time,
) (repository.TwoPeriodStats, error) {
	const query = `
	SELECT
	    COALESCE(SUM(oi.quantity * oi.unit_price) FILTER (WHERE o.created_at BETWEEN $2 AND $3), 0) AS current_revenue,
	    COALESCE(SUM(oi.quantity * oi.unit_price) FILTER (WHERE o.created_at BETWEEN $4 AND $5), 0) AS last_revenue,
	    COALESCE(SUM(oi.quantity)                 FILTER (WHERE o.created_at BETWEEN $2 AND $3), 0)::BIGINT AS current_quantity,
	    COALESCE(SUM(oi.quantity)                 FILTER (WHERE o.created_at BETWEEN $4 AND $5), 0)::BIGINT AS last_quantity,
	    COUNT(DISTINCT o.id)                      FILTER (WHERE o.created_at BETWEEN $2 AND $3)     AS current_orders,
	    COUNT(DISTINCT o.id)                      FILTER (WHERE o.created_at BETWEEN $4 AND $5)     AS last_orders,
	    COUNT(DISTINCT o.user_id)                 FILTER (WHERE o.created_at BETWEEN $2 AND $3)     AS current_customers,
	    COUNT(DISTINCT o.user_id)                 FILTER (WHERE o.created_at BETWEEN $4 AND $5)     AS last_customers
	FROM orders o
	JOIN order_items oi ON oi.order_id = o.id
	WHERE o.status <> $1
	  AND (o.created_at BETWEEN $2 AND $3 OR o.created_at BETWEEN $4 AND $5)`

	var s repository.TwoPeriodStats
	err := r.q.QueryRow(ctx, query, orderStatusCancelled, start, end, lastStart, lastEnd).Scan(
		&s.CurrentRevenue,
		&s.LastRevenue,
		&s.CurrentQuantity,
		&s.LastQuantity,
		&s.CurrentTotalOrders,
		&s.LastTotalOrders,
		&s.CurrentTotalCustomers,
		&s.LastTotalCustomers,
	)
	if err != nil {
		return repository.TwoPeriodStats{}, fmt.Errorf("statistics.CalculateStatsForTwoPeriods: %w", err)
	}
	return s, nil
}

// GetFinancialSummary ingresos, costo y utilidad por día (week, month) o por mes
// (quarter, year) dentro de la ventana actual del filtro. Los intervalos sin
// ventas se devuelven con importes NULL.
func (r *StatisticsRepo) GetFinancialSummary(
	ctx context.Context,
	filter timewindow.Filter,
) ([]repository.FinancialSummaryRow, error) {
	b, ok := financialBuckets[filter]
	if !ok {
		return nil, fmt.Errorf("statistics.GetFinancialSummary: %w: %q", timewindow.ErrInvalidFilter, string(filter))
	}
	w, err := timewindow.Resolve(filter, r.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("statistics.GetFinancialSummary: %w", err)
	}

	const query = `
	WITH buckets AS (
	    SELECT gs::date AS bucket
	    FROM generate_series($1::date, $2::date, $3::interval) AS gs
	),
	sales AS (
	    SELECT
	        date_trunc($4, o.created_at AT TIME ZONE $5)::date AS bucket,
	        SUM(oi.quantity * oi.unit_price)                   AS revenue,
	        SUM(oi.quantity * oi.unit_cost)                    AS cost
	    FROM orders o
	    JOIN order_items oi ON oi.order_id = o.id
	    WHERE o.status <> $6
	      AND o.created_at BETWEEN $7 AND $8
	    GROUP BY 1
	)
	SELECT
	    to_char(b.bucket, $9)            AS time_period,
	    s.revenue::text                  AS total_revenue,
	    s.cost::text                     AS total_cost,
	    (s.revenue - s.cost)::text       AS profit
	FROM buckets b
	LEFT JOIN sales s ON s.bucket = b.bucket
	ORDER BY b.bucket`

	rows, err := r.q.Query(ctx, query,
		w.StartDate(), w.EndDate(), b.step, b.trunc, zoneName(w.Start.Location()),
		orderStatusCancelled, w.Start, w.End, b.layout,
	)
	if err != nil {
		return nil, fmt.Errorf("statistics.GetFinancialSummary: %w", err)
	}
	defer rows.Close()

	var results []repository.FinancialSummaryRow
	for rows.Next() {
		var (
			period              string
			revenue, cost, prof *string
		)
		if err := rows.Scan(&period, &revenue, &cost, &prof); err != nil {
			return nil, fmt.Errorf("statistics.GetFinancialSummary scan: %w", err)
		}
		results = append(results, repository.FinancialSummaryRow{
			TimePeriod:   period,
			TotalRevenue: nullableText(revenue),
			TotalCost:    nullableText(cost),
			Profit:       nullableText(prof),
		})
	}
	return results, rows.Err()
}

// GetTopProductsByRevenue los topRankingLimit productos con mayor ingreso en la ventana.
func (r *StatisticsRepo) GetTopProductsByRevenue(ctx context.Context, start, end time.Time) ([]entity.ProductRevenue, error) {
	const query = `
	SELECT
	    p.id::TEXT,
	    p.sku,
	    p.name,
	    COALESCE(p.image_url, '')           AS image_url,
	    SUM(oi.quantity)::BIGINT            AS quantity_sold,
	    SUM(oi.quantity * oi.unit_price)    AS revenue
	FROM order_items oi
	JOIN orders   o ON o.id = oi.order_id
	JOIN products p ON p.id = oi.product_id
	WHERE o.status <> $1
	  AND o.created_at BETWEEN $2 AND $3
	GROUP BY p.id, p.sku, p.name, p.image_url
	ORDER BY revenue DESC, p.name
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, orderStatusCancelled, start, end, topRankingLimit)
	if err != nil {
		return nil, fmt.Errorf("statistics.GetTopProductsByRevenue: %w", err)
	}
	return collect(rows, "statistics.GetTopProductsByRevenue", func(row pgx.Rows) (entity.ProductRevenue, error) {
		var p entity.ProductRevenue
		err := row.Scan(&p.ProductID, &p.SKU, &p.Name, &p.ImageURL, &p.QuantitySold, &p.Revenue)
		return p, err
	})
}

// GetTopCustomersByRevenue los topRankingLimit clientes con mayor gasto en la ventana.
func (r *StatisticsRepo) GetTopCustomersByRevenue(ctx context.Context, start, end time.Time) ([]entity.CustomerRevenue, error) {
	const query = `
	SELECT
	    u.id::TEXT,
	    u.name,
	    u.email,
	    COUNT(DISTINCT o.id)                AS order_count,
	    SUM(oi.quantity * oi.unit_price)    AS revenue
	FROM orders o
	JOIN order_items oi ON oi.order_id = o.id
	JOIN users       u  ON u.id        = o.user_id
	WHERE o.status <> $1
	  AND o.created_at BETWEEN $2 AND $3
	GROUP BY u.id, u.name, u.email
	ORDER BY revenue DESC, u.name
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, orderStatusCancelled, start, end, topRankingLimit)
	if err != nil {
		return nil, fmt.Errorf("statistics.GetTopCustomersByRevenue: %w", err)
	}
	return collect(rows, "statistics.GetTopCustomersByRevenue", func(row pgx.Rows) (entity.CustomerRevenue, error) {
		var c entity.CustomerRevenue
		err := row.Scan(&c.CustomerID, &c.Name, &c.Email, &c.OrderCount, &c.Revenue)
		return c, err
	})
}

// GetRevenueBySupplier ingreso por proveedor. Productos sin proveedor se agrupan en "Sin proveedor".
func (r *StatisticsRepo) GetRevenueBySupplier(ctx context.Context, start, end time.Time) ([]entity.SupplierRevenue, error) {
	const query = `
	SELECT
	    COALESCE(s.id::TEXT, 'none')        AS supplier_id,
	    COALESCE(s.name, 'Sin proveedor')   AS supplier_name,
	    SUM(oi.quantity)::BIGINT            AS quantity_sold,
	    SUM(oi.quantity * oi.unit_price)    AS revenue
	FROM order_items oi
	JOIN orders    o ON o.id = oi.order_id
	JOIN products  p ON p.id = oi.product_id
	LEFT JOIN suppliers s ON s.id = p.supplier_id
	WHERE o.status <> $1
	  AND o.created_at BETWEEN $2 AND $3
	GROUP BY s.id, s.name
	ORDER BY revenue DESC`

	rows, err := r.q.Query(ctx, query, orderStatusCancelled, start, end)
	if err != nil {
		return nil, fmt.Errorf("statistics.GetRevenueBySupplier: %w", err)
	}
	return collect(rows, "statistics.GetRevenueBySupplier", func(row pgx.Rows) (entity.SupplierRevenue, error) {
		var s entity.SupplierRevenue
		err := row.Scan(&s.SupplierID, &s.Name, &s.QuantitySold, &s.Revenue)
		return s, err
	})
}

// GetRevenueByCategory ingreso por categoría. Productos sin categoría se agrupan en "Sin categoría".
func (r *StatisticsRepo) GetRevenueByCategory(ctx context.Context, start, end time.Time) ([]entity.CategoryRevenue, error) {
	const query = `
	SELECT
	    COALESCE(c.id::TEXT, 'none')        AS category_id,
	    COALESCE(c.name, 'Sin categoría')   AS category_name,
	    SUM(oi.quantity)::BIGINT            AS quantity_sold,
	    SUM(oi.quantity * oi.unit_price)    AS revenue
	FROM order_items oi
	JOIN orders     o ON o.id = oi.order_id
	JOIN products   p ON p.id = oi.product_id
	LEFT JOIN categories c ON c.id = p.category_id
	WHERE o.status <> $1
	  AND o.created_at BETWEEN $2 AND $3
	GROUP BY c.id, c.name
	ORDER BY revenue DESC`

	rows, err := r.q.Query(ctx, query, orderStatusCancelled, start, end)
	if err != nil {
		return nil, fmt.Errorf("statistics.GetRevenueByCategory: %w", err)
	}
	return collect(rows, "statistics.GetRevenueByCategory", func(row pgx.Rows) (entity.CategoryRevenue, error) {
		var c entity.CategoryRevenue
		err := row.Scan(&c.CategoryID, &c.Name, &c.QuantitySold, &c.Revenue)
		return c, err
	})
}

const productSelect = `
	SELECT
	    p.id::TEXT,
	    p.sku,
	    p.name,
	    p.price,
	    p.import_price,
	    COALESCE(p.image_url, '')       AS image_url,
	    p.stock,
	    COALESCE(p.category_id::TEXT, '') AS category_id,
	    COALESCE(c.name, '')            AS category_name,
	    COALESCE(p.supplier_id::TEXT, '') AS supplier_id,
	    COALESCE(s.name, '')            AS supplier_name,
	    p.imported_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN suppliers  s ON s.id = p.supplier_id`

func scanProduct(row pgx.Rows) (entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Price, &p.ImportPrice, &p.ImageURL, &p.Stock,
		&p.CategoryID, &p.CategoryName, &p.SupplierID, &p.SupplierName, &p.ImportedAt,
	)
	return p, err
}

// FindLatestProducts productos ordenados por fecha de importación, más recientes primero.
func (r *StatisticsRepo) FindLatestProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	query := productSelect + `
	ORDER BY p.imported_at DESC, p.name
	LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("statistics.FindLatestProducts: %w", err)
	}
	return collect(rows, "statistics.FindLatestProducts", scanProduct)
}

// GetFeatureProductsByRevenue productos con mayor ingreso histórico (pedidos no cancelados).
func (r *StatisticsRepo) GetFeatureProductsByRevenue(ctx context.Context) ([]entity.Product, error) {
	query := productSelect + `
	JOIN (
	    SELECT oi.product_id, SUM(oi.quantity * oi.unit_price) AS revenue
	    FROM order_items oi
	    JOIN orders o ON o.id = oi.order_id
	    WHERE o.status <> $1
	    GROUP BY oi.product_id
	) sold ON sold.product_id = p.id
	ORDER BY sold.revenue DESC, p.name
	LIMIT $2`

	rows, err := r.q.Query(ctx, query, orderStatusCancelled, featureProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("statistics.GetFeatureProductsByRevenue: %w", err)
	}
	return collect(rows, "statistics.GetFeatureProductsByRevenue", scanProduct)
}

// collect recorre rows con scan y cierra el cursor.
func collect[T any](rows pgx.Rows, op string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// zoneName nombre IANA para AT TIME ZONE. time.Local no tiene nombre IANA,
// en ese caso se agrupa en UTC.
func zoneName(loc *time.Location) string {
	if loc == nil || loc == time.Local {
		return "UTC"
	}
	return loc.String()
}
