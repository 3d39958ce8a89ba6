package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodComparison métrica del período actual junto a la misma métrica del período anterior.
type PeriodComparison[T any] struct {
	Current  T `json:"current"`
	Previous T `json:"previous"`
}

// SummaryMetricsDTO KPIs de cabecera del dashboard para una ventana.
type SummaryMetricsDTO struct {
	Revenue  decimal.Decimal `json:"revenue"`  // ingresos brutos
	Product  int64           `json:"product"`  // unidades vendidas
	Customer int64           `json:"customer"` // clientes distintos que compraron
	Order    int64           `json:"order"`    // pedidos
}

// SummaryChangeDTO variación porcentual actual vs anterior. nil cuando el
// período anterior es cero (la variación no está definida).
type SummaryChangeDTO struct {
	Revenue  *decimal.Decimal `json:"revenue"`
	Product  *decimal.Decimal `json:"product"`
	Customer *decimal.Decimal `json:"customer"`
	Order    *decimal.Decimal `json:"order"`
}

// SummaryStatisticDTO respuesta de GET /api/dashboard/summary.
type SummaryStatisticDTO struct {
	PeriodComparison[SummaryMetricsDTO]
	Change         SummaryChangeDTO `json:"change"`
	Period         PeriodDTO        `json:"period"`
	PreviousPeriod PeriodDTO        `json:"previous_period"`
}

// FinancialSummaryDTO una barra del gráfico de ingresos/costo/utilidad.
type FinancialSummaryDTO struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// ProductRevenueDTO posición en el ranking de productos por ingreso.
type ProductRevenueDTO struct {
	Rank         int             `json:"rank"`
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"image_url,omitempty"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CustomerRevenueDTO posición en el ranking de clientes por ingreso.
type CustomerRevenueDTO struct {
	Rank       int             `json:"rank"`
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// RevenueGroupDTO ingreso agrupado (proveedor o categoría) con su participación.
type RevenueGroupDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenuePct   decimal.Decimal `json:"revenue_pct"` // participación % en el ingreso total del período
}

// ProductDTO producto para los widgets de catálogo (últimos, destacados).
type ProductDTO struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url,omitempty"`
	Stock        int64           `json:"stock"`
	CategoryName string          `json:"category_name,omitempty"`
	SupplierName string          `json:"supplier_name,omitempty"`
	ImportedAt   time.Time       `json:"imported_at"`
}

// UserCountsDTO conteos del panel de gestión de usuarios.
type UserCountsDTO struct {
	TotalUsers          int64 `json:"total_users"`
	UsersThisWeek       int64 `json:"users_this_week"`
	UsersLastWeek       int64 `json:"users_last_week"`
	UsersBoughtThisWeek int64 `json:"users_bought_this_week"`
	UsersBoughtLastWeek int64 `json:"users_bought_last_week"`
}

// ManageUserDashboardDTO respuesta del panel de gestión de usuarios.
// Exactamente uno de los dos está presente: los conteos (aplanados en el JSON)
// o Error con la descripción del fallo.
type ManageUserDashboardDTO struct {
	*UserCountsDTO
	Error string `json:"error,omitempty"`
}

// Failed indica si el panel se resolvió con error.
func (d *ManageUserDashboardDTO) Failed() bool {
	return d != nil && d.Error != ""
}

// OverviewDTO respuesta de GET /api/dashboard/overview: los widgets principales en una sola llamada.
type OverviewDTO struct {
	Summary      SummaryStatisticDTO  `json:"summary"`
	TopProducts  []ProductRevenueDTO  `json:"top_products"`
	TopCustomers []CustomerRevenueDTO `json:"top_customers"`
	Categories   []RevenueGroupDTO    `json:"categories"`
}

// ExportQuery parámetros de GET /api/dashboard/financial-summary/export.
type ExportQuery struct {
	Filter string `query:"filter" validate:"required"`
	Format string `query:"format" validate:"required,oneof=csv pdf"`
}
