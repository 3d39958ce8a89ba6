package entity

import "github.com/shopspring/decimal"

// ProductRevenue ingreso de un producto dentro de una ventana.
type ProductRevenue struct {
	ProductID    string
	SKU          string
	Name         string
	ImageURL     string
	QuantitySold int64
	Revenue      decimal.Decimal
}

// CustomerRevenue ingreso aportado por un cliente dentro de una ventana.
type CustomerRevenue struct {
	CustomerID string
	Name       string
	Email      string
	OrderCount int64
	Revenue    decimal.Decimal
}

// SupplierRevenue ingreso agrupado por proveedor.
type SupplierRevenue struct {
	SupplierID   string
	Name         string
	QuantitySold int64
	Revenue      decimal.Decimal
}

// CategoryRevenue ingreso agrupado por categoría.
type CategoryRevenue struct {
	CategoryID   string
	Name         string
	QuantitySold int64
	Revenue      decimal.Decimal
}
