package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product fila de catálogo tal como la consumen los widgets del dashboard.
type Product struct {
	ID           string
	SKU          string
	Name         string
	Price        decimal.Decimal // precio de venta
	ImportPrice  decimal.Decimal // costo de importación
	ImageURL     string
	Stock        int64
	CategoryID   string
	CategoryName string
	SupplierID   string
	SupplierName string
	ImportedAt   time.Time // fecha de la última importación (orden de "últimos productos")
}
