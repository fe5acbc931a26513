package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// El stock no vive aquí: se maneja por bodega en StockPosition.
type Product struct {
	ID           int64
	SKU          string // único
	Name         string
	Description  string
	Barcode      string
	UnitID       *int64
	CategoryID   *int64
	DefaultCost  decimal.NullDecimal
	DefaultPrice decimal.NullDecimal
	MinStock     decimal.NullDecimal // 0 o nulo = sin alerta de stock bajo
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
