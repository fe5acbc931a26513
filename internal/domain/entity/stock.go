package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition cantidad disponible de un producto en una bodega.
// A lo sumo una por (ProductID, WarehouseID); solo el ledger la modifica.
type StockPosition struct {
	ProductID   int64
	WarehouseID int64
	Quantity    decimal.Decimal
	CostAverage decimal.NullDecimal
	UpdatedAt   time.Time
}

// PositionKey identifica una posición de stock.
type PositionKey struct {
	ProductID   int64
	WarehouseID int64
}

// Key devuelve la llave (producto, bodega) de la posición.
func (p StockPosition) Key() PositionKey {
	return PositionKey{ProductID: p.ProductID, WarehouseID: p.WarehouseID}
}
