package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockRow producto activo cuyo stock total está por debajo de su mínimo.
type LowStockRow struct {
	ProductID int64
	SKU       string
	Name      string
	Unit      string
	OnHand    decimal.Decimal
	Min       decimal.Decimal
}

// MovementRow movimiento con los datos de producto y bodega para reportes.
type MovementRow struct {
	StockMovement
	ProductSKU    string
	ProductName   string
	WarehouseName string
}

// MovementFilter filtros del historial de movimientos. From inclusivo, To exclusivo.
type MovementFilter struct {
	From        time.Time
	To          time.Time
	Type        MovementType
	WarehouseID int64
	Search      string // SKU o nombre (contiene)
	Limit       int
}
