package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Acepta JSON o formulario (x-www-form-urlencoded); en el formulario el delta llega como "quantity".
// Los números llegan como json.Number.
type AdjustStockRequest struct {
	ProductID   json.Number `json:"product_id" form:"productId" validate:"required"`
	WarehouseID json.Number `json:"warehouse_id" form:"warehouseId" validate:"required"`
	Delta       json.Number `json:"delta" form:"quantity" validate:"required"`
	Reason      string      `json:"reason,omitempty" form:"reason" validate:"max=500"`
}

// TransferStockRequest body para POST /api/inventory/transfers.
type TransferStockRequest struct {
	ProductID       json.Number `json:"product_id" form:"productId" validate:"required"`
	FromWarehouseID json.Number `json:"from_warehouse_id" form:"fromWarehouseId" validate:"required"`
	ToWarehouseID   json.Number `json:"to_warehouse_id" form:"toWarehouseId" validate:"required"`
	Quantity        json.Number `json:"quantity" form:"quantity" validate:"required"`
	Reason          string      `json:"reason,omitempty" form:"reason" validate:"max=500"`
}

// StockMovementDTO movimiento del ledger.
type StockMovementDTO struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     int64           `json:"product_id"`
	WarehouseID   int64           `json:"warehouse_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reference     string          `json:"reference"`
	Notes         *string         `json:"notes"`
	CreatedBy     *string         `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StockPositionDTO existencias de un producto en una bodega.
type StockPositionDTO struct {
	ProductID   int64            `json:"product_id"`
	WarehouseID int64            `json:"warehouse_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	CostAverage *decimal.Decimal `json:"cost_average"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AdjustStockResponse respuesta de un ajuste.
type AdjustStockResponse struct {
	Movement StockMovementDTO `json:"movement"`
	Position StockPositionDTO `json:"position"`
}

// TransferStockResponse respuesta de un traslado.
type TransferStockResponse struct {
	TransactionID string           `json:"transaction_id"`
	Out           StockMovementDTO `json:"out"`
	In            StockMovementDTO `json:"in"`
	Origin        StockPositionDTO `json:"origin"`
	Destination   StockPositionDTO `json:"destination"`
}

// ProductPositionsResponse posiciones de un producto con el total.
type ProductPositionsResponse struct {
	ProductID int64              `json:"product_id"`
	Total     decimal.Decimal    `json:"total"`
	Positions []StockPositionDTO `json:"positions"`
}

// ReplenishmentSuggestionDTO producto bajo su mínimo con la cantidad sugerida de pedido.
type ReplenishmentSuggestionDTO struct {
	ProductID         int64           `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	Unit              string          `json:"unit,omitempty"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	MinStock          decimal.Decimal `json:"min_stock"`
	IdealStock        decimal.Decimal `json:"ideal_stock"`         // MinStock * 1.5
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // IdealStock - CurrentStock
	Priority          int             `json:"priority"`            // 1 = más urgente
}

// MovementHistoryQuery filtros de GET /api/reports/movements.
type MovementHistoryQuery struct {
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Type        string `query:"type" validate:"max=20"`
	WarehouseID int64  `query:"warehouse_id" validate:"min=0"`
	Q           string `query:"q" validate:"max=100"`
}

// MovementHistoryRow fila del historial de movimientos.
type MovementHistoryRow struct {
	StockMovementDTO
	ProductSKU    string `json:"product_sku"`
	ProductName   string `json:"product_name"`
	WarehouseName string `json:"warehouse_name"`
}

// MovementHistoryResponse historial con el rango efectivamente aplicado.
type MovementHistoryResponse struct {
	From  string               `json:"from"`
	To    string               `json:"to"`
	Items []MovementHistoryRow `json:"items"`
}
