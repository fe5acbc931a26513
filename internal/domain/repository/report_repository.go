package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReportRepository consultas de solo lectura para reportes y dashboard.
type ReportRepository interface {
	LowStock(ctx context.Context, limit int) ([]entity.LowStockRow, error)
	Movements(ctx context.Context, filter entity.MovementFilter) ([]entity.MovementRow, error)
	CountActiveProducts(ctx context.Context) (int, error)
	CountActiveWarehouses(ctx context.Context) (int, error)
	CountUnits(ctx context.Context) (int, error)
	// InventoryValue = Σ quantity × coalesce(cost_average, default_cost, 0).
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
	CountMovementsBetween(ctx context.Context, from, to time.Time) (int, error)
}
