package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockMovementRepository puerto del log de movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	// Create inserta el movimiento y asigna ID y CreatedAt.
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByPosition(ctx context.Context, productID, warehouseID int64) ([]*entity.StockMovement, error)
}
