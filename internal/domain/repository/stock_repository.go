package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockPositionRepository define el puerto para leer/escribir posiciones de stock.
// Los métodos de escritura y GetForUpdate deben usarse dentro de una transacción.
type StockPositionRepository interface {
	// Get lectura sin bloqueo; (nil, nil) si no existe.
	Get(ctx context.Context, productID, warehouseID int64) (*entity.StockPosition, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción; (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, productID, warehouseID int64) (*entity.StockPosition, error)
	// Create inserta la posición; si ya existe no hace nada.
	Create(ctx context.Context, position *entity.StockPosition) error
	// Update persiste quantity y cost_average de una posición existente.
	Update(ctx context.Context, position *entity.StockPosition) error
	ListByProduct(ctx context.Context, productID int64) ([]*entity.StockPosition, error)
	// TotalByProduct suma las cantidades de todas las bodegas.
	TotalByProduct(ctx context.Context, productID int64) (decimal.Decimal, error)
}
