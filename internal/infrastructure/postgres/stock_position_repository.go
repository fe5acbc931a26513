package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo posiciones de stock sobre PostgreSQL (usable con pool o tx).
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

// Get lectura sin bloqueo.
func (r *StockPositionRepo) Get(ctx context.Context, productID, warehouseID int64) (*entity.StockPosition, error) {
	return r.get(ctx, `
		SELECT product_id, warehouse_id, quantity, cost_average, updated_at
		FROM stock_positions WHERE product_id = $1 AND warehouse_id = $2`, productID, warehouseID)
}

// GetForUpdate obtiene la posición con bloqueo de fila (SELECT FOR UPDATE). Usar dentro de tx.
// Devuelve (nil, nil) si la fila no existe; el llamador decide crearla.
func (r *StockPositionRepo) GetForUpdate(ctx context.Context, productID, warehouseID int64) (*entity.StockPosition, error) {
	return r.get(ctx, `
		SELECT product_id, warehouse_id, quantity, cost_average, updated_at
		FROM stock_positions WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`, productID, warehouseID)
}

func (r *StockPositionRepo) get(ctx context.Context, query string, productID, warehouseID int64) (*entity.StockPosition, error) {
	var p entity.StockPosition
	err := r.q.QueryRow(ctx, query, productID, warehouseID).
		Scan(&p.ProductID, &p.WarehouseID, &p.Quantity, &p.CostAverage, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock position: %w", err)
	}
	return &p, nil
}

// Create inserta la posición; si otra tx ya la creó no hace nada (ON CONFLICT DO NOTHING
// espera a que esa tx termine, así el GetForUpdate siguiente ve la fila).
func (r *StockPositionRepo) Create(ctx context.Context, p *entity.StockPosition) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_positions (product_id, warehouse_id, quantity, cost_average)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`,
		p.ProductID, p.WarehouseID, p.Quantity, p.CostAverage)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert stock position: %w", err)
	}
	return nil
}

// Update persiste cantidad y costo promedio.
func (r *StockPositionRepo) Update(ctx context.Context, p *entity.StockPosition) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_positions SET quantity = $3, cost_average = $4, updated_at = $5
		WHERE product_id = $1 AND warehouse_id = $2`,
		p.ProductID, p.WarehouseID, p.Quantity, p.CostAverage, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock position: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProduct posiciones del producto ordenadas por bodega.
func (r *StockPositionRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.StockPosition, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, warehouse_id, quantity, cost_average, updated_at
		FROM stock_positions WHERE product_id = $1 ORDER BY warehouse_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock positions: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockPosition, 0)
	for rows.Next() {
		var p entity.StockPosition
		if err := rows.Scan(&p.ProductID, &p.WarehouseID, &p.Quantity, &p.CostAverage, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// TotalByProduct suma de cantidades en todas las bodegas.
func (r *StockPositionRepo) TotalByProduct(ctx context.Context, productID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM stock_positions WHERE product_id = $1`, productID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total stock: %w", err)
	}
	return total, nil
}
