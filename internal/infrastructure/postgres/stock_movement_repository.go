package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo log de movimientos sobre PostgreSQL. Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento; ID y CreatedAt los asigna la BD.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_movements (transaction_id, product_id, warehouse_id, type, quantity, reference, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		m.TransactionID, m.ProductID, m.WarehouseID, string(m.Type), m.Quantity,
		m.Reference, nullIfEmpty(m.Notes), nullIfEmpty(m.CreatedBy),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByPosition movimientos de una posición en orden cronológico.
func (r *StockMovementRepo) ListByPosition(ctx context.Context, productID, warehouseID int64) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements m
		WHERE m.product_id = $1 AND m.warehouse_id = $2
		ORDER BY m.id`, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(movementDest(&m)...); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

const movementColumns = `m.id, m.transaction_id::text, m.product_id, m.warehouse_id, m.type, m.quantity,
	m.reference, COALESCE(m.notes, ''), COALESCE(m.created_by, ''), m.created_at`

func movementDest(m *entity.StockMovement) []any {
	return []any{&m.ID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Quantity,
		&m.Reference, &m.Notes, &m.CreatedBy, &m.CreatedAt}
}
