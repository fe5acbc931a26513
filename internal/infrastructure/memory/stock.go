package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.StockPositionRepository = (*PositionRepository)(nil)
	_ repository.StockMovementRepository = (*MovementRepository)(nil)
)

// PositionRepository posiciones en memoria. Con tx, GetForUpdate bloquea la llave hasta
// el commit o rollback y las escrituras quedan pendientes.
type PositionRepository struct {
	store *Store
	tx    *memTx
}

func (r *PositionRepository) Get(ctx context.Context, productID, warehouseID int64) (*entity.StockPosition, error) {
	key := entity.PositionKey{ProductID: productID, WarehouseID: warehouseID}
	if r.tx != nil {
		if p, ok := r.tx.lookup(key); ok {
			return &p, nil
		}
		return nil, nil
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.positions[key]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PositionRepository) GetForUpdate(ctx context.Context, productID, warehouseID int64) (*entity.StockPosition, error) {
	if r.tx == nil {
		return nil, errNoTx
	}
	key := entity.PositionKey{ProductID: productID, WarehouseID: warehouseID}
	if err := r.tx.acquire(ctx, key); err != nil {
		return nil, err
	}
	p, ok := r.tx.lookup(key)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Create inserta la posición si no existe (equivalente a ON CONFLICT DO NOTHING).
func (r *PositionRepository) Create(ctx context.Context, p *entity.StockPosition) error {
	key := p.Key()
	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
		if _, ok := r.store.positions[key]; !ok {
			r.store.positions[key] = *p
		}
		return nil
	}
	if err := r.tx.acquire(ctx, key); err != nil {
		return err
	}
	if _, ok := r.tx.lookup(key); !ok {
		r.tx.positions[key] = *p
	}
	return nil
}

func (r *PositionRepository) Update(ctx context.Context, p *entity.StockPosition) error {
	if err := r.store.fault(OpPositionUpdate); err != nil {
		return err
	}
	key := p.Key()
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
		if _, ok := r.store.positions[key]; !ok {
			return domain.ErrNotFound
		}
		r.store.positions[key] = *p
		return nil
	}
	if !r.tx.held[key] {
		return errNotLocked
	}
	if _, ok := r.tx.lookup(key); !ok {
		return domain.ErrNotFound
	}
	r.tx.positions[key] = *p
	return nil
}

// ListByProduct ordena por bodega.
func (r *PositionRepository) ListByProduct(ctx context.Context, productID int64) ([]*entity.StockPosition, error) {
	r.store.mu.RLock()
	out := make([]entity.StockPosition, 0)
	for k, p := range r.store.positions {
		if k.ProductID == productID {
			out = append(out, p)
		}
	}
	r.store.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return page(out, 0, 0), nil
}

func (r *PositionRepository) TotalByProduct(ctx context.Context, productID int64) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	total := decimal.Zero
	for k, p := range r.store.positions {
		if k.ProductID == productID {
			total = total.Add(p.Quantity)
		}
	}
	return total, nil
}

// MovementRepository log de movimientos en memoria (solo inserción).
type MovementRepository struct {
	store *Store
	tx    *memTx
}

// Create asigna el ID de una secuencia que no retrocede en rollback, igual que BIGSERIAL.
func (r *MovementRepository) Create(ctx context.Context, m *entity.StockMovement) error {
	if err := r.store.fault(OpMovementCreate); err != nil {
		return err
	}
	m.ID = r.store.movementSeq.Add(1)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if r.tx == nil {
		r.store.mu.Lock()
		r.store.movements = append(r.store.movements, *m)
		r.store.mu.Unlock()
		return nil
	}
	r.tx.movements = append(r.tx.movements, *m)
	return nil
}

func (r *MovementRepository) ListByPosition(ctx context.Context, productID, warehouseID int64) ([]*entity.StockMovement, error) {
	r.store.mu.RLock()
	out := make([]entity.StockMovement, 0)
	for _, m := range r.store.movements {
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			out = append(out, m)
		}
	}
	r.store.mu.RUnlock()
	return page(out, 0, 0), nil
}
