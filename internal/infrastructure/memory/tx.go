package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

type memTx struct {
	store     *Store
	ctx       context.Context
	held      map[entity.PositionKey]bool
	order     []entity.PositionKey
	positions map[entity.PositionKey]entity.StockPosition // escrituras pendientes
	movements []entity.StockMovement
}

func (t *memTx) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Products:   &ProductRepository{store: t.store},
		Warehouses: &WarehouseRepository{store: t.store},
		Positions:  &PositionRepository{store: t.store, tx: t},
		Movements:  &MovementRepository{store: t.store, tx: t},
	}
}

func (t *memTx) acquire(ctx context.Context, key entity.PositionKey) error {
	if t.held[key] {
		return nil
	}
	if err := t.store.lock(ctx, key); err != nil {
		return err
	}
	t.held[key] = true
	t.order = append(t.order, key)
	return nil
}

// lookup lee primero lo pendiente de la tx y luego lo confirmado.
func (t *memTx) lookup(key entity.PositionKey) (entity.StockPosition, bool) {
	if p, ok := t.positions[key]; ok {
		return p, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	p, ok := t.store.positions[key]
	return p, ok
}

func (t *memTx) commit() {
	s := t.store
	s.mu.Lock()
	for k, p := range t.positions {
		s.positions[k] = p
	}
	s.movements = append(s.movements, t.movements...)
	sort.SliceStable(s.movements, func(i, j int) bool { return s.movements[i].ID < s.movements[j].ID })
	s.mu.Unlock()
}

func (t *memTx) release() {
	for _, key := range t.order {
		t.store.unlock(key)
	}
	t.order = nil
	t.held = map[entity.PositionKey]bool{}
}
