package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepository)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepository)(nil)
	_ repository.UnitRepository      = (*UnitRepository)(nil)
	_ repository.CategoryRepository  = (*CategoryRepository)(nil)
)

// ProductRepository productos en memoria. SKU único.
type ProductRepository struct {
	store *Store
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	if !s.refsExist(p) {
		return domain.ErrInvalidInput
	}
	p.ID = s.productSeq.Add(1)
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.products {
		if p.SKU == sku {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range s.products {
		if id != p.ID && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	if !s.refsExist(p) {
		return domain.ErrInvalidInput
	}
	s.products[p.ID] = *p
	return nil
}

// List ordena por nombre y luego por ID.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.RLock()
	all := make([]entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		all = append(all, p)
	}
	r.store.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

// Delete borra el producto y sus posiciones. Con movimientos registrados devuelve ErrConflict.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range s.movements {
		if m.ProductID == id {
			return domain.ErrConflict
		}
	}
	for k := range s.positions {
		if k.ProductID == id {
			delete(s.positions, k)
		}
	}
	delete(s.products, id)
	return nil
}

// refsExist emula las llaves foráneas unit_id y category_id. Requiere s.mu tomado.
func (s *Store) refsExist(p *entity.Product) bool {
	if p.UnitID != nil {
		if _, ok := s.units[*p.UnitID]; !ok {
			return false
		}
	}
	if p.CategoryID != nil {
		if _, ok := s.categories[*p.CategoryID]; !ok {
			return false
		}
	}
	return true
}

// WarehouseRepository bodegas en memoria. Code único cuando no está vacío.
type WarehouseRepository struct {
	store *Store
}

func (r *WarehouseRepository) Create(ctx context.Context, w *entity.Warehouse) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.codeTaken(w.Code, 0) {
		return domain.ErrDuplicate
	}
	w.ID = s.warehouseSeq.Add(1)
	now := time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = now
	}
	s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepository) codeTaken(code string, except int64) bool {
	if code == "" {
		return false
	}
	for id, w := range r.store.warehouses {
		if id != except && w.Code == code {
			return true
		}
	}
	return false
}

func (r *WarehouseRepository) GetByID(ctx context.Context, id int64) (*entity.Warehouse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepository) Update(ctx context.Context, w *entity.Warehouse) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.codeTaken(w.Code, w.ID) {
		return domain.ErrDuplicate
	}
	s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepository) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	r.store.mu.RLock()
	all := make([]entity.Warehouse, 0, len(r.store.warehouses))
	for _, w := range r.store.warehouses {
		all = append(all, w)
	}
	r.store.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

// Delete borra la bodega y sus posiciones. Con movimientos registrados devuelve ErrConflict.
func (r *WarehouseRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range s.movements {
		if m.WarehouseID == id {
			return domain.ErrConflict
		}
	}
	for k := range s.positions {
		if k.WarehouseID == id {
			delete(s.positions, k)
		}
	}
	delete(s.warehouses, id)
	return nil
}

// UnitRepository unidades en memoria. Symbol único.
type UnitRepository struct {
	store *Store
}

func (r *UnitRepository) Create(ctx context.Context, u *entity.Unit) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.units {
		if existing.Symbol == u.Symbol {
			return domain.ErrDuplicate
		}
	}
	u.ID = s.unitSeq.Add(1)
	s.units[u.ID] = *u
	return nil
}

func (r *UnitRepository) List(ctx context.Context) ([]*entity.Unit, error) {
	r.store.mu.RLock()
	all := make([]entity.Unit, 0, len(r.store.units))
	for _, u := range r.store.units {
		all = append(all, u)
	}
	r.store.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, 0, 0), nil
}

// CategoryRepository categorías en memoria. Name único.
type CategoryRepository struct {
	store *Store
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	if c.ParentID != nil {
		if _, ok := s.categories[*c.ParentID]; !ok {
			return domain.ErrInvalidInput
		}
	}
	c.ID = s.categorySeq.Add(1)
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	r.store.mu.RLock()
	all := make([]entity.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		all = append(all, c)
	}
	r.store.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return page(all, 0, 0), nil
}

// page aplica limit/offset (limit <= 0 = sin límite) y devuelve punteros a copias.
func page[T any](all []T, limit, offset int) []*T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []*T{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*T, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out
}
