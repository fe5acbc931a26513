package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepository)(nil)

// ReportRepository consultas de reportes sobre los datos confirmados.
type ReportRepository struct {
	store *Store
}

func (r *ReportRepository) LowStock(ctx context.Context, limit int) ([]entity.LowStockRow, error) {
	s := r.store
	s.mu.RLock()
	totals := map[int64]decimal.Decimal{}
	for k, p := range s.positions {
		totals[k.ProductID] = totals[k.ProductID].Add(p.Quantity)
	}
	rows := make([]entity.LowStockRow, 0)
	for _, p := range s.products {
		if !p.IsActive || !p.MinStock.Valid || !p.MinStock.Decimal.IsPositive() {
			continue
		}
		onHand := totals[p.ID]
		if !onHand.LessThan(p.MinStock.Decimal) {
			continue
		}
		unit := ""
		if p.UnitID != nil {
			unit = s.units[*p.UnitID].Symbol
		}
		rows = append(rows, entity.LowStockRow{
			ProductID: p.ID, SKU: p.SKU, Name: p.Name, Unit: unit,
			OnHand: onHand, Min: p.MinStock.Decimal,
		})
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ProductID < rows[j].ProductID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Movements más recientes primero (por ID descendente).
func (r *ReportRepository) Movements(ctx context.Context, f entity.MovementFilter) ([]entity.MovementRow, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(f.Search)
	rows := make([]entity.MovementRow, 0)
	for i := len(s.movements) - 1; i >= 0; i-- {
		m := s.movements[i]
		if !f.From.IsZero() && m.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !m.CreatedAt.Before(f.To) {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.WarehouseID > 0 && m.WarehouseID != f.WarehouseID {
			continue
		}
		p := s.products[m.ProductID]
		if q != "" && !strings.Contains(strings.ToLower(p.SKU), q) && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		rows = append(rows, entity.MovementRow{
			StockMovement: m,
			ProductSKU:    p.SKU,
			ProductName:   p.Name,
			WarehouseName: s.warehouses[m.WarehouseID].Name,
		})
		if f.Limit > 0 && len(rows) == f.Limit {
			break
		}
	}
	return rows, nil
}

func (r *ReportRepository) CountActiveProducts(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := 0
	for _, p := range r.store.products {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *ReportRepository) CountActiveWarehouses(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := 0
	for _, w := range r.store.warehouses {
		if w.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *ReportRepository) CountUnits(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.units), nil
}

func (r *ReportRepository) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	total := decimal.Zero
	for k, pos := range r.store.positions {
		cost := decimal.Zero
		if pos.CostAverage.Valid {
			cost = pos.CostAverage.Decimal
		} else if p, ok := r.store.products[k.ProductID]; ok && p.DefaultCost.Valid {
			cost = p.DefaultCost.Decimal
		}
		total = total.Add(pos.Quantity.Mul(cost))
	}
	return total, nil
}

func (r *ReportRepository) CountMovementsBetween(ctx context.Context, from, to time.Time) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := 0
	for _, m := range r.store.movements {
		if !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}
