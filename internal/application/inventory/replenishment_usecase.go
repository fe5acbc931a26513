package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LowStockLimit tope de filas del reporte de stock bajo.
const LowStockLimit = 1000

// ReplenishmentUseCase genera la lista de reposición: productos activos con existencias
// totales por debajo de su mínimo, con la cantidad sugerida de pedido.
type ReplenishmentUseCase struct {
	reportRepo repository.ReportRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(reportRepo repository.ReportRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{reportRepo: reportRepo}
}

// LowStock devuelve hasta limit productos bajo mínimo (limit <= 0 o mayor al tope usa el tope).
// El orden es por nombre, igual que el reporte; Priority indica la urgencia relativa
// (1 = mayor déficit proporcional al mínimo).
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context, limit int) ([]dto.ReplenishmentSuggestionDTO, error) {
	if limit <= 0 || limit > LowStockLimit {
		limit = LowStockLimit
	}
	rows, err := uc.reportRepo.LowStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	factor := decimal.NewFromFloat(1.5)
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(rows))
	for _, r := range rows {
		ideal := r.Min.Mul(factor)
		suggested := ideal.Sub(r.OnHand)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		out = append(out, dto.ReplenishmentSuggestionDTO{
			ProductID:         r.ProductID,
			SKU:               r.SKU,
			ProductName:       r.Name,
			Unit:              r.Unit,
			CurrentStock:      r.OnHand,
			MinStock:          r.Min,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
		})
	}

	// Prioridad: déficit / mínimo, de mayor a menor; empate por déficit absoluto.
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := out[idx[i]], out[idx[j]]
		ra := a.MinStock.Sub(a.CurrentStock).Div(a.MinStock)
		rb := b.MinStock.Sub(b.CurrentStock).Div(b.MinStock)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.MinStock.Sub(a.CurrentStock).GreaterThan(b.MinStock.Sub(b.CurrentStock))
	})
	for rank, i := range idx {
		out[i].Priority = rank + 1
	}
	return out, nil
}
