package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
)

type fixedCurrency struct{}

func (fixedCurrency) CurrencySymbol(context.Context) string { return "$" }

func (fixedCurrency) FormatAmount(amount decimal.Decimal, symbol string) string {
	return symbol + amount.StringFixed(2)
}

func TestDashboard_GetSummary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	costly := &entity.Product{SKU: "A", Name: "Agua de rosas", IsActive: true,
		DefaultCost: decimal.NewNullDecimal(decimal.RequireFromString("2.5")),
		MinStock:    decimal.NewNullDecimal(decimal.NewFromInt(20))}
	require.NoError(t, repos.Products.Create(ctx, costly))
	inactive := &entity.Product{SKU: "B", Name: "Descontinuado", IsActive: false}
	require.NoError(t, repos.Products.Create(ctx, inactive))
	wh := &entity.Warehouse{Name: "Principal", IsActive: true}
	require.NoError(t, repos.Warehouses.Create(ctx, wh))
	require.NoError(t, store.Units().Create(ctx, &entity.Unit{Name: "Each", Symbol: "ea"}))

	ledger := inventory.NewStockLedger(store, domaininv.DefaultStockPolicy(), nil, zerolog.Nop())
	for _, d := range []int64{10, -2} {
		_, err := ledger.Adjust(ctx, inventory.AdjustInput{ProductID: costly.ID, WarehouseID: wh.ID, Delta: decimal.NewFromInt(d)})
		require.NoError(t, err)
	}

	uc := NewDashboardUseCase(store.Reports(), fixedCurrency{})
	got, err := uc.GetSummary(ctx, dto.DashboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, got.ActiveProducts)
	assert.Equal(t, 1, got.ActiveWarehouses)
	assert.Equal(t, 1, got.Units)
	assert.True(t, got.InventoryValue.Equal(decimal.NewFromInt(20)), "8 × 2.5")
	assert.Equal(t, "$20.00", got.InventoryValueLabel)
	assert.Equal(t, 2, got.MovementsCount)
	require.Len(t, got.LowStock, 1)
	assert.Equal(t, costly.ID, got.LowStock[0].ProductID)
	require.Len(t, got.RecentMovements, 2)
	assert.Equal(t, "-2", got.RecentMovements[0].Quantity.String())
	assert.Equal(t, time.Now().Format("2006-01-02"), got.From)
}

func TestDashboard_RangoInvalido(t *testing.T) {
	uc := NewDashboardUseCase(memory.NewStore().Reports(), nil)
	_, err := uc.GetSummary(context.Background(), dto.DashboardQuery{From: "2026-03-10", To: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Febrero 2026", monthLabel(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Diciembre 2025", monthLabel(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}
