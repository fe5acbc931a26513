package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store     *memory.Store
	ledger    *inventory.StockLedger
	metrics   *fakeMetrics
	productID int64
	whA       int64
	whB       int64
}

func newFixture(t *testing.T, policy domaininv.StockPolicy) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	p := &entity.Product{SKU: "SKU-1", Name: "Shampoo 250ml", IsActive: true}
	require.NoError(t, repos.Products.Create(ctx, p))
	a := &entity.Warehouse{Code: "MAIN", Name: "Main Warehouse", IsActive: true}
	require.NoError(t, repos.Warehouses.Create(ctx, a))
	b := &entity.Warehouse{Code: "B2", Name: "Bodega 2", IsActive: true}
	require.NoError(t, repos.Warehouses.Create(ctx, b))

	m := &fakeMetrics{outcomes: map[string]int{}}
	return &fixture{
		store:     store,
		ledger:    inventory.NewStockLedger(store, policy, m, zerolog.Nop()),
		metrics:   m,
		productID: p.ID,
		whA:       a.ID,
		whB:       b.ID,
	}
}

func (f *fixture) quantity(t *testing.T, warehouseID int64) (decimal.Decimal, bool) {
	t.Helper()
	pos, err := f.store.Repos().Positions.Get(context.Background(), f.productID, warehouseID)
	require.NoError(t, err)
	if pos == nil {
		return decimal.Zero, false
	}
	return pos.Quantity, true
}

func (f *fixture) adjust(t *testing.T, warehouseID int64, delta string) *inventory.AdjustResult {
	t.Helper()
	res, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:   f.productID,
		WarehouseID: warehouseID,
		Delta:       decimal.RequireFromString(delta),
	})
	require.NoError(t, err)
	return res
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *fakeMetrics) ObserveOperation(op, outcome string, _ time.Duration) {
	m.mu.Lock()
	m.outcomes[op+":"+outcome]++
	m.mu.Unlock()
}

func (m *fakeMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[key]
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Adjust
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_CreaPosicionEnPrimerAjuste(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	_, exists := f.quantity(t, f.whA)
	require.False(t, exists)

	res, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:   f.productID,
		WarehouseID: f.whA,
		Delta:       dec("5"),
		Reason:      "conteo físico",
		UserID:      "user-1",
	})
	require.NoError(t, err)

	qty, exists := f.quantity(t, f.whA)
	require.True(t, exists)
	assert.True(t, qty.Equal(dec("5")), "got %s", qty)
	assert.True(t, res.Position.Quantity.Equal(dec("5")))

	movs := f.store.Movements()
	require.Len(t, movs, 1)
	m := movs[0]
	assert.Equal(t, res.Movement.ID, m.ID)
	assert.Equal(t, entity.MovementAdjustment, m.Type)
	assert.Equal(t, entity.ReferenceManualAdjust, m.Reference)
	assert.Equal(t, "conteo físico", m.Notes)
	assert.Equal(t, "user-1", m.CreatedBy)
	assert.True(t, m.Quantity.Equal(dec("5")))
	assert.NotEmpty(t, m.TransactionID)
	assert.Equal(t, 1, f.metrics.count("adjust:ok"))
}

func TestAdjust_SinMotivoGuardaNotasVacias(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	res := f.adjust(t, f.whA, "1")
	assert.Empty(t, res.Movement.Notes)
	assert.Nil(t, inventory.ToMovementDTO(res.Movement).Notes)
}

func TestAdjust_Secuencial(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	first := f.adjust(t, f.whA, "10")
	second := f.adjust(t, f.whA, "-3")

	qty, _ := f.quantity(t, f.whA)
	assert.True(t, qty.Equal(dec("7")), "got %s", qty)

	movs := f.store.Movements()
	require.Len(t, movs, 2)
	assert.Less(t, first.Movement.ID, second.Movement.ID)
	assert.True(t, movs[0].Quantity.Equal(dec("10")))
	assert.True(t, movs[1].Quantity.Equal(dec("-3")))
}

func TestAdjust_DeltaCeroRechazado(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: f.productID, WarehouseID: f.whA, Delta: decimal.Zero,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, exists := f.quantity(t, f.whA)
	assert.False(t, exists, "no debe crearse la posición")
	assert.Empty(t, f.store.Movements())
}

func TestAdjust_DeltaConMasDecimalesQueLaColumna(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	for _, delta := range []string{"0.00001", "1.23456", "-0.00004"} {
		_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
			ProductID: f.productID, WarehouseID: f.whA, Delta: dec(delta),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, delta)
	}
	_, exists := f.quantity(t, f.whA)
	assert.False(t, exists)
	assert.Empty(t, f.store.Movements())

	res := f.adjust(t, f.whA, "0.0001")
	assert.True(t, res.Position.Quantity.Equal(dec("0.0001")))
}

func TestAdjust_DeltaFueraDeRango(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	for _, delta := range []string{"10000000000", "-10000000000", "123456789012"} {
		_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
			ProductID: f.productID, WarehouseID: f.whA, Delta: dec(delta),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, delta)
	}
	assert.Empty(t, f.store.Movements())
}

func TestAdjust_ResultadoFueraDeRangoNoEscribe(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	f.adjust(t, f.whA, "9999999999")

	_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: f.productID, WarehouseID: f.whA, Delta: dec("1"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	qty, _ := f.quantity(t, f.whA)
	assert.True(t, qty.Equal(dec("9999999999")))
	assert.Len(t, f.store.Movements(), 1)
}

func TestAdjust_IdsInvalidos(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	cases := []inventory.AdjustInput{
		{ProductID: 0, WarehouseID: f.whA, Delta: dec("1")},
		{ProductID: f.productID, WarehouseID: -1, Delta: dec("1")},
	}
	for _, in := range cases {
		_, err := f.ledger.Adjust(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, f.store.Movements())
}

func TestAdjust_ProductoOBodegaInexistente(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: 999, WarehouseID: f.whA, Delta: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: f.productID, WarehouseID: 999, Delta: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.Movements())
	assert.Equal(t, 2, f.metrics.count("adjust:not_found"))
}

func TestAdjust_PoliticaPorDefectoPermiteNegativos(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	f.adjust(t, f.whA, "-3")
	qty, _ := f.quantity(t, f.whA)
	assert.True(t, qty.Equal(dec("-3")))
}

func TestAdjust_PoliticaEstrictaRechazaNegativos(t *testing.T) {
	f := newFixture(t, domaininv.StockPolicy{AllowNegative: false})
	f.adjust(t, f.whA, "2")

	_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: f.productID, WarehouseID: f.whA, Delta: dec("-3"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	qty, _ := f.quantity(t, f.whA)
	assert.True(t, qty.Equal(dec("2")))
	assert.Len(t, f.store.Movements(), 1)

	// En una bodega sin posición tampoco queda la fila creada en la tx descartada.
	_, err = f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: f.productID, WarehouseID: f.whB, Delta: dec("-1"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, exists := f.quantity(t, f.whB)
	assert.False(t, exists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad y errores de almacenamiento
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_FallaAlInsertarMovimientoNoCambiaCantidad(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	f.adjust(t, f.whA, "4")

	f.store.SetFault(memory.OpMovementCreate, nil)
	_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: f.productID, WarehouseID: f.whA, Delta: dec("6"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, memory.ErrInjected)

	var se *domain.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, inventory.OpAdjust, se.Op)

	qty, _ := f.quantity(t, f.whA)
	assert.True(t, qty.Equal(dec("4")), "la cantidad no debe cambiar: %s", qty)
	assert.Len(t, f.store.Movements(), 1)
	assert.Equal(t, 1, f.metrics.count("adjust:storage_error"))

	f.store.ClearFaults()
	f.adjust(t, f.whA, "6")
	qty, _ = f.quantity(t, f.whA)
	assert.True(t, qty.Equal(dec("10")))
}

func TestAdjust_FallaEnCommitEsStorageError(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	f.store.SetFault(memory.OpCommit, errors.New("connection reset"))

	_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: f.productID, WarehouseID: f.whA, Delta: dec("1"),
	})
	require.ErrorIs(t, err, domain.ErrStorage)
	_, exists := f.quantity(t, f.whA)
	assert.False(t, exists)
	assert.Empty(t, f.store.Movements())
}

func TestAdjust_ContextoCanceladoMientrasEsperaBloqueo(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	f.adjust(t, f.whA, "1")

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- f.store.Run(context.Background(), func(repos inventory.TxRepos) error {
			if _, err := repos.Positions.GetForUpdate(context.Background(), f.productID, f.whA); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := f.ledger.Adjust(ctx, inventory.AdjustInput{
		ProductID: f.productID, WarehouseID: f.whA, Delta: dec("1"),
	})
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
	qty, _ := f.quantity(t, f.whA)
	assert.True(t, qty.Equal(dec("1")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_ConcurrentesMismoParNoPierdenDeltas(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())

	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
				ProductID: f.productID, WarehouseID: f.whA, Delta: dec("5"),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	qty, _ := f.quantity(t, f.whA)
	assert.True(t, qty.Equal(dec("10")), "got %s", qty)
	assert.Len(t, f.store.Movements(), 2)
}

func TestAdjust_MuchasGoroutinesConvergen(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	const n = 50

	var g errgroup.Group
	for i := 0; i < n; i++ {
		delta := "1"
		if i%5 == 0 {
			delta = "-2"
		}
		g.Go(func() error {
			_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
				ProductID: f.productID, WarehouseID: f.whA, Delta: dec(delta),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	// 40 × (+1) + 10 × (-2) = 20
	qty, _ := f.quantity(t, f.whA)
	assert.True(t, qty.Equal(dec("20")), "got %s", qty)

	movs := f.store.Movements()
	require.Len(t, movs, n)
	sum := decimal.Zero
	for i, m := range movs {
		sum = sum.Add(m.Quantity)
		if i > 0 {
			assert.Less(t, movs[i-1].ID, m.ID)
		}
	}
	assert.True(t, sum.Equal(qty), "la suma de movimientos debe igualar la cantidad")
}

func TestAdjust_ParesDistintosSonIndependientes(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
				ProductID: f.productID, WarehouseID: f.whA, Delta: dec("1"),
			})
			return err
		})
		g.Go(func() error {
			_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
				ProductID: f.productID, WarehouseID: f.whB, Delta: dec("2"),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	a, _ := f.quantity(t, f.whA)
	b, _ := f.quantity(t, f.whB)
	assert.True(t, a.Equal(dec("10")), "A got %s", a)
	assert.True(t, b.Equal(dec("20")), "B got %s", b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MueveCantidadEntreBodegas(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	f.adjust(t, f.whA, "10")

	res, err := f.ledger.Transfer(context.Background(), inventory.TransferInput{
		ProductID: f.productID, FromWarehouseID: f.whA, ToWarehouseID: f.whB,
		Quantity: dec("4"), Reason: "reposición",
	})
	require.NoError(t, err)

	a, _ := f.quantity(t, f.whA)
	b, _ := f.quantity(t, f.whB)
	assert.True(t, a.Equal(dec("6")))
	assert.True(t, b.Equal(dec("4")))

	assert.Equal(t, entity.MovementTransferOut, res.Out.Type)
	assert.Equal(t, entity.MovementTransferIn, res.In.Type)
	assert.True(t, res.Out.Quantity.Equal(dec("-4")))
	assert.True(t, res.In.Quantity.Equal(dec("4")))
	assert.Equal(t, res.TransactionID, res.Out.TransactionID)
	assert.Equal(t, res.TransactionID, res.In.TransactionID)
	assert.Equal(t, entity.ReferenceTransfer, res.Out.Reference)
	assert.Len(t, f.store.Movements(), 3)
}

func TestTransfer_EntradasInvalidas(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	cases := []inventory.TransferInput{
		{ProductID: f.productID, FromWarehouseID: f.whA, ToWarehouseID: f.whA, Quantity: dec("1")},
		{ProductID: f.productID, FromWarehouseID: f.whA, ToWarehouseID: f.whB, Quantity: dec("0")},
		{ProductID: f.productID, FromWarehouseID: f.whA, ToWarehouseID: f.whB, Quantity: dec("-2")},
		{ProductID: f.productID, FromWarehouseID: f.whA, ToWarehouseID: f.whB, Quantity: dec("0.00001")},
		{ProductID: f.productID, FromWarehouseID: f.whA, ToWarehouseID: f.whB, Quantity: dec("10000000000")},
	}
	for _, in := range cases {
		_, err := f.ledger.Transfer(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, f.store.Movements())
}

func TestTransfer_PoliticaEstrictaSinStockSuficiente(t *testing.T) {
	f := newFixture(t, domaininv.StockPolicy{AllowNegative: false})
	f.adjust(t, f.whA, "3")

	_, err := f.ledger.Transfer(context.Background(), inventory.TransferInput{
		ProductID: f.productID, FromWarehouseID: f.whA, ToWarehouseID: f.whB, Quantity: dec("5"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	a, _ := f.quantity(t, f.whA)
	assert.True(t, a.Equal(dec("3")))
	_, exists := f.quantity(t, f.whB)
	assert.False(t, exists)
}

func TestTransfer_CruzadosConcurrentesNoSeBloquean(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	f.adjust(t, f.whA, "100")
	f.adjust(t, f.whB, "100")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 20; i++ {
		from, to := f.whA, f.whB
		if i%2 == 1 {
			from, to = to, from
		}
		g.Go(func() error {
			_, err := f.ledger.Transfer(gctx, inventory.TransferInput{
				ProductID: f.productID, FromWarehouseID: from, ToWarehouseID: to, Quantity: dec("1"),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	a, _ := f.quantity(t, f.whA)
	b, _ := f.quantity(t, f.whB)
	assert.True(t, a.Add(b).Equal(dec("200")))
	assert.True(t, a.Equal(dec("100")), "A got %s", a)
}

// ──────────────────────────────────────────────────────────────────────────────
// Requests HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustFromRequest_ParseaFormulario(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	resp, err := f.ledger.AdjustFromRequest(context.Background(), "user-9", dto.AdjustStockRequest{
		ProductID:   "1",
		WarehouseID: " 1 ",
		Delta:       "2.5",
		Reason:      "  merma  ",
	})
	require.NoError(t, err)
	assert.True(t, resp.Position.Quantity.Equal(dec("2.5")))
	require.NotNil(t, resp.Movement.Notes)
	assert.Equal(t, "merma", *resp.Movement.Notes)
	require.NotNil(t, resp.Movement.CreatedBy)
	assert.Equal(t, "user-9", *resp.Movement.CreatedBy)
}

func TestAdjustFromRequest_ValoresNoNumericos(t *testing.T) {
	f := newFixture(t, domaininv.DefaultStockPolicy())
	cases := []dto.AdjustStockRequest{
		{ProductID: "abc", WarehouseID: "1", Delta: "1"},
		{ProductID: "1.5", WarehouseID: "1", Delta: "1"},
		{ProductID: "1", WarehouseID: "1", Delta: "diez"},
		{ProductID: "1", WarehouseID: "1", Delta: "0"},
		{ProductID: "1", WarehouseID: "1", Delta: "0.00001"},
		{ProductID: "1", WarehouseID: "1", Delta: "1e10"},
	}
	for _, in := range cases {
		_, err := f.ledger.AdjustFromRequest(context.Background(), "", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
	assert.Empty(t, f.store.Movements())
}
