package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Operaciones reportadas a Metrics.
const (
	OpAdjust   = "adjust"
	OpTransfer = "transfer"
)

// StockLedger mantiene las posiciones de stock por (producto, bodega) y el log de movimientos.
// Cada cambio de cantidad se escribe junto con exactamente un movimiento, en una sola transacción.
// La fila de la posición se bloquea (SELECT FOR UPDATE) desde la lectura hasta el commit,
// de modo que ajustes concurrentes sobre el mismo par se serializan.
type StockLedger struct {
	txRunner TxRunner
	policy   inventory.StockPolicy
	metrics  Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewStockLedger construye el ledger. metrics puede ser nil.
func NewStockLedger(txRunner TxRunner, policy inventory.StockPolicy, metrics Metrics, log zerolog.Logger) *StockLedger {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &StockLedger{
		txRunner: txRunner,
		policy:   policy,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// AdjustInput entrada de un ajuste manual.
type AdjustInput struct {
	ProductID   int64
	WarehouseID int64
	Delta       decimal.Decimal
	Reason      string
	UserID      string
}

// AdjustResult movimiento creado y posición resultante.
type AdjustResult struct {
	Movement *entity.StockMovement
	Position *entity.StockPosition
}

// Adjust aplica un delta con signo al stock de un producto en una bodega y registra
// un movimiento ADJUSTMENT con referencia MANUAL_ADJUST.
//
// Errores: ErrInvalidInput (ids no positivos, delta cero, con más de 4 decimales o fuera de
// rango), ErrNotFound (producto o bodega),
// ErrInsufficientStock (política sin negativos), *StorageError (fallas de BD, sin reintento).
func (l *StockLedger) Adjust(ctx context.Context, in AdjustInput) (res *AdjustResult, err error) {
	if in.ProductID <= 0 || in.WarehouseID <= 0 || !inventory.ValidDelta(in.Delta) {
		return nil, domain.ErrInvalidInput
	}
	start := time.Now()
	defer func() { l.observe(OpAdjust, start, err) }()

	txID := uuid.New().String()
	err = l.txRunner.Run(ctx, func(repos TxRepos) error {
		if err := ensureExists(ctx, repos, in.ProductID, in.WarehouseID); err != nil {
			return err
		}
		pos, err := lockPosition(ctx, repos, in.ProductID, in.WarehouseID, l.now())
		if err != nil {
			return err
		}
		next, err := l.policy.Apply(pos.Quantity, in.Delta)
		if err != nil {
			return err
		}
		pos.Quantity = next
		pos.UpdatedAt = l.now()
		if err := repos.Positions.Update(ctx, pos); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			TransactionID: txID,
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Type:          entity.MovementAdjustment,
			Quantity:      in.Delta,
			Reference:     entity.ReferenceManualAdjust,
			Notes:         in.Reason,
			CreatedBy:     in.UserID,
			CreatedAt:     pos.UpdatedAt,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return err
		}
		res = &AdjustResult{Movement: mov, Position: pos}
		return nil
	})
	if err != nil {
		return nil, l.classify(OpAdjust, err)
	}
	l.log.Info().
		Int64("product_id", in.ProductID).
		Int64("warehouse_id", in.WarehouseID).
		Str("delta", in.Delta.String()).
		Str("quantity", res.Position.Quantity.String()).
		Int64("movement_id", res.Movement.ID).
		Msg("ajuste de stock aplicado")
	return res, nil
}

// TransferInput entrada de un traslado entre bodegas.
type TransferInput struct {
	ProductID       int64
	FromWarehouseID int64
	ToWarehouseID   int64
	Quantity        decimal.Decimal
	Reason          string
	UserID          string
}

// TransferResult movimientos (salida y entrada) y posiciones resultantes.
type TransferResult struct {
	TransactionID string
	Out           *entity.StockMovement
	In            *entity.StockMovement
	Origin        *entity.StockPosition
	Destination   *entity.StockPosition
}

// Transfer mueve Quantity (> 0) de una bodega a otra en una sola transacción: resta en origen,
// suma en destino y guarda dos movimientos (TRANSFER_OUT / TRANSFER_IN) con el mismo TransactionID.
// Las dos filas se bloquean en orden ascendente de bodega para evitar interbloqueos.
func (l *StockLedger) Transfer(ctx context.Context, in TransferInput) (res *TransferResult, err error) {
	if in.ProductID <= 0 || in.FromWarehouseID <= 0 || in.ToWarehouseID <= 0 ||
		in.FromWarehouseID == in.ToWarehouseID || !in.Quantity.IsPositive() || !inventory.ValidDelta(in.Quantity) {
		return nil, domain.ErrInvalidInput
	}
	start := time.Now()
	defer func() { l.observe(OpTransfer, start, err) }()

	txID := uuid.New().String()
	err = l.txRunner.Run(ctx, func(repos TxRepos) error {
		if err := ensureExists(ctx, repos, in.ProductID, in.FromWarehouseID, in.ToWarehouseID); err != nil {
			return err
		}
		order := []int64{in.FromWarehouseID, in.ToWarehouseID}
		sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
		locked := make(map[int64]*entity.StockPosition, 2)
		for _, wh := range order {
			pos, err := lockPosition(ctx, repos, in.ProductID, wh, l.now())
			if err != nil {
				return err
			}
			locked[wh] = pos
		}
		origin, dest := locked[in.FromWarehouseID], locked[in.ToWarehouseID]

		nextOrigin, err := l.policy.Apply(origin.Quantity, in.Quantity.Neg())
		if err != nil {
			return err
		}
		now := l.now()
		nextDest := dest.Quantity.Add(in.Quantity)
		if !inventory.InRange(nextDest) {
			return domain.ErrInvalidInput
		}
		dest.CostAverage = inventory.MergeCostAverage(dest.Quantity, dest.CostAverage, in.Quantity, origin.CostAverage)
		dest.Quantity = nextDest
		dest.UpdatedAt = now
		origin.Quantity = nextOrigin
		origin.UpdatedAt = now
		if err := repos.Positions.Update(ctx, origin); err != nil {
			return err
		}
		if err := repos.Positions.Update(ctx, dest); err != nil {
			return err
		}

		out := &entity.StockMovement{
			TransactionID: txID,
			ProductID:     in.ProductID,
			WarehouseID:   in.FromWarehouseID,
			Type:          entity.MovementTransferOut,
			Quantity:      in.Quantity.Neg(),
			Reference:     entity.ReferenceTransfer,
			Notes:         in.Reason,
			CreatedBy:     in.UserID,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, out); err != nil {
			return err
		}
		inMov := &entity.StockMovement{
			TransactionID: txID,
			ProductID:     in.ProductID,
			WarehouseID:   in.ToWarehouseID,
			Type:          entity.MovementTransferIn,
			Quantity:      in.Quantity,
			Reference:     entity.ReferenceTransfer,
			Notes:         in.Reason,
			CreatedBy:     in.UserID,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, inMov); err != nil {
			return err
		}
		res = &TransferResult{TransactionID: txID, Out: out, In: inMov, Origin: origin, Destination: dest}
		return nil
	})
	if err != nil {
		return nil, l.classify(OpTransfer, err)
	}
	l.log.Info().
		Int64("product_id", in.ProductID).
		Int64("from_warehouse_id", in.FromWarehouseID).
		Int64("to_warehouse_id", in.ToWarehouseID).
		Str("quantity", in.Quantity.String()).
		Str("transaction_id", txID).
		Msg("traslado de stock aplicado")
	return res, nil
}

// ensureExists verifica producto y bodegas dentro de la transacción.
func ensureExists(ctx context.Context, repos TxRepos, productID int64, warehouseIDs ...int64) error {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	for _, id := range warehouseIDs {
		wh, err := repos.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// lockPosition bloquea la posición; si no existe la crea en cero y la vuelve a bloquear.
func lockPosition(ctx context.Context, repos TxRepos, productID, warehouseID int64, now time.Time) (*entity.StockPosition, error) {
	pos, err := repos.Positions.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if pos != nil {
		return pos, nil
	}
	if err := repos.Positions.Create(ctx, &entity.StockPosition{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		UpdatedAt:   now,
	}); err != nil {
		return nil, err
	}
	pos, err = repos.Positions.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, fmt.Errorf("posición %d/%d no visible después de crearla", productID, warehouseID)
	}
	return pos, nil
}

// classify deja pasar los errores de dominio y envuelve el resto como StorageError.
func (l *StockLedger) classify(op string, err error) error {
	if domain.IsDomainError(err) {
		return err
	}
	var se *domain.StorageError
	if !errors.As(err, &se) {
		se = &domain.StorageError{Op: op, Err: err}
	}
	l.log.Error().Err(se).Str("op", op).Msg("operación de stock fallida")
	return se
}

func (l *StockLedger) observe(op string, start time.Time, err error) {
	l.metrics.ObserveOperation(op, outcome(err), time.Since(start))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "storage_error"
	}
}
