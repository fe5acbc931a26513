package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de stock.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementAdjustment  MovementType = "ADJUSTMENT"
	MovementPurchase    MovementType = "PURCHASE"
	MovementSale        MovementType = "SALE"
	MovementOpening     MovementType = "OPENING"
	MovementTransferIn  MovementType = "TRANSFER_IN"
	MovementTransferOut MovementType = "TRANSFER_OUT"
	MovementReturnIn    MovementType = "RETURN_IN"
	MovementReturnOut   MovementType = "RETURN_OUT"
)

// Referencias que escribe el ledger.
const (
	ReferenceManualAdjust = "MANUAL_ADJUST"
	ReferenceTransfer     = "TRANSFER"
)

// MovementTypes lista todos los tipos válidos (en el orden en que se muestran).
var MovementTypes = []MovementType{
	MovementAdjustment, MovementPurchase, MovementSale, MovementOpening,
	MovementTransferIn, MovementTransferOut, MovementReturnIn, MovementReturnOut,
}

// Valid indica si t es un tipo conocido.
func (t MovementType) Valid() bool {
	for _, v := range MovementTypes {
		if v == t {
			return true
		}
	}
	return false
}

// StockMovement registro inmutable de un cambio de stock y su causa.
// Se crea una vez; nunca se actualiza ni se borra.
type StockMovement struct {
	ID            int64
	TransactionID string // agrupa los movimientos de una misma operación
	ProductID     int64
	WarehouseID   int64
	Type          MovementType
	Quantity      decimal.Decimal // delta con signo
	Reference     string
	Notes         string // vacío = NULL
	CreatedBy     string
	CreatedAt     time.Time
}
