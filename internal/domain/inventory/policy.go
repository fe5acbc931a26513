package inventory

import (
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// QuantityScale decimales con que se guardan cantidades (columnas NUMERIC(14,4)).
const QuantityScale = 4

// maxQuantity límite exclusivo del valor absoluto de una cantidad: 10 dígitos enteros.
var maxQuantity = decimal.New(1, 10)

// ValidDelta indica si d es un delta almacenable: distinto de cero, sin más de
// QuantityScale decimales y con |d| < 10^10. Un delta como 0.00001 se redondearía a cero
// al guardarse y dejaría un movimiento vacío.
func ValidDelta(d decimal.Decimal) bool {
	if d.IsZero() || !d.Equal(d.Round(QuantityScale)) {
		return false
	}
	return InRange(d)
}

// InRange indica si una cantidad cabe en las columnas de cantidad (|q| < 10^10).
func InRange(q decimal.Decimal) bool {
	return q.Abs().LessThan(maxQuantity)
}

// StockPolicy reglas que el ledger aplica al calcular la nueva cantidad.
type StockPolicy struct {
	// AllowNegative permite existencias negativas (sobreventa / backorder).
	AllowNegative bool
}

// DefaultStockPolicy permite negativos, igual que el sistema de origen.
func DefaultStockPolicy() StockPolicy {
	return StockPolicy{AllowNegative: true}
}

// Apply devuelve current+delta. Falla con ErrInsufficientStock si el resultado queda negativo
// y la política no lo permite, y con ErrInvalidInput si el resultado no cabe en la columna.
func (p StockPolicy) Apply(current, delta decimal.Decimal) (decimal.Decimal, error) {
	next := current.Add(delta)
	if !p.AllowNegative && next.IsNegative() {
		return current, domain.ErrInsufficientStock
	}
	if !InRange(next) {
		return current, domain.ErrInvalidInput
	}
	return next, nil
}
