package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Con stock actual negativo o nulo el costo de entrada reemplaza al actual.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.LessThanOrEqual(decimal.Zero) {
		return costoEntrada
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// MergeCostAverage calcula el costo promedio de la posición destino al recibir qty unidades
// con costo incoming. Si no se conoce el costo entrante se conserva el actual.
func MergeCostAverage(current decimal.Decimal, currentCost decimal.NullDecimal, qty decimal.Decimal, incoming decimal.NullDecimal) decimal.NullDecimal {
	if !incoming.Valid {
		return currentCost
	}
	if !currentCost.Valid {
		return incoming
	}
	return decimal.NewNullDecimal(CostCalculator(current, currentCost.Decimal, qty, incoming.Decimal))
}
