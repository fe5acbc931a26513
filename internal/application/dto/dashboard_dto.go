package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/dashboard.
type DashboardDTO struct {
	ActiveProducts   int             `json:"active_products"`
	ActiveWarehouses int             `json:"active_warehouses"`
	Units            int             `json:"units"`
	InventoryValue   decimal.Decimal `json:"inventory_value"`
	// InventoryValueLabel valor formateado con el símbolo de moneda de la empresa, ej: "₹12,345.50".
	InventoryValueLabel string `json:"inventory_value_label"`

	// Movimientos en el rango [From, To] (fechas YYYY-MM-DD, por defecto hoy).
	From           string `json:"from"`
	To             string `json:"to"`
	MovementsCount int    `json:"movements_count"`
	DateLabel      string `json:"date_label"` // ej: "Febrero 2026"

	LowStock        []ReplenishmentSuggestionDTO `json:"low_stock"`        // top 5
	RecentMovements []MovementHistoryRow         `json:"recent_movements"` // últimos 10
}

// DashboardQuery rango opcional de fechas.
type DashboardQuery struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}
