package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

// DashboardHandler maneja el endpoint del dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve las métricas del inventario.
// GET /api/dashboard?from=YYYY-MM-DD&to=YYYY-MM-DD
//
// Sin fechas, el conteo de movimientos es del día actual. El resto de métricas
// (SKUs activos, valor de inventario, stock bajo, últimos movimientos) no depende del rango.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var q dto.DashboardQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	summary, err := h.uc.GetSummary(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
