package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

// ReportHandler reportes de solo lectura: stock bajo e historial de movimientos.
type ReportHandler struct {
	replenishment *inventory.ReplenishmentUseCase
	history       *inventory.MovementHistoryUseCase
}

func NewReportHandler(replenishment *inventory.ReplenishmentUseCase, history *inventory.MovementHistoryUseCase) *ReportHandler {
	return &ReportHandler{replenishment: replenishment, history: history}
}

// LowStock godoc
// @Summary      Productos bajo su stock mínimo
// @Description  Productos activos con mínimo definido cuya existencia total está por debajo,
//
//	ordenados por nombre, con la cantidad sugerida de pedido.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máx. filas (default y tope 1000)"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.replenishment.LowStock(c.UserContext(), c.QueryInt("limit", inventory.LowStockLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

// Movements godoc
// @Summary      Historial de movimientos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from          query  string  false  "Desde (YYYY-MM-DD). Default: hoy."
// @Param        to            query  string  false  "Hasta inclusive (YYYY-MM-DD). Default: hoy."
// @Param        type          query  string  false  "Tipo de movimiento"
// @Param        warehouse_id  query  int     false  "Bodega"
// @Param        q             query  string  false  "SKU o nombre (contiene)"
// @Success      200  {object}  dto.MovementHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	var q dto.MovementHistoryQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.history.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
