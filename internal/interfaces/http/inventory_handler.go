package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

// InventoryHandler maneja ajustes, traslados y consulta de existencias (protegido).
type InventoryHandler struct {
	ledger    *inventory.StockLedger
	positions *inventory.PositionsUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedger, positions *inventory.PositionsUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, positions: positions}
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Suma delta (positivo o negativo, distinto de cero) a la posición producto/bodega
//
//	y registra un movimiento ADJUSTMENT en la misma transacción.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, delta, reason"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.ledger.AdjustFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Traslado entre bodegas
// @Tags         inventory
// @Security     Bearer
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      201   {object}  dto.TransferStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.ledger.TransferFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Positions godoc
// @Summary      Existencias de un producto por bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductPositionsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/positions/{productId} [get]
func (h *InventoryHandler) Positions(c *fiber.Ctx) error {
	id, err := paramID(c, "productId")
	if err != nil {
		return err
	}
	out, err := h.positions.ByProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
