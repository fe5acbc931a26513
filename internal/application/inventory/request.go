package inventory

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AdjustFromRequest adapta el request HTTP (JSON o formulario) al ajuste del ledger.
func (l *StockLedger) AdjustFromRequest(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	productID, err := parseID(in.ProductID)
	if err != nil {
		return nil, err
	}
	warehouseID, err := parseID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	delta, err := parseDecimal(in.Delta)
	if err != nil {
		return nil, err
	}
	res, err := l.Adjust(ctx, AdjustInput{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Delta:       delta,
		Reason:      strings.TrimSpace(in.Reason),
		UserID:      userID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustStockResponse{
		Movement: ToMovementDTO(res.Movement),
		Position: ToPositionDTO(res.Position),
	}, nil
}

// TransferFromRequest adapta el request HTTP al traslado del ledger.
func (l *StockLedger) TransferFromRequest(ctx context.Context, userID string, in dto.TransferStockRequest) (*dto.TransferStockResponse, error) {
	productID, err := parseID(in.ProductID)
	if err != nil {
		return nil, err
	}
	fromID, err := parseID(in.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	toID, err := parseID(in.ToWarehouseID)
	if err != nil {
		return nil, err
	}
	qty, err := parseDecimal(in.Quantity)
	if err != nil {
		return nil, err
	}
	res, err := l.Transfer(ctx, TransferInput{
		ProductID:       productID,
		FromWarehouseID: fromID,
		ToWarehouseID:   toID,
		Quantity:        qty,
		Reason:          strings.TrimSpace(in.Reason),
		UserID:          userID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransferStockResponse{
		TransactionID: res.TransactionID,
		Out:           ToMovementDTO(res.Out),
		In:            ToMovementDTO(res.In),
		Origin:        ToPositionDTO(res.Origin),
		Destination:   ToPositionDTO(res.Destination),
	}, nil
}

// parseID acepta solo enteros positivos ("12", no "12.5" ni "-1").
func parseID(n json.Number) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(n.String()), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return id, nil
}

func parseDecimal(n json.Number) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(n.String()))
	if err != nil {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return d, nil
}

// ToMovementDTO convierte un movimiento a su representación HTTP.
func ToMovementDTO(m *entity.StockMovement) dto.StockMovementDTO {
	out := dto.StockMovementDTO{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		CreatedAt:     m.CreatedAt,
	}
	if m.Notes != "" {
		notes := m.Notes
		out.Notes = &notes
	}
	if m.CreatedBy != "" {
		by := m.CreatedBy
		out.CreatedBy = &by
	}
	return out
}

// ToPositionDTO convierte una posición a su representación HTTP.
func ToPositionDTO(p *entity.StockPosition) dto.StockPositionDTO {
	out := dto.StockPositionDTO{
		ProductID:   p.ProductID,
		WarehouseID: p.WarehouseID,
		Quantity:    p.Quantity,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CostAverage.Valid {
		c := p.CostAverage.Decimal
		out.CostAverage = &c
	}
	return out
}
