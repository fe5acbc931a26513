package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// PositionsUseCase lectura de existencias de un producto en todas sus bodegas.
type PositionsUseCase struct {
	productRepo  repository.ProductRepository
	positionRepo repository.StockPositionRepository
}

// NewPositionsUseCase construye el caso de uso.
func NewPositionsUseCase(productRepo repository.ProductRepository, positionRepo repository.StockPositionRepository) *PositionsUseCase {
	return &PositionsUseCase{productRepo: productRepo, positionRepo: positionRepo}
}

// ByProduct devuelve las posiciones ordenadas por bodega y el total.
func (uc *PositionsUseCase) ByProduct(ctx context.Context, productID int64) (*dto.ProductPositionsResponse, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.positionRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductPositionsResponse{
		ProductID: productID,
		Total:     decimal.Zero,
		Positions: make([]dto.StockPositionDTO, 0, len(list)),
	}
	for _, p := range list {
		resp.Total = resp.Total.Add(p.Quantity)
		resp.Positions = append(resp.Positions, ToPositionDTO(p))
	}
	return resp, nil
}
