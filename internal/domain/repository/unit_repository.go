package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// UnitRepository define el puerto de persistencia para unidades de medida.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	List(ctx context.Context) ([]*entity.Unit, error)
}
