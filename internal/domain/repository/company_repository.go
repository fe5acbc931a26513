package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// CompanySettingsRepository puerto del documento de configuración de la empresa.
// Load devuelve settings vacíos (no error) si el documento aún no existe.
type CompanySettingsRepository interface {
	Load(ctx context.Context) (*entity.CompanySettings, error)
	Save(ctx context.Context, settings *entity.CompanySettings) error
}
