package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// MovementHistoryLimit tope de filas del historial.
const MovementHistoryLimit = 200

const dateLayout = "2006-01-02"

// MovementHistoryUseCase historial filtrado de movimientos (más recientes primero).
type MovementHistoryUseCase struct {
	reportRepo repository.ReportRepository
	now        func() time.Time
}

// NewMovementHistoryUseCase construye el caso de uso.
func NewMovementHistoryUseCase(reportRepo repository.ReportRepository) *MovementHistoryUseCase {
	return &MovementHistoryUseCase{reportRepo: reportRepo, now: time.Now}
}

// List aplica los filtros de q. Sin fechas se usa el día actual; el rango es [from 00:00, to+1 día).
func (uc *MovementHistoryUseCase) List(ctx context.Context, q dto.MovementHistoryQuery) (*dto.MovementHistoryResponse, error) {
	from, to, err := DayRange(q.From, q.To, uc.now())
	if err != nil {
		return nil, err
	}
	filter := entity.MovementFilter{
		From:        from,
		To:          to,
		WarehouseID: q.WarehouseID,
		Search:      strings.TrimSpace(q.Q),
		Limit:       MovementHistoryLimit,
	}
	if q.Type != "" {
		t := entity.MovementType(strings.ToUpper(q.Type))
		if !t.Valid() {
			return nil, domain.ErrInvalidInput
		}
		filter.Type = t
	}
	rows, err := uc.reportRepo.Movements(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.MovementHistoryResponse{
		From:  from.Format(dateLayout),
		To:    to.AddDate(0, 0, -1).Format(dateLayout),
		Items: ToHistoryRows(rows),
	}, nil
}

// DayRange convierte fechas YYYY-MM-DD a [from 00:00, to+1 día) en la zona de now.
// Vacías equivalen a hoy. Devuelve ErrInvalidInput si no parsean o si from > to.
func DayRange(fromStr, toStr string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	from, to := today, today
	var err error
	if s := strings.TrimSpace(fromStr); s != "" {
		if from, err = time.ParseInLocation(dateLayout, s, loc); err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
	}
	if s := strings.TrimSpace(toStr); s != "" {
		if to, err = time.ParseInLocation(dateLayout, s, loc); err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return from, to.AddDate(0, 0, 1), nil
}

// ToHistoryRows convierte filas del reporte a DTO.
func ToHistoryRows(rows []entity.MovementRow) []dto.MovementHistoryRow {
	out := make([]dto.MovementHistoryRow, 0, len(rows))
	for i := range rows {
		out = append(out, dto.MovementHistoryRow{
			StockMovementDTO: ToMovementDTO(&rows[i].StockMovement),
			ProductSKU:       rows[i].ProductSKU,
			ProductName:      rows[i].ProductName,
			WarehouseName:    rows[i].WarehouseName,
		})
	}
	return out
}
