// Package analytics contiene el caso de uso del dashboard de inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardLowStock        = 5  // filas del widget de stock bajo
	dashboardRecentMovements = 10 // últimos movimientos
)

// CurrencyFormatter formatea montos con el símbolo de la empresa.
type CurrencyFormatter interface {
	CurrencySymbol(ctx context.Context) string
	FormatAmount(amount decimal.Decimal, symbol string) string
}

// DashboardUseCase genera las métricas del dashboard.
//
// Fuente de datos: ReportRepository (consultas read-only). Las consultas son
// independientes y se ejecutan en paralelo; la primera que falla cancela las demás.
type DashboardUseCase struct {
	reportRepo repository.ReportRepository
	lowStock   *inventory.ReplenishmentUseCase
	currency   CurrencyFormatter
	now        func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reportRepo repository.ReportRepository, currency CurrencyFormatter) *DashboardUseCase {
	return &DashboardUseCase{
		reportRepo: reportRepo,
		lowStock:   inventory.NewReplenishmentUseCase(reportRepo),
		currency:   currency,
		now:        time.Now,
	}
}

// GetSummary construye el DashboardDTO. Sin fechas, el conteo de movimientos es del día actual.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, q dto.DashboardQuery) (*dto.DashboardDTO, error) {
	from, to, err := inventory.DayRange(q.From, q.To, uc.now())
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardDTO{
		From:      from.Format("2006-01-02"),
		To:        to.AddDate(0, 0, -1).Format("2006-01-02"),
		DateLabel: monthLabel(from),
	}
	var recent []entity.MovementRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.ActiveProducts, err = uc.reportRepo.CountActiveProducts(gctx)
		return wrap("productos activos", err)
	})
	g.Go(func() (err error) {
		out.ActiveWarehouses, err = uc.reportRepo.CountActiveWarehouses(gctx)
		return wrap("bodegas activas", err)
	})
	g.Go(func() (err error) {
		out.Units, err = uc.reportRepo.CountUnits(gctx)
		return wrap("unidades", err)
	})
	g.Go(func() (err error) {
		out.InventoryValue, err = uc.reportRepo.InventoryValue(gctx)
		return wrap("valor de inventario", err)
	})
	g.Go(func() (err error) {
		out.MovementsCount, err = uc.reportRepo.CountMovementsBetween(gctx, from, to)
		return wrap("movimientos del período", err)
	})
	g.Go(func() (err error) {
		out.LowStock, err = uc.lowStock.LowStock(gctx, dashboardLowStock)
		return wrap("stock bajo", err)
	})
	g.Go(func() (err error) {
		recent, err = uc.reportRepo.Movements(gctx, entity.MovementFilter{Limit: dashboardRecentMovements})
		return wrap("últimos movimientos", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.InventoryValue = out.InventoryValue.Round(2)
	out.RecentMovements = inventory.ToHistoryRows(recent)
	if uc.currency != nil {
		out.InventoryValueLabel = uc.currency.FormatAmount(out.InventoryValue, uc.currency.CurrencySymbol(ctx))
	}
	return out, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("dashboard: %s: %w", what, err)
	}
	return nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
