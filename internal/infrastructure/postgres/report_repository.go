package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de reportes y dashboard (solo lectura, sobre el pool).
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// LowStock productos activos con min_stock > 0 y existencias totales por debajo.
func (r *ReportRepo) LowStock(ctx context.Context, limit int) ([]entity.LowStockRow, error) {
	query := `
		SELECT p.id, p.sku, p.name, COALESCE(u.symbol, ''),
		       COALESCE(SUM(s.quantity), 0) AS on_hand, p.min_stock
		FROM products p
		LEFT JOIN units u ON u.id = p.unit_id
		LEFT JOIN stock_positions s ON s.product_id = p.id
		WHERE p.is_active AND p.min_stock > 0
		GROUP BY p.id, p.sku, p.name, u.symbol, p.min_stock
		HAVING COALESCE(SUM(s.quantity), 0) < p.min_stock
		ORDER BY p.name, p.id
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	out := make([]entity.LowStockRow, 0)
	for rows.Next() {
		var row entity.LowStockRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &row.Unit, &row.OnHand, &row.Min); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Movements historial filtrado, más recientes primero.
func (r *ReportRepo) Movements(ctx context.Context, f entity.MovementFilter) ([]entity.MovementRow, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if !f.From.IsZero() {
		add("m.created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("m.created_at < $%d", f.To)
	}
	if f.Type != "" {
		add("m.type = $%d", string(f.Type))
	}
	if f.WarehouseID > 0 {
		add("m.warehouse_id = $%d", f.WarehouseID)
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(p.sku ILIKE $%d OR p.name ILIKE $%d)", n, n))
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT ` + movementColumns + `, p.sku, p.name, w.name
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		JOIN warehouses w ON w.id = m.warehouse_id`)
	if len(where) > 0 {
		sb.WriteString("\n\t\tWHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString("\n\t\tORDER BY m.created_at DESC, m.id DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&sb, "\n\t\tLIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("movement history: %w", err)
	}
	defer rows.Close()
	out := make([]entity.MovementRow, 0)
	for rows.Next() {
		var row entity.MovementRow
		dest := append(movementDest(&row.StockMovement), &row.ProductSKU, &row.ProductName, &row.WarehouseName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan movement history: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *ReportRepo) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (r *ReportRepo) CountActiveProducts(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE is_active`)
}

func (r *ReportRepo) CountActiveWarehouses(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM warehouses WHERE is_active`)
}

func (r *ReportRepo) CountUnits(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM units`)
}

func (r *ReportRepo) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var v decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(s.quantity * COALESCE(s.cost_average, p.default_cost, 0)), 0)
		FROM stock_positions s
		JOIN products p ON p.id = s.product_id`).Scan(&v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("inventory value: %w", err)
	}
	return v, nil
}

func (r *ReportRepo) CountMovementsBetween(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1 AND created_at < $2`, from, to)
}
