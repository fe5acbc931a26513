package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/Inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger          *inventory.StockLedger
	PositionsUC     *inventory.PositionsUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	HistoryUC       *inventory.MovementHistoryUseCase
	ProductUC       *usecase.ProductUseCase
	WarehouseUC     *usecase.WarehouseUseCase
	UnitUC          *usecase.UnitUseCase
	CategoryUC      *usecase.CategoryUseCase
	CompanyUC       *usecase.CompanyUseCase
	DashboardUC     *appanalytics.DashboardUseCase
	Metrics         *metrics.Recorder // nil = sin /metrics
	JWTSecret       string
	JWTIssuer       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Todo /api requiere Bearer Token; las escrituras de inventario y catálogo además un rol.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	writer := RequireRole(RoleAdmin, RoleManager)

	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.PositionsUC)
	invGroup.Post("/adjustments", writer, inventoryHandler.Adjust)
	invGroup.Post("/transfers", writer, inventoryHandler.Transfer)
	invGroup.Get("/positions/:productId", inventoryHandler.Positions)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", writer, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writer, productHandler.Update)
	products.Delete("/:id", writer, productHandler.Delete)

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", writer, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", writer, warehouseHandler.Update)
	warehouses.Delete("/:id", writer, warehouseHandler.Delete)

	units := api.Group("/units")
	unitHandler := NewUnitHandler(deps.UnitUC)
	units.Get("/", unitHandler.List)
	units.Post("/", writer, unitHandler.Create)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", writer, categoryHandler.Create)

	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReplenishmentUC, deps.HistoryUC)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/movements", reportHandler.Movements)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard", dashboardHandler.GetSummary)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Get("/company", companyHandler.Get)
	api.Put("/company", RequireRole(RoleAdmin), companyHandler.Update)
}
