package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/Inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	domaininv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/settingsfile"
	httpRouter "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// storage repositorios según STORE_DRIVER.
type storage struct {
	txRunner   inventory.TxRunner
	repos      inventory.TxRepos
	units      repository.UnitRepository
	categories repository.CategoryRepository
	reports    repository.ReportRepository
	closeFunc  func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Bool("allow_negative", cfg.Inventory.AllowNegative).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("inicializar almacenamiento")
	}
	defer store.closeFunc()

	recorder := metrics.New()
	ledger := inventory.NewStockLedger(
		store.txRunner,
		domaininv.StockPolicy{AllowNegative: cfg.Inventory.AllowNegative},
		recorder,
		log.Component("ledger"),
	)
	companyUC := usecase.NewCompanyUseCase(settingsfile.New(cfg.Settings.Path), cfg.Settings.CacheTTL, log.Component("settings"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	if origins := strings.TrimSpace(cfg.HTTP.CORSOrigins); origins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:          ledger,
		PositionsUC:     inventory.NewPositionsUseCase(store.repos.Products, store.repos.Positions),
		ReplenishmentUC: inventory.NewReplenishmentUseCase(store.reports),
		HistoryUC:       inventory.NewMovementHistoryUseCase(store.reports),
		ProductUC:       usecase.NewProductUseCase(store.repos.Products),
		WarehouseUC:     usecase.NewWarehouseUseCase(store.repos.Warehouses),
		UnitUC:          usecase.NewUnitUseCase(store.units),
		CategoryUC:      usecase.NewCategoryUseCase(store.categories),
		CompanyUC:       companyUC,
		DashboardUC:     appanalytics.NewDashboardUseCase(store.reports, companyUC),
		Metrics:         recorder,
		JWTSecret:       cfg.JWT.Secret,
		JWTIssuer:       cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage conecta PostgreSQL (y aplica migraciones) o crea el store en memoria con los datos base.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Store.Driver == config.DriverMemory {
		mem := memory.NewStore()
		if err := mem.SeedDefaults(ctx); err != nil {
			return nil, err
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			txRunner:   mem,
			repos:      mem.Repos(),
			units:      mem.Units(),
			categories: mem.Categories(),
			reports:    mem.Reports(),
			closeFunc:  func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	applied, err := postgres.Migrate(ctx, pool, log.Component("migrate"))
	if err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Int("applied", applied).Msg("migraciones al día")
	return &storage{
		txRunner:   postgres.NewTxRunner(pool),
		repos:      postgres.Repos(pool),
		units:      postgres.NewUnitRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		reports:    postgres.NewReportRepository(pool),
		closeFunc:  pool.Close,
	}, nil
}
