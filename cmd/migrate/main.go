// migrate aplica las migraciones SQL embebidas y termina.
//
// Uso: go run ./cmd/migrate
// Usa la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		os.Exit(1)
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, log.Zerolog())
	if err != nil {
		log.Error().Err(err).Int("applied", applied).Msg("migración fallida")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Int("applied", applied).Msg("migraciones aplicadas")
}
