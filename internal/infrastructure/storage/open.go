// Package storage elige la persistencia según STORE_DRIVER y la deja lista para los casos de uso.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/restaurante-pos/internal/application/ports"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/memory"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/restaurante-pos/pkg/config"
	"github.com/jhoicas/restaurante-pos/pkg/logger"
)

// Backend repositorios de lectura, runner transaccional y cierre de recursos.
type Backend struct {
	Store    repository.Store
	TxRunner ports.TxRunner
	Close    func()
}

// Open conecta la persistencia configurada. Con postgres aplica las migraciones si DB_MIGRATE=true.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		db := memory.NewStore()
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		return &Backend{Store: db.Repos(), TxRunner: db, Close: func() {}}, nil

	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Msg("migraciones aplicadas")
		}
		return &Backend{Store: postgres.NewStore(pool), TxRunner: postgres.NewTxRunner(pool), Close: pool.Close}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER no soportado: %q", cfg.Store.Driver)
}
