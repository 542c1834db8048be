package ports

import (
	"context"

	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún efecto queda persistido; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(s repository.Store) error) error
}
