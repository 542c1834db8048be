package repository

import (
	"context"

	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

// TableRepository define el puerto de persistencia para las mesas.
type TableRepository interface {
	Create(ctx context.Context, table *entity.Table) error
	GetByID(ctx context.Context, id string) (*entity.Table, error)
	// GetForUpdate bloquea la fila de la mesa (SELECT FOR UPDATE) dentro de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Table, error)
	GetByName(ctx context.Context, name string) (*entity.Table, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context) ([]*entity.Table, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Table, error)
	Delete(ctx context.Context, id string) error
}
