package repository

import (
	"context"

	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

// ModifierRepository define el puerto de persistencia para Modifier y su relación
// con variaciones (tabla modifier_variations).
type ModifierRepository interface {
	Create(ctx context.Context, modifier *entity.Modifier) error
	GetByID(ctx context.Context, id string) (*entity.Modifier, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	// ListAll devuelve todos los modificadores con sus variaciones (para el índice de duplicados).
	ListAll(ctx context.Context) ([]*entity.Modifier, error)
	// ListOrphans devuelve los modificadores sin ítems asociados.
	ListOrphans(ctx context.Context) ([]*entity.Modifier, error)
	// CountItems cuántos ítems usan el modificador.
	CountItems(ctx context.Context, id string) (int, error)

	AttachVariation(ctx context.Context, modifierID, variationID string, position int) error
	DetachAllVariations(ctx context.Context, modifierID string) error
}

// VariationRepository define el puerto de persistencia para Variation (nombre global único).
type VariationRepository interface {
	Create(ctx context.Context, variation *entity.Variation) error
	GetByName(ctx context.Context, name string) (*entity.Variation, error)
	Count(ctx context.Context) (int, error)
}
