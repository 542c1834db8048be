package repository

import (
	"context"

	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

// MenuItemRepository define el puerto de persistencia para MenuItem y su relación
// con modificadores (tabla item_modifiers).
type MenuItemRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	GetByID(ctx context.Context, id string) (*entity.MenuItem, error)
	GetByName(ctx context.Context, name string) (*entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	List(ctx context.Context, activeOnly bool) ([]*entity.MenuItem, error)
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	CountBySection(ctx context.Context, sectionID string) (int, error)

	// ListModifiers devuelve los modificadores del ítem (con variaciones) en orden de posición.
	ListModifiers(ctx context.Context, itemID string) ([]*entity.Modifier, error)
	AttachModifier(ctx context.Context, itemID, modifierID string, position int) error
	DetachModifier(ctx context.Context, itemID, modifierID string) error
	DetachAllModifiers(ctx context.Context, itemID string) error
}
