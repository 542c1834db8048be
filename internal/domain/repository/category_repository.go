package repository

import (
	"context"

	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// List devuelve las categorías con sus secciones; activeOnly filtra ambas por status.
	List(ctx context.Context, activeOnly bool) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

// SectionRepository define el puerto de persistencia para Section.
type SectionRepository interface {
	Create(ctx context.Context, section *entity.Section) error
	GetByID(ctx context.Context, id string) (*entity.Section, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.Section, error)
	Update(ctx context.Context, section *entity.Section) error
	Delete(ctx context.Context, id string) error
	DeleteByCategory(ctx context.Context, categoryID string) error
}
