package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ports"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

// CategoryUseCase alta, edición y baja de categorías con sus secciones.
type CategoryUseCase struct {
	store    repository.Store
	txRunner ports.TxRunner
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(store repository.Store, txRunner ports.TxRunner) *CategoryUseCase {
	return &CategoryUseCase{store: store, txRunner: txRunner}
}

// Create crea la categoría (nombre en mayúsculas, único) y sus secciones.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := menu.UpperCase(in.Name)
	sections := menu.ParseNames(in.Sections)
	if name == "" || len(sections) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Category
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		existing, err := s.Categories.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		now := time.Now()
		cat := &entity.Category{
			ID:        uuid.New().String(),
			Name:      name,
			Status:    entity.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.Categories.Create(ctx, cat); err != nil {
			return err
		}
		for _, sn := range sections {
			sec := newSection(cat.ID, sn, now)
			if err := s.Sections.Create(ctx, sec); err != nil {
				return err
			}
			cat.Sections = append(cat.Sections, sec)
		}
		out = cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(out), nil
}

// Update renombra la categoría y sincroniza sus secciones: agrega las nuevas,
// reactiva las inactivas que vuelven y retira las que ya no están (inactivas si un
// ítem las usa, borradas si no). Devuelve ErrNoChanges si no hubo cambios.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := menu.UpperCase(in.Name)
	wanted := menu.ParseNames(in.Sections)
	if name == "" || len(wanted) == 0 {
		return nil, domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		cat, err := s.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		updates := 0
		if cat.Name != name {
			other, err := s.Categories.GetByName(ctx, name)
			if err != nil {
				return err
			}
			if other != nil && other.ID != cat.ID {
				return domain.ErrDuplicate
			}
			cat.Name = name
			cat.UpdatedAt = now
			if err := s.Categories.Update(ctx, cat); err != nil {
				return err
			}
			updates++
		}

		current, err := s.Sections.ListByCategory(ctx, cat.ID)
		if err != nil {
			return err
		}
		byName := make(map[string]*entity.Section, len(current))
		for _, sec := range current {
			byName[sec.Name] = sec
		}
		keep := make(map[string]struct{}, len(wanted))
		for _, sn := range wanted {
			keep[sn] = struct{}{}
			sec, ok := byName[sn]
			switch {
			case !ok:
				if err := s.Sections.Create(ctx, newSection(cat.ID, sn, now)); err != nil {
					return err
				}
				updates++
			case sec.Status != entity.StatusActive:
				sec.Status = entity.StatusActive
				if err := s.Sections.Update(ctx, sec); err != nil {
					return err
				}
				updates++
			}
		}
		for _, sec := range current {
			if _, ok := keep[sec.Name]; ok || sec.Status != entity.StatusActive {
				continue
			}
			inUse, err := s.MenuItems.CountBySection(ctx, sec.ID)
			if err != nil {
				return err
			}
			if inUse > 0 {
				sec.Status = entity.StatusInactive
				err = s.Sections.Update(ctx, sec)
			} else {
				err = s.Sections.Delete(ctx, sec.ID)
			}
			if err != nil {
				return err
			}
			updates++
		}
		if updates == 0 {
			return domain.ErrNoChanges
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

// Remove da de baja la categoría: inactiva si algún ítem la usa; si no, la borra con sus secciones.
func (uc *CategoryUseCase) Remove(ctx context.Context, id string) (*dto.RemoveResponse, error) {
	out := &dto.RemoveResponse{ID: id}
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		cat, err := s.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.ErrNotFound
		}
		inUse, err := s.MenuItems.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if inUse > 0 {
			cat.Status = entity.StatusInactive
			cat.UpdatedAt = time.Now()
			out.Status = cat.Status
			return s.Categories.Update(ctx, cat)
		}
		if err := s.Sections.DeleteByCategory(ctx, id); err != nil {
			return err
		}
		out.Deleted = true
		return s.Categories.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get obtiene una categoría con sus secciones.
func (uc *CategoryUseCase) Get(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	cat, err := uc.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	sections, err := uc.store.Sections.ListByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("secciones de la categoría: %w", err)
	}
	cat.Sections = sections
	return toCategoryResponse(cat), nil
}

// List lista las categorías con sus secciones.
func (uc *CategoryUseCase) List(ctx context.Context, activeOnly bool) ([]dto.CategoryResponse, error) {
	list, err := uc.store.Categories.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

func newSection(categoryID, name string, now time.Time) *entity.Section {
	return &entity.Section{
		ID:         uuid.New().String(),
		CategoryID: categoryID,
		Name:       name,
		Status:     entity.StatusActive,
		CreatedAt:  now,
	}
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	out := &dto.CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Status:   c.Status,
		Sections: make([]dto.SectionResponse, 0, len(c.Sections)),
	}
	for _, s := range c.Sections {
		out.Sections = append(out.Sections, dto.SectionResponse{
			ID:         s.ID,
			CategoryID: s.CategoryID,
			Name:       s.Name,
			Status:     s.Status,
		})
	}
	return out
}
