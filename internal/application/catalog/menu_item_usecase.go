package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ports"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

// MenuItemUseCase casos de uso de ítems del menú. Toda mutación de modificadores pasa
// por ModifierReconciler dentro de la misma transacción que el cambio del ítem.
type MenuItemUseCase struct {
	store      repository.Store
	txRunner   ports.TxRunner
	reconciler *ModifierReconciler
}

// NewMenuItemUseCase construye el caso de uso.
func NewMenuItemUseCase(store repository.Store, txRunner ports.TxRunner, reconciler *ModifierReconciler) *MenuItemUseCase {
	return &MenuItemUseCase{store: store, txRunner: txRunner, reconciler: reconciler}
}

// Create agrega un ítem al menú y le asocia sus modificadores.
func (uc *MenuItemUseCase) Create(ctx context.Context, in dto.MenuItemRequest) (*dto.MenuItemResponse, error) {
	if err := validateItemRequest(in); err != nil {
		return nil, err
	}
	var id string
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		item, err := uc.create(ctx, s, in)
		if err != nil {
			return err
		}
		id = item.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

func (uc *MenuItemUseCase) create(ctx context.Context, s repository.Store, in dto.MenuItemRequest) (*entity.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	existing, err := s.MenuItems.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := checkPlacement(ctx, s, in.CategoryID, in.SectionID); err != nil {
		return nil, err
	}
	now := time.Now()
	item := &entity.MenuItem{
		ID:          uuid.New().String(),
		Name:        name,
		Price:       in.Price,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		SectionID:   in.SectionID,
		Status:      entity.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.MenuItems.Create(ctx, item); err != nil {
		return nil, err
	}
	if _, err := uc.reconciler.Attach(ctx, s, item, toSlots(in.Modifiers)); err != nil {
		return nil, err
	}
	return item, nil
}

// Update edita los campos del ítem y reconcilia sus modificadores.
// Devuelve ErrNoChanges si ni los campos ni los modificadores cambiaron.
func (uc *MenuItemUseCase) Update(ctx context.Context, id string, in dto.MenuItemRequest) (*dto.MenuItemResponse, error) {
	if err := validateItemRequest(in); err != nil {
		return nil, err
	}
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		item, err := s.MenuItems.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		changed, err := uc.update(ctx, s, item, in)
		if err != nil {
			return err
		}
		if !changed {
			return domain.ErrNoChanges
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

func (uc *MenuItemUseCase) update(ctx context.Context, s repository.Store, item *entity.MenuItem, in dto.MenuItemRequest) (bool, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	updates := 0
	if item.Name != name {
		other, err := s.MenuItems.GetByName(ctx, name)
		if err != nil {
			return false, err
		}
		if other != nil && other.ID != item.ID {
			return false, domain.ErrDuplicate
		}
		item.Name = name
		updates++
	}
	if !item.Price.Equal(in.Price) {
		item.Price = in.Price
		updates++
	}
	if item.CategoryID != in.CategoryID || item.SectionID != in.SectionID {
		if err := checkPlacement(ctx, s, in.CategoryID, in.SectionID); err != nil {
			return false, err
		}
		item.CategoryID = in.CategoryID
		item.SectionID = in.SectionID
		updates++
	}
	if item.Description != description {
		item.Description = description
		updates++
	}
	if updates > 0 {
		item.UpdatedAt = time.Now()
		if err := s.MenuItems.Update(ctx, item); err != nil {
			return false, err
		}
	}
	res, err := uc.reconciler.Reconcile(ctx, s, item, toSlots(in.Modifiers))
	if err != nil {
		return false, err
	}
	return updates > 0 || res.Changed(), nil
}

// Remove da de baja el ítem: inactivo si aparece en algún pedido; si no, lo borra,
// lo separa de sus modificadores y barre los huérfanos.
func (uc *MenuItemUseCase) Remove(ctx context.Context, id string) (*dto.RemoveResponse, error) {
	out := &dto.RemoveResponse{ID: id}
	err := uc.txRunner.Run(ctx, func(s repository.Store) error {
		item, err := s.MenuItems.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		ordered, err := s.OrderItems.CountByMenuItem(ctx, id)
		if err != nil {
			return err
		}
		if ordered > 0 {
			item.Status = entity.StatusInactive
			item.UpdatedAt = time.Now()
			out.Status = item.Status
			return s.MenuItems.Update(ctx, item)
		}
		if err := s.MenuItems.DetachAllModifiers(ctx, id); err != nil {
			return err
		}
		if err := s.MenuItems.Delete(ctx, id); err != nil {
			return err
		}
		out.Deleted = true
		_, err = uc.reconciler.Sweep(ctx, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get obtiene un ítem con sus modificadores y variaciones.
func (uc *MenuItemUseCase) Get(ctx context.Context, id string) (*dto.MenuItemResponse, error) {
	item, err := uc.store.MenuItems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	mods, err := uc.store.MenuItems.ListModifiers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("modificadores del ítem: %w", err)
	}
	item.Modifiers = mods
	return toMenuItemResponse(item), nil
}

// List lista los ítems (con modificadores).
func (uc *MenuItemUseCase) List(ctx context.Context, activeOnly bool) ([]dto.MenuItemResponse, error) {
	items, err := uc.store.MenuItems.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MenuItemResponse, 0, len(items))
	for _, it := range items {
		mods, err := uc.store.MenuItems.ListModifiers(ctx, it.ID)
		if err != nil {
			return nil, fmt.Errorf("modificadores del ítem: %w", err)
		}
		it.Modifiers = mods
		out = append(out, *toMenuItemResponse(it))
	}
	return out, nil
}

// Menu arma el menú activo: categorías -> secciones -> ítems.
func (uc *MenuItemUseCase) Menu(ctx context.Context) (*dto.MenuResponse, error) {
	cats, err := uc.store.Categories.List(ctx, true)
	if err != nil {
		return nil, err
	}
	items, err := uc.List(ctx, true)
	if err != nil {
		return nil, err
	}
	bySection := make(map[string][]dto.MenuItemResponse)
	for _, it := range items {
		bySection[it.SectionID] = append(bySection[it.SectionID], it)
	}
	out := &dto.MenuResponse{Categories: make([]dto.MenuCategoryResponse, 0, len(cats))}
	for _, c := range cats {
		mc := dto.MenuCategoryResponse{ID: c.ID, Name: c.Name, Sections: make([]dto.MenuSectionResponse, 0, len(c.Sections))}
		for _, sec := range c.Sections {
			sectionItems := bySection[sec.ID]
			if sectionItems == nil {
				sectionItems = []dto.MenuItemResponse{}
			}
			mc.Sections = append(mc.Sections, dto.MenuSectionResponse{ID: sec.ID, Name: sec.Name, Items: sectionItems})
		}
		out.Categories = append(out.Categories, mc)
	}
	return out, nil
}

// ImportRow fila de la carga masiva (categoría y sección por nombre).
type ImportRow struct {
	Line        int
	Category    string
	Section     string
	Name        string
	Price       decimal.Decimal
	Description string
	Modifiers   []ModifierSlot
}

// Import carga filas del menú por los mismos caminos que la edición interactiva.
// Cada fila es su propia transacción: una fila inválida no revierte las demás.
func (uc *MenuItemUseCase) Import(ctx context.Context, rows []ImportRow) *dto.ImportReport {
	report := &dto.ImportReport{Rows: make([]dto.ImportRowResult, 0, len(rows))}
	for _, row := range rows {
		result := dto.ImportRowResult{Line: row.Line, Name: row.Name}
		err := uc.txRunner.Run(ctx, func(s repository.Store) error {
			created, err := uc.importRow(ctx, s, row)
			result.Created = created
			return err
		})
		switch {
		case err == nil && result.Created:
			report.Created++
		case err == nil || errors.Is(err, domain.ErrNoChanges):
			report.Updated++
		default:
			result.Error = err.Error()
			report.Failed++
		}
		report.Rows = append(report.Rows, result)
	}
	return report
}

func (uc *MenuItemUseCase) importRow(ctx context.Context, s repository.Store, row ImportRow) (bool, error) {
	catName := menu.UpperCase(row.Category)
	secName := menu.TitleCase(row.Section)
	if catName == "" || secName == "" {
		return false, domain.ErrInvalidInput
	}
	now := time.Now()
	cat, err := s.Categories.GetByName(ctx, catName)
	if err != nil {
		return false, err
	}
	if cat == nil {
		cat = &entity.Category{ID: uuid.New().String(), Name: catName, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now}
		if err := s.Categories.Create(ctx, cat); err != nil {
			return false, err
		}
	}
	sections, err := s.Sections.ListByCategory(ctx, cat.ID)
	if err != nil {
		return false, err
	}
	var sec *entity.Section
	for _, candidate := range sections {
		if candidate.Name == secName {
			sec = candidate
			break
		}
	}
	if sec == nil {
		sec = newSection(cat.ID, secName, now)
		if err := s.Sections.Create(ctx, sec); err != nil {
			return false, err
		}
	}

	in := dto.MenuItemRequest{
		Name:        row.Name,
		Price:       row.Price,
		CategoryID:  cat.ID,
		SectionID:   sec.ID,
		Description: row.Description,
	}
	for _, m := range row.Modifiers {
		in.Modifiers = append(in.Modifiers, dto.ModifierSlotRequest{Name: m.Name, Variations: m.Variations})
	}
	if err := validateItemRequest(in); err != nil {
		return false, err
	}
	existing, err := s.MenuItems.GetByName(ctx, strings.TrimSpace(in.Name))
	if err != nil {
		return false, err
	}
	if existing == nil {
		_, err := uc.create(ctx, s, in)
		return err == nil, err
	}
	changed, err := uc.update(ctx, s, existing, in)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, domain.ErrNoChanges
	}
	return false, nil
}

func validateItemRequest(in dto.MenuItemRequest) error {
	if strings.TrimSpace(in.Name) == "" || in.CategoryID == "" || in.SectionID == "" {
		return domain.ErrInvalidInput
	}
	if !in.Price.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: el precio debe ser positivo", domain.ErrInvalidInput)
	}
	if len(in.Modifiers) > menu.MaxModifierSlots {
		return fmt.Errorf("%w: máximo %d modificadores", domain.ErrInvalidInput, menu.MaxModifierSlots)
	}
	return nil
}

// checkPlacement verifica que la categoría exista y que la sección le pertenezca.
func checkPlacement(ctx context.Context, s repository.Store, categoryID, sectionID string) error {
	cat, err := s.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: categoría", domain.ErrNotFound)
	}
	sec, err := s.Sections.GetByID(ctx, sectionID)
	if err != nil {
		return err
	}
	if sec == nil {
		return fmt.Errorf("%w: sección", domain.ErrNotFound)
	}
	if sec.CategoryID != cat.ID {
		return fmt.Errorf("%w: la sección no pertenece a la categoría", domain.ErrInvalidInput)
	}
	return nil
}

func toSlots(in []dto.ModifierSlotRequest) []ModifierSlot {
	out := make([]ModifierSlot, 0, len(in))
	for _, m := range in {
		out = append(out, ModifierSlot{Name: m.Name, Variations: m.Variations})
	}
	return out
}

func toMenuItemResponse(it *entity.MenuItem) *dto.MenuItemResponse {
	if it == nil {
		return nil
	}
	out := &dto.MenuItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Price:       it.Price,
		Description: it.Description,
		CategoryID:  it.CategoryID,
		SectionID:   it.SectionID,
		Status:      it.Status,
		Modifiers:   make([]dto.ModifierResponse, 0, len(it.Modifiers)),
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
	for _, m := range it.Modifiers {
		out.Modifiers = append(out.Modifiers, dto.ModifierResponse{
			ID:         m.ID,
			Name:       m.Name,
			Variations: m.VariationNames(),
		})
	}
	return out
}
