package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

// LineInput datos de una línea a agregar al pedido.
type LineInput struct {
	MenuItemID string
	Quantity   int
	Notes      string
	Variations []string // una por modificador; NoneSelected o vacío = sin selección
}

// LineMerger decide si una línea nueva se suma a una existente (mismo ítem, mismas
// notas y mismo conjunto de variaciones) o se crea aparte.
type LineMerger struct {
	now func() time.Time
}

// NewLineMerger construye el merger.
func NewLineMerger() *LineMerger {
	return &LineMerger{now: time.Now}
}

// AddOrUpdate agrega la línea al pedido dentro de la tx del llamador.
// Devuelve la línea resultante y merged=true si se incrementó una existente.
func (lm *LineMerger) AddOrUpdate(ctx context.Context, s repository.Store, order *entity.Order, in LineInput) (*entity.OrderItem, bool, error) {
	if in.Quantity < 1 {
		return nil, false, fmt.Errorf("%w: la cantidad debe ser al menos 1", domain.ErrInvalidInput)
	}
	item, err := s.MenuItems.GetByID(ctx, in.MenuItemID)
	if err != nil {
		return nil, false, err
	}
	if item == nil {
		return nil, false, fmt.Errorf("%w: ítem del menú", domain.ErrNotFound)
	}
	if !item.IsActive() {
		return nil, false, fmt.Errorf("%w: el ítem no está activo", domain.ErrInvalidInput)
	}
	chosen, err := lm.resolveVariations(ctx, s, item.ID, menu.ChosenSet(in.Variations))
	if err != nil {
		return nil, false, err
	}
	chosenNames := make([]string, 0, len(chosen))
	for _, v := range chosen {
		chosenNames = append(chosenNames, v.Name)
	}

	candidates, err := s.OrderItems.ListMatching(ctx, order.ID, item.ID, in.Notes)
	if err != nil {
		return nil, false, fmt.Errorf("buscar líneas iguales: %w", err)
	}
	now := lm.now()
	for _, c := range candidates {
		if !menu.SameSet(c.VariationNames(), chosenNames) {
			continue
		}
		c.Quantity += in.Quantity
		c.Subtotal = item.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
		c.UpdatedAt = now
		if err := s.OrderItems.Update(ctx, c); err != nil {
			return nil, false, err
		}
		c.ItemName = item.Name
		return c, true, nil
	}

	line := &entity.OrderItem{
		ID:         uuid.New().String(),
		OrderID:    order.ID,
		MenuItemID: item.ID,
		ItemName:   item.Name,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
		Subtotal:   item.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Variations: chosen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.OrderItems.Create(ctx, line); err != nil {
		return nil, false, err
	}
	for _, v := range chosen {
		if err := s.OrderItems.AttachVariation(ctx, line.ID, v.ID); err != nil {
			return nil, false, fmt.Errorf("asociar variación a la línea: %w", err)
		}
	}
	return line, false, nil
}

// resolveVariations valida que cada variación elegida pertenezca a un modificador distinto
// del ítem (como máximo una por modificador) y devuelve las entidades en ese orden.
func (lm *LineMerger) resolveVariations(ctx context.Context, s repository.Store, itemID string, names []string) ([]*entity.Variation, error) {
	if len(names) == 0 {
		return nil, nil
	}
	mods, err := s.MenuItems.ListModifiers(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("modificadores del ítem: %w", err)
	}
	out := make([]*entity.Variation, len(names))
	used := make([]bool, len(mods))
	// Las variaciones son globales: un mismo nombre puede estar en dos modificadores
	// del ítem, así que se busca una asignación completa con vuelta atrás.
	var assign func(i int) bool
	assign = func(i int) bool {
		if i == len(names) {
			return true
		}
		for j, m := range mods {
			if used[j] {
				continue
			}
			v := variationNamed(m, names[i])
			if v == nil {
				continue
			}
			used[j] = true
			out[i] = v
			if assign(i + 1) {
				return true
			}
			used[j] = false
		}
		return false
	}
	if !assign(0) {
		for _, name := range names {
			if !offered(mods, name) {
				return nil, fmt.Errorf("%w: la variación %q no aplica al ítem", domain.ErrInvalidInput, name)
			}
		}
		return nil, fmt.Errorf("%w: se eligió más de una variación del mismo modificador", domain.ErrInvalidInput)
	}
	return out, nil
}

func variationNamed(m *entity.Modifier, name string) *entity.Variation {
	for _, v := range m.Variations {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func offered(mods []*entity.Modifier, name string) bool {
	for _, m := range mods {
		if variationNamed(m, name) != nil {
			return true
		}
	}
	return false
}
