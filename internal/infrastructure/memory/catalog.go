package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

type categoryRepo struct{ d *db }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.d.write(func(st *state) error {
		for _, other := range st.categories {
			if other.Name == c.Name {
				return fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, c.Name)
			}
		}
		v := *c
		v.Sections = nil
		st.categories[c.ID] = v
		st.track(c.ID)
		return nil
	})
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.d.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.d.read(func(st *state) error {
		for _, c := range st.categories {
			if c.Name == name {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, other := range st.categories {
			if id != c.ID && other.Name == c.Name {
				return fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, c.Name)
			}
		}
		v := *c
		v.Sections = nil
		st.categories[c.ID] = v
		return nil
	})
}

func (r *categoryRepo) List(_ context.Context, activeOnly bool) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.d.read(func(st *state) error {
		for _, c := range st.categories {
			if activeOnly && c.Status != entity.StatusActive {
				continue
			}
			c := c
			for _, s := range sectionsOf(st, c.ID) {
				if activeOnly && s.Status != entity.StatusActive {
					continue
				}
				c.Sections = append(c.Sections, s)
			}
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *categoryRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		delete(st.categories, id)
		return nil
	})
}

func sectionsOf(st *state, categoryID string) []*entity.Section {
	var out []*entity.Section
	for _, s := range st.sections {
		if s.CategoryID == categoryID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type sectionRepo struct{ d *db }

func (r *sectionRepo) Create(_ context.Context, s *entity.Section) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.categories[s.CategoryID]; !ok {
			return fmt.Errorf("%w: categoría", domain.ErrNotFound)
		}
		for _, other := range st.sections {
			if other.CategoryID == s.CategoryID && other.Name == s.Name {
				return fmt.Errorf("%w: sección %q", domain.ErrDuplicate, s.Name)
			}
		}
		st.sections[s.ID] = *s
		st.track(s.ID)
		return nil
	})
}

func (r *sectionRepo) GetByID(_ context.Context, id string) (*entity.Section, error) {
	var out *entity.Section
	err := r.d.read(func(st *state) error {
		if s, ok := st.sections[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *sectionRepo) ListByCategory(_ context.Context, categoryID string) ([]*entity.Section, error) {
	var out []*entity.Section
	err := r.d.read(func(st *state) error {
		out = sectionsOf(st, categoryID)
		return nil
	})
	return out, err
}

func (r *sectionRepo) Update(_ context.Context, s *entity.Section) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.sections[s.ID]; !ok {
			return domain.ErrNotFound
		}
		st.sections[s.ID] = *s
		return nil
	})
}

func (r *sectionRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		delete(st.sections, id)
		return nil
	})
}

func (r *sectionRepo) DeleteByCategory(_ context.Context, categoryID string) error {
	return r.d.write(func(st *state) error {
		for id, s := range st.sections {
			if s.CategoryID == categoryID {
				delete(st.sections, id)
			}
		}
		return nil
	})
}

type menuItemRepo struct{ d *db }

func (r *menuItemRepo) Create(_ context.Context, it *entity.MenuItem) error {
	return r.d.write(func(st *state) error {
		for _, other := range st.items {
			if other.Name == it.Name {
				return fmt.Errorf("%w: ítem %q", domain.ErrDuplicate, it.Name)
			}
		}
		v := *it
		v.Modifiers = nil
		st.items[it.ID] = v
		st.track(it.ID)
		return nil
	})
}

func (r *menuItemRepo) GetByID(_ context.Context, id string) (*entity.MenuItem, error) {
	var out *entity.MenuItem
	err := r.d.read(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *menuItemRepo) GetByName(_ context.Context, name string) (*entity.MenuItem, error) {
	var out *entity.MenuItem
	err := r.d.read(func(st *state) error {
		for _, it := range st.items {
			if it.Name == name {
				it := it
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *menuItemRepo) Update(_ context.Context, it *entity.MenuItem) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.items[it.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, other := range st.items {
			if id != it.ID && other.Name == it.Name {
				return fmt.Errorf("%w: ítem %q", domain.ErrDuplicate, it.Name)
			}
		}
		v := *it
		v.Modifiers = nil
		st.items[it.ID] = v
		return nil
	})
}

func (r *menuItemRepo) List(_ context.Context, activeOnly bool) ([]*entity.MenuItem, error) {
	var out []*entity.MenuItem
	err := r.d.read(func(st *state) error {
		for _, it := range st.items {
			if activeOnly && it.Status != entity.StatusActive {
				continue
			}
			it := it
			out = append(out, &it)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *menuItemRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		delete(st.items, id)
		delete(st.itemMods, id)
		return nil
	})
}

func (r *menuItemRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	n := 0
	err := r.d.read(func(st *state) error {
		for _, it := range st.items {
			if it.CategoryID == categoryID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *menuItemRepo) CountBySection(_ context.Context, sectionID string) (int, error) {
	n := 0
	err := r.d.read(func(st *state) error {
		for _, it := range st.items {
			if it.SectionID == sectionID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *menuItemRepo) ListModifiers(_ context.Context, itemID string) ([]*entity.Modifier, error) {
	var out []*entity.Modifier
	err := r.d.read(func(st *state) error {
		out = positioned(st, st.itemMods[itemID], func(id string) *entity.Modifier {
			return modifierWithVariations(st, id)
		})
		return nil
	})
	return out, err
}

func (r *menuItemRepo) AttachModifier(_ context.Context, itemID, modifierID string, position int) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.items[itemID]; !ok {
			return fmt.Errorf("%w: ítem", domain.ErrNotFound)
		}
		if _, ok := st.modifiers[modifierID]; !ok {
			return fmt.Errorf("%w: modificador", domain.ErrNotFound)
		}
		if st.itemMods[itemID] == nil {
			st.itemMods[itemID] = map[string]int{}
		}
		st.itemMods[itemID][modifierID] = position
		return nil
	})
}

func (r *menuItemRepo) DetachModifier(_ context.Context, itemID, modifierID string) error {
	return r.d.write(func(st *state) error {
		delete(st.itemMods[itemID], modifierID)
		return nil
	})
}

func (r *menuItemRepo) DetachAllModifiers(_ context.Context, itemID string) error {
	return r.d.write(func(st *state) error {
		delete(st.itemMods, itemID)
		return nil
	})
}

// positioned resuelve una relación id -> posición en orden de posición (empate: inserción).
func positioned[T any](st *state, rel map[string]int, load func(id string) *T) []*T {
	ids := make([]string, 0, len(rel))
	for id := range rel {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if rel[ids[i]] != rel[ids[j]] {
			return rel[ids[i]] < rel[ids[j]]
		}
		return st.order[ids[i]] < st.order[ids[j]]
	})
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if v := load(id); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func modifierWithVariations(st *state, id string) *entity.Modifier {
	m, ok := st.modifiers[id]
	if !ok {
		return nil
	}
	m.Variations = positioned(st, st.modVars[id], func(vid string) *entity.Variation {
		v, ok := st.variations[vid]
		if !ok {
			return nil
		}
		return &v
	})
	return &m
}

type modifierRepo struct{ d *db }

func (r *modifierRepo) Create(_ context.Context, m *entity.Modifier) error {
	return r.d.write(func(st *state) error {
		v := *m
		v.Variations = nil
		st.modifiers[m.ID] = v
		st.track(m.ID)
		return nil
	})
}

func (r *modifierRepo) GetByID(_ context.Context, id string) (*entity.Modifier, error) {
	var out *entity.Modifier
	err := r.d.read(func(st *state) error {
		out = modifierWithVariations(st, id)
		return nil
	})
	return out, err
}

func (r *modifierRepo) Rename(_ context.Context, id, name string) error {
	return r.d.write(func(st *state) error {
		m, ok := st.modifiers[id]
		if !ok {
			return domain.ErrNotFound
		}
		m.Name = name
		st.modifiers[id] = m
		return nil
	})
}

func (r *modifierRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		delete(st.modifiers, id)
		delete(st.modVars, id)
		for _, rel := range st.itemMods {
			delete(rel, id)
		}
		return nil
	})
}

func (r *modifierRepo) ListAll(_ context.Context) ([]*entity.Modifier, error) {
	var out []*entity.Modifier
	err := r.d.read(func(st *state) error {
		out = r.collect(st, func(string) bool { return true })
		return nil
	})
	return out, err
}

func (r *modifierRepo) ListOrphans(_ context.Context) ([]*entity.Modifier, error) {
	var out []*entity.Modifier
	err := r.d.read(func(st *state) error {
		out = r.collect(st, func(id string) bool { return itemsUsing(st, id) == 0 })
		return nil
	})
	return out, err
}

func (r *modifierRepo) collect(st *state, keep func(id string) bool) []*entity.Modifier {
	ids := make([]string, 0, len(st.modifiers))
	for id := range st.modifiers {
		if keep(id) {
			ids = append(ids, id)
		}
	}
	st.sortBySeq(ids)
	out := make([]*entity.Modifier, 0, len(ids))
	for _, id := range ids {
		out = append(out, modifierWithVariations(st, id))
	}
	return out
}

func itemsUsing(st *state, modifierID string) int {
	n := 0
	for _, rel := range st.itemMods {
		if _, ok := rel[modifierID]; ok {
			n++
		}
	}
	return n
}

func (r *modifierRepo) CountItems(_ context.Context, id string) (int, error) {
	n := 0
	err := r.d.read(func(st *state) error {
		n = itemsUsing(st, id)
		return nil
	})
	return n, err
}

func (r *modifierRepo) AttachVariation(_ context.Context, modifierID, variationID string, position int) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.modifiers[modifierID]; !ok {
			return fmt.Errorf("%w: modificador", domain.ErrNotFound)
		}
		if _, ok := st.variations[variationID]; !ok {
			return fmt.Errorf("%w: variación", domain.ErrNotFound)
		}
		if st.modVars[modifierID] == nil {
			st.modVars[modifierID] = map[string]int{}
		}
		st.modVars[modifierID][variationID] = position
		return nil
	})
}

func (r *modifierRepo) DetachAllVariations(_ context.Context, modifierID string) error {
	return r.d.write(func(st *state) error {
		delete(st.modVars, modifierID)
		return nil
	})
}

type variationRepo struct{ d *db }

func (r *variationRepo) Create(_ context.Context, v *entity.Variation) error {
	return r.d.write(func(st *state) error {
		for _, other := range st.variations {
			if other.Name == v.Name {
				return fmt.Errorf("%w: variación %q", domain.ErrDuplicate, v.Name)
			}
		}
		st.variations[v.ID] = *v
		st.track(v.ID)
		return nil
	})
}

func (r *variationRepo) GetByName(_ context.Context, name string) (*entity.Variation, error) {
	var out *entity.Variation
	err := r.d.read(func(st *state) error {
		for _, v := range st.variations {
			if v.Name == name {
				v := v
				out = &v
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *variationRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.d.read(func(st *state) error {
		n = len(st.variations)
		return nil
	})
	return n, err
}
