package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

// ModifierSlot par (nombre de modificador, texto de variaciones) tal como llega del formulario.
type ModifierSlot struct {
	Name       string
	Variations string
}

// ReconcileResult contadores de lo que hizo una reconciliación.
type ReconcileResult struct {
	Unchanged         int
	Created           int // modificadores nuevos
	Reused            int // modificadores existentes asociados al ítem
	Renamed           int
	Detached          int
	Deleted           int // huérfanos eliminados por el barrido
	VariationsCreated int
}

// Changed indica si la reconciliación modificó algo.
func (r ReconcileResult) Changed() bool {
	return r.Created+r.Reused+r.Renamed+r.Detached+r.Deleted+r.VariationsCreated > 0
}

type modPair struct {
	name string
	vars []string
}

// normalizeSlots valida y normaliza los pares enviados. Los pares sin nombre o sin
// variaciones se descartan; un nombre repetido es entrada inválida.
func normalizeSlots(slots []ModifierSlot) ([]modPair, error) {
	if len(slots) > menu.MaxModifierSlots {
		return nil, fmt.Errorf("%w: máximo %d modificadores por ítem", domain.ErrInvalidInput, menu.MaxModifierSlots)
	}
	pairs := make([]modPair, 0, len(slots))
	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		name := menu.TitleCase(s.Name)
		vars := menu.ParseVariations(s.Variations)
		if name == "" || len(vars) == 0 {
			continue
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: modificador %q repetido", domain.ErrInvalidInput, name)
		}
		seen[name] = struct{}{}
		pairs = append(pairs, modPair{name: name, vars: vars})
	}
	return pairs, nil
}

// modifierIndex índice inverso (nombre + conjunto de variaciones) -> Modifier,
// construido una vez por llamada de reconciliación.
type modifierIndex struct {
	byKey map[string]*entity.Modifier
}

func (ix *modifierIndex) get(name string, vars []string) *entity.Modifier {
	return ix.byKey[menu.ModifierKey(name, vars)]
}

func (ix *modifierIndex) put(m *entity.Modifier) {
	key := menu.ModifierKey(m.Name, m.VariationNames())
	if _, ok := ix.byKey[key]; !ok {
		ix.byKey[key] = m
	}
}

func (ix *modifierIndex) remove(m *entity.Modifier) {
	key := menu.ModifierKey(m.Name, m.VariationNames())
	if cur, ok := ix.byKey[key]; ok && cur.ID == m.ID {
		delete(ix.byKey, key)
	}
}

// ModifierReconciler decide qué modificadores crear, reutilizar, renombrar o desasociar
// de un ítem, evitando duplicados globales y eliminando los modificadores huérfanos.
// Todas sus operaciones reciben el Store de la transacción del llamador.
type ModifierReconciler struct {
	now func() time.Time
}

// NewModifierReconciler construye el reconciliador.
func NewModifierReconciler() *ModifierReconciler {
	return &ModifierReconciler{now: time.Now}
}

func (rc *ModifierReconciler) loadIndex(ctx context.Context, s repository.Store) (*modifierIndex, error) {
	all, err := s.Modifiers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar modificadores: %w", err)
	}
	ix := &modifierIndex{byKey: make(map[string]*entity.Modifier, len(all))}
	for _, m := range all {
		ix.put(m)
	}
	return ix, nil
}

// Attach asocia al ítem cada par enviado (alta de ítem o carga masiva) y barre huérfanos.
func (rc *ModifierReconciler) Attach(ctx context.Context, s repository.Store, item *entity.MenuItem, slots []ModifierSlot) (ReconcileResult, error) {
	var res ReconcileResult
	pairs, err := normalizeSlots(slots)
	if err != nil {
		return res, err
	}
	ix, err := rc.loadIndex(ctx, s)
	if err != nil {
		return res, err
	}
	for i, p := range pairs {
		if err := rc.attachPair(ctx, s, ix, item.ID, p, i, &res); err != nil {
			return res, err
		}
	}
	deleted, err := rc.Sweep(ctx, s)
	res.Deleted += deleted
	return res, err
}

// Reconcile compara los modificadores actuales del ítem con los pares enviados en la edición.
// Primero recorre los actuales (sin cambio / nuevas variaciones / renombrar / desasociar) y
// después agrega los pares que ninguno consumió. Un renombre consume su par para que la
// segunda pasada no lo vuelva a crear.
func (rc *ModifierReconciler) Reconcile(ctx context.Context, s repository.Store, item *entity.MenuItem, slots []ModifierSlot) (ReconcileResult, error) {
	var res ReconcileResult
	pairs, err := normalizeSlots(slots)
	if err != nil {
		return res, err
	}
	current, err := s.MenuItems.ListModifiers(ctx, item.ID)
	if err != nil {
		return res, fmt.Errorf("modificadores del ítem: %w", err)
	}
	ix, err := rc.loadIndex(ctx, s)
	if err != nil {
		return res, err
	}

	byName := make(map[string]int, len(pairs))
	for i, p := range pairs {
		byName[p.name] = i
	}
	currentNames := make(map[string]struct{}, len(current))
	for _, m := range current {
		currentNames[m.Name] = struct{}{}
	}
	consumed := make([]bool, len(pairs))

	for _, cur := range current {
		if i, ok := byName[cur.Name]; ok && !consumed[i] {
			consumed[i] = true
			if menu.SameSet(cur.VariationNames(), pairs[i].vars) {
				res.Unchanged++
				continue
			}
			if err := s.MenuItems.DetachModifier(ctx, item.ID, cur.ID); err != nil {
				return res, fmt.Errorf("desasociar modificador: %w", err)
			}
			res.Detached++
			if err := rc.attachPair(ctx, s, ix, item.ID, pairs[i], i, &res); err != nil {
				return res, err
			}
			continue
		}

		j := -1
		for k, p := range pairs {
			if consumed[k] {
				continue
			}
			if _, taken := currentNames[p.name]; taken {
				continue
			}
			if menu.SameSet(cur.VariationNames(), p.vars) {
				j = k
				break
			}
		}
		if j >= 0 {
			consumed[j] = true
			if err := rc.rename(ctx, s, ix, item.ID, cur, pairs[j], j, &res); err != nil {
				return res, err
			}
			continue
		}

		if err := s.MenuItems.DetachModifier(ctx, item.ID, cur.ID); err != nil {
			return res, fmt.Errorf("desasociar modificador: %w", err)
		}
		res.Detached++
	}

	for i, p := range pairs {
		if consumed[i] {
			continue
		}
		if err := rc.attachPair(ctx, s, ix, item.ID, p, i, &res); err != nil {
			return res, err
		}
	}

	deleted, err := rc.Sweep(ctx, s)
	res.Deleted += deleted
	return res, err
}

// attachPair reutiliza un modificador con el mismo nombre y conjunto de variaciones,
// o crea uno nuevo reutilizando las variaciones que ya existan por nombre.
func (rc *ModifierReconciler) attachPair(ctx context.Context, s repository.Store, ix *modifierIndex, itemID string, p modPair, position int, res *ReconcileResult) error {
	if existing := ix.get(p.name, p.vars); existing != nil {
		if err := s.MenuItems.AttachModifier(ctx, itemID, existing.ID, position); err != nil {
			return fmt.Errorf("asociar modificador: %w", err)
		}
		res.Reused++
		return nil
	}

	now := rc.now()
	mod := &entity.Modifier{
		ID:        uuid.New().String(),
		Name:      p.name,
		CreatedAt: now,
	}
	if err := s.Modifiers.Create(ctx, mod); err != nil {
		return fmt.Errorf("crear modificador: %w", err)
	}
	for pos, name := range p.vars {
		v, err := s.Variations.GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("buscar variación: %w", err)
		}
		if v == nil {
			v = &entity.Variation{ID: uuid.New().String(), Name: name, CreatedAt: now}
			if err := s.Variations.Create(ctx, v); err != nil {
				return fmt.Errorf("crear variación: %w", err)
			}
			res.VariationsCreated++
		}
		if err := s.Modifiers.AttachVariation(ctx, mod.ID, v.ID, pos); err != nil {
			return fmt.Errorf("asociar variación: %w", err)
		}
		mod.Variations = append(mod.Variations, v)
	}
	if err := s.MenuItems.AttachModifier(ctx, itemID, mod.ID, position); err != nil {
		return fmt.Errorf("asociar modificador: %w", err)
	}
	ix.put(mod)
	res.Created++
	return nil
}

// rename cambia el nombre de cur a p.name. Si ya existe un modificador con ese nombre y
// variaciones se reutiliza; si cur lo usan otros ítems no se renombra (cambiaría su menú)
// y el ítem pasa a un modificador propio.
func (rc *ModifierReconciler) rename(ctx context.Context, s repository.Store, ix *modifierIndex, itemID string, cur *entity.Modifier, p modPair, position int, res *ReconcileResult) error {
	shared := false
	if existing := ix.get(p.name, p.vars); existing != nil && existing.ID != cur.ID {
		shared = true
	} else {
		n, err := s.Modifiers.CountItems(ctx, cur.ID)
		if err != nil {
			return fmt.Errorf("contar ítems del modificador: %w", err)
		}
		shared = n > 1
	}
	if shared {
		if err := s.MenuItems.DetachModifier(ctx, itemID, cur.ID); err != nil {
			return fmt.Errorf("desasociar modificador: %w", err)
		}
		res.Detached++
		return rc.attachPair(ctx, s, ix, itemID, p, position, res)
	}

	ix.remove(cur)
	if err := s.Modifiers.Rename(ctx, cur.ID, p.name); err != nil {
		return fmt.Errorf("renombrar modificador: %w", err)
	}
	cur.Name = p.name
	ix.put(cur)
	res.Renamed++
	return nil
}

// Sweep elimina los modificadores sin ítems: primero los separa de sus variaciones
// (las variaciones nunca se borran) y luego borra el modificador.
func (rc *ModifierReconciler) Sweep(ctx context.Context, s repository.Store) (int, error) {
	orphans, err := s.Modifiers.ListOrphans(ctx)
	if err != nil {
		return 0, fmt.Errorf("listar huérfanos: %w", err)
	}
	for _, m := range orphans {
		if err := s.Modifiers.DetachAllVariations(ctx, m.ID); err != nil {
			return 0, fmt.Errorf("desasociar variaciones: %w", err)
		}
		if err := s.Modifiers.Delete(ctx, m.ID); err != nil {
			return 0, fmt.Errorf("eliminar modificador huérfano: %w", err)
		}
	}
	return len(orphans), nil
}
