// Package memory implementa los repositorios en memoria. Cada transacción trabaja sobre
// una copia del estado que reemplaza al vigente solo si la función termina sin error,
// y las transacciones se serializan con un mutex.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
)

type state struct {
	seq        int64
	order      map[string]int64 // id -> secuencia de inserción, para listados estables
	roles      map[string]entity.Role
	users      map[string]entity.User
	categories map[string]entity.Category
	sections   map[string]entity.Section
	items      map[string]entity.MenuItem
	modifiers  map[string]entity.Modifier
	variations map[string]entity.Variation
	itemMods   map[string]map[string]int // item -> modifier -> posición
	modVars    map[string]map[string]int // modifier -> variation -> posición
	tables     map[string]entity.Table
	orders     map[string]entity.Order
	lines      map[string]entity.OrderItem
	lineVars   map[string][]string // línea -> variaciones elegidas
}

func newState() *state {
	return &state{
		order:      map[string]int64{},
		roles:      map[string]entity.Role{},
		users:      map[string]entity.User{},
		categories: map[string]entity.Category{},
		sections:   map[string]entity.Section{},
		items:      map[string]entity.MenuItem{},
		modifiers:  map[string]entity.Modifier{},
		variations: map[string]entity.Variation{},
		itemMods:   map[string]map[string]int{},
		modVars:    map[string]map[string]int{},
		tables:     map[string]entity.Table{},
		orders:     map[string]entity.Order{},
		lines:      map[string]entity.OrderItem{},
		lineVars:   map[string][]string{},
	}
}

func (st *state) clone() *state {
	c := newState()
	c.seq = st.seq
	copyMap(c.order, st.order)
	copyMap(c.roles, st.roles)
	copyMap(c.users, st.users)
	copyMap(c.categories, st.categories)
	copyMap(c.sections, st.sections)
	copyMap(c.items, st.items)
	copyMap(c.modifiers, st.modifiers)
	copyMap(c.variations, st.variations)
	copyMap(c.tables, st.tables)
	copyMap(c.orders, st.orders)
	copyMap(c.lines, st.lines)
	for k, v := range st.itemMods {
		m := make(map[string]int, len(v))
		copyMap(m, v)
		c.itemMods[k] = m
	}
	for k, v := range st.modVars {
		m := make(map[string]int, len(v))
		copyMap(m, v)
		c.modVars[k] = m
	}
	for k, v := range st.lineVars {
		c.lineVars[k] = append([]string(nil), v...)
	}
	return c
}

func copyMap[K comparable, V any](dst, src map[K]V) {
	for k, v := range src {
		dst[k] = v
	}
}

// track registra la secuencia de inserción del id.
func (st *state) track(id string) {
	if _, ok := st.order[id]; ok {
		return
	}
	st.seq++
	st.order[id] = st.seq
}

// sortBySeq ordena ids por orden de inserción.
func (st *state) sortBySeq(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return st.order[ids[i]] < st.order[ids[j]] })
}

// Store es la base en memoria. Implementa ports.TxRunner.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea una base vacía.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repos devuelve los repositorios fuera de transacción: cada llamada lee o escribe el
// estado vigente bajo el mutex.
func (s *Store) Repos() repository.Store {
	return newRepos(&db{owner: s})
}

// Run ejecuta fn en una transacción serializada. Si fn devuelve error los cambios se descartan.
func (s *Store) Run(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(newRepos(&db{tx: work})); err != nil {
		return err
	}
	s.st = work
	return nil
}

// db resuelve el estado sobre el que opera un repositorio: la copia de la tx o el vigente.
type db struct {
	owner *Store
	tx    *state
}

func (d *db) read(fn func(st *state) error) error {
	if d.tx != nil {
		return fn(d.tx)
	}
	d.owner.mu.RLock()
	defer d.owner.mu.RUnlock()
	return fn(d.owner.st)
}

func (d *db) write(fn func(st *state) error) error {
	if d.tx != nil {
		return fn(d.tx)
	}
	d.owner.mu.Lock()
	defer d.owner.mu.Unlock()
	return fn(d.owner.st)
}

func newRepos(d *db) repository.Store {
	return repository.Store{
		Categories: &categoryRepo{d},
		Sections:   &sectionRepo{d},
		MenuItems:  &menuItemRepo{d},
		Modifiers:  &modifierRepo{d},
		Variations: &variationRepo{d},
		Tables:     &tableRepo{d},
		Roles:      &roleRepo{d},
		Users:      &userRepo{d},
		Orders:     &orderRepo{d},
		OrderItems: &orderItemRepo{d},
	}
}
