package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

type orderRepo struct{ d *db }

// startedBy devuelve el id del pedido started del usuario distinto de exclude.
func startedBy(st *state, userID, exclude string) string {
	for id, o := range st.orders {
		if id != exclude && o.UserID == userID && o.Status == entity.OrderStarted {
			return id
		}
	}
	return ""
}

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.d.write(func(st *state) error {
		if o.Status == entity.OrderStarted && startedBy(st, o.UserID, o.ID) != "" {
			return domain.ErrActiveOrderExists
		}
		if _, ok := st.tables[o.TableID]; !ok {
			return fmt.Errorf("%w: mesa", domain.ErrNotFound)
		}
		v := *o
		v.Items = nil
		st.orders[o.ID] = v
		st.track(o.ID)
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.d.read(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) GetStartedByUser(_ context.Context, userID string) (*entity.Order, error) {
	var out *entity.Order
	err := r.d.read(func(st *state) error {
		if id := startedBy(st, userID, ""); id != "" {
			o := st.orders[id]
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.orders[o.ID]; !ok {
			return domain.ErrNotFound
		}
		if o.Status == entity.OrderStarted && startedBy(st, o.UserID, o.ID) != "" {
			return domain.ErrActiveOrderExists
		}
		v := *o
		v.Items = nil
		st.orders[o.ID] = v
		return nil
	})
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		delete(st.orders, id)
		for lid, l := range st.lines {
			if l.OrderID == id {
				delete(st.lines, lid)
				delete(st.lineVars, lid)
			}
		}
		return nil
	})
}

func (r *orderRepo) ListByStatus(_ context.Context, statuses ...string) ([]*entity.Order, error) {
	want := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		want[s] = struct{}{}
	}
	var ids []string
	var out []*entity.Order
	err := r.d.read(func(st *state) error {
		for id, o := range st.orders {
			if _, ok := want[o.Status]; ok {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := st.orders[ids[i]], st.orders[ids[j]]
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return st.order[ids[i]] < st.order[ids[j]]
		})
		for _, id := range ids {
			o := st.orders[id]
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) CountByTable(_ context.Context, tableID string) (int, error) {
	n := 0
	err := r.d.read(func(st *state) error {
		for _, o := range st.orders {
			if o.TableID == tableID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *orderRepo) TotalByStatus(_ context.Context, status string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.d.read(func(st *state) error {
		for _, l := range st.lines {
			if o, ok := st.orders[l.OrderID]; ok && o.Status == status {
				total = total.Add(l.Subtotal)
			}
		}
		return nil
	})
	return total, err
}

type orderItemRepo struct{ d *db }

// loadLine arma la línea con el nombre del ítem y sus variaciones.
func loadLine(st *state, id string) *entity.OrderItem {
	l, ok := st.lines[id]
	if !ok {
		return nil
	}
	if it, ok := st.items[l.MenuItemID]; ok {
		l.ItemName = it.Name
	}
	l.Variations = nil
	for _, vid := range st.lineVars[id] {
		if v, ok := st.variations[vid]; ok {
			v := v
			l.Variations = append(l.Variations, &v)
		}
	}
	return &l
}

func (r *orderItemRepo) Create(_ context.Context, l *entity.OrderItem) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.orders[l.OrderID]; !ok {
			return fmt.Errorf("%w: pedido", domain.ErrNotFound)
		}
		if _, ok := st.items[l.MenuItemID]; !ok {
			return fmt.Errorf("%w: ítem del menú", domain.ErrNotFound)
		}
		v := *l
		v.Variations = nil
		v.ItemName = ""
		st.lines[l.ID] = v
		st.track(l.ID)
		return nil
	})
}

func (r *orderItemRepo) GetByID(_ context.Context, id string) (*entity.OrderItem, error) {
	var out *entity.OrderItem
	err := r.d.read(func(st *state) error {
		out = loadLine(st, id)
		return nil
	})
	return out, err
}

func (r *orderItemRepo) Update(_ context.Context, l *entity.OrderItem) error {
	return r.d.write(func(st *state) error {
		cur, ok := st.lines[l.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Quantity = l.Quantity
		cur.Notes = l.Notes
		cur.Subtotal = l.Subtotal
		cur.UpdatedAt = l.UpdatedAt
		st.lines[l.ID] = cur
		return nil
	})
}

func (r *orderItemRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		delete(st.lines, id)
		delete(st.lineVars, id)
		return nil
	})
}

func (r *orderItemRepo) list(match func(l entity.OrderItem) bool) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := r.d.read(func(st *state) error {
		var ids []string
		for id, l := range st.lines {
			if match(l) {
				ids = append(ids, id)
			}
		}
		st.sortBySeq(ids)
		for _, id := range ids {
			out = append(out, loadLine(st, id))
		}
		return nil
	})
	return out, err
}

func (r *orderItemRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	return r.list(func(l entity.OrderItem) bool { return l.OrderID == orderID })
}

func (r *orderItemRepo) ListMatching(_ context.Context, orderID, menuItemID, notes string) ([]*entity.OrderItem, error) {
	return r.list(func(l entity.OrderItem) bool {
		return l.OrderID == orderID && l.MenuItemID == menuItemID && l.Notes == notes
	})
}

func (r *orderItemRepo) CountByOrder(_ context.Context, orderID string) (int, error) {
	n := 0
	err := r.d.read(func(st *state) error {
		for _, l := range st.lines {
			if l.OrderID == orderID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *orderItemRepo) CountByMenuItem(_ context.Context, menuItemID string) (int, error) {
	n := 0
	err := r.d.read(func(st *state) error {
		for _, l := range st.lines {
			if l.MenuItemID == menuItemID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *orderItemRepo) AttachVariation(_ context.Context, orderItemID, variationID string) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.lines[orderItemID]; !ok {
			return fmt.Errorf("%w: línea del pedido", domain.ErrNotFound)
		}
		if _, ok := st.variations[variationID]; !ok {
			return fmt.Errorf("%w: variación", domain.ErrNotFound)
		}
		for _, v := range st.lineVars[orderItemID] {
			if v == variationID {
				return nil
			}
		}
		st.lineVars[orderItemID] = append(st.lineVars[orderItemID], variationID)
		return nil
	})
}
