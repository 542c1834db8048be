package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
)

type tableRepo struct{ d *db }

func (r *tableRepo) Create(_ context.Context, t *entity.Table) error {
	return r.d.write(func(st *state) error {
		for _, other := range st.tables {
			if other.Name == t.Name {
				return fmt.Errorf("%w: mesa %q", domain.ErrDuplicate, t.Name)
			}
		}
		st.tables[t.ID] = *t
		st.track(t.ID)
		return nil
	})
}

func (r *tableRepo) GetByID(_ context.Context, id string) (*entity.Table, error) {
	var out *entity.Table
	err := r.d.read(func(st *state) error {
		if t, ok := st.tables[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo propio: la transacción ya es exclusiva.
func (r *tableRepo) GetForUpdate(ctx context.Context, id string) (*entity.Table, error) {
	return r.GetByID(ctx, id)
}

func (r *tableRepo) GetByName(_ context.Context, name string) (*entity.Table, error) {
	var out *entity.Table
	err := r.d.read(func(st *state) error {
		for _, t := range st.tables {
			if t.Name == name {
				t := t
				out = &t
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *tableRepo) UpdateStatus(_ context.Context, id, status string) error {
	return r.d.write(func(st *state) error {
		t, ok := st.tables[id]
		if !ok {
			return domain.ErrNotFound
		}
		t.Status = status
		st.tables[id] = t
		return nil
	})
}

func (r *tableRepo) List(ctx context.Context) ([]*entity.Table, error) {
	return r.ListByStatus(ctx, "")
}

func (r *tableRepo) ListByStatus(_ context.Context, status string) ([]*entity.Table, error) {
	var out []*entity.Table
	err := r.d.read(func(st *state) error {
		for _, t := range st.tables {
			if status != "" && t.Status != status {
				continue
			}
			t := t
			out = append(out, &t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *tableRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		delete(st.tables, id)
		return nil
	})
}

type roleRepo struct{ d *db }

func (r *roleRepo) Create(_ context.Context, role *entity.Role) error {
	return r.d.write(func(st *state) error {
		for _, other := range st.roles {
			if other.Name == role.Name {
				return fmt.Errorf("%w: rol %q", domain.ErrDuplicate, role.Name)
			}
		}
		st.roles[role.ID] = *role
		st.track(role.ID)
		return nil
	})
}

func (r *roleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	var out *entity.Role
	err := r.d.read(func(st *state) error {
		if role, ok := st.roles[id]; ok {
			out = &role
		}
		return nil
	})
	return out, err
}

func (r *roleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	var out *entity.Role
	err := r.d.read(func(st *state) error {
		for _, role := range st.roles {
			if role.Name == name {
				role := role
				out = &role
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *roleRepo) List(_ context.Context) ([]*entity.Role, error) {
	var out []*entity.Role
	err := r.d.read(func(st *state) error {
		for _, role := range st.roles {
			role := role
			out = append(out, &role)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *roleRepo) Delete(_ context.Context, id string) error {
	return r.d.write(func(st *state) error {
		delete(st.roles, id)
		return nil
	})
}

type userRepo struct{ d *db }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.d.write(func(st *state) error {
		for _, other := range st.users {
			if other.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		v := *u
		v.RoleName = ""
		st.users[u.ID] = v
		st.track(u.ID)
		return nil
	})
}

func withRole(st *state, u entity.User) *entity.User {
	if role, ok := st.roles[u.RoleID]; ok {
		u.RoleName = role.Name
	}
	return &u
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.d.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = withRole(st, u)
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.d.read(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				out = withRole(st, u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrUserNotFound
		}
		for id, other := range st.users {
			if id != u.ID && other.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		v := *u
		v.RoleName = ""
		st.users[u.ID] = v
		return nil
	})
}

func (r *userRepo) ListActive(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.d.read(func(st *state) error {
		for _, u := range st.users {
			if u.Status == entity.StatusActive {
				out = append(out, withRole(st, u))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, err
}

func (r *userRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.d.read(func(st *state) error {
		n = len(st.users)
		return nil
	})
	return n, err
}

func (r *userRepo) CountByRole(_ context.Context, roleID string) (int, error) {
	n := 0
	err := r.d.read(func(st *state) error {
		for _, u := range st.users {
			if u.RoleID == roleID {
				n++
			}
		}
		return nil
	})
	return n, err
}
