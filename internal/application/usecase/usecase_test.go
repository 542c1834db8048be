package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/usecase"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/memory"
)

func TestTable_CreateYRemove(t *testing.T) {
	ctx := context.Background()
	db := memory.NewStore()
	repos := db.Repos()
	tables := usecase.NewTableUseCase(repos, db)

	patio, err := tables.Create(ctx, dto.TableRequest{Name: "  patio 1 "})
	require.NoError(t, err)
	assert.Equal(t, "Patio 1", patio.Name)
	assert.Equal(t, entity.TableAvailable, patio.Status)

	_, err = tables.Create(ctx, dto.TableRequest{Name: "PATIO 1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	res, err := tables.Remove(ctx, patio.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	list, err := tables.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTable_RemoveConHistorialQuedaInactiva(t *testing.T) {
	ctx := context.Background()
	db := memory.NewStore()
	repos := db.Repos()
	tables := usecase.NewTableUseCase(repos, db)
	bar, err := tables.Create(ctx, dto.TableRequest{Name: "Barra"})
	require.NoError(t, err)
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{
		ID: "o1", CustomerName: "Ana", Status: entity.OrderClosed, TableID: bar.ID, UserID: "u1", CreatedAt: time.Now(),
	}))

	res, err := tables.Remove(ctx, bar.ID)
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	assert.Equal(t, entity.TableInactive, res.Status)

	available, err := tables.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestTable_ParaLlevarNoSeQuita(t *testing.T) {
	ctx := context.Background()
	db := memory.NewStore()
	repos := db.Repos()
	tables := usecase.NewTableUseCase(repos, db)
	require.NoError(t, repos.Tables.Create(ctx, &entity.Table{ID: "to", Name: "Take Out", Status: entity.TableAvailable, IsTakeOut: true}))

	_, err := tables.Remove(ctx, "to")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = tables.Remove(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRole_DeleteEnUso(t *testing.T) {
	ctx := context.Background()
	db := memory.NewStore()
	repos := db.Repos()
	roles := usecase.NewRoleUseCase(repos, db)
	users := usecase.NewUserUseCase(repos, db)

	waiter, err := roles.Create(ctx, dto.RoleRequest{Name: "waiter"})
	require.NoError(t, err)
	assert.Equal(t, "Waiter", waiter.Name)
	_, err = roles.Create(ctx, dto.RoleRequest{Name: "Waiter"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = users.Create(ctx, dto.CreateUserRequest{FullName: "ana pérez", Email: "Ana@Mail.com", Password: "secreto1", Role: "waiter"})
	require.NoError(t, err)

	assert.ErrorIs(t, roles.Delete(ctx, waiter.ID), domain.ErrInUse)
}

func TestUser_CreateUpdateDeactivate(t *testing.T) {
	ctx := context.Background()
	db := memory.NewStore()
	repos := db.Repos()
	roles := usecase.NewRoleUseCase(repos, db)
	users := usecase.NewUserUseCase(repos, db)
	_, err := roles.Create(ctx, dto.RoleRequest{Name: "Waiter"})
	require.NoError(t, err)
	_, err = roles.Create(ctx, dto.RoleRequest{Name: "Cook"})
	require.NoError(t, err)

	ana, err := users.Create(ctx, dto.CreateUserRequest{FullName: "ana pérez", Email: "Ana@Mail.com", Password: "secreto1", Role: "Waiter"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", ana.FullName)
	assert.Equal(t, "ana@mail.com", ana.Email)
	assert.Equal(t, "Waiter", ana.Role)

	_, err = users.Create(ctx, dto.CreateUserRequest{FullName: "Otra", Email: "ana@mail.com", Password: "x", Role: "Waiter"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	_, err = users.Create(ctx, dto.CreateUserRequest{FullName: "Otra", Email: "otra@mail.com", Password: "x", Role: "Manager"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = users.Update(ctx, ana.ID, dto.UpdateUserRequest{FullName: "Ana Pérez", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrNoChanges)

	updated, err := users.Update(ctx, ana.ID, dto.UpdateUserRequest{Role: "cook"})
	require.NoError(t, err)
	assert.Equal(t, "Cook", updated.Role)

	_, err = users.Deactivate(ctx, ana.ID)
	require.NoError(t, err)
	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
