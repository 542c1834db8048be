//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/restaurante-pos/internal/application/catalog"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ordering"
	"github.com/jhoicas/restaurante-pos/internal/application/usecase"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/restaurante-pos/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Contenedor PostgreSQL
// ──────────────────────────────────────────────────────────────────────────────

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "levantar PostgreSQL")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	// idempotente
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

type pgFixture struct {
	ctx    context.Context
	cats   *catalog.CategoryUseCase
	items  *catalog.MenuItemUseCase
	tables *usecase.TableUseCase
	orders *ordering.OrderUseCase
}

func newPGFixture(t *testing.T) *pgFixture {
	pool := setupTestDB(t)
	store := postgres.NewStore(pool)
	tx := postgres.NewTxRunner(pool)
	return &pgFixture{
		ctx:    context.Background(),
		cats:   catalog.NewCategoryUseCase(store, tx),
		items:  catalog.NewMenuItemUseCase(store, tx, catalog.NewModifierReconciler()),
		tables: usecase.NewTableUseCase(store, tx),
		orders: ordering.NewOrderUseCase(store, tx, pdf.NewReceiptGenerator(), "Café Central"),
	}
}

func (f *pgFixture) latte(t *testing.T) *dto.MenuItemResponse {
	t.Helper()
	drinks, err := f.cats.Create(f.ctx, dto.CategoryRequest{Name: "drinks", Sections: "hot, cold"})
	require.NoError(t, err)
	item, err := f.items.Create(f.ctx, dto.MenuItemRequest{
		Name:       "Latte",
		Price:      decimal.RequireFromString("4.50"),
		CategoryID: drinks.ID,
		SectionID:  drinks.Sections[0].ID,
		Modifiers: []dto.ModifierSlotRequest{
			{Name: "size", Variations: "small, medium, large"},
			{Name: "milk", Variations: "whole, oat"},
		},
	})
	require.NoError(t, err)
	return item
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_CatalogoReconciliaModificadores(t *testing.T) {
	f := newPGFixture(t)
	item := f.latte(t)

	assert.Equal(t, "Latte", item.Name)
	require.Len(t, item.Modifiers, 2)
	assert.Equal(t, "Size", item.Modifiers[0].Name)
	assert.Equal(t, []string{"Small", "Medium", "Large"}, item.Modifiers[0].Variations)

	updated, err := f.items.Update(f.ctx, item.ID, dto.MenuItemRequest{
		Name:       item.Name,
		Price:      decimal.RequireFromString("5.00"),
		CategoryID: item.CategoryID,
		SectionID:  item.SectionID,
		Modifiers: []dto.ModifierSlotRequest{
			{Name: "Size", Variations: "Small,Large"},
		},
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5.00").Equal(updated.Price))
	require.Len(t, updated.Modifiers, 1)
	assert.Equal(t, []string{"Small", "Large"}, updated.Modifiers[0].Variations)

	_, err = f.items.Update(f.ctx, item.ID, dto.MenuItemRequest{
		Name:       updated.Name,
		Price:      updated.Price,
		CategoryID: updated.CategoryID,
		SectionID:  updated.SectionID,
		Modifiers:  []dto.ModifierSlotRequest{{Name: "Size", Variations: "Small,Large"}},
	})
	assert.ErrorIs(t, err, domain.ErrNoChanges)

	menu, err := f.items.Menu(f.ctx)
	require.NoError(t, err)
	require.Len(t, menu.Categories, 1)
	assert.Equal(t, "DRINKS", menu.Categories[0].Name)
}

func TestPostgres_NombreDuplicado(t *testing.T) {
	f := newPGFixture(t)
	_, err := f.cats.Create(f.ctx, dto.CategoryRequest{Name: "Postres", Sections: "Fríos"})
	require.NoError(t, err)
	_, err = f.cats.Create(f.ctx, dto.CategoryRequest{Name: "postres", Sections: "Calientes"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_FlujoCompletoDelPedido(t *testing.T) {
	f := newPGFixture(t)
	latte := f.latte(t)
	table, err := f.tables.Create(f.ctx, dto.TableRequest{Name: "Mesa 1"})
	require.NoError(t, err)

	const waiter = "00000000-0000-0000-0000-0000000000a1"
	o, err := f.orders.Start(f.ctx, waiter, dto.StartOrderRequest{TableID: table.ID, CustomerName: "Ana"})
	require.NoError(t, err)

	_, err = f.orders.AddLine(f.ctx, o.ID, dto.AddOrderLineRequest{MenuItemID: latte.ID, Quantity: 1, Variations: []string{"Medium", "Oat"}})
	require.NoError(t, err)
	merged, err := f.orders.AddLine(f.ctx, o.ID, dto.AddOrderLineRequest{MenuItemID: latte.ID, Quantity: 2, Variations: []string{"Oat", "Medium"}})
	require.NoError(t, err)
	assert.True(t, merged.Merged)
	assert.Equal(t, 3, merged.Line.Quantity)

	got, err := f.orders.Get(f.ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, []string{"Medium", "Oat"}, got.Lines[0].Variations)
	assert.True(t, decimal.RequireFromString("13.50").Equal(got.Total))

	_, err = f.orders.Submit(f.ctx, o.ID)
	require.NoError(t, err)
	closed, err := f.orders.Close(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderClosed, closed.Status)

	available, err := f.tables.ListAvailable(f.ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, table.ID, available[0].ID)

	summary, err := f.orders.Summary(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.Open)
	assert.True(t, decimal.RequireFromString("13.50").Equal(summary.LifetimeTotal))

	receipt, _, err := f.orders.Receipt(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(receipt[:4]))

	// con historial la mesa no se borra, queda fuera de servicio
	removed, err := f.tables.Remove(f.ctx, table.ID)
	require.NoError(t, err)
	assert.False(t, removed.Deleted)
}

func TestPostgres_CarreraMismoEmpleado(t *testing.T) {
	f := newPGFixture(t)
	bar, err := f.tables.Create(f.ctx, dto.TableRequest{Name: "Barra"})
	require.NoError(t, err)
	other, err := f.tables.Create(f.ctx, dto.TableRequest{Name: "Mesa 2"})
	require.NoError(t, err)

	const waiter = "00000000-0000-0000-0000-0000000000b1"
	tables := []string{bar.ID, other.ID, bar.ID, other.ID}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		ok     int
		active int
	)
	for _, id := range tables {
		wg.Add(1)
		go func(tableID string) {
			defer wg.Done()
			_, err := f.orders.Start(f.ctx, waiter, dto.StartOrderRequest{TableID: tableID, CustomerName: "Luis"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrActiveOrderExists), errors.Is(err, domain.ErrTableUnavailable):
				active++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, len(tables)-1, active)

	cur, err := f.orders.Current(f.ctx, waiter)
	require.NoError(t, err)
	require.NotNil(t, cur)
}

func TestPostgres_CarreraPorLaMesa(t *testing.T) {
	f := newPGFixture(t)
	table, err := f.tables.Create(f.ctx, dto.TableRequest{Name: "Terraza"})
	require.NoError(t, err)

	waiters := []string{
		"00000000-0000-0000-0000-0000000000c1",
		"00000000-0000-0000-0000-0000000000c2",
		"00000000-0000-0000-0000-0000000000c3",
	}
	errs := make([]error, len(waiters))
	var wg sync.WaitGroup
	for i, w := range waiters {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = f.orders.Start(f.ctx, userID, dto.StartOrderRequest{TableID: table.ID, CustomerName: "Mesa compartida"})
		}(i, w)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrTableUnavailable)
	}
	assert.Equal(t, 1, wins)
}
