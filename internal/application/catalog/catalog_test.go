package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-pos/internal/application/catalog"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/domain"
	"github.com/jhoicas/restaurante-pos/internal/domain/entity"
	"github.com/jhoicas/restaurante-pos/internal/domain/menu"
	"github.com/jhoicas/restaurante-pos/internal/domain/repository"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	ctx        context.Context
	repos      repository.Store
	categories *catalog.CategoryUseCase
	items      *catalog.MenuItemUseCase
	drinks     *dto.CategoryResponse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewStore()
	repos := db.Repos()
	f := &fixture{
		ctx:        context.Background(),
		repos:      repos,
		categories: catalog.NewCategoryUseCase(repos, db),
		items:      catalog.NewMenuItemUseCase(repos, db, catalog.NewModifierReconciler()),
	}
	drinks, err := f.categories.Create(f.ctx, dto.CategoryRequest{Name: "drinks", Sections: "hot, cold"})
	require.NoError(t, err)
	f.drinks = drinks
	return f
}

func (f *fixture) section(t *testing.T, name string) string {
	t.Helper()
	for _, s := range f.drinks.Sections {
		if s.Name == name {
			return s.ID
		}
	}
	t.Fatalf("sección %q no existe", name)
	return ""
}

func (f *fixture) itemRequest(t *testing.T, name string, mods ...dto.ModifierSlotRequest) dto.MenuItemRequest {
	return dto.MenuItemRequest{
		Name:        name,
		Price:       decimal.RequireFromString("4.50"),
		CategoryID:  f.drinks.ID,
		SectionID:   f.section(t, "Hot"),
		Description: name + " caliente",
		Modifiers:   mods,
	}
}

func size(vars string) dto.ModifierSlotRequest {
	return dto.ModifierSlotRequest{Name: "Size", Variations: vars}
}

func (f *fixture) modifiers(t *testing.T) []*entity.Modifier {
	t.Helper()
	all, err := f.repos.Modifiers.ListAll(f.ctx)
	require.NoError(t, err)
	return all
}

func (f *fixture) variationCount(t *testing.T) int {
	t.Helper()
	n, err := f.repos.Variations.Count(f.ctx)
	require.NoError(t, err)
	return n
}

// assertModifierInvariants: ningún modificador huérfano y ningún par (nombre, variaciones) repetido.
func (f *fixture) assertModifierInvariants(t *testing.T) {
	t.Helper()
	seen := map[string]string{}
	for _, m := range f.modifiers(t) {
		n, err := f.repos.Modifiers.CountItems(f.ctx, m.ID)
		require.NoError(t, err)
		assert.Positive(t, n, "el modificador %s no debe quedar huérfano", m.Name)
		key := menu.ModifierKey(m.Name, m.VariationNames())
		if prev, ok := seen[key]; ok {
			t.Errorf("modificadores duplicados %s y %s (%s)", prev, m.ID, m.Name)
		}
		seen[key] = m.ID
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategory_CreateNormalizaNombres(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "DRINKS", f.drinks.Name)
	require.Len(t, f.drinks.Sections, 2)
	names := []string{f.drinks.Sections[0].Name, f.drinks.Sections[1].Name}
	assert.ElementsMatch(t, []string{"Hot", "Cold"}, names)
}

func TestCategory_CreateDuplicada(t *testing.T) {
	f := newFixture(t)

	_, err := f.categories.Create(f.ctx, dto.CategoryRequest{Name: "Drinks", Sections: "Hot"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategory_UpdateSincronizaSecciones(t *testing.T) {
	f := newFixture(t)
	_, err := f.items.Create(f.ctx, dto.MenuItemRequest{
		Name:        "Iced Tea",
		Price:       decimal.NewFromInt(3),
		CategoryID:  f.drinks.ID,
		SectionID:   f.section(t, "Cold"),
		Description: "té frío",
	})
	require.NoError(t, err)

	got, err := f.categories.Update(f.ctx, f.drinks.ID, dto.CategoryRequest{Name: "drinks", Sections: "Hot,Smoothies"})
	require.NoError(t, err)

	status := map[string]string{}
	for _, s := range got.Sections {
		status[s.Name] = s.Status
	}
	assert.Equal(t, entity.StatusActive, status["Hot"])
	assert.Equal(t, entity.StatusActive, status["Smoothies"])
	// Cold la usa un ítem: queda inactiva en vez de borrarse
	assert.Equal(t, entity.StatusInactive, status["Cold"])

	_, err = f.categories.Update(f.ctx, f.drinks.ID, dto.CategoryRequest{Name: "DRINKS", Sections: "Hot,Smoothies"})
	assert.ErrorIs(t, err, domain.ErrNoChanges)
}

func TestCategory_RemoveConItemsQuedaInactiva(t *testing.T) {
	f := newFixture(t)
	_, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte"))
	require.NoError(t, err)

	res, err := f.categories.Remove(f.ctx, f.drinks.ID)
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	assert.Equal(t, entity.StatusInactive, res.Status)

	menuResp, err := f.items.Menu(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, menuResp.Categories)
}

func TestCategory_RemoveSinItemsSeBorra(t *testing.T) {
	f := newFixture(t)

	res, err := f.categories.Remove(f.ctx, f.drinks.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	_, err = f.categories.Get(f.ctx, f.drinks.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación de modificadores
// ──────────────────────────────────────────────────────────────────────────────

func TestMenuItem_CreaModificadorYVariaciones(t *testing.T) {
	f := newFixture(t)

	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("small, medium, LARGE")))
	require.NoError(t, err)

	require.Len(t, latte.Modifiers, 1)
	assert.Equal(t, "Size", latte.Modifiers[0].Name)
	assert.Equal(t, []string{"Small", "Medium", "Large"}, latte.Modifiers[0].Variations)
	assert.True(t, latte.Price.Equal(decimal.RequireFromString("4.50")))
	assert.Len(t, f.modifiers(t), 1)
	assert.Equal(t, 3, f.variationCount(t))
}

func TestMenuItem_ReutilizaModificadorIdentico(t *testing.T) {
	f := newFixture(t)
	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small,Medium,Large")))
	require.NoError(t, err)

	// mismo conjunto en otro orden
	mocha, err := f.items.Create(f.ctx, f.itemRequest(t, "Mocha", size("Large,Small,Medium")))
	require.NoError(t, err)

	require.Len(t, mocha.Modifiers, 1)
	assert.Equal(t, latte.Modifiers[0].ID, mocha.Modifiers[0].ID)
	assert.Len(t, f.modifiers(t), 1)
	assert.Equal(t, 3, f.variationCount(t))
	f.assertModifierInvariants(t)
}

func TestMenuItem_MismoNombreOtrasVariacionesCreaOtroModificador(t *testing.T) {
	f := newFixture(t)
	_, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small,Medium,Large")))
	require.NoError(t, err)

	espresso, err := f.items.Create(f.ctx, f.itemRequest(t, "Espresso", size("Single,Double")))
	require.NoError(t, err)

	assert.Equal(t, []string{"Single", "Double"}, espresso.Modifiers[0].Variations)
	assert.Len(t, f.modifiers(t), 2)
	assert.Equal(t, 5, f.variationCount(t))
	f.assertModifierInvariants(t)
}

func TestMenuItem_EditarSinCambiosNoCreaNiBorra(t *testing.T) {
	f := newFixture(t)
	req := f.itemRequest(t, "Latte",
		size("Small,Medium,Large"),
		dto.ModifierSlotRequest{Name: "milk", Variations: "Whole, Oat"},
	)
	latte, err := f.items.Create(f.ctx, req)
	require.NoError(t, err)
	before := f.modifiers(t)

	_, err = f.items.Update(f.ctx, latte.ID, req)
	assert.ErrorIs(t, err, domain.ErrNoChanges)

	after := f.modifiers(t)
	assert.Equal(t, before, after)
	assert.Equal(t, 5, f.variationCount(t))
}

func TestMenuItem_RenombraEnSitio(t *testing.T) {
	f := newFixture(t)
	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small,Medium,Large")))
	require.NoError(t, err)
	modID := latte.Modifiers[0].ID

	got, err := f.items.Update(f.ctx, latte.ID, f.itemRequest(t, "Latte",
		dto.ModifierSlotRequest{Name: "cup size", Variations: "Small,Medium,Large"}))
	require.NoError(t, err)

	require.Len(t, got.Modifiers, 1)
	assert.Equal(t, modID, got.Modifiers[0].ID)
	assert.Equal(t, "Cup Size", got.Modifiers[0].Name)
	assert.Len(t, f.modifiers(t), 1)
	f.assertModifierInvariants(t)
}

func TestMenuItem_RenombreDeModificadorCompartidoNoAfectaOtrosItems(t *testing.T) {
	f := newFixture(t)
	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small,Medium,Large")))
	require.NoError(t, err)
	mocha, err := f.items.Create(f.ctx, f.itemRequest(t, "Mocha", size("Small,Medium,Large")))
	require.NoError(t, err)

	got, err := f.items.Update(f.ctx, latte.ID, f.itemRequest(t, "Latte",
		dto.ModifierSlotRequest{Name: "Cup Size", Variations: "Small,Medium,Large"}))
	require.NoError(t, err)
	assert.Equal(t, "Cup Size", got.Modifiers[0].Name)

	mochaAfter, err := f.items.Get(f.ctx, mocha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Size", mochaAfter.Modifiers[0].Name)
	assert.Len(t, f.modifiers(t), 2)
	assert.Equal(t, 3, f.variationCount(t))
	f.assertModifierInvariants(t)
}

func TestMenuItem_CambiarVariacionesReemplazaYBarreHuerfano(t *testing.T) {
	f := newFixture(t)
	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small,Medium,Large")))
	require.NoError(t, err)

	got, err := f.items.Update(f.ctx, latte.ID, f.itemRequest(t, "Latte", size("Small,Large")))
	require.NoError(t, err)

	require.Len(t, got.Modifiers, 1)
	assert.Equal(t, []string{"Small", "Large"}, got.Modifiers[0].Variations)
	assert.NotEqual(t, latte.Modifiers[0].ID, got.Modifiers[0].ID)
	// el viejo quedó huérfano y se eliminó; las variaciones nunca se borran
	assert.Len(t, f.modifiers(t), 1)
	assert.Equal(t, 3, f.variationCount(t))
	f.assertModifierInvariants(t)
}

func TestMenuItem_QuitarModificadorDesasociaYBarre(t *testing.T) {
	f := newFixture(t)
	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small,Medium,Large")))
	require.NoError(t, err)

	got, err := f.items.Update(f.ctx, latte.ID, f.itemRequest(t, "Latte"))
	require.NoError(t, err)

	assert.Empty(t, got.Modifiers)
	assert.Empty(t, f.modifiers(t))
	assert.Equal(t, 3, f.variationCount(t))
}

func TestMenuItem_QuitarModificadorCompartidoLoConserva(t *testing.T) {
	f := newFixture(t)
	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small,Medium,Large")))
	require.NoError(t, err)
	_, err = f.items.Create(f.ctx, f.itemRequest(t, "Mocha", size("Small,Medium,Large")))
	require.NoError(t, err)

	_, err = f.items.Update(f.ctx, latte.ID, f.itemRequest(t, "Latte"))
	require.NoError(t, err)

	assert.Len(t, f.modifiers(t), 1)
	f.assertModifierInvariants(t)
}

func TestMenuItem_AgregarModificadorEnEdicion(t *testing.T) {
	f := newFixture(t)
	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small,Medium,Large")))
	require.NoError(t, err)

	got, err := f.items.Update(f.ctx, latte.ID, f.itemRequest(t, "Latte",
		size("Small,Medium,Large"),
		dto.ModifierSlotRequest{Name: "Milk", Variations: "Whole,Oat"},
	))
	require.NoError(t, err)

	require.Len(t, got.Modifiers, 2)
	assert.Equal(t, "Size", got.Modifiers[0].Name)
	assert.Equal(t, "Milk", got.Modifiers[1].Name)
	f.assertModifierInvariants(t)
}

func TestMenuItem_ModificadorRepetidoEsInvalido(t *testing.T) {
	f := newFixture(t)

	_, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small"), size("Large")))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	// la tx se revirtió: ni ítem ni modificadores
	assert.Empty(t, f.modifiers(t))
	item, err := f.repos.MenuItems.GetByName(f.ctx, "Latte")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestMenuItem_MasDeTresModificadoresEsInvalido(t *testing.T) {
	f := newFixture(t)

	_, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte",
		size("Small"),
		dto.ModifierSlotRequest{Name: "Milk", Variations: "Oat"},
		dto.ModifierSlotRequest{Name: "Syrup", Variations: "Vanilla"},
		dto.ModifierSlotRequest{Name: "Shots", Variations: "Extra"},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMenuItem_ParesVaciosSeDescartan(t *testing.T) {
	f := newFixture(t)

	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte",
		size("Small"),
		dto.ModifierSlotRequest{Name: "", Variations: "Oat"},
		dto.ModifierSlotRequest{Name: "Syrup", Variations: " , "},
	))
	require.NoError(t, err)
	assert.Len(t, latte.Modifiers, 1)
}

func TestMenuItem_RemoveSinPedidosBorraYBarre(t *testing.T) {
	f := newFixture(t)
	latte, err := f.items.Create(f.ctx, f.itemRequest(t, "Latte", size("Small,Medium,Large")))
	require.NoError(t, err)

	res, err := f.items.Remove(f.ctx, latte.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Empty(t, f.modifiers(t))

	_, err = f.items.Get(f.ctx, latte.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMenuItem_SeccionDeOtraCategoriaEsInvalida(t *testing.T) {
	f := newFixture(t)
	food, err := f.categories.Create(f.ctx, dto.CategoryRequest{Name: "food", Sections: "Sandwiches"})
	require.NoError(t, err)

	req := f.itemRequest(t, "Latte")
	req.SectionID = food.Sections[0].ID
	_, err = f.items.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga masiva
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_CreaActualizaYReportaFallas(t *testing.T) {
	f := newFixture(t)
	rows := []catalog.ImportRow{
		{
			Line: 2, Category: "desserts", Section: "cakes", Name: "Cheesecake",
			Price: decimal.NewFromInt(6), Description: "de la casa",
			Modifiers: []catalog.ModifierSlot{{Name: "Topping", Variations: "Berries,Caramel"}},
		},
		{Line: 3, Category: "desserts", Section: "cakes", Name: "Brownie", Price: decimal.Zero, Description: "sin precio"},
	}

	report := f.items.Import(f.ctx, rows)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Rows, 2)
	assert.True(t, report.Rows[0].Created)
	assert.NotEmpty(t, report.Rows[1].Error)

	// misma fila otra vez: no cambia nada y cuenta como actualizada
	report = f.items.Import(f.ctx, rows[:1])
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Failed)

	cat, err := f.repos.Categories.GetByName(f.ctx, "DESSERTS")
	require.NoError(t, err)
	require.NotNil(t, cat)
	sections, err := f.repos.Sections.ListByCategory(f.ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Cakes", sections[0].Name)
	f.assertModifierInvariants(t)
}
