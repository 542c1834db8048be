package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-pos/internal/application/auth"
	"github.com/jhoicas/restaurante-pos/internal/application/catalog"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ordering"
	"github.com/jhoicas/restaurante-pos/internal/application/usecase"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/memory"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/restaurante-pos/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	ownerEmail    = "owner@pos.local"
	ownerPassword = "secret123"
)

// buildPOS arma la API completa sobre el almacenamiento en memoria.
func buildPOS(t *testing.T, loginLimit int) *fiber.App {
	t.Helper()
	db := memory.NewStore()
	repos := db.Repos()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(repos, db,
			auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
			auth.SetupConfig{OwnerRole: "Owner", TakeOutTable: "Take Out", Email: ownerEmail, Password: ownerPassword},
		),
		CategoryUC:     catalog.NewCategoryUseCase(repos, db),
		MenuItemUC:     catalog.NewMenuItemUseCase(repos, db, catalog.NewModifierReconciler()),
		TableUC:        usecase.NewTableUseCase(repos, db),
		RoleUC:         usecase.NewRoleUseCase(repos, db),
		UserUC:         usecase.NewUserUseCase(repos, db),
		OrderUC:        ordering.NewOrderUseCase(repos, db, pdf.NewReceiptGenerator(), "Café Central"),
		JWTSecret:      testJWTSecret,
		OwnerRole:      "Owner",
		LoginRateLimit: loginLimit,
	})
	return app
}

// call envía una petición JSON y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, token string, body, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// setupOwner ejecuta la configuración inicial y devuelve el token del dueño.
func setupOwner(t *testing.T, app *fiber.App) string {
	t.Helper()
	var out dto.LoginResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/auth/setup", "", nil, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestSetup_SoloUnaVez(t *testing.T) {
	app := buildPOS(t, 0)
	setupOwner(t, app)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/auth/setup", "", nil, &errBody))
	assert.Equal(t, "ALREADY_SETUP", errBody.Code)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	app := buildPOS(t, 0)
	setupOwner(t, app)

	var errBody dto.ErrorResponse
	code := call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{EmployeeID: ownerEmail, Password: "incorrecta"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", errBody.Code)

	var ok dto.LoginResponse
	code = call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{EmployeeID: ownerEmail, Password: ownerPassword}, &ok)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Owner", ok.User.Role)
}

func TestLogin_LimiteDeIntentos(t *testing.T) {
	app := buildPOS(t, 2)
	setupOwner(t, app)

	in := dto.LoginRequest{EmployeeID: ownerEmail, Password: "incorrecta"}
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodPost, "/api/auth/login", "", in, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodPost, "/api/auth/login", "", in, nil))

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusTooManyRequests, call(t, app, http.MethodPost, "/api/auth/login", "", in, &errBody))
	assert.Equal(t, "TOO_MANY_ATTEMPTS", errBody.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: dueño arma el menú, mesero toma el pedido
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoPedido_DeInicioACierre(t *testing.T) {
	app := buildPOS(t, 0)
	owner := setupOwner(t, app)

	// Menú
	var cat dto.CategoryResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/categories", owner,
		dto.CategoryRequest{Name: "drinks", Sections: "hot, cold"}, &cat))
	assert.Equal(t, "DRINKS", cat.Name)
	require.Len(t, cat.Sections, 2)

	var latte dto.MenuItemResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/menu-items", owner,
		dto.MenuItemRequest{
			Name:        "latte",
			Price:       decimal.RequireFromString("4.50"),
			CategoryID:  cat.ID,
			SectionID:   cat.Sections[0].ID,
			Description: "café con leche",
			Modifiers:   []dto.ModifierSlotRequest{{Name: "size", Variations: "small, medium, large"}},
		}, &latte))

	var table dto.TableResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/tables", owner,
		dto.TableRequest{Name: "mesa 1"}, &table))

	// Personal
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/roles", owner,
		dto.RoleRequest{Name: "waiter"}, nil))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/users", owner,
		dto.CreateUserRequest{FullName: "Ana", Email: "Ana@pos.local", Password: "mesera1", Role: "waiter"}, nil))

	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{EmployeeID: "ana@pos.local", Password: "mesera1"}, &login))
	waiter := login.Token
	assert.Equal(t, "Waiter", login.User.Role)

	// El mesero no administra
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/categories", waiter, nil, nil))

	// Pero ve el menú y las mesas libres
	var menu dto.MenuResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/menu", waiter, nil, &menu))
	require.Len(t, menu.Categories, 1)

	var free []dto.TableResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/tables/available", waiter, nil, &free))
	assert.Len(t, free, 2, "mesa 1 y la mesa para llevar")

	// Inicio
	var order dto.OrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/orders", waiter,
		dto.StartOrderRequest{TableID: table.ID, CustomerName: "Luis"}, &order))
	assert.Equal(t, "started", order.Status)

	var dup dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/orders", waiter,
		dto.StartOrderRequest{TableID: table.ID, CustomerName: "Otro"}, &dup))
	assert.Equal(t, "ACTIVE_ORDER_EXISTS", dup.Code)
	assert.Equal(t, order.ID, dup.OrderID)

	// Enviar vacío no se permite
	var empty dto.ErrorResponse
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/submit", waiter, nil, &empty))
	assert.Equal(t, "EMPTY_ORDER", empty.Code)

	// Líneas: la segunda se fusiona con la primera
	line := dto.AddOrderLineRequest{MenuItemID: latte.ID, Quantity: 1, Variations: []string{"Large"}}
	var added dto.AddLineResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/items", waiter, line, &added))
	assert.False(t, added.Merged)

	line.Quantity = 2
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/items", waiter, line, &added))
	assert.True(t, added.Merged)
	assert.Equal(t, 3, added.Line.Quantity)
	assert.True(t, decimal.RequireFromString("13.50").Equal(added.Line.Subtotal))

	var current dto.OrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/orders/current", waiter, nil, &current))
	assert.Equal(t, order.ID, current.ID)
	require.Len(t, current.Lines, 1)

	// Enviar y cerrar
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/submit", waiter, nil, nil))
	var closed dto.OrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/close", waiter, nil, &closed))
	assert.Equal(t, "closed", closed.Status)

	// La mesa vuelve a estar libre
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/tables/available", waiter, nil, &free))
	assert.Len(t, free, 2)

	var summary dto.OrderSummaryResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/orders/summary", waiter, nil, &summary))
	assert.Empty(t, summary.Open)
	assert.True(t, decimal.RequireFromString("13.50").Equal(summary.LifetimeTotal))

	// Comprobante
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID+"/receipt", nil)
	req.Header.Set("Authorization", "Bearer "+waiter)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestCancelarPedidoVacio_LoElimina(t *testing.T) {
	app := buildPOS(t, 0)
	owner := setupOwner(t, app)

	var table dto.TableResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/tables", owner,
		dto.TableRequest{Name: "terraza"}, &table))

	var order dto.OrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/orders", owner,
		dto.StartOrderRequest{TableID: table.ID, CustomerName: "Eva"}, &order))

	var cancel dto.CancelOrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/cancel", owner, nil, &cancel))
	assert.True(t, cancel.Deleted)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/orders/"+order.ID, owner, nil, nil))
}

func TestListarPedidos_EstadoInvalido(t *testing.T) {
	app := buildPOS(t, 0)
	owner := setupOwner(t, app)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/orders?status=pagado", owner, nil, &errBody))
	assert.Equal(t, "VALIDATION", errBody.Code)
}

func TestEditarSinCambios_Retorna422(t *testing.T) {
	app := buildPOS(t, 0)
	owner := setupOwner(t, app)

	var cat dto.CategoryResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/categories", owner,
		dto.CategoryRequest{Name: "food", Sections: "bakery"}, &cat))

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, app, http.MethodPut, "/api/categories/"+cat.ID, owner,
		dto.CategoryRequest{Name: "Food", Sections: "Bakery"}, &errBody))
	assert.Equal(t, "NO_CHANGES", errBody.Code)
}

func TestImportarMenu_CSV(t *testing.T) {
	app := buildPOS(t, 0)
	owner := setupOwner(t, app)

	csv := "category,section,name,price,description,mod1,vars1\n" +
		"drinks,hot,mocha,5,Chocolate,size,\"small, large\"\n" +
		"drinks,hot,bad,0,Sin precio\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "menu.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/menu-items/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+owner)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report dto.ImportReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Failed)
}
