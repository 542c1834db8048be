package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jhoicas/restaurante-pos/internal/application/auth"
	"github.com/jhoicas/restaurante-pos/internal/application/catalog"
	"github.com/jhoicas/restaurante-pos/internal/application/dto"
	"github.com/jhoicas/restaurante-pos/internal/application/ordering"
	"github.com/jhoicas/restaurante-pos/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CategoryUC *catalog.CategoryUseCase
	MenuItemUC *catalog.MenuItemUseCase
	TableUC    *usecase.TableUseCase
	RoleUC     *usecase.RoleUseCase
	UserUC     *usecase.UserUseCase
	OrderUC    *ordering.OrderUseCase
	JWTSecret  string
	// OwnerRole rol con acceso a la administración.
	OwnerRole string
	// LoginRateLimit intentos de login por minuto y por IP; 0 desactiva el límite.
	LoginRateLimit int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/setup", authHandler.Setup)
	if deps.LoginRateLimit > 0 {
		authGroup.Post("/login", loginLimiter(deps.LoginRateLimit), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	owner := RequireRole(deps.OwnerRole)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	menuItemHandler := NewMenuItemHandler(deps.MenuItemUC)
	tableHandler := NewTableHandler(deps.TableUC)
	roleHandler := NewRoleHandler(deps.RoleUC)
	userHandler := NewUserHandler(deps.UserUC)
	orderHandler := NewOrderHandler(deps.OrderUC)

	// Menú y mesas libres (cualquier empleado)
	protected.Get("/menu", menuItemHandler.Menu)
	protected.Get("/tables/available", tableHandler.ListAvailable)

	// Pedidos (cualquier empleado)
	orders := protected.Group("/orders")
	orders.Post("/", orderHandler.Start)
	orders.Get("/", orderHandler.List)
	orders.Get("/current", orderHandler.Current)
	orders.Get("/summary", orderHandler.Summary)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/items", orderHandler.AddLine)
	orders.Delete("/:id/items/:lineId", orderHandler.DeleteLine)
	orders.Post("/:id/submit", orderHandler.Submit)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Post("/:id/close", orderHandler.Close)
	orders.Get("/:id/receipt", orderHandler.Receipt)

	// Administración (solo dueño)
	categories := protected.Group("/categories", owner)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Remove)

	items := protected.Group("/menu-items", owner)
	items.Post("/", menuItemHandler.Create)
	items.Post("/import", menuItemHandler.Import)
	items.Get("/", menuItemHandler.List)
	items.Get("/:id", menuItemHandler.GetByID)
	items.Put("/:id", menuItemHandler.Update)
	items.Delete("/:id", menuItemHandler.Remove)

	tables := protected.Group("/tables", owner)
	tables.Post("/", tableHandler.Create)
	tables.Get("/", tableHandler.List)
	tables.Delete("/:id", tableHandler.Remove)

	roles := protected.Group("/roles", owner)
	roles.Post("/", roleHandler.Create)
	roles.Get("/", roleHandler.List)
	roles.Delete("/:id", roleHandler.Delete)

	users := protected.Group("/users", owner)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Deactivate)
}

func loginLimiter(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_ATTEMPTS",
				Message: "demasiados intentos de login, espere un minuto",
			})
		},
	})
}
