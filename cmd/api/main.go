// @title          Restaurant POS API
// @version        1.0
// @description    Punto de venta para restaurantes: menú, mesas, personal y pedidos.
// @BasePath       /
// @securityDefinitions.apikey  Bearer
// @in             header
// @name           Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/restaurante-pos/docs"
	"github.com/jhoicas/restaurante-pos/internal/application/auth"
	"github.com/jhoicas/restaurante-pos/internal/application/catalog"
	"github.com/jhoicas/restaurante-pos/internal/application/ordering"
	"github.com/jhoicas/restaurante-pos/internal/application/usecase"
	infrapdf "github.com/jhoicas/restaurante-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/restaurante-pos/internal/interfaces/http"
	"github.com/jhoicas/restaurante-pos/pkg/config"
	"github.com/jhoicas/restaurante-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("persistencia")
	}
	defer backend.Close()

	store, txRunner := backend.Store, backend.TxRunner

	authUC := auth.NewAuthUseCase(store, txRunner,
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		auth.SetupConfig{
			OwnerRole:    cfg.POS.OwnerRole,
			TakeOutTable: cfg.POS.TakeOutTable,
			Email:        cfg.POS.SetupEmail,
			Password:     cfg.POS.SetupPassword,
		},
	)
	categoryUC := catalog.NewCategoryUseCase(store, txRunner)
	menuItemUC := catalog.NewMenuItemUseCase(store, txRunner, catalog.NewModifierReconciler())
	tableUC := usecase.NewTableUseCase(store, txRunner)
	roleUC := usecase.NewRoleUseCase(store, txRunner)
	userUC := usecase.NewUserUseCase(store, txRunner)

	// PDF: comprobante del pedido
	orderUC := ordering.NewOrderUseCase(store, txRunner, infrapdf.NewReceiptGenerator(), cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http").Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name + " API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CategoryUC:     categoryUC,
		MenuItemUC:     menuItemUC,
		TableUC:        tableUC,
		RoleUC:         roleUC,
		UserUC:         userUC,
		OrderUC:        orderUC,
		JWTSecret:      cfg.JWT.Secret,
		OwnerRole:      cfg.POS.OwnerRole,
		LoginRateLimit: cfg.POS.LoginRateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
