package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/visual-wallet/vault/internal/config"
	"github.com/visual-wallet/vault/internal/middleware"
	"github.com/visual-wallet/vault/internal/notification"
	"github.com/visual-wallet/vault/internal/store"
	"github.com/visual-wallet/vault/internal/transfer"
	"github.com/visual-wallet/vault/internal/user"
	"github.com/visual-wallet/vault/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// In-memory backends are a dev/test convenience only.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var st store.Store
	if d.DB != nil {
		st = store.NewPostgresStore(d.DB)
	} else {
		st = store.NewMemory()
	}

	var userRepo user.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
	}

	walletSvc := wallet.NewService(st)
	userSvc := user.NewService(userRepo)
	notifier := notification.NewLoggerNotifier(d.Logger)
	engine := transfer.NewEngine(st, notifier)

	walletHandler := wallet.NewHandler(walletSvc)
	userHandler := user.NewHandler(userSvc)
	transferHandler := transfer.NewHandler(engine)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Every endpoint requires a verified credential, wallet provisioning
	// included: the caller identity always comes from the token.
	protected := api.Group("", middleware.Auth(d.Cfg.JWTSecret))

	RegisterWalletRoutes(protected, walletHandler)
	RegisterUserRoutes(protected, userHandler)
	RegisterTransferRoutes(protected, transferHandler, middleware.TransferRateLimit(d.Cache, d.Cfg.TransferPerMin))

	return nil
}
