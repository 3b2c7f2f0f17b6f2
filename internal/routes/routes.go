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

    "github.com/pouchpay/pouchpay/internal/auth"
    "github.com/pouchpay/pouchpay/internal/config"
    "github.com/pouchpay/pouchpay/internal/funding"
    "github.com/pouchpay/pouchpay/internal/history"
    "github.com/pouchpay/pouchpay/internal/identity"
    "github.com/pouchpay/pouchpay/internal/ledger"
    "github.com/pouchpay/pouchpay/internal/middleware"
    "github.com/pouchpay/pouchpay/internal/notification"
    "github.com/pouchpay/pouchpay/internal/payments"
    "github.com/pouchpay/pouchpay/internal/wallet"
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
    // Enforce DB/Redis presence outside of dev, even though main also checks.
    if !d.Cfg.IsDev() {
        if d.DB == nil {
            return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
        }
        if d.Cache == nil {
            return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
        }
    }
    // Middlewares
    app.Use(recover.New())
    app.Use(middleware.RequestID())
    app.Use(middleware.Audit(d.Logger))

    // Health
    RegisterHealthRoutes(app, d)

    // Storage backends, in-memory in dev when no database is configured.
    var ledgerBackend ledger.Ledger
    if d.DB != nil {
        ledgerBackend = ledger.NewPostgresLedger(d.DB)
    } else {
        ledgerBackend = ledger.NewInMemory()
    }
    var identityRepo identity.Repository
    if d.DB != nil {
        identityRepo = identity.NewPostgresRepository(d.DB)
    } else {
        identityRepo = identity.NewMemoryRepository()
    }

    // Services and handlers
    identitySvc := identity.NewService(identityRepo)
    walletSvc := wallet.NewService(ledgerBackend)
    notifier := notification.NewLoggerNotifier(d.Logger)
    tokenSvc := auth.NewService(d.Cfg, identityRepo)
    fundingSvc := funding.NewService(ledgerBackend)
    paymentSvc := payments.NewService(ledgerBackend, identitySvc, identityRepo, notifier)
    historySvc := history.NewService(ledgerBackend)

    authHandler := auth.NewHandler(identitySvc, identityRepo, tokenSvc, walletSvc)
    identityHandler := identity.NewHandler(identitySvc, identityRepo)
    walletHandler := wallet.NewHandler(walletSvc)
    fundingHandler := funding.NewHandler(fundingSvc)
    paymentHandler := payments.NewHandler(paymentSvc)
    historyHandler := history.NewHandler(historySvc)

    // API routes
    api := app.Group("/api/v1")
    api.Get("/ping", func(c *fiber.Ctx) error {
        reqID, _ := c.Locals("X-Request-ID").(string)
        return c.Status(http.StatusOK).JSON(fiber.Map{
            "status":     "ok",
            "request_id": reqID,
            "timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
        })
    })

    // Public routes
    rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
    RegisterAuthRoutes(api, authHandler, rateLimiter)

    // Protected routes
    jwtmw := middleware.JWTAuth(d.Cfg, identityRepo)
    protected := api.Group("", jwtmw)
    RegisterSessionRoutes(protected, authHandler)
    RegisterProfileRoutes(protected, identityHandler)
    RegisterWalletRoutes(protected, walletHandler)

    // Unsafe transaction endpoints sit behind the idempotency guard.
    transactions := protected.Group("/transactions")
    if d.Cache != nil {
        transactions.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
    }
    RegisterFundingRoutes(transactions, fundingHandler)
    RegisterPaymentRoutes(transactions, paymentHandler)
    RegisterHistoryRoutes(transactions, historyHandler)

    return nil
}
