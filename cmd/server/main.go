package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/groupcart/payments-service/internal/adapter/cache"
	"github.com/groupcart/payments-service/internal/adapter/gateway/razorpay"
	"github.com/groupcart/payments-service/internal/adapter/http/fiber/handlers"
	"github.com/groupcart/payments-service/internal/adapter/http/fiber/middleware"
	"github.com/groupcart/payments-service/internal/adapter/queue"
	"github.com/groupcart/payments-service/internal/adapter/storage/postgres"
	"github.com/groupcart/payments-service/internal/adapter/vault"
	"github.com/groupcart/payments-service/internal/observability/telemetry"
	"github.com/groupcart/payments-service/internal/ports"
	"github.com/groupcart/payments-service/internal/service/health"
	"github.com/groupcart/payments-service/internal/service/order"
	"github.com/groupcart/payments-service/internal/service/payment"
	"github.com/groupcart/payments-service/internal/service/receipt"
	"github.com/groupcart/payments-service/internal/service/webhook"
	"github.com/groupcart/payments-service/pkg/config"
)

const (
	serviceName    = "payments-service"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting payments service",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 3. Optionally pull credentials from Vault
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		keyID, keySecret, err := sm.GetRazorpayCredentials()
		if err != nil {
			logger.Fatal("Failed to read gateway credentials from Vault", zap.Error(err))
		}
		cfg.Razorpay.KeyID = keyID
		cfg.Razorpay.KeySecret = keySecret

		if secret, err := sm.GetWebhookSecret(); err == nil {
			cfg.Razorpay.WebhookSecret = secret
		}
		if url, err := sm.GetDatabaseURL(); err == nil {
			cfg.Database.URL = url
		}
	}

	if cfg.Razorpay.KeyID == "" || cfg.Razorpay.KeySecret == "" {
		logger.Fatal("Gateway credentials are not configured")
	}
	if cfg.Razorpay.WebhookSecret == "" {
		logger.Warn("Webhook secret not configured, webhook signature verification is disabled")
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.Tracing.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database.URL, postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Redis Cache (optional)
	var redisCache ports.Cache
	if cfg.Redis.URL != "" {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisCache.Close()
	} else {
		logger.Warn("Redis not configured, fetch caching and webhook dedup are disabled")
	}

	// 7. Initialize Message Queue (optional)
	var messageQueue queue.MessageQueue
	switch cfg.Queue.Type {
	case "nats":
		messageQueue, err = queue.NewNATSQueue(cfg.Queue.URL, logger)
	case "rabbitmq":
		messageQueue, err = queue.NewRabbitMQQueue(cfg.Queue.URL, logger)
	case "":
		logger.Warn("Message queue not configured, webhook fan-out is disabled")
	default:
		logger.Fatal("Unknown queue type", zap.String("type", cfg.Queue.Type))
	}
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	if messageQueue != nil {
		defer messageQueue.Close()
	}

	// 8. Initialize Receipt Mailer (optional)
	var receipts ports.ReceiptSender
	if cfg.Receipts.Enabled {
		receiptService, err := receipt.NewService(&receipt.Config{
			Provider:       cfg.Receipts.Provider,
			FromEmail:      cfg.Receipts.FromEmail,
			FromName:       cfg.Receipts.FromName,
			SendGridAPIKey: cfg.Receipts.SendGridAPIKey,
			SMTPHost:       cfg.Receipts.SMTPHost,
			SMTPPort:       cfg.Receipts.SMTPPort,
			SMTPUsername:   cfg.Receipts.SMTPUsername,
			SMTPPassword:   cfg.Receipts.SMTPPassword,
			SMTPUseTLS:     cfg.Receipts.SMTPUseTLS,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize receipt mailer", zap.Error(err))
		}
		receipts = receiptService
	}

	// 9. Initialize Gateway Client
	gateway := razorpay.NewClient(razorpay.Config{
		KeyID:         cfg.Razorpay.KeyID,
		KeySecret:     cfg.Razorpay.KeySecret,
		WebhookSecret: cfg.Razorpay.WebhookSecret,
		BaseURL:       cfg.Razorpay.BaseURL,
		Timeout:       cfg.Razorpay.Timeout,
		MaxRetries:    cfg.Razorpay.MaxRetries,
	}, logger)

	// 10. Initialize Repositories
	orderRepo := postgres.NewOrderRepository(db, logger)
	paymentRepo := postgres.NewPaymentRepository(db, logger)
	refundRepo := postgres.NewRefundRepository(db, logger)
	eventRepo := postgres.NewWebhookEventRepository(db, logger)
	cycleRepo := postgres.NewCycleRepository(db, logger)

	// 11. Initialize Services (Business Logic Layer)
	orderService := order.NewService(gateway, orderRepo, logger)
	paymentService := payment.NewService(gateway, gateway, paymentRepo, refundRepo, cycleRepo, redisCache, logger)
	webhookService := webhook.NewDispatcher(gateway, eventRepo, paymentRepo, refundRepo, redisCache, messageQueue, receipts, logger)
	healthService := health.NewService(sqlDB, redisCache, logger)

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	corsCfg := cfg.CORS
	if len(corsCfg.AllowedOrigins) == 0 {
		corsCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	}
	app.Use(middleware.NewCORS(corsCfg))

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		path := cfg.Prometheus.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, func(c *fiber.Ctx) error {
			// Adapt net/http handler to fasthttp for Fiber
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	// Payment API Routes
	paymentHandler := handlers.NewPaymentHandler(orderService, paymentService, logger)
	webhookHandler := handlers.NewWebhookHandler(webhookService, logger)

	api := app.Group("/api/payment")
	api.Post("/create-order", paymentHandler.CreateOrder)
	api.Post("/verify", paymentHandler.Verify)
	api.Post("/refund", paymentHandler.Refund)
	api.Get("/refund/:refundId", paymentHandler.GetRefund)
	api.Post("/cancel", paymentHandler.Cancel)
	api.Post("/webhook", webhookHandler.Receive)
	api.Get("/:paymentId", paymentHandler.Get)

	app.Use(middleware.NotFoundHandler())

	// 13. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 14. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// newLogger builds the zap logger from config: JSON output by default,
// console encoding for local development, level from logging.level.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}
