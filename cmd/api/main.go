package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pizza-service/internal/api/http"
	"github.com/spec-kit/pizza-service/internal/api/http/handlers"
	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/config"
	"github.com/spec-kit/pizza-service/internal/events"
	"github.com/spec-kit/pizza-service/internal/mail"
	"github.com/spec-kit/pizza-service/internal/observability"
	"github.com/spec-kit/pizza-service/internal/persistence"
	"github.com/spec-kit/pizza-service/internal/repository"
	"github.com/spec-kit/pizza-service/internal/service"
	"github.com/spec-kit/pizza-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer mongo.Close(context.Background())

	if cfg.Mongo.EnsureIndexes {
		if err := persistence.EnsureIndexes(ctx, mongo.Database(), logger); err != nil {
			logger.Fatal("failed to ensure indexes", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	db := mongo.Database()
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	contactRepo := repository.NewContactRepository(db)
	cartRepo := repository.NewCartRepository(redis.Client, cfg.Cart.TTL())

	mailer := mail.NewSMTPMailer(cfg.Mail, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Mailer:   mailer,
		Logger:   logger,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  orderRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	contactService := service.NewContactService(contactRepo, logger)
	cartService := service.NewCartService(cartRepo)
	notificationService := service.NewNotificationService(dispatcher, userRepo, mailer, logger)

	var subscribers []worker.Subscriber
	if cfg.Broker.Enabled() {
		forwarder, err := events.DialAMQPForwarder(cfg.Broker, logger)
		if err != nil {
			logger.Error("amqp forwarder disabled", zap.Error(err))
		} else {
			defer forwarder.Close() //nolint:errcheck
			subscribers = append(subscribers, forwarder)
		}
	}
	worker.StartNotificationWorker(dispatcher, notificationService, logger, subscribers...)

	metrics := observability.NewMetrics("pizza")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App)

	health := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
		handlers.Dependency{Name: "mongodb", Pinger: mongo},
		handlers.Dependency{Name: "redis", Pinger: redis, Optional: true},
	)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		BasePath:       cfg.App.BasePath,
		Health:         health,
		Users:          handlers.NewUsersHandler(authService),
		Admin:          handlers.NewAdminHandler(authService, orderService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Contacts:       handlers.NewContactsHandler(contactService),
		Cart:           handlers.NewCartHandler(cartService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		RateLimiter:    httptransport.NewRateLimiter(redis.Client, cfg.RateLimit, logger),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	authService.Wait()
	notificationService.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
