package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tyrezone/internal/catalog"
	"tyrezone/internal/config"
	"tyrezone/internal/handlers"
	"tyrezone/internal/middleware"
	"tyrezone/internal/repositories"
	"tyrezone/internal/services"
	"tyrezone/pkg/kafka"
	"tyrezone/pkg/logger"
	"tyrezone/pkg/rabbitmq"
)

const defaultSQLiteDSN = "tyrezone.db"

// App is the wired storefront: the fiber app plus the resources it holds open.
type App struct {
	Fiber   *fiber.App
	Metrics *services.Metrics
	Config  config.Config

	closers []func() error
}

// Close releases broker, cache and database connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewApp builds repositories, services and handlers for cfg.
func NewApp(cfg config.Config) (*App, error) {
	a := &App{Config: cfg, Metrics: services.NewMetrics()}
	ctx := context.Background()

	// --- Storage ---
	var (
		productRepo repositories.ProductRepository
		orderRepo   repositories.OrderRepository
		contactRepo repositories.ContactRepository
		db          *gorm.DB
	)
	if cfg.Storage.Driver == "memory" {
		productRepo = repositories.NewStaticProductRepository(catalog.Tyres()...)
		orderRepo = repositories.NewMockOrderRepository()
		contactRepo = repositories.NewMockContactRepository()
	} else {
		var err error
		db, err = openDatabase(cfg.Storage)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		if err := repositories.AutoMigrate(db); err != nil {
			a.Close()
			return nil, err
		}
		gormProducts := repositories.NewGORMProductRepository(db)
		if err := gormProducts.Seed(ctx, catalog.Tyres()); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
		productRepo = gormProducts
		orderRepo = repositories.NewGORMOrderRepository(db)
		contactRepo = repositories.NewGORMContactRepository(db)
	}

	products, err := productRepo.GetAll(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Metrics.CatalogProducts.Set(float64(len(products)))

	cartStorage, err := a.openCartStorage(cfg, db)
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := a.openPublisher(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	// --- Services ---
	validate := services.NewValidator()
	pricing := services.PricingRulesFromConfig(cfg.Checkout)
	sessionService := services.NewSessionService(cfg.Session.Secret, cfg.Session.TTL)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartStorage, productRepo, cfg.Cart.Key, pricing, a.Metrics)
	orderService := services.NewOrderService(orderRepo, publisher)
	gateway := services.NewSimulatedGateway(cfg.Checkout.ProcessingDelay)
	checkoutService := services.NewCheckoutService(cartService, orderService, gateway, pricing, validate, a.Metrics, cfg.Checkout.IdleTTL)
	contactService := services.NewContactService(contactRepo, validate, cfg.Contact.ProcessingDelay, a.Metrics)

	// --- Fiber ---
	app := fiber.New(fiber.Config{
		AppName:      "tyrezone",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(requestid.New())
	app.Use(middleware.StructuredLogging())
	app.Use(middleware.Metrics(a.Metrics))
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-Id",
		ExposeHeaders: "X-Request-Id, " + middleware.SessionHeader,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"time":    time.Now().Format(time.RFC3339),
			"storage": cfg.Storage.Driver,
			"cart":    cfg.Cart.Driver,
			"events":  cfg.Events.Driver,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.Metrics.Registry, promhttp.HandlerOpts{})))

	apiV1 := app.Group("/api/v1", middleware.Session(sessionService, !cfg.IsDevelopment()))
	handlers.NewSessionHandler(sessionService, !cfg.IsDevelopment()).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService, validate).RegisterRoutes(apiV1)
	handlers.NewCheckoutHandler(checkoutService).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1)
	handlers.NewContactHandler(contactService).RegisterRoutes(apiV1)

	a.Fiber = app
	return a, nil
}

func openDatabase(cfg config.StorageConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}
	logger.Logger.Info().Str("driver", cfg.Driver).Msg("Database connected")
	return db, nil
}

func (a *App) openCartStorage(cfg config.Config, db *gorm.DB) (repositories.CartStorage, error) {
	switch cfg.Cart.Driver {
	case "sql":
		if db == nil {
			return nil, errors.New("cart driver sql needs a sql storage driver")
		}
		return repositories.NewGORMCartStorage(db), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, client.Close)
		logger.Logger.Info().Str("redis_addr", cfg.Redis.Addr).Msg("Connected to Redis for cart storage")
		return repositories.NewRedisCartStorage(client, cfg.Cart.TTL), nil
	}
	return repositories.NewMemoryCartStorage(), nil
}

func (a *App) openPublisher(cfg config.Config) (services.EventPublisher, error) {
	switch cfg.Events.Driver {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)

		consumerCtx, cancel := context.WithCancel(context.Background())
		a.closers = append(a.closers, func() error { cancel(); return nil })
		if err := client.Consume(consumerCtx, rabbitmq.LogOrderEvent); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to start RabbitMQ consumer")
		}
		return client, nil
	case "kafka":
		publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, publisher.Close)
		return publisher, nil
	}
	return services.LogPublisher{}, nil
}

// errorHandler answers errors no handler turned into a response.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logger.Error(c.UserContext()).Err(err).Str("path", c.Path()).Msg("Unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{
		"message": utils.StatusMessage(code),
		"error":   err.Error(),
	})
}
