package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fashion-shop/internal/cache"
	"fashion-shop/internal/config"
	"fashion-shop/internal/database"
	"fashion-shop/internal/handler"
	"fashion-shop/internal/mail"
	"fashion-shop/internal/repository"
	"fashion-shop/internal/router"
	"fashion-shop/internal/service"
	"fashion-shop/internal/storage"
	"fashion-shop/internal/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting fashion-shop API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool and schema
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Initialize image storage with S3 and local fallback
	var store storage.Store
	if cfg.S3.Enabled {
		s3Store, err := storage.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 storage, falling back to local file system")
			store, err = storage.NewLocalStore(cfg.Upload.LocalDir, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize local storage: %w", err)
			}
		} else {
			store = s3Store
		}
	} else {
		store, err = storage.NewLocalStore(cfg.Upload.LocalDir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		logger.Info().Str("dir", cfg.Upload.LocalDir).Msg("using local file system for images (S3 disabled)")
	}

	// Initialize the aggregate cache
	var statsCache cache.Cache
	if cfg.Redis.Enabled {
		statsCache, err = cache.NewRedisCache(ctx, cfg.Redis.Addr, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, aggregates will be recomputed per request")
			statsCache = cache.NewNopCache()
		}
	} else {
		statsCache = cache.NewNopCache()
	}
	defer statsCache.Close()

	// Initialize mail messaging: publisher plus in-process consumer
	var publisher mail.Publisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = mail.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to rabbitmq, notification mail disabled")
			publisher = mail.NewNopPublisher()
		} else {
			consumer, err := mail.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, mail.NewSMTPSender(cfg.SMTP), logger)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to start mail consumer, events will queue up")
			} else {
				defer consumer.Close()
				go func() {
					if err := consumer.Run(ctx); err != nil {
						logger.Error().Err(err).Msg("mail consumer stopped")
					}
				}()
			}
		}
	} else {
		publisher = mail.NewNopPublisher()
		logger.Info().Msg("rabbitmq disabled, notification mail events are dropped")
	}
	defer publisher.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	statsRepo := repository.NewStatsRepository(pool, orderRepo, logger)

	// Initialize services
	tokens := token.NewManager(cfg.JWT)
	authService := service.NewAuthService(userRepo, tokens, store, publisher, logger)
	userService := service.NewUserService(userRepo, logger)
	productService := service.NewProductService(productRepo, categoryRepo, store, cfg.Upload, logger)
	categoryService := service.NewCategoryService(categoryRepo, store, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, cartRepo, publisher, cfg.Order, logger)
	adminService := service.NewAdminService(statsRepo, statsCache, cfg.Redis.TTL, logger)

	// Initialize router
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		User:     handler.NewUserHandler(userService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Category: handler.NewCategoryHandler(categoryService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Admin:    handler.NewAdminHandler(adminService, logger),
	}

	routerCfg := router.Config{
		Tokens:   tokens,
		UserRepo: userRepo,
		Logger:   logger,
	}
	if !cfg.S3.Enabled {
		routerCfg.UploadDir = cfg.Upload.LocalDir
	}

	engine := router.New(handlers, routerCfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
