package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"

	"github.com/wichananm65/hot-sauce-storefront/internal/auth"
	"github.com/wichananm65/hot-sauce-storefront/internal/cart"
	"github.com/wichananm65/hot-sauce-storefront/internal/catalog"
	"github.com/wichananm65/hot-sauce-storefront/internal/checkout"
	"github.com/wichananm65/hot-sauce-storefront/internal/config"
	"github.com/wichananm65/hot-sauce-storefront/internal/crm"
	"github.com/wichananm65/hot-sauce-storefront/internal/feed"
	"github.com/wichananm65/hot-sauce-storefront/internal/kv"
	"github.com/wichananm65/hot-sauce-storefront/internal/metrics"
	"github.com/wichananm65/hot-sauce-storefront/internal/money"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
	"github.com/wichananm65/hot-sauce-storefront/internal/recommendation"
	"github.com/wichananm65/hot-sauce-storefront/internal/telemetry"
	"github.com/wichananm65/hot-sauce-storefront/internal/user"
	"github.com/wichananm65/hot-sauce-storefront/internal/wishlist"
)

const httpTimeout = 10 * time.Second

// server is the assembled application plus what must be released on exit.
type server struct {
	app     *fiber.App
	closers []func() error
}

func (s *server) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// newServer wires every component. db may be nil, in which case in-memory
// repositories are used.
func newServer(ctx context.Context, cfg config.Config, logger *slog.Logger, db *sql.DB) (*server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	srv := &server{}
	m := metrics.New()
	formatter := money.NewFormatter(cfg.CurrencySymbol)

	source, err := catalogSource(ctx, cfg, logger, db)
	if err != nil {
		return nil, err
	}
	catalogService := catalog.NewService(source, logger, m)

	store, err := kv.Open(ctx, kv.Options{Backend: cfg.KVBackend, Path: cfg.KVPath, DB: db, RedisURL: cfg.RedisURL})
	if err != nil {
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		srv.closers = append(srv.closers, c.Close)
	}

	policy, err := wishlist.ParseDuplicatePolicy(cfg.WishlistDuplicates)
	if err != nil {
		srv.close()
		return nil, err
	}
	wishlistStore := wishlist.NewStore(ctx, store,
		wishlist.WithPolicy(policy),
		wishlist.WithLogger(logger),
		wishlist.WithMetrics(m),
	)
	srv.closers = append(srv.closers, wishlistStore.Close)

	strategy, err := recommendation.NewStrategy(cfg.RecommendationStrategy)
	if err != nil {
		srv.close()
		return nil, err
	}

	cartService := cart.NewService(cart.NewStore(cfg.ShippingFee, m), catalogService)

	gateway := auth.NewGateway(directory(cfg, db), store,
		auth.WithRegistration(cfg.RegistrationEnabled),
		auth.WithLogger(logger),
		auth.WithMetrics(m),
	)

	var orders checkout.Repository = checkout.NewInMemoryRepository()
	if db != nil {
		orders = checkout.NewPostgresRepository(db)
	}

	catalogHandler := catalog.NewHandler(catalogService, formatter)
	cartHandler := cart.NewHandler(cartService, formatter, logger)
	wishlistHandler := wishlist.NewHandler(wishlistStore, catalogService)
	quizHandler := recommendation.NewHandler(recommendation.NewEngine(strategy, catalogService, m))
	authHandler := auth.NewHandler(gateway, cfg.JWTSecret)
	checkoutHandler := checkout.NewHandler(checkout.NewService(orders, cartService, m), logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	setupCORS(app)
	app.Use(requestLogger(logger))

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	catalogHandler.RegisterPublicRoutes(app)
	cartHandler.RegisterPublicRoutes(app)
	wishlistHandler.RegisterPublicRoutes(app)
	quizHandler.RegisterPublicRoutes(app)
	authHandler.RegisterPublicRoutes(app)
	checkoutHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	}))

	authHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)

	srv.app = app
	return srv, nil
}

// catalogSource picks the feed, the database table or the static catalog, in
// that order.
func catalogSource(ctx context.Context, cfg config.Config, logger *slog.Logger, db *sql.DB) (product.Source, error) {
	if cfg.CatalogFeedURL != "" {
		return feed.NewSource(feed.Options{
			URL:    cfg.CatalogFeedURL,
			TTL:    cfg.FeedRefresh,
			Client: telemetry.NewHTTPClient(httpTimeout),
			Logger: logger,
		}), nil
	}

	seed, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	if db != nil {
		repo := product.NewPostgresRepository(db)
		existing, err := repo.Products(ctx)
		if err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
		if len(existing) == 0 {
			logger.Info("seeding empty product table", "products", len(seed))
			if err := repo.Reset(ctx, seed); err != nil {
				return nil, fmt.Errorf("seed products: %w", err)
			}
		}
		return repo, nil
	}

	return product.NewInMemoryRepository(seed), nil
}

func loadCatalog(cfg config.Config) ([]product.Product, error) {
	if cfg.CatalogFile != "" {
		return product.LoadCatalogFile(cfg.CatalogFile)
	}
	return product.DefaultCatalog()
}

func directory(cfg config.Config, db *sql.DB) auth.Directory {
	if cfg.AuthDirectory == config.DirectoryCRM {
		return auth.NewCRMDirectory(crm.NewClient(cfg.CRMBaseURL, cfg.CRMAccessToken, telemetry.NewHTTPClient(httpTimeout)))
	}
	var repo user.Repository = user.NewInMemoryRepository(nil)
	if db != nil {
		repo = user.NewPostgresRepository(db)
	}
	return auth.NewLocalDirectory(user.NewService(repo))
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("request",
			"method", c.Method(),
			"url", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return err
	}
}
