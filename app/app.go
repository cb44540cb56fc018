package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"renewals-authorization/app/controller"
	"renewals-authorization/app/router"
	"renewals-authorization/config"
	"renewals-authorization/db"
	"renewals-authorization/pricing"
	"renewals-authorization/repository"
	"renewals-authorization/service"
)

// App bundles the wired components of the renewals service
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *sql.DB
	Store    repository.DocumentStoreInterface
	Engine   *pricing.Engine
	Sessions *service.SessionService
	Handler  http.Handler
}

// Initialize connects to the document store and wires repositories, services and routes
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	conn, err := db.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("✓ Database connection established", zap.String("driver", cfg.Store.Driver))

	if cfg.Store.AutoMigrate {
		if err := db.Migrate(ctx, conn, cfg.Store.Driver); err != nil {
			conn.Close()
			return nil, err
		}
	}

	store := repository.NewDocumentRepository(conn, cfg.Store.Driver, logger.Named("store"))
	a := New(cfg, logger, store)
	a.DB = conn
	return a, nil
}

// New wires services and routes around an existing document store
func New(cfg *config.Config, logger *zap.Logger, store repository.DocumentStoreInterface) *App {
	engine := pricing.NewEngine(cfg.Pricing.TaxRate)
	sessions := service.NewSessionService(store, engine, logger.Named("renewals"), service.SessionConfig{
		Form:        service.FormConfig{SearchLimit: cfg.Search.Limit},
		IdleTimeout: cfg.Sessions.IdleTimeout,
	})

	controllers := &router.Controllers{
		Renewal: controller.NewRenewalController(sessions, logger.Named("http")),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Engine:   engine,
		Sessions: sessions,
		Handler:  mux,
	}
}

// NewForm creates a standalone renewal form, used by the command line tools
func (a *App) NewForm() *service.RenewalForm {
	return service.NewRenewalForm(a.Store, a.Engine, a.Logger.Named("renewals"), service.FormConfig{
		SearchLimit: a.Config.Search.Limit,
	})
}

// Close releases the database connection
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
