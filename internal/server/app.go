// Package server wires the archive together: it opens the database, runs
// migrations, builds the services and serves the JSON API until the process
// is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/docarchive/internal/logging"
	"github.com/dmitrijs2005/docarchive/internal/server/cache"
	"github.com/dmitrijs2005/docarchive/internal/server/config"
	"github.com/dmitrijs2005/docarchive/internal/server/httpapi"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docarchive/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	redis    *redis.Client
	services httpapi.Services
}

// openDB opens the pgx-backed pool and applies pending migrations.
func openDB(ctx context.Context, c *config.Config, m repomanager.RepositoryManager) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded migrations and exits.
func Migrate(ctx context.Context, c *config.Config) error {
	db, err := openDB(ctx, c, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		return err
	}
	return db.Close()
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, os.Stdout)

	m := repomanager.NewPostgresRepositoryManager()
	db, err := openDB(ctx, c, m)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, db: db}

	var fieldCache services.FieldCache
	if c.RedisAddr != "" {
		client, err := cache.Connect(ctx, c.RedisAddr)
		if err != nil {
			// the archive works without the cache, only slower
			logger.Warn(ctx, "field cache disabled", "error", err)
		} else {
			app.redis = client
			fieldCache = cache.NewFieldSchemaCache(client, c.FieldCacheTTL)
		}
	}

	doctypes := services.NewDocumentTypeService(db, m, fieldCache, logger)

	app.services = httpapi.Services{
		Users:          services.NewUserService(db, m),
		Departments:    services.NewDepartmentService(db, m),
		Files:          services.NewFileService(db, m, services.NewStorageService(c), doctypes),
		Transfers:      services.NewTransferService(db, m),
		AccessRequests: services.NewAccessRequestService(db, m),
		DocumentTypes:  doctypes,
		Feed:           services.NewFeedService(db, m),
		Reports:        services.NewReportService(db, m),
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.HTTPAddr, app.logger, app.services, app.config.SecretKey, app.config.RequestTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or the process receives a stop signal.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
}

func (app *App) close() {
	ctx := context.Background()
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close failed", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
