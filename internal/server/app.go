// Package server initializes and runs the application server: database,
// migrations, object storage, and the HTTP endpoint, with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dkarklins/jobfolio/internal/logging"
	"github.com/dkarklins/jobfolio/internal/server/config"
	"github.com/dkarklins/jobfolio/internal/server/httpapi"
	"github.com/dkarklins/jobfolio/internal/server/repositories/repomanager"
	"github.com/dkarklins/jobfolio/internal/server/services"
	"github.com/dkarklins/jobfolio/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := repomanager.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	userService := services.NewUserService(db, rm, logger, cfg)
	storeService := services.NewStoreService(rm.Profiles(db), rm.Links(db))
	blobStore := storage.NewS3Store(cfg)

	srv := httpapi.NewServer(cfg.EndpointAddr, logger, userService, storeService, blobStore)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
