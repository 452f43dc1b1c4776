// Package server wires the development stand-in for the chat service: it
// opens the user store, builds the HTTP API and runs it until a shutdown
// signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/lulu/internal/common"
	"github.com/dmitrijs2005/lulu/internal/logging"
	"github.com/dmitrijs2005/lulu/internal/server/config"
	"github.com/dmitrijs2005/lulu/internal/server/db"
	"github.com/dmitrijs2005/lulu/internal/server/httpapi"
	"github.com/dmitrijs2005/lulu/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       db.RepositoryManager
	userService *users.Service
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generating secret key: %w", err)
		}
		c.SecretKey = key
		logger.Warn(ctx, "no secret key configured, tokens will not survive a restart")
	}

	rm, err := db.NewSQLiteRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(rm.Users(), c, logger)

	return &App{config: c, logger: logger, repos: rm, userService: us}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.Address, app.logger, app.userService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
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

	if err := app.repos.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err)
	}
}
