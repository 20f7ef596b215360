// Package server initializes and runs the auction record keeper. It wires
// the schema bootstrapper, the connection provider, the ledger recorder and
// the auction service behind the HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/logging"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/config"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/ledger"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/observability/metrics"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/schema"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/services"
	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/storage"
	transport "github.com/sumesh-s-dev/GridlockedCryptizer/internal/server/transport/http"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *storage.Provider
	auction *services.AuctionService
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(c.LogLevel),
	}))
	logger := logging.NewSlogLogger(slogger)

	metrics.MustRegister()

	bootstrapper := schema.New(
		connectFunc(c.AdminDSN),
		connectFunc(c.DatabaseDSN),
		c.DatabaseName,
		schema.DefaultScript(),
		logger,
	)

	store := storage.NewProvider(c, bootstrapper, logger)
	rec := ledger.NewHashRecorder(c.LedgerEndpoint, c.LedgerTimeout, logger)
	auction := services.NewAuctionService(store, rec, logger)

	return &App{config: c, logger: logger, store: store, auction: auction}, nil
}

// connectFunc opens and pings a pool for the given DSN. The bootstrapper
// uses one of these per target since the admin database and the auction
// database are reached with different DSNs.
func connectFunc(dsn string) schema.ConnectFunc {
	return func(ctx context.Context) (*sql.DB, error) {
		db, err := sql.Open(storage.DriverName, dsn)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}
}

func parseLogLevel(name string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
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

	handler := transport.NewHandler(app.auction, app.logger)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: transport.NewRouter(handler),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

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

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err)
	}
}
