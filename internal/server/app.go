// Package server wires the configured stores, services, HTTP server and
// thumbnail workers together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/metrics"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/filesmanager/internal/server/rest"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnails"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	metrics *metrics.Metrics

	repos    repomanager.RepositoryManager
	sessions sessions.Store
	blobs    blobstore.Store
	queue    queue.Queue

	closers []func() error
}

// NewApp opens every configured store. Close releases them.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	app := &App{config: c, logger: logger}

	if c.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		app.metrics = metrics.New(reg)
	}

	if err := app.openStores(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) openStores(ctx context.Context) error {
	c := app.config

	var db *sql.DB
	if c.UsesPostgres() {
		var err error
		db, err = dbx.Open(ctx, c.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("db init error: %w", err)
		}
		app.closers = append(app.closers, db.Close)

		pm := repomanager.NewPostgresRepositoryManager(db)
		if err := pm.RunMigrations(ctx); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		app.logger.Info(ctx, "database ready")
	}

	switch c.MetadataBackend {
	case config.BackendPostgres:
		app.repos = repomanager.NewPostgresRepositoryManager(db)
	default:
		app.repos = repomanager.NewInMemoryRepositoryManager()
	}

	switch c.SessionBackend {
	case config.BackendPostgres:
		app.sessions = sessions.NewPostgresStore(db)
	case config.BackendBadger:
		store, err := sessions.OpenBadgerStore(c.BadgerPath)
		if err != nil {
			return fmt.Errorf("session store: %w", err)
		}
		app.closers = append(app.closers, store.Close)
		app.sessions = store
	default:
		app.sessions = sessions.NewMemoryStore()
	}

	switch c.BlobBackend {
	case config.BackendS3:
		store, err := blobstore.NewS3Store(ctx, blobstore.S3Config{
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return fmt.Errorf("blob store: %w", err)
		}
		app.blobs = store
	default:
		store, err := blobstore.NewFSStore(c.FolderPath)
		if err != nil {
			return fmt.Errorf("blob store: %w", err)
		}
		app.blobs = store
	}

	opts := queue.Options{
		Buffer:            c.QueueBuffer,
		MaxAttempts:       c.MaxAttempts,
		RetryDelay:        c.RetryDelay,
		PollInterval:      c.PollInterval,
		VisibilityTimeout: c.VisibilityTimeout,
	}
	switch c.QueueBackend {
	case config.BackendPostgres:
		app.queue = queue.NewPostgresQueue(db, opts)
	default:
		q := queue.NewMemoryQueue(opts)
		app.closers = append(app.closers, func() error { q.Close(); return nil })
		app.queue = q
	}

	app.logger.Info(ctx, "stores opened",
		"metadata", c.MetadataBackend,
		"sessions", c.SessionBackend,
		"blobs", c.BlobBackend,
		"queue", c.QueueBackend,
	)
	return nil
}

// Close releases stores in reverse order of opening.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i]())
	}
	app.closers = nil
	return errors.Join(errs...)
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

func (app *App) newPool() *thumbnails.Pool {
	h := thumbnails.NewHandler(app.repos.Files(), app.blobs, app.logger.With("module", "thumbnails"))
	return thumbnails.NewPool(app.queue, h, thumbnails.PoolConfig{
		Workers:     app.config.Workers,
		MaxAttempts: app.config.MaxAttempts,
	}, app.metrics, app.logger.With("module", "thumbnail_pool"))
}

func (app *App) newHTTPServer(ss *services.SessionService) *rest.Server {
	auth := services.NewAuthService(app.repos.Users(), ss, app.logger.With("module", "auth"))
	files := services.NewFileService(auth, app.repos.Files(), app.blobs, app.queue, app.metrics, app.logger.With("module", "files"))
	stats := services.NewStatsService(app.repos, ss)

	return rest.NewServer(app.config.HTTPAddr, app.config.ShutdownTimeout, app.logger, auth, files, stats, app.metrics)
}

// Run serves HTTP, sweeps expired sessions and, when Workers > 0, processes
// thumbnail jobs in the same process. It returns after a shutdown signal or
// ctx cancellation.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	ss := services.NewSessionService(app.sessions, app.config.SessionTTL)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.newHTTPServer(ss).Run(ctx)
	})
	g.Go(func() error {
		return ss.RunSweeper(ctx, app.config.SweepInterval, app.logger.With("module", "sessions"))
	})
	if app.config.Workers > 0 {
		g.Go(func() error {
			return app.newPool().Run(ctx)
		})
	}

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

// RunWorker processes thumbnail jobs only. It needs the postgres queue,
// since an in-memory queue would never receive jobs from the HTTP process.
func (app *App) RunWorker(ctx context.Context) error {
	if app.config.QueueBackend != config.BackendPostgres {
		return errors.New("worker needs the postgres queue backend")
	}
	if app.config.Workers <= 0 {
		return errors.New("worker needs at least one worker")
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting worker...")
	app.initSignalHandler(cancelFunc)

	return app.newPool().Run(ctx)
}
