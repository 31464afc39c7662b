// Package server wires the EasyAdmin mock API together: it builds the
// identity service and its backends from configuration, starts the HTTP and
// (optionally) gRPC listeners and shuts everything down on a signal.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/easyadmin/internal/logging"
	"github.com/dmitrijs2005/easyadmin/internal/server/audit"
	"github.com/dmitrijs2005/easyadmin/internal/server/auth"
	"github.com/dmitrijs2005/easyadmin/internal/server/config"
	"github.com/dmitrijs2005/easyadmin/internal/server/httpapi"
	"github.com/dmitrijs2005/easyadmin/internal/server/identity"
	"github.com/dmitrijs2005/easyadmin/internal/server/metrics"
	"github.com/dmitrijs2005/easyadmin/internal/server/nonces"
	"github.com/dmitrijs2005/easyadmin/internal/server/otp"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/easyadmin/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	issuer     *auth.Issuer
	identity   *identity.Service
	metrics    *metrics.Metrics
	dispatcher *audit.Dispatcher
	closers    []io.Closer
}

// NewApp builds every component named by c. Nonces live in Redis when
// RedisAddr is set and audit events go to PostgreSQL when DatabaseDSN is
// set; otherwise both stay in process.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger, metrics: metrics.New()}

	if c.UsesInsecureSecret() {
		logger.Warn(ctx, "JWT_SECRET is not set, tokens are signed with the public development secret")
	}

	issuer, err := auth.NewIssuer([]byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}
	app.issuer = issuer

	sink, err := app.auditSink(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.dispatcher = audit.NewDispatcher(sink, audit.DefaultBufferSize)

	registry, err := app.nonceRegistry(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	svc := identity.NewService(
		identity.NewStore(logger),
		registry,
		otp.NewState(otp.NewGenerator(c.OTPMax, c.OTPSecure)),
		issuer,
		logger,
		identity.WithAudit(app.dispatcher),
		identity.WithMetrics(app.metrics),
	)
	if err := svc.Configure(ctx, c.AuthModes, c.Accounts); err != nil {
		app.Close()
		return nil, fmt.Errorf("identity init error: %w", err)
	}
	app.identity = svc

	return app, nil
}

func (app *App) auditSink(ctx context.Context) (audit.Sink, error) {
	if app.config.DatabaseDSN == "" {
		return audit.NewLogSink(app.logger), nil
	}

	db, err := audit.OpenPostgres(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db)

	if err := audit.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return audit.NewPostgresSink(db, app.logger), nil
}

func (app *App) nonceRegistry(ctx context.Context) (nonces.Registry, error) {
	if app.config.RedisAddr == "" {
		return nonces.NewMemoryRegistry(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.closers = append(app.closers, client)
	return nonces.NewRedisRegistry(client, ""), nil
}

// initSignalHandler cancels on SIGINT, SIGTERM or SIGQUIT. The watcher
// goroutine is tracked by wg and exits, releasing the signals, once ctx ends.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc, wg *sync.WaitGroup) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled, a signal arrives or a listener fails.
// The first listener error is returned; resources are released either way.
func (app *App) Run(ctx context.Context) error {
	defer app.Close()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		runErr  error
	)

	app.initSignalHandler(ctx, cancelFunc, &wg)
	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				errOnce.Do(func() { runErr = fmt.Errorf("%s server: %w", name, err) })
				cancelFunc()
			}
		}()
	}

	httpServer := httpapi.NewServer(app.config.HTTPAddr, httpapi.Options{
		APIVersion:     app.config.APIVersion,
		HelpURL:        app.config.HelpURL,
		AllowedOrigins: app.config.CORSAllowedOrigins,
	}, app.identity, app.issuer, app.metrics, app.logger)
	start("http", httpServer.Run)

	if app.config.GRPCAddr != "" {
		grpcServer := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.identity, app.issuer)
		start("grpc", grpcServer.Run)
	}

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return runErr
}

// Close flushes pending audit events and closes backend connections. It is
// safe to call more than once.
func (app *App) Close() {
	if app.dispatcher != nil {
		app.dispatcher.Close()
		if n := app.dispatcher.Dropped(); n > 0 {
			app.logger.Warn(context.Background(), "audit events dropped", "count", n)
		}
	}

	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i].Close())
	}
	app.closers = nil

	if err := errors.Join(errs...); err != nil {
		app.logger.Warn(context.Background(), "error closing resources", "error", err)
	}
}
