package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"courier-dispatch/internal/jobs"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/service/dispatch"
	"courier-dispatch/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the dispatch service: HTTP API, admin listener, sweep job and
// the order lifecycle consumer.
type Runner struct {
	runFn  func(*dig.Container) error
	exitFn func(int)
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run, exitFn: os.Exit}
}

// MustRun runs the service until the container context is done. Any other
// failure terminates the process.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := containerLogger(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Any("err", err))
		_ = logger.Sync()
		if r.exitFn != nil {
			r.exitFn(1)
		}
	}
}

func containerLogger(container *dig.Container) logx.Logger {
	var logger logx.Logger
	if err := container.Invoke(func(l logx.Logger) { logger = l }); err != nil || logger == nil {
		return logx.Nop()
	}
	return logger
}

type runIn struct {
	dig.In

	Ctx      context.Context
	Logger   logx.Logger
	Server   *http.Server
	Admin    *http.Server      `name:"admin_server" optional:"true"`
	Pool     *pgxpool.Pool     `optional:"true"`
	Consumer *kafka.Consumer   `optional:"true"`
	Sweep    *jobs.SweepJob    `optional:"true"`
	Dispatch *dispatch.Service `optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

func appRun(in runIn) error {
	logger := in.Logger
	errCh := make(chan error, 2)

	startServer(in.Server, logger, "api", errCh)
	if in.Admin != nil {
		startServer(in.Admin, logger, "admin", errCh)
	}
	if in.Sweep != nil {
		if err := in.Sweep.Start(); err != nil {
			return err
		}
	}
	stopConsumer := startConsumer(in.Ctx, logger, in.Consumer)

	var runErr error
	select {
	case <-in.Ctx.Done():
		runErr = in.Ctx.Err()
		logger.Info("shutting down courier-dispatch")
	case err := <-errCh:
		runErr = err
		logger.Error("server failed, shutting down", logx.Any("err", err))
	}

	stopConsumer()
	if in.Sweep != nil {
		in.Sweep.Stop()
	}
	gracefulShutdown(in.Server, logger, shutdownTimeout)
	if in.Admin != nil {
		gracefulShutdown(in.Admin, logger, shutdownTimeout)
	}
	if in.Dispatch != nil {
		in.Dispatch.Wait()
	}
	if in.Pool != nil {
		in.Pool.Close()
	}
	return runErr
}

func startServer(server *http.Server, logger logx.Logger, name string, errCh chan<- error) {
	go func() {
		logger.Info("listening", logx.String("server", name), logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}()
}

// startConsumer runs the consumer in the background and returns a func that
// stops it and waits for the last message to be handled.
func startConsumer(ctx context.Context, logger logx.Logger, consumer *kafka.Consumer) func() {
	if consumer == nil {
		logger.Info("kafka consumer disabled")
		return func() {}
	}
	cctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("kafka consumer started")
		if err := consumer.Run(cctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("kafka consumer stopped", logx.Any("err", err))
		}
	}()
	return func() {
		cancel()
		wg.Wait()
		if err := consumer.Close(); err != nil {
			logger.Error("kafka close error", logx.Any("err", err))
		}
	}
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.String("addr", srv.Addr), logx.Any("err", err))
		if err := srv.Close(); err != nil {
			logger.Warn("server close error", logx.Any("err", err))
		}
	}
}
