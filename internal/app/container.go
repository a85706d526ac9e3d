package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/gateway/chat"
	"courier-dispatch/internal/gateway/status"
	"courier-dispatch/internal/http/admin"
	"courier-dispatch/internal/http/handlers"
	"courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/http/middleware/ratelimit"
	"courier-dispatch/internal/http/router"
	"courier-dispatch/internal/jobs"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/metrics"
	"courier-dispatch/internal/repository"
	"courier-dispatch/internal/service/assignment"
	"courier-dispatch/internal/service/courier"
	"courier-dispatch/internal/service/dispatch"
	"courier-dispatch/internal/service/orders"
	"courier-dispatch/internal/transport/kafka"
)

const (
	dbRetries    = 10
	dbRetryDelay = time.Second
	storeTimeout = 3 * time.Second
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectAndMigrate,
		logFatalf: fatalf,
	}
}

func fatalf(format string, args ...interface{}) {
	NewLogger().Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the function called when the container cannot be built
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	steps := []struct {
		name string
		fn   func(*dig.Container) error
	}{
		{"core", func(c *dig.Container) error { return registerCore(c, ctx) }},
		{"metrics", registerMetrics},
		{"DB", func(c *dig.Container) error { return registerDb(c, b.dbConnect) }},
		{"service", registerDomainServices},
		{"http", registerHTTP},
		{"kafka", registerKafka},
	}
	for _, s := range steps {
		if err := s.fn(container); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
	)
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, provideMetrics)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), dbRetries, dbRetryDelay)
	}
	return provideAll(container, providerDB)
}

type statusIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"status_sync_retries_total"`
}

// newStatusPusher returns nil when no status API is configured.
func newStatusPusher(in statusIn) dispatch.StatusPusher {
	sc := in.Config.StatusSync
	client := status.NewClient(sc.BaseURL, sc.Timeout)
	if client == nil {
		in.Logger.Warn("status sync disabled: STATUS_API_BASE_URL is empty")
		return nil
	}
	return status.NewRetryingClient(client, in.Logger, in.Retries, status.RetryConfig{
		MaxAttempts: sc.MaxAttempts,
		Delay:       sc.RetryDelay,
	})
}

// newNotifier returns nil when no bot token is configured.
func newNotifier(cfg *config.Config, logger logx.Logger) dispatch.Notifier {
	client := chat.NewClient(cfg.Chat.BaseURL, cfg.Chat.BotToken, cfg.Chat.Timeout)
	if client == nil {
		logger.Warn("offer notifications disabled: CHAT_BOT_TOKEN is empty")
		return nil
	}
	return client
}

// statusBudget covers every retry of one push.
func statusBudget(sc config.StatusSync) time.Duration {
	attempts := time.Duration(max(sc.MaxAttempts, 1))
	return sc.Timeout*attempts + sc.RetryDelay*(attempts-1)
}

type dispatchIn struct {
	dig.In

	Config   *config.Config
	Logger   logx.Logger
	Store    *assignment.Store
	Couriers *courier.Service
	Offers   *repository.OfferRepo
	Notifier dispatch.Notifier
	Status   dispatch.StatusPusher
	Metrics  *metrics.Dispatch
}

func newDispatchService(in dispatchIn) *dispatch.Service {
	return dispatch.NewService(dispatch.Deps{
		Store:    in.Store,
		Couriers: in.Couriers,
		Notifier: in.Notifier,
		Status:   in.Status,
		Offers:   in.Offers,
		Metrics:  in.Metrics,
		Logger:   in.Logger,
	}, dispatch.Config{
		NotifyTimeout: in.Config.Chat.Timeout,
		StatusTimeout: statusBudget(in.Config.StatusSync),
		StoreTimeout:  storeTimeout,
	})
}

func newSweepJob(cfg *config.Config, svc *dispatch.Service, logger logx.Logger) *jobs.SweepJob {
	interval := cfg.Dispatch.SweepInterval
	if cfg.Dispatch.AssignmentTTL <= 0 {
		interval = 0
	}
	return jobs.NewSweepJob(svc, interval, logger)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		repository.NewCourierRepo,
		repository.NewOfferRepo,
		func(repo *repository.CourierRepo) *courier.Service {
			return courier.NewService(repo, storeTimeout)
		},
		func(cfg *config.Config) *assignment.Store {
			return assignment.NewStore(cfg.Dispatch.AssignmentTTL)
		},
		newStatusPusher,
		newNotifier,
		newDispatchService,
		func(svc *dispatch.Service, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(svc, logger)
		},
		newSweepJob,
	)
}

type routerIn struct {
	dig.In

	Logger    logx.Logger
	Base      *handlers.Handlers
	Courier   *handlers.CourierHandler
	Dispatch  *handlers.DispatchHandler
	RateLimit *ratelimit.Middleware
	HTTP      *metrics.HTTP
	Metrics   http.Handler `name:"metrics_handler"`
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Base:          in.Base,
		Courier:       in.Courier,
		Dispatch:      in.Dispatch,
		Observability: middleware.Observability(in.Logger, in.HTTP),
		RateLimit:     in.RateLimit,
		Metrics:       in.Metrics,
	})
}

type adminIn struct {
	dig.In

	Config  *config.Config
	Metrics http.Handler `name:"metrics_handler"`
}

type adminOut struct {
	dig.Out

	Server *http.Server `name:"admin_server"`
}

func newAdminServer(in adminIn) adminOut {
	return adminOut{Server: admin.NewServer(in.Config.Admin, in.Metrics)}
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		func(logger logx.Logger, svc *courier.Service) *handlers.CourierHandler {
			return handlers.NewCourierHandler(logger, svc)
		},
		func(logger logx.Logger, svc *dispatch.Service) *handlers.DispatchHandler {
			return handlers.NewDispatchHandler(logger, svc)
		},
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		serverProvider,
		newAdminServer,
	)
}

// newConsumer returns nil when Kafka is not configured.
func newConsumer(cfg *config.Config, logger logx.Logger, p *orders.Processor) (*kafka.Consumer, error) {
	if !cfg.Kafka.Enabled() {
		return nil, nil
	}
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrdersTopic, makeOrdersKafka(p))
}

func registerKafka(container *dig.Container) error {
	return provideAll(container, newConsumer)
}
