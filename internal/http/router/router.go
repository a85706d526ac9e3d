package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"courier-dispatch/internal/http/handlers"
	"courier-dispatch/internal/http/middleware/ratelimit"
)

// Deps groups everything the router mounts. Nil middleware and metrics
// handlers are skipped.
type Deps struct {
	Base          *handlers.Handlers
	Courier       *handlers.CourierHandler
	Dispatch      *handlers.DispatchHandler
	Observability func(http.Handler) http.Handler
	RateLimit     *ratelimit.Middleware
	Metrics       http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if d.Observability != nil {
		r.Use(d.Observability)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	if d.Courier != nil {
		r.Get("/courier/{id}", d.Courier.GetByID)
		r.Get("/couriers", d.Courier.List)
		r.Post("/courier", d.Courier.Create)
		r.Put("/courier", d.Courier.Update)
	}

	if d.Dispatch != nil {
		limited := r.With()
		if d.RateLimit != nil {
			limited = r.With(d.RateLimit.Handler())
		}
		limited.Post("/dispatch/orders", d.Dispatch.Dispatch)
		limited.Post("/dispatch/decision", d.Dispatch.Decide)
		limited.Post("/dispatch/orders/{orderID}/cancel", d.Dispatch.Cancel)
		limited.Post("/dispatch/orders/{orderID}/complete", d.Dispatch.Complete)
		r.Get("/dispatch/orders/{orderID}", d.Dispatch.Get)
	}

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
