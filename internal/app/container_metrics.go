package app

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"courier-dispatch/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
	StatusSyncRetriesTotal prometheus.Counter `name:"status_sync_retries_total"`
	Dispatch               *metrics.Dispatch
	HTTP                   *metrics.HTTP
	Handler                http.Handler `name:"metrics_handler"`
}

// provideMetrics registers every collector on the default registry.
func provideMetrics() (metricsOut, error) {
	reg := prometheus.DefaultRegisterer

	rl, err := metrics.Register(reg, metrics.NewRateLimitExceededTotal())
	if err != nil {
		return metricsOut{}, fmt.Errorf("register rate_limit_exceeded_total: %w", err)
	}
	retries, err := metrics.Register(reg, metrics.NewStatusSyncRetriesTotal())
	if err != nil {
		return metricsOut{}, fmt.Errorf("register status_sync_retries_total: %w", err)
	}
	dispatch := metrics.NewDispatch()
	if err := dispatch.Register(reg); err != nil {
		return metricsOut{}, err
	}
	httpm := metrics.NewHTTP()
	if err := httpm.Register(reg); err != nil {
		return metricsOut{}, err
	}

	return metricsOut{
		RateLimitExceededTotal: rl,
		StatusSyncRetriesTotal: retries,
		Dispatch:               dispatch,
		HTTP:                   httpm,
		Handler:                promhttp.Handler(),
	}, nil
}
