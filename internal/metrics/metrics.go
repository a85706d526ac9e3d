package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Register registers c and returns the collector that ends up in reg.
// When an equal collector is already registered, that one is returned instead.
func Register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	var zero T
	return zero, err
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewStatusSyncRetriesTotal returns a Prometheus counter for retries of order status pushes
func NewStatusSyncRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "status_sync_retries_total",
		Help: "Total number of retry attempts performed by the status sync client",
	})
}

// Dispatch groups the collectors describing the dispatch state machine.
// A nil *Dispatch records nothing.
type Dispatch struct {
	offers   prometheus.Counter
	outcomes *prometheus.CounterVec
	active   prometheus.Gauge
}

// NewDispatch creates unregistered dispatch collectors.
func NewDispatch() *Dispatch {
	return &Dispatch{
		offers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_offers_total",
			Help: "Total number of offers sent to couriers",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_outcomes_total",
			Help: "Dispatch transitions by outcome",
		}, []string{"outcome"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_active_assignments",
			Help: "Number of orders currently held by the assignment store",
		}),
	}
}

// Register registers the dispatch collectors, reusing ones already present in reg.
func (d *Dispatch) Register(reg prometheus.Registerer) error {
	var err error
	if d.offers, err = Register(reg, d.offers); err != nil {
		return fmt.Errorf("register dispatch_offers_total: %w", err)
	}
	if d.outcomes, err = Register(reg, d.outcomes); err != nil {
		return fmt.Errorf("register dispatch_outcomes_total: %w", err)
	}
	if d.active, err = Register(reg, d.active); err != nil {
		return fmt.Errorf("register dispatch_active_assignments: %w", err)
	}
	return nil
}

// Collectors returns every collector for registration.
func (d *Dispatch) Collectors() []prometheus.Collector {
	return []prometheus.Collector{d.offers, d.outcomes, d.active}
}

// Offered counts one offer.
func (d *Dispatch) Offered() {
	if d == nil {
		return
	}
	d.offers.Inc()
}

// Outcome counts one transition.
func (d *Dispatch) Outcome(outcome string) {
	if d == nil {
		return
	}
	d.outcomes.WithLabelValues(outcome).Inc()
}

// SetActive publishes the store size.
func (d *Dispatch) SetActive(n int) {
	if d == nil {
		return
	}
	d.active.Set(float64(n))
}

// OffersCounter exposes the offers counter for inspection.
func (d *Dispatch) OffersCounter() prometheus.Counter { return d.offers }

// OutcomesVec exposes the outcomes vector for inspection.
func (d *Dispatch) OutcomesVec() *prometheus.CounterVec { return d.outcomes }

// ActiveGauge exposes the active gauge for inspection.
func (d *Dispatch) ActiveGauge() prometheus.Gauge { return d.active }

// HTTP groups request collectors labelled by method, route pattern and status.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP creates unregistered HTTP collectors.
func NewHTTP() *HTTP {
	labels := []string{"method", "path", "status"}
	return &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, labels),
	}
}

// Register registers the HTTP collectors, reusing ones already present in reg.
func (h *HTTP) Register(reg prometheus.Registerer) error {
	var err error
	if h.requests, err = Register(reg, h.requests); err != nil {
		return fmt.Errorf("register http_requests_total: %w", err)
	}
	if h.duration, err = Register(reg, h.duration); err != nil {
		return fmt.Errorf("register http_request_duration_seconds: %w", err)
	}
	return nil
}

// Collectors returns every collector for registration.
func (h *HTTP) Collectors() []prometheus.Collector {
	return []prometheus.Collector{h.requests, h.duration}
}

// Observe records one served request. A nil *HTTP records nothing.
func (h *HTTP) Observe(method, path, status string, seconds float64) {
	if h == nil {
		return
	}
	h.requests.WithLabelValues(method, path, status).Inc()
	h.duration.WithLabelValues(method, path, status).Observe(seconds)
}

// RequestsVec exposes the request counter for inspection.
func (h *HTTP) RequestsVec() *prometheus.CounterVec { return h.requests }

// DurationVec exposes the latency histogram for inspection.
func (h *HTTP) DurationVec() *prometheus.HistogramVec { return h.duration }
