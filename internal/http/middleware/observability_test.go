package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/metrics"
	testlog "courier-dispatch/internal/testutil"
)

func TestObservability_UsesRoutePatternForLabels(t *testing.T) {
	t.Parallel()

	m := metrics.NewHTTP()
	pattern := "/dispatch/orders/{orderID}"
	r := chi.NewRouter()
	r.Use(Observability(logx.Nop(), m))
	r.Get(pattern, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/dispatch/orders/o-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Equal(t, 1.0, testutil.ToFloat64(m.RequestsVec().WithLabelValues(http.MethodGet, pattern, "204")))
	require.Equal(t, uint64(1), histogramCount(t, m.DurationVec(), http.MethodGet, pattern, "204"))
}

func TestObservability_UnmatchedRouteCollapsesPath(t *testing.T) {
	t.Parallel()

	m := metrics.NewHTTP()
	r := chi.NewRouter()
	r.Use(Observability(logx.Nop(), m))
	r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {})

	for _, p := range []string{"/a", "/b/c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.RequestsVec().WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestObservability_ServerErrorsLoggedAsWarn(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	r := chi.NewRouter()
	r.Use(Observability(rec.Logger(), nil))
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := rec.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "warn", entries[0].Level)
	require.Equal(t, "http request", entries[0].Msg)
}

func histogramCount(t *testing.T, hv *prometheus.HistogramVec, method, path, status string) uint64 {
	t.Helper()

	obs, err := hv.GetMetricWithLabelValues(method, path, status)
	require.NoError(t, err)

	metric, ok := obs.(prometheus.Metric)
	require.True(t, ok, "must implement prometheus.Metric")

	m := &dto.Metric{}
	require.NoError(t, metric.Write(m))

	h := m.GetHistogram()
	require.NotNil(t, h)
	return h.GetSampleCount()
}
