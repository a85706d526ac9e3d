package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDispatch_RecordsTransitions(t *testing.T) {
	t.Parallel()

	d := NewDispatch()
	d.Offered()
	d.Offered()
	d.Outcome("accepted")
	d.SetActive(3)

	require.Equal(t, 2.0, testutil.ToFloat64(d.OffersCounter()))
	require.Equal(t, 1.0, testutil.ToFloat64(d.OutcomesVec().WithLabelValues("accepted")))
	require.Equal(t, 3.0, testutil.ToFloat64(d.ActiveGauge()))
}

func TestDispatch_NilIsNoop(t *testing.T) {
	t.Parallel()

	var d *Dispatch
	require.NotPanics(t, func() {
		d.Offered()
		d.Outcome("x")
		d.SetActive(1)
	})
}

func TestDispatch_CollectorsRegister(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	for _, c := range NewDispatch().Collectors() {
		require.NoError(t, reg.Register(c))
	}
	require.NoError(t, reg.Register(NewRateLimitExceededTotal()))
	require.NoError(t, reg.Register(NewStatusSyncRetriesTotal()))
	for _, c := range NewHTTP().Collectors() {
		require.NoError(t, reg.Register(c))
	}
}

func TestHTTP_Observe(t *testing.T) {
	t.Parallel()

	h := NewHTTP()
	h.Observe("GET", "/ping", "200", 0.01)
	h.Observe("GET", "/ping", "200", 0.02)

	require.Equal(t, 2.0, testutil.ToFloat64(h.RequestsVec().WithLabelValues("GET", "/ping", "200")))

	var nilHTTP *HTTP
	require.NotPanics(t, func() { nilHTTP.Observe("GET", "/", "200", 0) })
}

func TestRegister_ReusesExisting(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first, err := Register(reg, NewStatusSyncRetriesTotal())
	require.NoError(t, err)

	second, err := Register(reg, NewStatusSyncRetriesTotal())
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestDispatch_RegisterTwiceSharesCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a, b := NewDispatch(), NewDispatch()
	require.NoError(t, a.Register(reg))
	require.NoError(t, b.Register(reg))

	b.Offered()
	require.Equal(t, 1.0, testutil.ToFloat64(a.OffersCounter()))

	h1, h2 := NewHTTP(), NewHTTP()
	require.NoError(t, h1.Register(reg))
	require.NoError(t, h2.Register(reg))
	h2.Observe("GET", "/ping", "200", 0.1)
	require.Equal(t, 1.0, testutil.ToFloat64(h1.RequestsVec().WithLabelValues("GET", "/ping", "200")))
}

type failingRegisterer struct{ err error }

func (f failingRegisterer) Register(prometheus.Collector) error  { return f.err }
func (f failingRegisterer) MustRegister(...prometheus.Collector) {}
func (f failingRegisterer) Unregister(prometheus.Collector) bool { return false }

func TestRegister_PropagatesOtherErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Register(failingRegisterer{err: boom}, NewRateLimitExceededTotal())
	require.ErrorIs(t, err, boom)

	err = NewDispatch().Register(failingRegisterer{err: boom})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "dispatch_offers_total")
}
