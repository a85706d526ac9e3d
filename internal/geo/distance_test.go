package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/geo"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	t.Parallel()

	p := domain.Coordinate{Lat: 41.3111, Lon: 69.2797}
	require.Zero(t, geo.Distance(p, p))
}

func TestDistance_IsSymmetric(t *testing.T) {
	t.Parallel()

	a := domain.Coordinate{Lat: 41.3111, Lon: 69.2797}
	b := domain.Coordinate{Lat: 41.2995, Lon: 69.2401}
	require.InDelta(t, geo.Distance(a, b), geo.Distance(b, a), 1e-9)
}

func TestDistance_KnownValues(t *testing.T) {
	t.Parallel()

	// one degree of latitude along a meridian
	a := domain.Coordinate{Lat: 0, Lon: 0}
	b := domain.Coordinate{Lat: 1, Lon: 0}
	require.InDelta(t, 111319.49, geo.Distance(a, b), 0.5)

	// antipodes
	c := domain.Coordinate{Lat: 0, Lon: 180}
	require.InDelta(t, math.Pi*geo.EarthRadiusMeters, geo.Distance(a, c), 1e-3)
}

func TestDistance_NaNPropagates(t *testing.T) {
	t.Parallel()

	a := domain.Coordinate{Lat: math.NaN(), Lon: 0}
	b := domain.Coordinate{Lat: 1, Lon: 1}
	require.True(t, math.IsNaN(geo.Distance(a, b)))
}
