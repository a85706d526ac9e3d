// Package geo holds great-circle math used to rank couriers.
package geo

import (
	"math"

	"courier-dispatch/internal/domain"
)

// EarthRadiusMeters is the equatorial radius of the spherical Earth model.
const EarthRadiusMeters = 6378137.0

// Distance returns the haversine distance between two points in meters.
// NaN in either coordinate propagates to the result.
func Distance(a, b domain.Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
