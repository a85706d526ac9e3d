// Package selector ranks couriers against a customer location.
package selector

import (
	"sort"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/geo"
)

// Rank scores every courier with a usable location and radius.
// The result is ordered by WithinRadius (true first), then by distance;
// equal keys keep the input order.
func Rank(customer *domain.Coordinate, couriers []domain.Courier) []domain.Candidate {
	if customer == nil || !customer.Valid() {
		return nil
	}

	out := make([]domain.Candidate, 0, len(couriers))
	for _, c := range couriers {
		if c.Location == nil || !c.Location.Valid() || !c.Radius.Valid() {
			continue
		}
		d := geo.Distance(*c.Location, *customer)
		out = append(out, domain.Candidate{
			Courier:        c,
			DistanceMeters: d,
			WithinRadius:   c.Radius.Covers(d),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WithinRadius != out[j].WithinRadius {
			return out[i].WithinRadius
		}
		return out[i].DistanceMeters < out[j].DistanceMeters
	})
	return out
}

// Select returns the dispatch candidates: the ranked couriers whose radius covers the customer.
func Select(customer *domain.Coordinate, couriers []domain.Courier) []domain.Candidate {
	ranked := Rank(customer, couriers)
	n := 0
	for n < len(ranked) && ranked[n].WithinRadius {
		n++
	}
	if n == 0 {
		return nil
	}
	return ranked[:n:n]
}
