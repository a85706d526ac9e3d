package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Radius is the maximum distance in meters a courier is willing to travel.
// The zero value is an unlimited radius.
type Radius struct {
	meters  float64
	limited bool
	invalid bool
}

// UnlimitedRadius returns a radius that covers any distance.
func UnlimitedRadius() Radius { return Radius{} }

// RadiusOf returns a limited radius. Negative or non-finite values produce an invalid radius.
func RadiusOf(meters float64) Radius {
	if math.IsNaN(meters) || math.IsInf(meters, 0) || meters < 0 {
		return Radius{invalid: true}
	}
	return Radius{meters: meters, limited: true}
}

// RadiusFromPtr maps a nullable stored value: nil means unlimited.
func RadiusFromPtr(v *float64) Radius {
	if v == nil {
		return UnlimitedRadius()
	}
	return RadiusOf(*v)
}

// ParseRadius parses a textual radius. An empty string means unlimited,
// anything that is not a number yields an invalid radius.
func ParseRadius(raw string) Radius {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnlimitedRadius()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Radius{invalid: true}
	}
	return RadiusOf(v)
}

// Valid reports whether the radius can be used for selection.
func (r Radius) Valid() bool { return !r.invalid }

// Unlimited reports whether the radius covers any distance.
func (r Radius) Unlimited() bool { return !r.invalid && !r.limited }

// Meters returns the limit, +Inf for an unlimited radius and NaN for an invalid one.
func (r Radius) Meters() float64 {
	switch {
	case r.invalid:
		return math.NaN()
	case !r.limited:
		return math.Inf(1)
	default:
		return r.meters
	}
}

// Ptr returns the nullable storage form of a valid radius.
func (r Radius) Ptr() *float64 {
	if !r.limited || r.invalid {
		return nil
	}
	v := r.meters
	return &v
}

// Covers reports whether a distance lies within the radius.
// A NaN distance is never covered by a limited radius.
func (r Radius) Covers(distance float64) bool {
	if r.invalid {
		return false
	}
	if !r.limited {
		return true
	}
	return distance <= r.meters
}

var errInvalidRadius = errors.New("invalid radius")

// MarshalJSON encodes an unlimited radius as null and a limited one as a number.
func (r Radius) MarshalJSON() ([]byte, error) {
	switch {
	case r.invalid:
		return nil, errInvalidRadius
	case !r.limited:
		return []byte("null"), nil
	default:
		return []byte(strconv.FormatFloat(r.meters, 'f', -1, 64)), nil
	}
}

// UnmarshalJSON accepts null, a number or a numeric string.
func (r *Radius) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = UnlimitedRadius()
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = ParseRadius(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = RadiusOf(v)
	return nil
}
