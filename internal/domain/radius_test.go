package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/domain"
)

func TestRadius_ZeroValueIsUnlimited(t *testing.T) {
	t.Parallel()

	var r domain.Radius
	require.True(t, r.Valid())
	require.True(t, r.Unlimited())
	require.True(t, math.IsInf(r.Meters(), 1))
	require.True(t, r.Covers(1e9))
	require.Nil(t, r.Ptr())
}

func TestRadiusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		meters float64
		valid  bool
	}{
		{"positive", 3000, true},
		{"zero", 0, true},
		{"negative", -1, false},
		{"nan", math.NaN(), false},
		{"inf", math.Inf(1), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := domain.RadiusOf(tt.meters)
			require.Equal(t, tt.valid, r.Valid())
			if !tt.valid {
				require.False(t, r.Covers(0))
				require.Nil(t, r.Ptr())
			}
		})
	}
}

func TestRadius_Covers(t *testing.T) {
	t.Parallel()

	r := domain.RadiusOf(3000)
	require.True(t, r.Covers(500))
	require.True(t, r.Covers(3000))
	require.False(t, r.Covers(3000.1))
	require.False(t, r.Covers(math.NaN()))

	zero := domain.RadiusOf(0)
	require.True(t, zero.Covers(0))
	require.False(t, zero.Covers(1))
}

func TestParseRadius(t *testing.T) {
	t.Parallel()

	require.True(t, domain.ParseRadius("").Unlimited())
	require.True(t, domain.ParseRadius("   ").Unlimited())
	require.Equal(t, 2500.0, domain.ParseRadius(" 2500 ").Meters())
	require.False(t, domain.ParseRadius("far").Valid())
	require.False(t, domain.ParseRadius("-5").Valid())
}

func TestRadiusFromPtr(t *testing.T) {
	t.Parallel()

	require.True(t, domain.RadiusFromPtr(nil).Unlimited())

	v := 1200.5
	r := domain.RadiusFromPtr(&v)
	require.Equal(t, 1200.5, r.Meters())
	require.Equal(t, &v, r.Ptr())
}

func TestRadius_JSON(t *testing.T) {
	t.Parallel()

	var payload struct {
		Radius domain.Radius `json:"radius"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"radius":null}`), &payload))
	require.True(t, payload.Radius.Unlimited())

	require.NoError(t, json.Unmarshal([]byte(`{"radius":3000}`), &payload))
	require.Equal(t, 3000.0, payload.Radius.Meters())

	require.NoError(t, json.Unmarshal([]byte(`{"radius":"1500"}`), &payload))
	require.Equal(t, 1500.0, payload.Radius.Meters())

	require.NoError(t, json.Unmarshal([]byte(`{"radius":"abc"}`), &payload))
	require.False(t, payload.Radius.Valid())

	require.Error(t, json.Unmarshal([]byte(`{"radius":true}`), &payload))

	b, err := json.Marshal(struct {
		A domain.Radius `json:"a"`
		B domain.Radius `json:"b"`
	}{A: domain.UnlimitedRadius(), B: domain.RadiusOf(750)})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":null,"b":750}`, string(b))

	_, err = json.Marshal(domain.RadiusOf(-1))
	require.Error(t, err)
}
