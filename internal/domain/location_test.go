package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestNewCoordinate(t *testing.T) {
	t.Parallel()

	require.Nil(t, domain.NewCoordinate(nil, nil))
	require.Nil(t, domain.NewCoordinate(ptr(41.3), nil))
	require.Nil(t, domain.NewCoordinate(nil, ptr(69.2)))
	require.Nil(t, domain.NewCoordinate(ptr(math.NaN()), ptr(69.2)))
	require.Nil(t, domain.NewCoordinate(ptr(91), ptr(69.2)))
	require.Nil(t, domain.NewCoordinate(ptr(41.3), ptr(math.Inf(-1))))

	c := domain.NewCoordinate(ptr(41.3), ptr(69.2))
	require.NotNil(t, c)
	require.Equal(t, domain.Coordinate{Lat: 41.3, Lon: 69.2}, *c)
}

func TestCoordinate_MapsURL(t *testing.T) {
	t.Parallel()

	c := domain.Coordinate{Lat: 41.311081, Lon: 69.240562}
	require.Equal(t, "https://maps.google.com/?q=41.311081,69.240562", c.MapsURL())
}

func TestAssignment_Active(t *testing.T) {
	t.Parallel()

	a := domain.Assignment{
		Candidates: []domain.Candidate{
			{Courier: domain.Courier{ID: 1}},
			{Courier: domain.Courier{ID: 2}},
		},
		Index:           1,
		ActiveCourierID: 2,
	}
	got, ok := a.Active()
	require.True(t, ok)
	require.Equal(t, int64(2), got.Courier.ID)

	a.ActiveCourierID = 0
	_, ok = a.Active()
	require.False(t, ok)
}

func TestNewOfferRecord(t *testing.T) {
	t.Parallel()

	loc := &domain.Coordinate{Lat: 1, Lon: 2}
	rec := domain.NewOfferRecord(domain.Offer{
		Order:    domain.Order{ID: "o-1", Product: domain.Product{Name: "Sut", Quantity: 2.5}},
		Customer: domain.Customer{ID: "u-7", ChatID: 70, Name: "Ali", Phone: "+998901234567", Address: "Street 1", Location: loc},
		Candidate: domain.Candidate{
			Courier:        domain.Courier{ID: 3, ChatID: 30},
			DistanceMeters: 480,
		},
	})

	require.Equal(t, int64(3), rec.CourierID)
	require.Equal(t, int64(30), rec.CourierChatID)
	require.Equal(t, "o-1", rec.OrderID)
	require.Equal(t, 2.5, rec.Quantity)
	require.Equal(t, "https://maps.google.com/?q=1,2", rec.MapsURL)
	require.Equal(t, domain.OfferOffered, rec.Status)
}
