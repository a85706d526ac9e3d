package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

func testOffer() domain.Offer {
	return domain.Offer{
		Order: domain.Order{ID: "o-1", Product: domain.Product{Name: "Sut", Quantity: 2.5}},
		Customer: domain.Customer{
			ID:       "u-7",
			Name:     "Aziza",
			Phone:    "+998901112233",
			Address:  "Chilonzor 9",
			Location: &domain.Coordinate{Lat: 41.2995, Lon: 69.2401},
		},
		Candidate: domain.Candidate{
			Courier:        domain.Courier{ID: 1, ChatID: 555},
			DistanceMeters: 1234,
			WithinRadius:   true,
		},
	}
}

func TestClient_OfferPostsMessage(t *testing.T) {
	t.Parallel()

	var got sendMessage
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "T0KEN", time.Second)
	require.NoError(t, c.Offer(context.Background(), testOffer()))

	require.Equal(t, "/botT0KEN/sendMessage", path)
	require.Equal(t, int64(555), got.ChatID)
	require.Len(t, got.ReplyMarkup.InlineKeyboard, 1)
	require.Equal(t, "accept:o-1:u-7", got.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
	require.Equal(t, "decline:o-1:u-7", got.ReplyMarkup.InlineKeyboard[0][1].CallbackData)
	require.Contains(t, got.Text, "Mahsulot: Sut, 2.5")
	require.Contains(t, got.Text, "Manzil: Chilonzor 9")
	require.Contains(t, got.Text, "Masofa: 1.23 km")
	require.Contains(t, got.Text, "https://maps.google.com/?q=41.2995,69.2401")
}

func TestClient_OfferAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	t.Cleanup(srv.Close)

	err := NewClient(srv.URL, "t", time.Second).Offer(context.Background(), testOffer())
	require.ErrorContains(t, err, "chat not found")
}

func TestClient_OfferWithoutChat(t *testing.T) {
	t.Parallel()

	o := testOffer()
	o.Candidate.Courier.ChatID = 0
	require.ErrorIs(t, NewClient("http://127.0.0.1:1", "t", time.Second).Offer(context.Background(), o), ErrNoChat)
}

func TestClient_OfferRejectsOversizedCallbackData(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	o := testOffer()
	o.Customer.ID = strings.Repeat("9", 40)

	err := NewClient(srv.URL, "t", time.Second).Offer(context.Background(), o)
	require.ErrorIs(t, err, apperr.ErrNotificationDelivery)
	require.Zero(t, calls, "nothing is sent when a button cannot be built")
}

func TestCallbackData_SynthesizedOrderFitsLimit(t *testing.T) {
	t.Parallel()

	o := testOffer()
	o.Order = domain.Order{ID: domain.SynthesizedOrderPrefix + strings.Repeat("f", 22), Synthesized: true}
	// chat id клиента, самый длинный int64
	o.Customer.ID = "-9223372036854775808"

	data := CallbackData(domain.DecisionDecline, o)
	require.LessOrEqual(t, len(data), MaxCallbackData, data)
}

func TestClient_OfferErrorHidesToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	err := NewClient(srv.URL, "secret-token", time.Second).Offer(context.Background(), testOffer())
	require.Error(t, err)
	require.False(t, strings.Contains(err.Error(), "secret-token"))
}

func TestOfferText_FallsBackToCoordinates(t *testing.T) {
	t.Parallel()

	o := testOffer()
	o.Customer.Address = ""
	o.Customer.Name = ""
	text := OfferText(o)
	require.Contains(t, text, "Buyurtma bergan: Nomalum")
	require.Contains(t, text, "Manzil: 41.299500, 69.240100")
}

func TestNewClient_NoToken(t *testing.T) {
	t.Parallel()
	require.Nil(t, NewClient("", "", 0))
}
