//go:generate mockgen -source=contracts.go -destination=dispatch_mocks_test.go -package=dispatch_test

package dispatch

import (
	"context"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/ports/offertx"
)

// CourierSource lists couriers that may receive offers.
type CourierSource interface {
	ListDispatchable(ctx context.Context) ([]domain.Courier, error)
	Get(ctx context.Context, id int64) (*domain.Courier, error)
}

// Notifier delivers an offer to the courier chat.
type Notifier interface {
	Offer(ctx context.Context, offer domain.Offer) error
}

// StatusPusher mirrors order status to the order-management service.
type StatusPusher interface {
	Push(ctx context.Context, update domain.StatusUpdate) error
}

// OfferRecorder persists offer bookkeeping.
type OfferRecorder interface {
	WithTx(ctx context.Context, fn func(tx offertx.Repository) error) error
}
