package offertx

import (
	"context"

	"courier-dispatch/internal/domain"
)

// Repository is the set of offer bookkeeping operations run inside one transaction.
type Repository interface {
	SaveOffer(ctx context.Context, rec *domain.OfferRecord) error
	UpdateOfferStatus(ctx context.Context, orderID string, courierID int64, status domain.OfferStatus) (bool, error)
	AcceptedOffer(ctx context.Context, orderID string) (*domain.OfferRecord, error)
	UpdateCourierStatus(ctx context.Context, courierID int64, status domain.CourierStatus) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
