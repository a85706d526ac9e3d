package app

import (
	"context"
	"errors"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/service/orders"
	"courier-dispatch/internal/transport/kafka"
)

type ordersHandler interface {
	Handle(ctx context.Context, e orders.Event) error
}

// makeOrdersKafka adapts the lifecycle processor to the consumer. Events the
// processor rejects as invalid are never retried.
func makeOrdersKafka(p ordersHandler) kafka.HandleFunc {
	return func(ctx context.Context, event orders.Event) error {
		err := p.Handle(ctx, event)
		if err != nil && errors.Is(err, apperr.ErrInvalid) {
			return kafka.Permanent(err)
		}
		return err
	}
}
