//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"courier-dispatch/internal/domain"
)

// DispatchPort abstracts the subset of dispatch operations
// needed by orders Processor when handling order events
type DispatchPort interface {
	Dispatch(ctx context.Context, req domain.DispatchRequest) (domain.DispatchResult, error)
	Cancel(ctx context.Context, orderID string) (domain.DecisionResult, error)
	Finalize(ctx context.Context, orderID string) error
}
