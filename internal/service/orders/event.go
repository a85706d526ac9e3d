package orders

import (
	"time"

	"courier-dispatch/internal/domain"
)

// Event is a single order lifecycle event
type Event struct {
	OrderID   string
	Status    string
	CourierID int64
	CreatedAt time.Time
	// Dispatch is set on created events that carry the customer and product.
	Dispatch *domain.DispatchRequest
}
