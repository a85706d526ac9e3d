package domain

import "regexp"

// List of possible courier statuses
const (
	StatusAvailable CourierStatus = "available"
	StatusBusy      CourierStatus = "busy"
	StatusPaused    CourierStatus = "paused"
)

var allowedStatuses = [...]CourierStatus{
	StatusAvailable, StatusBusy, StatusPaused,
}

// Valid checks if the CourierStatus is valid
func (s CourierStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// OrderStatus is the order state mirrored to the order-management service.
type OrderStatus string

// Statuses accepted by the order-management service.
const (
	OrderProcessing OrderStatus = "processing"
	OrderCancelled  OrderStatus = "cancelled"
	OrderCompleted  OrderStatus = "completed"
)

// OfferStatus is the lifecycle of a single courier offer record.
type OfferStatus string

// Offer record statuses.
const (
	OfferOffered   OfferStatus = "offered"
	OfferDeclined  OfferStatus = "declined"
	OfferAccepted  OfferStatus = "accepted"
	OfferCompleted OfferStatus = "completed"
	OfferCancelled OfferStatus = "cancelled"
	OfferExpired   OfferStatus = "expired"
)

var rePhone = regexp.MustCompile(`^\+[0-9]{10,15}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
