package domain

import (
	"strings"
	"time"
)

// DefaultProductName is used when an order does not name its product.
const DefaultProductName = "Sut"

// Customer is the party that placed an order. The core carries it through untouched.
type Customer struct {
	ID       string
	ChatID   int64
	Name     string
	Phone    string
	Address  string
	Location *Coordinate
}

// Product describes what has to be delivered.
type Product struct {
	Name     string
	Quantity float64
}

// Order identifies the delivery being dispatched.
type Order struct {
	ID string
	// Synthesized is set when the id was generated locally and is unknown to the order service.
	Synthesized bool
	Product     Product
}

// SynthesizedOrderPrefix starts every locally generated order id.
const SynthesizedOrderPrefix = "tmp-"

// IsSynthesizedOrderID reports whether id was generated locally.
func IsSynthesizedOrderID(id string) bool {
	return strings.HasPrefix(id, SynthesizedOrderPrefix)
}

// Candidate is a courier scored against one order.
type Candidate struct {
	Courier        Courier
	DistanceMeters float64
	WithinRadius   bool
}

// DispatchRequest enters a new order into dispatch.
type DispatchRequest struct {
	OrderID  string
	Customer Customer
	Product  Product
}

// DispatchResult describes the first offer made for an order.
type DispatchResult struct {
	Order     Order
	Candidate Candidate
}

// DecisionKind is a courier reply to an offer.
type DecisionKind string

// Courier replies.
const (
	DecisionAccept  DecisionKind = "accept"
	DecisionDecline DecisionKind = "decline"
)

// Valid checks if the DecisionKind is known.
func (k DecisionKind) Valid() bool {
	return k == DecisionAccept || k == DecisionDecline
}

// Decision is a courier reply addressed to an order.
type Decision struct {
	OrderID   string
	CourierID int64
	Kind      DecisionKind
}

// Outcome is the result of applying a decision or lifecycle event.
type Outcome string

// Dispatch outcomes.
const (
	OutcomeOffered   Outcome = "offered"
	OutcomeAccepted  Outcome = "accepted"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeExpired   Outcome = "expired"
)

// DecisionResult reports what a decision changed.
type DecisionResult struct {
	OrderID string
	Outcome Outcome
	// Next is the courier that received the follow-up offer, if any.
	Next *Candidate
}

// Assignment is a read-only snapshot of an order being dispatched.
type Assignment struct {
	Order      Order
	Customer   Customer
	Candidates []Candidate
	// Index points at the candidate currently or last offered.
	Index int
	// ActiveCourierID is zero when nobody holds the offer.
	ActiveCourierID int64
	Declined        []int64
	AcceptedBy      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active returns the candidate currently holding the offer.
func (a Assignment) Active() (Candidate, bool) {
	if a.ActiveCourierID == 0 || a.Index < 0 || a.Index >= len(a.Candidates) {
		return Candidate{}, false
	}
	return a.Candidates[a.Index], true
}

// Accepted reports whether a courier has taken the order.
func (a Assignment) Accepted() bool { return a.AcceptedBy != 0 }

// Offer is the message sent to a candidate courier.
type Offer struct {
	Order     Order
	Customer  Customer
	Candidate Candidate
}

// MapsURL returns the customer location link or an empty string.
func (o Offer) MapsURL() string {
	if o.Customer.Location == nil {
		return ""
	}
	return o.Customer.Location.MapsURL()
}

// StatusUpdate is pushed to the order-management service.
type StatusUpdate struct {
	CustomerID string
	OrderID    string
	Status     OrderStatus
	// Phone is the courier contact, only sent with some statuses.
	Phone string
}

// OfferRecord is the persisted trace of one offer.
type OfferRecord struct {
	ID             int64
	CourierID      int64
	CourierChatID  int64
	CustomerID     string
	CustomerChatID int64
	OrderID        string
	ProductName    string
	Quantity       float64
	Address        string
	Location       *Coordinate
	MapsURL        string
	Phone          string
	CustomerName   string
	DistanceMeters float64
	Status         OfferStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOfferRecord captures an offer for persistence.
func NewOfferRecord(o Offer) OfferRecord {
	return OfferRecord{
		CourierID:      o.Candidate.Courier.ID,
		CourierChatID:  o.Candidate.Courier.ChatID,
		CustomerID:     o.Customer.ID,
		CustomerChatID: o.Customer.ChatID,
		OrderID:        o.Order.ID,
		ProductName:    o.Order.Product.Name,
		Quantity:       o.Order.Product.Quantity,
		Address:        o.Customer.Address,
		Location:       o.Customer.Location,
		MapsURL:        o.MapsURL(),
		Phone:          o.Customer.Phone,
		CustomerName:   o.Customer.Name,
		DistanceMeters: o.Candidate.DistanceMeters,
		Status:         OfferOffered,
	}
}
