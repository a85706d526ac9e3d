// Package assignment keeps the in-memory dispatch state of every order being offered to couriers.
//
// State lives in a single process. Events for one order must be routed to the
// same process, or the store has to be replaced by a shared implementation.
package assignment

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

var (
	// ErrAlreadyAccepted is returned when a decision arrives after a courier took the order.
	ErrAlreadyAccepted = errors.New("order already accepted")
	// ErrNotOffered is returned when the courier does not hold the current offer.
	ErrNotOffered = errors.New("courier does not hold the offer")
)

type state struct {
	order      domain.Order
	customer   domain.Customer
	candidates []domain.Candidate
	index      int
	active     int64
	declined   map[int64]struct{}
	acceptedBy int64
	createdAt  time.Time
	updatedAt  time.Time
}

// Store is a mutex-guarded map from order id to assignment state.
// No method performs I/O while holding the lock.
type Store struct {
	mu     sync.Mutex
	orders map[string]*state
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a Store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		orders: make(map[string]*state),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create seeds the state of an order and makes the first candidate active.
// The candidate list is copied and never reordered afterwards.
func (s *Store) Create(order domain.Order, customer domain.Customer, candidates []domain.Candidate) (domain.Assignment, error) {
	if len(candidates) == 0 {
		return domain.Assignment{}, apperr.ErrNoCandidates
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		return domain.Assignment{}, fmt.Errorf("order %q already dispatching: %w", order.ID, apperr.ErrConflict)
	}

	now := s.now()
	st := &state{
		order:      order,
		customer:   customer,
		candidates: append([]domain.Candidate(nil), candidates...),
		index:      0,
		active:     candidates[0].Courier.ID,
		declined:   make(map[int64]struct{}),
		createdAt:  now,
		updatedAt:  now,
	}
	s.orders[order.ID] = st
	return st.snapshot(), nil
}

// Next records a decline and moves the offer to the next courier that has not declined.
//
// A zero decliner advances without recording anybody. When no candidate is
// left the state is deleted and apperr.ErrCandidatesExhausted is returned
// together with the final snapshot. A decline from a courier that does not
// hold the offer is recorded but does not move the pointer.
func (s *Store) Next(orderID string, decliner int64) (domain.Candidate, domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.orders[orderID]
	if !ok {
		return domain.Candidate{}, domain.Assignment{}, apperr.ErrStaleCallback
	}
	if st.acceptedBy != 0 {
		return domain.Candidate{}, st.snapshot(), ErrAlreadyAccepted
	}

	if decliner != 0 {
		st.declined[decliner] = struct{}{}
		if st.active != decliner {
			return domain.Candidate{}, st.snapshot(), ErrNotOffered
		}
		st.active = 0
	}

	for i := st.index + 1; i < len(st.candidates); i++ {
		c := st.candidates[i]
		if _, skip := st.declined[c.Courier.ID]; skip {
			continue
		}
		st.index = i
		st.active = c.Courier.ID
		st.updatedAt = s.now()
		return c, st.snapshot(), nil
	}

	st.active = 0
	st.index = len(st.candidates)
	last := st.snapshot()
	delete(s.orders, orderID)
	return domain.Candidate{}, last, apperr.ErrCandidatesExhausted
}

// MarkAccepted records that the active courier took the order. The pointer does not move.
// Repeating the call for the same courier changes nothing and returns ErrAlreadyAccepted.
func (s *Store) MarkAccepted(orderID string, courierID int64) (domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.orders[orderID]
	if !ok {
		return domain.Assignment{}, apperr.ErrStaleCallback
	}
	if st.acceptedBy != 0 {
		if st.acceptedBy == courierID {
			return st.snapshot(), ErrAlreadyAccepted
		}
		return st.snapshot(), ErrNotOffered
	}
	if st.active == 0 || st.active != courierID {
		return st.snapshot(), ErrNotOffered
	}

	st.acceptedBy = courierID
	st.updatedAt = s.now()
	return st.snapshot(), nil
}

// Clear removes the order and returns its last snapshot.
func (s *Store) Clear(orderID string) (domain.Assignment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.orders[orderID]
	if !ok {
		return domain.Assignment{}, false
	}
	delete(s.orders, orderID)
	return st.snapshot(), true
}

// ClearAccepted removes the order only if courierID is the one that accepted it.
func (s *Store) ClearAccepted(orderID string, courierID int64) (domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.orders[orderID]
	if !ok {
		return domain.Assignment{}, apperr.ErrStaleCallback
	}
	if st.acceptedBy == 0 || st.acceptedBy != courierID {
		return st.snapshot(), ErrNotOffered
	}
	delete(s.orders, orderID)
	return st.snapshot(), nil
}

// Peek returns a copy of the order state without mutating it.
func (s *Store) Peek(orderID string) (domain.Assignment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.orders[orderID]
	if !ok {
		return domain.Assignment{}, false
	}
	return st.snapshot(), true
}

// Expire removes every unaccepted order whose offer has not moved within the ttl.
// Accepted orders stay until they are completed, cancelled or finalized.
func (s *Store) Expire(now time.Time) []domain.Assignment {
	if s.ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Assignment
	for id, st := range s.orders {
		if st.acceptedBy != 0 || now.Sub(st.updatedAt) < s.ttl {
			continue
		}
		out = append(out, st.snapshot())
		delete(s.orders, id)
	}
	return out
}

// Len returns the number of orders being dispatched.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (st *state) snapshot() domain.Assignment {
	declined := make([]int64, 0, len(st.declined))
	for _, c := range st.candidates {
		if _, ok := st.declined[c.Courier.ID]; ok {
			declined = append(declined, c.Courier.ID)
		}
	}
	return domain.Assignment{
		Order:           st.order,
		Customer:        st.customer,
		Candidates:      append([]domain.Candidate(nil), st.candidates...),
		Index:           st.index,
		ActiveCourierID: st.active,
		Declined:        declined,
		AcceptedBy:      st.acceptedBy,
		CreatedAt:       st.createdAt,
		UpdatedAt:       st.updatedAt,
	}
}
