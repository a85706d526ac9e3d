// Package dispatch drives the per-order offer state machine:
// PENDING_DISPATCH -> OFFERED -> ACCEPTED | OFFERED(next) | EXHAUSTED.
//
// Store mutations always happen before any outbound call. Notification,
// bookkeeping and status sync failures are logged and never undo a transition.
package dispatch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/metrics"
	"courier-dispatch/internal/ports/offertx"
	"courier-dispatch/internal/service/assignment"
	"courier-dispatch/internal/service/selector"
)

// Config bounds the outbound calls made by the Service.
type Config struct {
	NotifyTimeout time.Duration
	StatusTimeout time.Duration
	StoreTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = 15 * time.Second
	}
	if c.StatusTimeout <= 0 {
		c.StatusTimeout = 30 * time.Second
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 3 * time.Second
	}
	return c
}

// Deps are the collaborators of the Service. Offers and Metrics may be nil.
type Deps struct {
	Store    *assignment.Store
	Couriers CourierSource
	Notifier Notifier
	Status   StatusPusher
	Offers   OfferRecorder
	Metrics  *metrics.Dispatch
	Logger   logx.Logger
}

// Service coordinates dispatch of orders to couriers.
type Service struct {
	store    *assignment.Store
	couriers CourierSource
	notifier Notifier
	status   StatusPusher
	offers   OfferRecorder
	metrics  *metrics.Dispatch
	logger   logx.Logger
	cfg      Config

	now   func() time.Time
	newID func() string
	wg    sync.WaitGroup
}

// NewService creates a dispatch Service.
func NewService(d Deps, cfg Config) *Service {
	logger := d.Logger
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		store:    d.Store,
		couriers: d.Couriers,
		notifier: d.Notifier,
		status:   d.Status,
		offers:   d.Offers,
		metrics:  d.Metrics,
		logger:   logger,
		cfg:      cfg.withDefaults(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    newOrderSuffix,
	}
}

// Dispatch enters a new order and offers it to the nearest eligible courier.
func (s *Service) Dispatch(ctx context.Context, req domain.DispatchRequest) (domain.DispatchResult, error) {
	order, err := s.resolveOrder(req)
	if err != nil {
		return domain.DispatchResult{}, err
	}

	listCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	couriers, err := s.couriers.ListDispatchable(listCtx)
	cancel()
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("list couriers: %w", err)
	}

	candidates := selector.Select(req.Customer.Location, couriers)
	a, err := s.store.Create(order, req.Customer, candidates)
	if err != nil {
		if errors.Is(err, apperr.ErrNoCandidates) {
			s.metrics.Outcome("no_candidates")
			s.logger.Warn("no courier within range",
				logx.String("event", "order_no_candidates"),
				logx.String("order_id", order.ID),
				logx.Int("couriers", len(couriers)),
			)
		}
		return domain.DispatchResult{}, err
	}
	s.metrics.SetActive(s.store.Len())

	first, _ := a.Active()
	s.offer(ctx, a.Order, a.Customer, first)

	return domain.DispatchResult{Order: a.Order, Candidate: first}, nil
}

// Decide applies a courier reply.
func (s *Service) Decide(ctx context.Context, d domain.Decision) (domain.DecisionResult, error) {
	switch d.Kind {
	case domain.DecisionAccept:
		return s.Accept(ctx, d.OrderID, d.CourierID)
	case domain.DecisionDecline:
		return s.Decline(ctx, d.OrderID, d.CourierID)
	default:
		return domain.DecisionResult{}, fmt.Errorf("decision %q: %w", d.Kind, apperr.ErrInvalid)
	}
}

// Decline moves the order to the next courier. When nobody is left the order
// is cancelled upstream and apperr.ErrCandidatesExhausted is returned.
// Declines for unknown, accepted or not-offered orders are ignored.
func (s *Service) Decline(ctx context.Context, orderID string, courierID int64) (domain.DecisionResult, error) {
	res := domain.DecisionResult{OrderID: orderID}

	next, a, err := s.store.Next(orderID, courierID)
	switch {
	case err == nil:
		s.logger.Info("order declined",
			logx.String("event", "order_declined"),
			logx.String("order_id", orderID),
			logx.Int64("courier_id", courierID),
		)
		s.metrics.Outcome("declined")
		s.markOffer(ctx, orderID, courierID, domain.OfferDeclined)
		s.offer(ctx, a.Order, a.Customer, next)
		res.Outcome = domain.OutcomeOffered
		res.Next = &next
		return res, nil

	case errors.Is(err, apperr.ErrCandidatesExhausted):
		s.metrics.Outcome("exhausted")
		s.metrics.SetActive(s.store.Len())
		s.logger.Warn("all candidates declined",
			logx.String("event", "order_exhausted"),
			logx.String("order_id", orderID),
			logx.Int("candidates", len(a.Candidates)),
		)
		s.markOffer(ctx, orderID, courierID, domain.OfferDeclined)
		s.pushStatus(a, domain.OrderCancelled, "")
		res.Outcome = domain.OutcomeExhausted
		return res, err

	case isIgnorable(err):
		s.ignored(orderID, courierID, domain.DecisionDecline, err)
		res.Outcome = domain.OutcomeIgnored
		return res, nil

	default:
		return res, err
	}
}

// Accept records that the courier holding the offer took the order.
// An accept from any other courier is a conflict.
func (s *Service) Accept(ctx context.Context, orderID string, courierID int64) (domain.DecisionResult, error) {
	res := domain.DecisionResult{OrderID: orderID}

	a, err := s.store.MarkAccepted(orderID, courierID)
	switch {
	case err == nil:
	case errors.Is(err, assignment.ErrAlreadyAccepted):
		res.Outcome = domain.OutcomeAccepted
		return res, nil
	case errors.Is(err, assignment.ErrNotOffered):
		s.ignored(orderID, courierID, domain.DecisionAccept, err)
		return res, fmt.Errorf("order %q courier %d: %w", orderID, courierID, apperr.ErrConflict)
	case errors.Is(err, apperr.ErrStaleCallback):
		s.ignored(orderID, courierID, domain.DecisionAccept, err)
		res.Outcome = domain.OutcomeIgnored
		return res, nil
	default:
		return res, err
	}

	s.metrics.Outcome("accepted")
	s.logger.Info("order accepted",
		logx.String("event", "order_accepted"),
		logx.String("order_id", orderID),
		logx.Int64("courier_id", courierID),
	)
	s.record(ctx, orderID, func(ctx context.Context, tx offertx.Repository) error {
		if _, err := tx.UpdateOfferStatus(ctx, orderID, courierID, domain.OfferAccepted); err != nil {
			return err
		}
		return tx.UpdateCourierStatus(ctx, courierID, domain.StatusBusy)
	})
	s.pushStatus(a, domain.OrderProcessing, "")

	res.Outcome = domain.OutcomeAccepted
	return res, nil
}

// Complete finishes an order accepted by courierID and reports it upstream
// together with the courier phone.
func (s *Service) Complete(ctx context.Context, orderID string, courierID int64) (domain.DecisionResult, error) {
	res := domain.DecisionResult{OrderID: orderID}

	a, err := s.store.ClearAccepted(orderID, courierID)
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrStaleCallback):
		return s.completeRecorded(ctx, orderID, courierID)
	case errors.Is(err, assignment.ErrNotOffered):
		return res, fmt.Errorf("order %q not accepted by courier %d: %w", orderID, courierID, apperr.ErrConflict)
	default:
		return res, err
	}
	s.metrics.SetActive(s.store.Len())
	s.metrics.Outcome("completed")
	s.logger.Info("order completed",
		logx.String("event", "order_completed"),
		logx.String("order_id", orderID),
		logx.Int64("courier_id", courierID),
	)

	s.releaseAccepted(ctx, orderID, domain.OfferCompleted)

	phone := ""
	if c, ok := a.Active(); ok {
		phone = c.Courier.Phone
	}
	s.pushStatus(a, domain.OrderCompleted, phone)

	res.Outcome = domain.OutcomeCompleted
	return res, nil
}

// completeRecorded finishes an accepted order that is no longer held in
// memory, for example after a restart, using the accepted offer record.
func (s *Service) completeRecorded(ctx context.Context, orderID string, courierID int64) (domain.DecisionResult, error) {
	res := domain.DecisionResult{OrderID: orderID}

	var (
		rec      *domain.OfferRecord
		conflict bool
	)
	err := s.record(ctx, orderID, func(ctx context.Context, tx offertx.Repository) error {
		found, err := tx.AcceptedOffer(ctx, orderID)
		if err != nil || found == nil {
			return err
		}
		if found.CourierID != courierID {
			conflict = true
			return nil
		}
		if _, err := tx.UpdateOfferStatus(ctx, orderID, courierID, domain.OfferCompleted); err != nil {
			return err
		}
		if err := tx.UpdateCourierStatus(ctx, courierID, domain.StatusAvailable); err != nil {
			return err
		}
		rec = found
		return nil
	})
	switch {
	case err != nil:
		return res, err
	case conflict:
		return res, fmt.Errorf("order %q not accepted by courier %d: %w", orderID, courierID, apperr.ErrConflict)
	case rec == nil:
		return res, fmt.Errorf("order %q: %w", orderID, apperr.ErrNotFound)
	}

	s.metrics.Outcome("completed")
	s.logger.Info("order completed",
		logx.String("event", "order_completed"),
		logx.String("order_id", orderID),
		logx.Int64("courier_id", courierID),
		logx.String("source", "offer_record"),
	)

	phone := ""
	if c, err := s.couriers.Get(ctx, courierID); err != nil {
		s.logger.Warn("courier lookup failed, completing without phone",
			logx.Int64("courier_id", courierID),
			logx.Any("err", err),
		)
	} else if c != nil {
		phone = c.Phone
	}
	a := domain.Assignment{
		Order:    domain.Order{ID: orderID, Synthesized: domain.IsSynthesizedOrderID(orderID)},
		Customer: domain.Customer{ID: rec.CustomerID},
	}
	s.pushStatus(a, domain.OrderCompleted, phone)

	res.Outcome = domain.OutcomeCompleted
	return res, nil
}

// Cancel stops dispatch of an order cancelled outside of dispatch.
// Nothing is pushed upstream since the cancellation came from there.
func (s *Service) Cancel(ctx context.Context, orderID string) (domain.DecisionResult, error) {
	res := domain.DecisionResult{OrderID: orderID, Outcome: domain.OutcomeCancelled}

	a, ok := s.store.Clear(orderID)
	if ok {
		s.metrics.SetActive(s.store.Len())
		s.metrics.Outcome("cancelled")
		s.logger.Info("order cancelled",
			logx.String("event", "order_cancelled"),
			logx.String("order_id", orderID),
			logx.Int64("courier_id", a.ActiveCourierID),
		)
		if !a.Accepted() && a.ActiveCourierID != 0 {
			s.markOffer(ctx, orderID, a.ActiveCourierID, domain.OfferCancelled)
		}
	}

	released, err := s.releaseAccepted(ctx, orderID, domain.OfferCancelled)
	if ok || released {
		return res, nil
	}
	if err != nil {
		return domain.DecisionResult{OrderID: orderID}, err
	}
	return domain.DecisionResult{OrderID: orderID}, fmt.Errorf("order %q: %w", orderID, apperr.ErrNotFound)
}

// Finalize drops the order after the order lifecycle reported completion and
// frees the courier that carried it.
func (s *Service) Finalize(ctx context.Context, orderID string) error {
	if a, ok := s.store.Clear(orderID); ok {
		s.metrics.SetActive(s.store.Len())
		s.logger.Info("order finalized",
			logx.String("event", "order_finalized"),
			logx.String("order_id", orderID),
			logx.Int64("courier_id", a.AcceptedBy),
		)
		if !a.Accepted() && a.ActiveCourierID != 0 {
			s.markOffer(ctx, orderID, a.ActiveCourierID, domain.OfferCancelled)
		}
	}
	_, err := s.releaseAccepted(ctx, orderID, domain.OfferCompleted)
	return err
}

// ExpireStale drops orders nobody acted on within the store ttl. Orders that
// were never accepted are cancelled upstream. It returns the number of orders removed.
func (s *Service) ExpireStale(ctx context.Context) int {
	expired := s.store.Expire(s.now())
	if len(expired) == 0 {
		return 0
	}
	s.metrics.SetActive(s.store.Len())

	for _, a := range expired {
		s.metrics.Outcome("expired")
		s.logger.Warn("order expired",
			logx.String("event", "order_expired"),
			logx.String("order_id", a.Order.ID),
			logx.Int64("courier_id", a.ActiveCourierID),
			logx.Int64("accepted_by", a.AcceptedBy),
			logx.Time("updated_at", a.UpdatedAt),
		)
		if a.Accepted() {
			continue
		}
		if a.ActiveCourierID != 0 {
			s.markOffer(ctx, a.Order.ID, a.ActiveCourierID, domain.OfferExpired)
		}
		s.pushStatus(a, domain.OrderCancelled, "")
	}
	return len(expired)
}

// Lookup returns the current dispatch state of an order.
func (s *Service) Lookup(orderID string) (domain.Assignment, error) {
	a, ok := s.store.Peek(orderID)
	if !ok {
		return domain.Assignment{}, fmt.Errorf("order %q: %w", orderID, apperr.ErrNotFound)
	}
	return a, nil
}

// Wait blocks until background status pushes finish.
func (s *Service) Wait() { s.wg.Wait() }

// newOrderSuffix keeps synthesized ids short enough for chat button payloads.
func newOrderSuffix() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

func (s *Service) resolveOrder(req domain.DispatchRequest) (domain.Order, error) {
	product := req.Product
	if strings.TrimSpace(product.Name) == "" {
		product.Name = domain.DefaultProductName
	}
	if product.Quantity < 0 {
		return domain.Order{}, fmt.Errorf("quantity %v: %w", product.Quantity, apperr.ErrInvalid)
	}

	if id := strings.TrimSpace(req.OrderID); id != "" {
		return domain.Order{ID: id, Product: product}, nil
	}

	key := strings.TrimSpace(req.Customer.ID)
	if key == "" && req.Customer.ChatID != 0 {
		key = strconv.FormatInt(req.Customer.ChatID, 10)
	}
	if key == "" {
		return domain.Order{}, fmt.Errorf("order without id and customer: %w", apperr.ErrInvalid)
	}

	id := domain.SynthesizedOrderPrefix + s.newID()
	s.logger.Warn("order id synthesized",
		logx.String("event", "order_id_synthesized"),
		logx.String("order_id", id),
		logx.String("customer_key", key),
	)
	return domain.Order{ID: id, Synthesized: true, Product: product}, nil
}

func (s *Service) offer(ctx context.Context, order domain.Order, customer domain.Customer, c domain.Candidate) {
	o := domain.Offer{Order: order, Customer: customer, Candidate: c}

	s.metrics.Offered()
	s.logger.Info("order offered",
		logx.String("event", "order_offered"),
		logx.String("order_id", order.ID),
		logx.Int64("courier_id", c.Courier.ID),
		logx.Any("distance_meters", c.DistanceMeters),
	)

	rec := domain.NewOfferRecord(o)
	s.record(ctx, order.ID, func(ctx context.Context, tx offertx.Repository) error {
		return tx.SaveOffer(ctx, &rec)
	})

	if s.notifier == nil {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()
	if err := s.notifier.Offer(nctx, o); err != nil {
		s.logger.Error("offer notification failed",
			logx.String("order_id", order.ID),
			logx.Int64("courier_id", c.Courier.ID),
			logx.Any("err", fmt.Errorf("%w: %w", apperr.ErrNotificationDelivery, err)),
		)
	}
}

func (s *Service) markOffer(ctx context.Context, orderID string, courierID int64, status domain.OfferStatus) {
	s.record(ctx, orderID, func(ctx context.Context, tx offertx.Repository) error {
		_, err := tx.UpdateOfferStatus(ctx, orderID, courierID, status)
		return err
	})
}

// releaseAccepted closes the accepted offer of an order and frees its courier.
// It reports whether such an offer existed.
func (s *Service) releaseAccepted(ctx context.Context, orderID string, status domain.OfferStatus) (bool, error) {
	released := false
	err := s.record(ctx, orderID, func(ctx context.Context, tx offertx.Repository) error {
		rec, err := tx.AcceptedOffer(ctx, orderID)
		if err != nil || rec == nil {
			return err
		}
		if _, err := tx.UpdateOfferStatus(ctx, orderID, rec.CourierID, status); err != nil {
			return err
		}
		if err := tx.UpdateCourierStatus(ctx, rec.CourierID, domain.StatusAvailable); err != nil {
			return err
		}
		released = true
		return nil
	})
	return released, err
}

func (s *Service) record(ctx context.Context, orderID string, fn func(context.Context, offertx.Repository) error) error {
	if s.offers == nil {
		return nil
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.StoreTimeout)
	defer cancel()

	err := s.offers.WithTx(rctx, func(tx offertx.Repository) error { return fn(rctx, tx) })
	if err != nil {
		s.logger.Error("offer bookkeeping failed",
			logx.String("order_id", orderID),
			logx.Any("err", err),
		)
	}
	return err
}

func (s *Service) pushStatus(a domain.Assignment, status domain.OrderStatus, phone string) {
	if s.status == nil {
		return
	}
	if a.Order.Synthesized {
		s.logger.Debug("status sync skipped for synthesized order",
			logx.String("order_id", a.Order.ID),
			logx.String("status", string(status)),
		)
		return
	}

	update := domain.StatusUpdate{
		CustomerID: a.Customer.ID,
		OrderID:    a.Order.ID,
		Status:     status,
		Phone:      phone,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StatusTimeout)
		defer cancel()
		if err := s.status.Push(ctx, update); err != nil {
			s.logger.Error("status sync failed",
				logx.String("order_id", update.OrderID),
				logx.String("status", string(update.Status)),
				logx.Any("err", fmt.Errorf("%w: %w", apperr.ErrStatusSync, err)),
			)
		}
	}()
}

func (s *Service) ignored(orderID string, courierID int64, kind domain.DecisionKind, reason error) {
	s.metrics.Outcome("ignored")
	s.logger.Info("decision ignored",
		logx.String("event", "stale_callback"),
		logx.String("order_id", orderID),
		logx.Int64("courier_id", courierID),
		logx.String("decision", string(kind)),
		logx.String("reason", reason.Error()),
	)
}

func isIgnorable(err error) bool {
	return errors.Is(err, apperr.ErrStaleCallback) ||
		errors.Is(err, assignment.ErrAlreadyAccepted) ||
		errors.Is(err, assignment.ErrNotOffered)
}
