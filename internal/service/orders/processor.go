// Package orders turns order lifecycle events into dispatch operations.
package orders

import (
	"context"
	"errors"
	"fmt"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/logx"
)

// Processor processes orders events
type Processor struct {
	dispatch DispatchPort
	logger   logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a new orders.Processor
func NewProcessor(d DispatchPort, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{dispatch: d, logger: logger}
	p.factory = newActionFactory(p.onCreated, p.onCanceled, p.onCompleted)
	return p
}

// Handle processes a single orders.Event. Unknown statuses are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.logger.Debug("order event ignored",
			logx.String("order_id", e.OrderID),
			logx.String("status", e.Status),
		)
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	if e.Dispatch == nil {
		return fmt.Errorf("created event %q without dispatch payload: %w", e.OrderID, apperr.ErrInvalid)
	}
	req := *e.Dispatch
	req.OrderID = e.OrderID

	_, err := p.dispatch.Dispatch(ctx, req)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperr.ErrConflict):
		// redelivered event for an order already being dispatched
		return nil
	case errors.Is(err, apperr.ErrNoCandidates):
		p.logger.Warn("order event not dispatched",
			logx.String("order_id", e.OrderID),
			logx.Any("err", err),
		)
		return nil
	default:
		return err
	}
}

func (p *Processor) onCanceled(ctx context.Context, e Event) error {
	_, err := p.dispatch.Cancel(ctx, e.OrderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}

func (p *Processor) onCompleted(ctx context.Context, e Event) error {
	return p.dispatch.Finalize(ctx, e.OrderID)
}
