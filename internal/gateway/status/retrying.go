package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

type pusher interface {
	Push(context.Context, domain.StatusUpdate) error
}

type counter interface {
	Inc()
}

// RetryConfig описывает поведение RetryingClient
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// RetryingClient повторяет Push с фиксированной задержкой
type RetryingClient struct {
	next    pusher
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	sleep   func(context.Context, time.Duration) bool
}

// NewRetryingClient returns nil when next is nil.
func NewRetryingClient(next pusher, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingClient {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RetryingClient{next: next, logger: logger, retries: retries, cfg: cfg, sleep: sleepWithContext}
}

// Push makes up to MaxAttempts attempts and returns the last error.
func (c *RetryingClient) Push(ctx context.Context, u domain.StatusUpdate) error {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		err := c.next.Push(ctx, u)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("status sync recovered",
					logx.String("order_id", u.OrderID),
					logx.Int("attempt", attempt),
				)
			}
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == c.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		if c.retries != nil {
			c.retries.Inc()
		}
		c.logger.Warn("status sync retry",
			logx.String("order_id", u.OrderID),
			logx.String("status", string(u.Status)),
			logx.Int("attempt", attempt),
			logx.Duration("delay", c.cfg.Delay),
			logx.Any("err", err),
		)
		if !c.sleep(ctx, c.cfg.Delay) {
			break
		}
	}
	return lastErr
}

// isRetryable определяет, является ли ошибка повторяемой
func isRetryable(err error) bool {
	var hs *HTTPStatusError
	if errors.As(err, &hs) {
		return hs.Code == http.StatusTooManyRequests || hs.Code >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, ErrMissingIDs)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
