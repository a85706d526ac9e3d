// Package courier manages the courier registry that dispatch selects from.
package courier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
)

// Service coordinates courier business logic and orchestrates repository calls.
type Service struct {
	repo             courierRepository
	operationTimeout time.Duration
}

// NewService creates and configures a courier Service.
func NewService(r courierRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func invalid(field string) error {
	return fmt.Errorf("%s: %w", field, apperr.ErrInvalid)
}

// validateCreate validates a courier for creation and fills the default status.
func validateCreate(c *domain.Courier) error {
	if c == nil {
		return apperr.ErrInvalid
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name")
	}
	if !domain.ValidatePhone(c.Phone) {
		return invalid("phone")
	}
	if c.Status == "" {
		c.Status = domain.StatusAvailable
	}
	if !c.Status.Valid() {
		return invalid("status")
	}
	if c.ChatID < 0 {
		return invalid("chat_id")
	}
	if c.Location != nil && !c.Location.Valid() {
		return invalid("location")
	}
	if !c.Radius.Valid() {
		return invalid("delivery_radius")
	}
	return nil
}

func validateUpdate(u *domain.PartialCourierUpdate) error {
	if u.ID <= 0 {
		return invalid("id")
	}
	if u.Empty() {
		return apperr.ErrInvalid
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return invalid("name")
	}
	if u.Phone != nil && !domain.ValidatePhone(*u.Phone) {
		return invalid("phone")
	}
	if u.Status != nil && !u.Status.Valid() {
		return invalid("status")
	}
	if u.ChatID != nil && *u.ChatID <= 0 {
		return invalid("chat_id")
	}
	if u.Location != nil && !u.Location.Valid() {
		return invalid("location")
	}
	if u.Radius != nil && !u.Radius.Valid() {
		return invalid("delivery_radius")
	}
	return nil
}

// Get retrieves a courier by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.ErrNotFound
	}
	return c, nil
}

// List returns couriers with optional pagination
func (s *Service) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, limit, offset)
}

// ListDispatchable returns couriers that may receive offers right now.
func (s *Service) ListDispatchable(ctx context.Context) ([]domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	list, err := s.repo.ListDispatchable(ctx)
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for _, c := range list {
		if c.Dispatchable() {
			out = append(out, c)
		}
	}
	return out, nil
}

// Create persists a new courier and returns its generated ID.
func (s *Service) Create(ctx context.Context, c *domain.Courier) (int64, error) {
	if err := validateCreate(c); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, c)
}

// UpdatePartial applies a partial update to a courier. It returns true if a row was updated.
func (s *Service) UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) (bool, error) {
	if err := validateUpdate(&u); err != nil {
		return false, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.UpdatePartial(ctx, u)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, apperr.ErrNotFound
	}
	return true, nil
}
