package handlers

import (
	"context"

	"courier-dispatch/internal/domain"
)

type courierUsecase interface {
	Get(ctx context.Context, id int64) (*domain.Courier, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Courier, error)
	Create(ctx context.Context, c *domain.Courier) (int64, error)
	UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) (bool, error)
}

type dispatchUsecase interface {
	Dispatch(ctx context.Context, req domain.DispatchRequest) (domain.DispatchResult, error)
	Decide(ctx context.Context, d domain.Decision) (domain.DecisionResult, error)
	Cancel(ctx context.Context, orderID string) (domain.DecisionResult, error)
	Complete(ctx context.Context, orderID string, courierID int64) (domain.DecisionResult, error)
	Lookup(orderID string) (domain.Assignment, error)
}
