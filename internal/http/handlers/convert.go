package handlers

import (
	"strings"

	"courier-dispatch/internal/domain"
)

func (req createCourierRequest) toModel() (*domain.Courier, bool) {
	loc, ok := coordinate(req.Latitude, req.Longitude)
	if !ok {
		return nil, false
	}
	return &domain.Courier{
		Name:     req.Name,
		Phone:    req.Phone,
		Status:   req.Status,
		ChatID:   req.ChatID,
		Location: loc,
		Radius:   req.DeliveryRadius,
	}, true
}

func (req updateCourierRequest) toModel() (domain.PartialCourierUpdate, bool) {
	loc, ok := coordinate(req.Latitude, req.Longitude)
	if !ok {
		return domain.PartialCourierUpdate{}, false
	}
	return domain.PartialCourierUpdate{
		ID:       req.ID,
		Name:     req.Name,
		Phone:    req.Phone,
		Status:   req.Status,
		ChatID:   req.ChatID,
		Location: loc,
		Radius:   req.DeliveryRadius,
	}, true
}

// coordinate accepts both parts or neither; a single part or an out of range
// value is rejected.
func coordinate(lat, lon *float64) (*domain.Coordinate, bool) {
	if lat == nil && lon == nil {
		return nil, true
	}
	c := domain.NewCoordinate(lat, lon)
	return c, c != nil
}

func modelToResponse(c domain.Courier) courierDTO {
	out := courierDTO{
		ID:             c.ID,
		ChatID:         c.ChatID,
		Name:           c.Name,
		Phone:          c.Phone,
		Status:         c.Status,
		DeliveryRadius: c.Radius,
	}
	if c.Location != nil {
		lat, lon := c.Location.Lat, c.Location.Lon
		out.Latitude, out.Longitude = &lat, &lon
	}
	return out
}

func modelsToResponse(list []domain.Courier) []courierDTO {
	out := make([]courierDTO, 0, len(list))
	for _, c := range list {
		out = append(out, modelToResponse(c))
	}
	return out
}

func (req dispatchOrderRequest) toModel() domain.DispatchRequest {
	c := req.Customer
	return domain.DispatchRequest{
		OrderID: req.Order.ID,
		Customer: domain.Customer{
			ID:       c.ID,
			ChatID:   c.ChatID,
			Name:     c.Name,
			Phone:    c.Phone,
			Address:  c.Address,
			Location: domain.NewCoordinate(c.Latitude, c.Longitude),
		},
		Product: domain.Product{
			Name:     req.Order.Product.Name,
			Quantity: req.Order.Product.Quantity,
		},
	}
}

func dispatchResultToResponse(res domain.DispatchResult) dispatchOrderResponse {
	return dispatchOrderResponse{
		OrderID:        res.Order.ID,
		CourierID:      res.Candidate.Courier.ID,
		CourierChatID:  res.Candidate.Courier.ChatID,
		DistanceMeters: res.Candidate.DistanceMeters,
		WithinRadius:   res.Candidate.WithinRadius,
		SynthesizedID:  res.Order.Synthesized,
	}
}

func outcomeToResponse(res domain.DecisionResult) outcomeResponse {
	out := outcomeResponse{OrderID: res.OrderID, Outcome: res.Outcome}
	if res.Next != nil {
		out.CourierID = res.Next.Courier.ID
	}
	return out
}

func assignmentToResponse(a domain.Assignment) assignmentResponse {
	cands := make([]candidateDTO, 0, len(a.Candidates))
	for _, c := range a.Candidates {
		cands = append(cands, candidateDTO{
			CourierID:      c.Courier.ID,
			DistanceMeters: c.DistanceMeters,
			WithinRadius:   c.WithinRadius,
		})
	}
	declined := a.Declined
	if declined == nil {
		declined = []int64{}
	}
	return assignmentResponse{
		OrderID:       a.Order.ID,
		SynthesizedID: a.Order.Synthesized,
		CustomerID:    a.Customer.ID,
		Product: productDTO{
			Name:     a.Order.Product.Name,
			Quantity: a.Order.Product.Quantity,
		},
		Candidates:      cands,
		ActiveCourierID: a.ActiveCourierID,
		AcceptedBy:      a.AcceptedBy,
		Declined:        declined,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func domainDecision(req decisionRequest) domain.Decision {
	return domain.Decision{
		OrderID:   strings.TrimSpace(req.OrderID),
		CourierID: req.CourierID,
		Kind:      req.Decision,
	}
}
