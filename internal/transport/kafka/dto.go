package kafka

import (
	"strings"
	"time"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/service/orders"
)

// EventDTO is a data transfer object for orders.Event
type EventDTO struct {
	OrderID   string       `json:"order_id"`
	Status    string       `json:"status"`
	CourierID int64        `json:"courier_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Dispatch  *DispatchDTO `json:"dispatch,omitempty"`
}

// DispatchDTO carries what a created order needs for dispatch.
type DispatchDTO struct {
	Customer CustomerDTO `json:"customer"`
	Product  ProductDTO  `json:"product"`
}

// CustomerDTO describes the ordering customer.
type CustomerDTO struct {
	ID        string   `json:"id"`
	ChatID    int64    `json:"chat_id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ProductDTO describes the ordered product.
type ProductDTO struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// ToDomain converts EventDTO to orders.Event
func ToDomain(dto EventDTO) orders.Event {
	ev := orders.Event{
		OrderID:   strings.TrimSpace(dto.OrderID),
		Status:    strings.TrimSpace(dto.Status),
		CourierID: dto.CourierID,
		CreatedAt: dto.CreatedAt,
	}
	if d := dto.Dispatch; d != nil {
		ev.Dispatch = &domain.DispatchRequest{
			OrderID: ev.OrderID,
			Customer: domain.Customer{
				ID:       strings.TrimSpace(d.Customer.ID),
				ChatID:   d.Customer.ChatID,
				Name:     strings.TrimSpace(d.Customer.Name),
				Phone:    strings.TrimSpace(d.Customer.Phone),
				Address:  strings.TrimSpace(d.Customer.Address),
				Location: domain.NewCoordinate(d.Customer.Latitude, d.Customer.Longitude),
			},
			Product: domain.Product{
				Name:     strings.TrimSpace(d.Product.Name),
				Quantity: d.Product.Quantity,
			},
		}
	}
	return ev
}
