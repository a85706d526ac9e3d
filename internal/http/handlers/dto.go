package handlers

import (
	"time"

	"courier-dispatch/internal/domain"
)

type courierDTO struct {
	ID             int64                `json:"id"`
	ChatID         int64                `json:"chat_id,omitempty"`
	Name           string               `json:"name"`
	Phone          string               `json:"phone"`
	Status         domain.CourierStatus `json:"status"`
	Latitude       *float64             `json:"latitude,omitempty"`
	Longitude      *float64             `json:"longitude,omitempty"`
	DeliveryRadius domain.Radius        `json:"delivery_radius"`
}

type createCourierRequest struct {
	Name           string               `json:"name"`
	Phone          string               `json:"phone"`
	Status         domain.CourierStatus `json:"status"`
	ChatID         int64                `json:"chat_id"`
	Latitude       *float64             `json:"latitude"`
	Longitude      *float64             `json:"longitude"`
	DeliveryRadius domain.Radius        `json:"delivery_radius"`
}

// updateCourierRequest: an empty string radius resets it to unlimited.
type updateCourierRequest struct {
	ID             int64                 `json:"id"`
	Name           *string               `json:"name,omitempty"`
	Phone          *string               `json:"phone,omitempty"`
	Status         *domain.CourierStatus `json:"status,omitempty"`
	ChatID         *int64                `json:"chat_id,omitempty"`
	Latitude       *float64              `json:"latitude,omitempty"`
	Longitude      *float64              `json:"longitude,omitempty"`
	DeliveryRadius *domain.Radius        `json:"delivery_radius,omitempty"`
}

type customerDTO struct {
	ID        string   `json:"id"`
	ChatID    int64    `json:"chat_id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type productDTO struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

type orderDTO struct {
	ID      string     `json:"id"`
	Product productDTO `json:"product"`
}

type dispatchOrderRequest struct {
	Customer customerDTO `json:"customer"`
	Order    orderDTO    `json:"order"`
}

type dispatchOrderResponse struct {
	OrderID        string  `json:"order_id"`
	CourierID      int64   `json:"courier_id"`
	CourierChatID  int64   `json:"courier_chat_id"`
	DistanceMeters float64 `json:"distance_meters"`
	WithinRadius   bool    `json:"within_radius"`
	SynthesizedID  bool    `json:"synthesized_id"`
}

type decisionRequest struct {
	OrderID   string              `json:"order_id"`
	CourierID int64               `json:"courier_id"`
	Decision  domain.DecisionKind `json:"decision"`
}

type completeRequest struct {
	CourierID int64 `json:"courier_id"`
}

type outcomeResponse struct {
	OrderID   string         `json:"order_id"`
	Outcome   domain.Outcome `json:"outcome"`
	CourierID int64          `json:"courier_id,omitempty"`
}

type candidateDTO struct {
	CourierID      int64   `json:"courier_id"`
	DistanceMeters float64 `json:"distance_meters"`
	WithinRadius   bool    `json:"within_radius"`
}

type assignmentResponse struct {
	OrderID         string         `json:"order_id"`
	SynthesizedID   bool           `json:"synthesized_id"`
	CustomerID      string         `json:"customer_id"`
	Product         productDTO     `json:"product"`
	Candidates      []candidateDTO `json:"candidates"`
	ActiveCourierID int64          `json:"active_courier_id,omitempty"`
	AcceptedBy      int64          `json:"accepted_by,omitempty"`
	Declined        []int64        `json:"declined"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
