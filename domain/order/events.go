package order

import (
	"storefront/domain/shared"
)

const EventPlaced = "order.placed"

// PlacedEvent is published after the backend accepted an order.
type PlacedEvent struct {
	shared.BaseEvent
	UserID string
	Total  float64
	Items  int
}

func NewPlacedEvent(userID string, receipt Receipt, items int) *PlacedEvent {
	return &PlacedEvent{
		BaseEvent: shared.NewBaseEvent(EventPlaced, receipt.OrderID),
		UserID:    userID,
		Total:     receipt.Total,
		Items:     items,
	}
}
