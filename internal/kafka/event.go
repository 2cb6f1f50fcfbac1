package kafka

import "time"

type EventType string

const (
	EventTypeSearch           EventType = "search"
	EventTypeView             EventType = "view"
	EventTypeAddToBasket      EventType = "addToBasket"
	EventTypeRemoveFromBasket EventType = "removeFromBasket"
)

type Event struct {
	UserID     string    `json:"user_id"`
	Type       EventType `json:"type"`
	Categories []int     `json:"categories,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
