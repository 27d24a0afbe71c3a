package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated    = "booking_created"
	EventBookingApproved   = "booking_approved"
	EventBookingRejected   = "booking_rejected"
	EventBookingCheckedOut = "booking_checked_out"
	EventBookingReturned   = "booking_returned"
	EventBookingCancelled  = "booking_cancelled"
	EventBookingUpdated    = "booking_updated"
	EventBookingDeleted    = "booking_deleted"
)

// BookingEventPayload is the booking snapshot handed to event consumers.
type BookingEventPayload struct {
	BookingID     string    `json:"booking_id"`
	EquipmentID   string    `json:"equipment_id"`
	EquipmentName string    `json:"equipment_name"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	Status        string    `json:"status"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Quantity      int64     `json:"quantity"`
	ActorID       string    `json:"actor_id,omitempty"`
	ActorRole     string    `json:"actor_role,omitempty"`
}

// Event is a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handlers run
// synchronously; the caller decides the concurrency model.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
