package domain

import (
	"context"
	"time"

	"equipbook/internal/models"
)

// BookingStore is the durable collection of booking records.
type BookingStore interface {
	// ReserveBooking inserts the booking after re-checking, inside one
	// transaction, that its quantity still fits under totalQuantity for
	// the requested date range.
	ReserveBooking(ctx context.Context, booking *models.Booking, totalQuantity int64) error
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]*models.Booking, error)
	ListBookingsByEquipment(ctx context.Context, equipmentID string) ([]*models.Booking, error)
	ListBookingsByStatus(ctx context.Context, status string) ([]*models.Booking, error)
	// TransitionBooking flips status from -> to, guarded on the current
	// status. ErrInvalidTransition when the booking exists in another
	// status, ErrNotFound when it does not exist.
	TransitionBooking(ctx context.Context, id, from, to string) (*models.Booking, error)
	RejectBooking(ctx context.Context, id, reason string) (*models.Booking, error)
	// CheckoutBooking and ReturnBooking flip the status and move the
	// equipment availability counter in a single transaction.
	CheckoutBooking(ctx context.Context, id string) (*models.Booking, error)
	ReturnBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateBookingDetails(ctx context.Context, id string, start, end time.Time, quantity int64, purpose string) error
	DeleteBooking(ctx context.Context, id string) error
	// SumOverlappingQuantity totals the quantity of capacity-reserving
	// bookings for the equipment whose date range overlaps [start, end],
	// skipping excludeID when non-empty.
	SumOverlappingQuantity(ctx context.Context, equipmentID string, start, end time.Time, excludeID string) (int64, error)
}

// EquipmentRegistry holds equipment items and their live availability
// counter.
type EquipmentRegistry interface {
	CreateEquipment(ctx context.Context, equipment *models.Equipment) error
	GetEquipment(ctx context.Context, id string) (*models.Equipment, error)
	ListEquipment(ctx context.Context) ([]*models.Equipment, error)
	UpdateEquipment(ctx context.Context, equipment *models.Equipment) error
	DeactivateEquipment(ctx context.Context, id string) error
	// AdjustAvailability moves the available counter by delta, failing
	// with ErrAvailabilityBounds if the result leaves [0, quantity].
	AdjustAvailability(ctx context.Context, id string, delta int64) error
}

// SessionRepository stores actor sessions keyed by opaque token.
type SessionRepository interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, token string) error
	CheckRateLimit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
