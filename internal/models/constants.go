package models

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	// DefaultMaxAdvanceDays is how far ahead a booking may start.
	DefaultMaxAdvanceDays = 90

	// DefaultSessionTTL is the session lifetime in seconds.
	DefaultSessionTTL = 24 * 60 * 60

	// RateLimitCommands is the number of commands allowed per window.
	RateLimitCommands = 20

	// RateLimitWindow is the rate limit window in seconds.
	RateLimitWindow = 60
)

// IsTerminalStatus reports whether a status permits no further transitions.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ReservesCapacity reports whether bookings in this status count
// against equipment capacity. Rejected and cancelled bookings release
// their units immediately.
func ReservesCapacity(status string) bool {
	return status != StatusCancelled && status != StatusRejected
}

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
