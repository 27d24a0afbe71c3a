package models

import "time"

type Booking struct {
	ID              string     `json:"id"`
	EquipmentID     string     `json:"equipment_id"`
	EquipmentName   string     `json:"equipment_name"`
	UserID          string     `json:"user_id"`
	UserName        string     `json:"user_name"`
	UserEmail       string     `json:"user_email"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	Quantity        int64      `json:"quantity"`
	Purpose         string     `json:"purpose"`
	Status          string     `json:"status"` // pending, approved, rejected, active, completed, cancelled
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CheckedOutAt    *time.Time `json:"checked_out_at,omitempty"`
	ReturnedAt      *time.Time `json:"returned_at,omitempty"`
}

// IsTerminal reports whether the booking can no longer change status.
func (b *Booking) IsTerminal() bool {
	return IsTerminalStatus(b.Status)
}

// ReservesCapacity reports whether the booking counts against
// equipment capacity for its date range.
func (b *Booking) ReservesCapacity() bool {
	return ReservesCapacity(b.Status)
}
