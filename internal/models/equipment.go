package models

import "time"

type Equipment struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Category    string    `yaml:"category" json:"category"`
	Quantity    int64     `yaml:"quantity" json:"quantity"`
	Available   int64     `yaml:"available" json:"available"`
	IsActive    bool      `yaml:"is_active" json:"is_active"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
}

// Availability is the per-day booked/free breakdown for one equipment item.
type Availability struct {
	Date        time.Time `json:"date"`
	EquipmentID string    `json:"equipment_id"`
	Booked      int64     `json:"booked"`
	Available   int64     `json:"available"`
}

// AvailabilityCheck is the result of a date-range availability query.
// AvailableQuantity is the number of units free over the whole range.
type AvailabilityCheck struct {
	Available         bool  `json:"available"`
	AvailableQuantity int64 `json:"available_quantity"`
}
