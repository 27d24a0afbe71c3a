package service

import (
	"context"
	"errors"
	"time"

	"equipbook/internal/dates"
	"equipbook/internal/domain"
	"equipbook/internal/models"
)

// CheckAvailability recomputes how many units of the equipment are
// free over [start, end] by summing all capacity-reserving bookings
// that overlap the range. excludeBookingID skips a booking being
// edited so it does not count against itself.
//
// Recomputing over the bookings rather than keeping a running counter
// stays correct across cancellations and edits; the per-item booking
// counts of a single institution keep the scan cheap.
func (s *BookingService) CheckAvailability(ctx context.Context, equipmentID string, start, end time.Time, quantity int64, excludeBookingID string) (*models.AvailabilityCheck, error) {
	equipment, err := s.registry.GetEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	return s.checkAvailability(ctx, equipment, start, end, quantity, excludeBookingID)
}

func (s *BookingService) checkAvailability(ctx context.Context, equipment *models.Equipment, start, end time.Time, quantity int64, excludeBookingID string) (*models.AvailabilityCheck, error) {
	if quantity > equipment.Quantity {
		return &models.AvailabilityCheck{Available: false, AvailableQuantity: equipment.Quantity},
			&domain.InsufficientAvailabilityError{Available: equipment.Quantity}
	}

	booked, err := s.store.SumOverlappingQuantity(ctx, equipment.ID, dates.Day(start), dates.Day(end), excludeBookingID)
	if err != nil {
		return nil, err
	}

	availableQuantity := equipment.Quantity - booked
	if quantity > availableQuantity {
		return &models.AvailabilityCheck{Available: false, AvailableQuantity: availableQuantity},
			&domain.InsufficientAvailabilityError{Available: availableQuantity}
	}

	return &models.AvailabilityCheck{Available: true, AvailableQuantity: availableQuantity}, nil
}

// AvailabilityForPeriod returns the day-by-day booked/free breakdown
// for an equipment item over days consecutive days starting at start.
func (s *BookingService) AvailabilityForPeriod(ctx context.Context, equipmentID string, start time.Time, days int) ([]*models.Availability, error) {
	equipment, err := s.registry.GetEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	var availability []*models.Availability
	for i := 0; i < days; i++ {
		day := dates.Day(start).AddDate(0, 0, i)
		booked, err := s.store.SumOverlappingQuantity(ctx, equipmentID, day, day, "")
		if err != nil {
			return nil, err
		}

		free := equipment.Quantity - booked
		if free < 0 {
			free = 0
		}

		availability = append(availability, &models.Availability{
			Date:        day,
			EquipmentID: equipmentID,
			Booked:      booked,
			Available:   free,
		})
	}
	return availability, nil
}

func isAvailabilityError(err error) bool {
	return errors.Is(err, domain.ErrNotAvailable)
}
