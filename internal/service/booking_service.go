package service

import (
	"context"
	"fmt"
	"time"

	"equipbook/internal/dates"
	"equipbook/internal/domain"
	"equipbook/internal/events"
	"equipbook/internal/metrics"
	"equipbook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService drives the booking lifecycle: it validates commands,
// enforces role and ownership gates, checks availability, and persists
// transitions through the store.
type BookingService struct {
	store          domain.BookingStore
	registry       domain.EquipmentRegistry
	eventBus       domain.EventPublisher
	maxAdvanceDays int
	logger         *zerolog.Logger
	now            func() time.Time
}

func NewBookingService(store domain.BookingStore, registry domain.EquipmentRegistry, eventBus domain.EventPublisher, maxAdvanceDays int, logger *zerolog.Logger) *BookingService {
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	return &BookingService{
		store:          store,
		registry:       registry,
		eventBus:       eventBus,
		maxAdvanceDays: maxAdvanceDays,
		logger:         logger,
		now:            time.Now,
	}
}

type CreateBookingRequest struct {
	EquipmentID string
	StartDate   time.Time
	EndDate     time.Time
	Quantity    int64
	Purpose     string
}

// UpdateBookingRequest carries the fields a booking edit may change.
// Nil pointers leave the current value in place.
type UpdateBookingRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
	Quantity  *int64
	Purpose   *string
}

func (s *BookingService) validateCreate(actor models.Actor, req CreateBookingRequest) error {
	if actor.ID == "" {
		return fmt.Errorf("a signed-in user is required to book: %w", domain.ErrUnauthorized)
	}
	if req.EquipmentID == "" {
		return fmt.Errorf("equipment is required: %w", domain.ErrValidation)
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	}
	if req.Purpose == "" {
		return fmt.Errorf("purpose is required: %w", domain.ErrValidation)
	}

	if err := dates.ValidateRange(req.StartDate, req.EndDate, s.now()); err != nil {
		return err
	}

	maxStart := dates.Day(s.now()).AddDate(0, 0, s.maxAdvanceDays)
	if dates.Day(req.StartDate).After(maxStart) {
		return domain.ErrDateTooFar
	}
	return nil
}

// CreateBooking validates the request, checks availability, and stores
// a new pending booking carrying a snapshot of the requester and the
// equipment name.
func (s *BookingService) CreateBooking(ctx context.Context, actor models.Actor, req CreateBookingRequest) (booking *models.Booking, err error) {
	defer func() { metrics.ObserveOperation("create", err) }()

	if err = s.validateCreate(actor, req); err != nil {
		return nil, err
	}

	equipment, err := s.registry.GetEquipment(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}

	if _, err = s.checkAvailability(ctx, equipment, req.StartDate, req.EndDate, req.Quantity, ""); err != nil {
		return nil, err
	}

	booking = &models.Booking{
		ID:            uuid.NewString(),
		EquipmentID:   equipment.ID,
		EquipmentName: equipment.Name,
		UserID:        actor.ID,
		UserName:      actor.Name,
		UserEmail:     actor.Email,
		StartDate:     dates.Day(req.StartDate),
		EndDate:       dates.Day(req.EndDate),
		Quantity:      req.Quantity,
		Purpose:       req.Purpose,
		Status:        models.StatusPending,
	}

	// The store re-runs the availability sum inside its transaction,
	// so a racing request cannot slip in between check and insert.
	if err = s.store.ReserveBooking(ctx, booking, equipment.Quantity); err != nil {
		if isAvailabilityError(err) {
			metrics.IncAvailabilityRejection()
		}
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("equipment_id", booking.EquipmentID).
		Str("user_id", booking.UserID).
		Int64("quantity", booking.Quantity).
		Msg("booking created")

	s.publishEvent(events.EventBookingCreated, booking, actor)
	return booking, nil
}

// ApproveBooking moves a pending booking to approved. Admin only.
func (s *BookingService) ApproveBooking(ctx context.Context, actor models.Actor, bookingID string) (booking *models.Booking, err error) {
	defer func() { metrics.ObserveOperation("approve", err) }()

	if err = requireAdmin(actor, "approve bookings"); err != nil {
		return nil, err
	}

	booking, err = s.store.TransitionBooking(ctx, bookingID, models.StatusPending, models.StatusApproved)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingApproved, booking, actor)
	return booking, nil
}

// RejectBooking moves a pending booking to rejected and records the
// reason. Admin only.
func (s *BookingService) RejectBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (booking *models.Booking, err error) {
	defer func() { metrics.ObserveOperation("reject", err) }()

	if err = requireAdmin(actor, "reject bookings"); err != nil {
		return nil, err
	}

	booking, err = s.store.RejectBooking(ctx, bookingID, reason)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingRejected, booking, actor)
	return booking, nil
}

// CheckoutBooking hands out the reserved units: approved -> active and
// the equipment availability counter drops by the booking quantity.
// Admin only.
func (s *BookingService) CheckoutBooking(ctx context.Context, actor models.Actor, bookingID string) (booking *models.Booking, err error) {
	defer func() { metrics.ObserveOperation("checkout", err) }()

	if err = requireAdmin(actor, "checkout equipment"); err != nil {
		return nil, err
	}

	booking, err = s.store.CheckoutBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCheckedOut, booking, actor)
	return booking, nil
}

// ReturnBooking receives the units back: active -> completed and the
// availability counter rises by the booking quantity. Admin only.
func (s *BookingService) ReturnBooking(ctx context.Context, actor models.Actor, bookingID string) (booking *models.Booking, err error) {
	defer func() { metrics.ObserveOperation("return", err) }()

	if err = requireAdmin(actor, "process returns"); err != nil {
		return nil, err
	}

	booking, err = s.store.ReturnBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingReturned, booking, actor)
	return booking, nil
}

// CancelBooking cancels a pending or approved booking. The owning user
// or an admin may cancel; active bookings must be returned first.
func (s *BookingService) CancelBooking(ctx context.Context, actor models.Actor, bookingID string) (booking *models.Booking, err error) {
	defer func() { metrics.ObserveOperation("cancel", err) }()

	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if current.UserID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("only the booking owner or an admin may cancel: %w", domain.ErrUnauthorized)
	}

	if current.Status != models.StatusPending && current.Status != models.StatusApproved {
		return nil, fmt.Errorf("booking %s is %s: %w", bookingID, current.Status, domain.ErrInvalidTransition)
	}

	booking, err = s.store.TransitionBooking(ctx, bookingID, current.Status, models.StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCancelled, booking, actor)
	return booking, nil
}

// UpdateBooking edits dates, quantity, or purpose of a non-terminal
// booking, re-validating availability with the booking excluded from
// its own overlap sum.
func (s *BookingService) UpdateBooking(ctx context.Context, actor models.Actor, bookingID string, req UpdateBookingRequest) (booking *models.Booking, err error) {
	defer func() { metrics.ObserveOperation("update", err) }()

	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if current.UserID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("only the booking owner or an admin may edit: %w", domain.ErrUnauthorized)
	}
	if current.IsTerminal() {
		return nil, fmt.Errorf("booking %s is %s: %w", bookingID, current.Status, domain.ErrInvalidTransition)
	}

	start, end, quantity, purpose := current.StartDate, current.EndDate, current.Quantity, current.Purpose
	if req.StartDate != nil {
		start = dates.Day(*req.StartDate)
	}
	if req.EndDate != nil {
		end = dates.Day(*req.EndDate)
	}
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if req.Purpose != nil {
		purpose = *req.Purpose
	}

	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	}
	if dates.Day(start).After(dates.Day(end)) {
		return nil, domain.ErrInvalidRange
	}

	equipment, err := s.registry.GetEquipment(ctx, current.EquipmentID)
	if err != nil {
		return nil, err
	}
	if _, err = s.checkAvailability(ctx, equipment, start, end, quantity, bookingID); err != nil {
		if isAvailabilityError(err) {
			metrics.IncAvailabilityRejection()
		}
		return nil, err
	}

	if err = s.store.UpdateBookingDetails(ctx, bookingID, start, end, quantity, purpose); err != nil {
		return nil, err
	}

	booking, err = s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingUpdated, booking, actor)
	return booking, nil
}

// DeleteBooking removes the record outright, bypassing the status
// machine. Admin only.
func (s *BookingService) DeleteBooking(ctx context.Context, actor models.Actor, bookingID string) (err error) {
	defer func() { metrics.ObserveOperation("delete", err) }()

	if err = requireAdmin(actor, "delete bookings"); err != nil {
		return err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if err = s.store.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}

	s.publishEvent(events.EventBookingDeleted, booking, actor)
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.store.ListBookings(ctx)
}

func (s *BookingService) UserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	return s.store.ListBookingsByUser(ctx, userID)
}

func (s *BookingService) EquipmentBookings(ctx context.Context, equipmentID string) ([]*models.Booking, error) {
	return s.store.ListBookingsByEquipment(ctx, equipmentID)
}

func (s *BookingService) BookingsByStatus(ctx context.Context, status string) ([]*models.Booking, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrValidation)
	}
	return s.store.ListBookingsByStatus(ctx, status)
}

func (s *BookingService) PendingBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.store.ListBookingsByStatus(ctx, models.StatusPending)
}

func (s *BookingService) ActiveBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.store.ListBookingsByStatus(ctx, models.StatusActive)
}

// Duration is the inclusive day count of a booking.
func Duration(b *models.Booking) int {
	return dates.DaysBetween(b.StartDate, b.EndDate) + 1
}

func requireAdmin(actor models.Actor, action string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("only admins can %s: %w", action, domain.ErrUnauthorized)
	}
	return nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actor models.Actor) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		EquipmentID:   booking.EquipmentID,
		EquipmentName: booking.EquipmentName,
		UserID:        booking.UserID,
		UserName:      booking.UserName,
		Status:        booking.Status,
		StartDate:     booking.StartDate,
		EndDate:       booking.EndDate,
		Quantity:      booking.Quantity,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}
