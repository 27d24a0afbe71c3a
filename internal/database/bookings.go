package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"equipbook/internal/domain"
	"equipbook/internal/models"
)

const dateLayout = "2006-01-02"

const bookingColumns = `id, equipment_id, equipment_name, user_id, user_name, user_email,
                 start_date, end_date, quantity, purpose, status, rejection_reason,
                 created_at, updated_at, checked_out_at, returned_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	b := &models.Booking{}
	var startStr, endStr string
	var reason sql.NullString
	var checkedOut, returned sql.NullTime

	err := row.Scan(
		&b.ID, &b.EquipmentID, &b.EquipmentName, &b.UserID, &b.UserName, &b.UserEmail,
		&startStr, &endStr, &b.Quantity, &b.Purpose, &b.Status, &reason,
		&b.CreatedAt, &b.UpdatedAt, &checkedOut, &returned,
	)
	if err != nil {
		return nil, err
	}

	if b.StartDate, err = time.Parse(dateLayout, startStr); err != nil {
		return nil, fmt.Errorf("failed to parse start date %s: %w", startStr, err)
	}
	if b.EndDate, err = time.Parse(dateLayout, endStr); err != nil {
		return nil, fmt.Errorf("failed to parse end date %s: %w", endStr, err)
	}
	if reason.Valid {
		b.RejectionReason = reason.String
	}
	if checkedOut.Valid {
		t := checkedOut.Time
		b.CheckedOutAt = &t
	}
	if returned.Valid {
		t := returned.Time
		b.ReturnedAt = &t
	}
	return b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
				id, equipment_id, equipment_name, user_id, user_name, user_email,
				start_date, end_date, quantity, purpose, status, rejection_reason,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		booking.ID,
		booking.EquipmentID,
		booking.EquipmentName,
		booking.UserID,
		booking.UserName,
		booking.UserEmail,
		booking.StartDate.Format(dateLayout),
		booking.EndDate.Format(dateLayout),
		booking.Quantity,
		booking.Purpose,
		booking.Status,
		booking.RejectionReason,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// ReserveBooking inserts the booking only if its quantity still fits
// under totalQuantity for the requested range. The overlap sum and the
// insert run in one transaction so two racing requests cannot both
// claim the last units.
func (db *DB) ReserveBooking(ctx context.Context, booking *models.Booking, totalQuantity int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var booked int64
	queryCount := `SELECT COALESCE(SUM(quantity), 0) FROM bookings
                   WHERE equipment_id = ? AND status NOT IN (?, ?)
                   AND start_date <= ? AND end_date >= ?`
	err = tx.QueryRowContext(ctx, queryCount,
		booking.EquipmentID, models.StatusCancelled, models.StatusRejected,
		booking.EndDate.Format(dateLayout), booking.StartDate.Format(dateLayout),
	).Scan(&booked)
	if err != nil {
		return fmt.Errorf("failed to sum overlapping bookings in tx: %w", err)
	}

	if booking.Quantity > totalQuantity-booked {
		return &domain.InsufficientAvailabilityError{Available: totalQuantity - booked}
	}

	queryInsert := `INSERT INTO bookings (
				id, equipment_id, equipment_name, user_id, user_name, user_email,
				start_date, end_date, quantity, purpose, status, rejection_reason,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	_, err = tx.ExecContext(ctx, queryInsert,
		booking.ID,
		booking.EquipmentID,
		booking.EquipmentName,
		booking.UserID,
		booking.UserName,
		booking.UserEmail,
		booking.StartDate.Format(dateLayout),
		booking.EndDate.Format(dateLayout),
		booking.Quantity,
		booking.Purpose,
		booking.Status,
		booking.RejectionReason,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (db *DB) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return db.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
}

func (db *DB) ListBookingsByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (db *DB) ListBookingsByEquipment(ctx context.Context, equipmentID string) ([]*models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE equipment_id = ? ORDER BY start_date ASC`, equipmentID)
}

func (db *DB) ListBookingsByStatus(ctx context.Context, status string) ([]*models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE status = ? ORDER BY created_at DESC`, status)
}

// TransitionBooking flips status from -> to, guarded on the current
// status so concurrent or repeated transitions cannot race past the
// state machine.
func (db *DB) TransitionBooking(ctx context.Context, id, from, to string) (*models.Booking, error) {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return nil, fmt.Errorf("failed to transition booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, db.transitionFailure(ctx, id, from, to)
	}
	return db.GetBooking(ctx, id)
}

// transitionFailure distinguishes a missing booking from one sitting
// in the wrong status.
func (db *DB) transitionFailure(ctx context.Context, id, from, to string) error {
	var status string
	err := db.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to inspect booking status: %w", err)
	}
	return fmt.Errorf("booking %s is %s, not %s: %w", id, status, from, domain.ErrInvalidTransition)
}

func (db *DB) RejectBooking(ctx context.Context, id, reason string) (*models.Booking, error) {
	query := `UPDATE bookings SET status = ?, rejection_reason = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, models.StatusRejected, reason, time.Now(), id, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to reject booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, db.transitionFailure(ctx, id, models.StatusPending, models.StatusRejected)
	}
	return db.GetBooking(ctx, id)
}

// CheckoutBooking moves an approved booking to active and decrements
// the equipment availability counter by the booking quantity. Both
// writes commit together or not at all.
func (db *DB) CheckoutBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := db.adjustWithTransition(ctx, id,
		models.StatusApproved, models.StatusActive, "checked_out_at", -1)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// ReturnBooking moves an active booking to completed and gives the
// units back to the availability counter.
func (db *DB) ReturnBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := db.adjustWithTransition(ctx, id,
		models.StatusActive, models.StatusCompleted, "returned_at", +1)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (db *DB) adjustWithTransition(ctx context.Context, id, from, to, stampColumn string, sign int64) (*models.Booking, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var status, equipmentID string
	var quantity int64
	err = tx.QueryRowContext(ctx,
		`SELECT status, equipment_id, quantity FROM bookings WHERE id = ?`, id,
	).Scan(&status, &equipmentID, &quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking in tx: %w", err)
	}
	if status != from {
		return nil, fmt.Errorf("booking %s is %s, not %s: %w", id, status, from, domain.ErrInvalidTransition)
	}

	delta := sign * quantity
	result, err := tx.ExecContext(ctx,
		`UPDATE equipment SET available = available + ?, updated_at = ?
         WHERE id = ? AND available + ? >= 0 AND available + ? <= quantity`,
		delta, time.Now(), equipmentID, delta, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust availability in tx: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if err := equipmentMissing(ctx, tx, equipmentID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("equipment %s: %w", equipmentID, domain.ErrAvailabilityBounds)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, `+stampColumn+` = ?, updated_at = ? WHERE id = ?`,
		to, now, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status in tx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}
	return db.GetBooking(ctx, id)
}

func equipmentMissing(ctx context.Context, tx *sql.Tx, id string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM equipment WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("equipment %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to inspect equipment: %w", err)
	}
	return nil
}

func (db *DB) UpdateBookingDetails(ctx context.Context, id string, start, end time.Time, quantity int64, purpose string) error {
	query := `UPDATE bookings SET start_date = ?, end_date = ?, quantity = ?, purpose = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		start.Format(dateLayout), end.Format(dateLayout), quantity, purpose, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking details: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (db *DB) DeleteBooking(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SumOverlappingQuantity totals the quantity of capacity-reserving
// bookings overlapping [start, end] for the equipment. ISO date
// strings compare lexicographically, so the overlap predicate runs in
// SQL.
func (db *DB) SumOverlappingQuantity(ctx context.Context, equipmentID string, start, end time.Time, excludeID string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM bookings
              WHERE equipment_id = ? AND id != ? AND status NOT IN (?, ?)
              AND start_date <= ? AND end_date >= ?`
	var booked int64
	err := db.QueryRowContext(ctx, query,
		equipmentID, excludeID, models.StatusCancelled, models.StatusRejected,
		end.Format(dateLayout), start.Format(dateLayout),
	).Scan(&booked)
	if err != nil {
		return 0, fmt.Errorf("failed to sum overlapping bookings: %w", err)
	}
	return booked, nil
}
