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

const equipmentColumns = `id, name, description, category, quantity, available, is_active, created_at, updated_at`

func scanEquipment(row rowScanner) (*models.Equipment, error) {
	e := &models.Equipment{}
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Category,
		&e.Quantity, &e.Available, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (db *DB) CreateEquipment(ctx context.Context, equipment *models.Equipment) error {
	query := `INSERT INTO equipment (id, name, description, category, quantity, available, is_active, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		equipment.ID,
		equipment.Name,
		equipment.Description,
		equipment.Category,
		equipment.Quantity,
		equipment.Available,
		equipment.IsActive,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	equipment.CreatedAt = now
	equipment.UpdatedAt = now
	return nil
}

func (db *DB) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = ?`
	equipment, err := scanEquipment(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("equipment %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return equipment, nil
}

func (db *DB) ListEquipment(ctx context.Context) ([]*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE is_active = 1 ORDER BY name, id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	var items []*models.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (db *DB) UpdateEquipment(ctx context.Context, equipment *models.Equipment) error {
	query := `UPDATE equipment SET name = ?, description = ?, category = ?, quantity = ?, available = ?, is_active = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		equipment.Name, equipment.Description, equipment.Category,
		equipment.Quantity, equipment.Available, equipment.IsActive, now, equipment.ID)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("equipment %s: %w", equipment.ID, domain.ErrNotFound)
	}
	equipment.UpdatedAt = now
	return nil
}

func (db *DB) DeactivateEquipment(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE equipment SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate equipment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("equipment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AdjustAvailability moves the live availability counter by delta. The
// bounds check rides in the WHERE clause so the counter can never
// leave [0, quantity] even under concurrent callers.
func (db *DB) AdjustAvailability(ctx context.Context, id string, delta int64) error {
	query := `UPDATE equipment SET available = available + ?, updated_at = ?
              WHERE id = ? AND available + ? >= 0 AND available + ? <= quantity`
	result, err := db.ExecContext(ctx, query, delta, time.Now(), id, delta, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust availability: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var one int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM equipment WHERE id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("equipment %s: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to inspect equipment: %w", err)
		}
		return fmt.Errorf("equipment %s: %w", id, domain.ErrAvailabilityBounds)
	}
	return nil
}
