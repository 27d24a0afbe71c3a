package database

import (
	"context"
	"os"
	"testing"

	"equipbook/internal/domain"
	"equipbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEquipmentCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	eq := &models.Equipment{
		ID:        "cam-1",
		Name:      "DSLR Camera",
		Category:  "photography",
		Quantity:  5,
		Available: 5,
		IsActive:  true,
	}
	require.NoError(t, db.CreateEquipment(ctx, eq))
	assert.False(t, eq.CreatedAt.IsZero())

	got, err := db.GetEquipment(ctx, "cam-1")
	require.NoError(t, err)
	assert.Equal(t, "DSLR Camera", got.Name)
	assert.Equal(t, int64(5), got.Quantity)
	assert.Equal(t, int64(5), got.Available)

	got.Name = "DSLR Camera Mk II"
	got.Quantity = 6
	got.Available = 6
	require.NoError(t, db.UpdateEquipment(ctx, got))

	updated, err := db.GetEquipment(ctx, "cam-1")
	require.NoError(t, err)
	assert.Equal(t, "DSLR Camera Mk II", updated.Name)
	assert.Equal(t, int64(6), updated.Quantity)

	items, err := db.ListEquipment(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, db.DeactivateEquipment(ctx, "cam-1"))
	items, err = db.ListEquipment(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetEquipmentNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetEquipment(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustAvailability(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	eq := &models.Equipment{ID: "proj-1", Name: "Projector", Quantity: 3, Available: 3, IsActive: true}
	require.NoError(t, db.CreateEquipment(ctx, eq))

	require.NoError(t, db.AdjustAvailability(ctx, "proj-1", -2))
	got, err := db.GetEquipment(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Available)

	require.NoError(t, db.AdjustAvailability(ctx, "proj-1", 2))
	got, err = db.GetEquipment(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Available)
}

func TestAdjustAvailabilityBounds(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	eq := &models.Equipment{ID: "proj-1", Name: "Projector", Quantity: 3, Available: 3, IsActive: true}
	require.NoError(t, db.CreateEquipment(ctx, eq))

	// Above total.
	err := db.AdjustAvailability(ctx, "proj-1", 1)
	assert.ErrorIs(t, err, domain.ErrAvailabilityBounds)

	// Below zero.
	err = db.AdjustAvailability(ctx, "proj-1", -4)
	assert.ErrorIs(t, err, domain.ErrAvailabilityBounds)

	// Counter untouched after failed adjustments.
	got, err := db.GetEquipment(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Available)

	err = db.AdjustAvailability(ctx, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
