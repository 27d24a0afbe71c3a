package service

import (
	"context"
	"testing"

	"equipbook/internal/database"
	"equipbook/internal/domain"
	"equipbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEquipmentService(t *testing.T) (*EquipmentService, *database.DB) {
	t.Helper()

	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewEquipmentService(db, &logger), db
}

func TestCreateEquipmentAdminGate(t *testing.T) {
	svc, _ := newEquipmentService(t)
	ctx := context.Background()

	eq := &models.Equipment{Name: "Projector", Quantity: 2}
	err := svc.CreateEquipment(ctx, testUser, eq)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, svc.CreateEquipment(ctx, testAdmin, eq))
	assert.NotEmpty(t, eq.ID)
	assert.Equal(t, int64(2), eq.Available)
	assert.True(t, eq.IsActive)

	got, err := svc.GetEquipment(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, "Projector", got.Name)
}

func TestCreateEquipmentValidation(t *testing.T) {
	svc, _ := newEquipmentService(t)
	ctx := context.Background()

	err := svc.CreateEquipment(ctx, testAdmin, &models.Equipment{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.CreateEquipment(ctx, testAdmin, &models.Equipment{Name: "Tripod", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearchEquipment(t *testing.T) {
	svc, _ := newEquipmentService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateEquipment(ctx, testAdmin, &models.Equipment{
		ID: "cam", Name: "DSLR Camera", Description: "Canon body", Category: "photo", Quantity: 3,
	}))
	require.NoError(t, svc.CreateEquipment(ctx, testAdmin, &models.Equipment{
		ID: "mic", Name: "Shotgun Mic", Description: "boom microphone", Category: "audio", Quantity: 2,
	}))

	byName, err := svc.SearchEquipment(ctx, "camera", "")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "cam", byName[0].ID)

	byDescription, err := svc.SearchEquipment(ctx, "MICRO", "")
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, "mic", byDescription[0].ID)

	byCategory, err := svc.SearchEquipment(ctx, "", "audio")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "mic", byCategory[0].ID)

	none, err := svc.SearchEquipment(ctx, "drone", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeactivateEquipment(t *testing.T) {
	svc, _ := newEquipmentService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateEquipment(ctx, testAdmin, &models.Equipment{ID: "e1", Name: "Laptop", Quantity: 4}))
	require.NoError(t, svc.DeactivateEquipment(ctx, testAdmin, "e1"))

	items, err := svc.ListEquipment(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, svc.DeactivateEquipment(ctx, testUser, "e1"), domain.ErrUnauthorized)
}

func TestSeedEquipment(t *testing.T) {
	svc, _ := newEquipmentService(t)
	ctx := context.Background()

	seeds := []models.Equipment{
		{ID: "e1", Name: "Camera", Quantity: 5},
		{ID: "e2", Name: "Tripod", Quantity: 3},
	}
	require.NoError(t, svc.SeedEquipment(ctx, seeds))

	e1, err := svc.GetEquipment(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), e1.Available)

	// Re-seeding must not reset rows the booking flow has touched.
	require.NoError(t, svc.AdjustAvailability(ctx, testAdmin, "e1", -2))
	require.NoError(t, svc.SeedEquipment(ctx, seeds))

	e1, err = svc.GetEquipment(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), e1.Available)
}
