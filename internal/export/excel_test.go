package export

import (
	"testing"
	"time"

	"equipbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWriteSchedule(t *testing.T) {
	dir := t.TempDir()

	equipment := []*models.Equipment{
		{ID: "e1", Name: "Camera", Quantity: 5},
		{ID: "e2", Name: "Tripod", Quantity: 2},
	}
	bookings := []*models.Booking{
		{
			ID: "b1", EquipmentID: "e1", EquipmentName: "Camera",
			UserName: "Alex", UserEmail: "alex@school.test",
			StartDate: d("2024-06-01"), EndDate: d("2024-06-02"),
			Quantity: 3, Status: models.StatusApproved, Purpose: "photo club",
		},
		{
			ID: "b2", EquipmentID: "e1", EquipmentName: "Camera",
			UserName: "Sam", UserEmail: "sam@school.test",
			StartDate: d("2024-06-01"), EndDate: d("2024-06-03"),
			Quantity: 1, Status: models.StatusCancelled, Purpose: "dropped",
		},
	}

	path, err := WriteSchedule(dir, d("2024-06-01"), d("2024-06-03"), equipment, bookings)
	require.NoError(t, err)
	assert.Contains(t, path, "schedule_20240601_20240603.xlsx")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	period, err := f.GetCellValue(scheduleSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Period: 2024-06-01 - 2024-06-03", period)

	// Day headers on row 2, starting at column B.
	header, err := f.GetCellValue(scheduleSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "06-01", header)

	// Cancelled booking units do not count toward the grid.
	name, err := f.GetCellValue(scheduleSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Camera", name)

	cell, err := f.GetCellValue(scheduleSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "3/5", cell)

	cell, err = f.GetCellValue(scheduleSheet, "D3")
	require.NoError(t, err)
	assert.Equal(t, "0/5", cell)

	// Equipment with no bookings shows empty days.
	cell, err = f.GetCellValue(scheduleSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "0/2", cell)

	// The flat list carries every booking regardless of status.
	id, err := f.GetCellValue(bookingsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "b1", id)

	status, err := f.GetCellValue(bookingsSheet, "H3")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, status)

	// The default sheet is gone.
	assert.NotContains(t, f.GetSheetList(), "Sheet1")
}
