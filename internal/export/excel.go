// Package export writes booking schedules to xlsx workbooks for
// offline reporting.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"equipbook/internal/dates"
	"equipbook/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	scheduleSheet = "Schedule"
	bookingsSheet = "Bookings"
)

// WriteSchedule creates an xlsx file under dir with a per-day
// equipment utilization grid and a flat booking list, and returns the
// file path.
func WriteSchedule(dir string, start, end time.Time, equipment []*models.Equipment, bookings []*models.Booking) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeScheduleSheet(f, start, end, equipment, bookings); err != nil {
		return "", err
	}
	if err := writeBookingsSheet(f, bookings); err != nil {
		return "", err
	}
	// Drop the default sheet excelize creates.
	_ = f.DeleteSheet("Sheet1")

	name := fmt.Sprintf("schedule_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving export file: %w", err)
	}
	return path, nil
}

func writeScheduleSheet(f *excelize.File, start, end time.Time, equipment []*models.Equipment, bookings []*models.Booking) error {
	index, err := f.NewSheet(scheduleSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(scheduleSheet, "A1", fmt.Sprintf("Period: %s - %s",
		start.Format("2006-01-02"), end.Format("2006-01-02")))

	days := dates.DaysBetween(start, end) + 1
	for i := 0; i < days; i++ {
		day := dates.Day(start).AddDate(0, 0, i)
		cell, err := excelize.CoordinatesToCellName(2+i, 2)
		if err != nil {
			return err
		}
		_ = f.SetCellValue(scheduleSheet, cell, day.Format("01-02"))
	}

	for row, item := range equipment {
		nameCell, err := excelize.CoordinatesToCellName(1, 3+row)
		if err != nil {
			return err
		}
		_ = f.SetCellValue(scheduleSheet, nameCell, item.Name)

		for i := 0; i < days; i++ {
			day := dates.Day(start).AddDate(0, 0, i)
			var booked int64
			for _, b := range bookings {
				if b.EquipmentID != item.ID || !b.ReservesCapacity() {
					continue
				}
				if dates.RangesOverlap(b.StartDate, b.EndDate, day, day) {
					booked += b.Quantity
				}
			}
			cell, err := excelize.CoordinatesToCellName(2+i, 3+row)
			if err != nil {
				return err
			}
			_ = f.SetCellValue(scheduleSheet, cell, fmt.Sprintf("%d/%d", booked, item.Quantity))
		}
	}

	_ = f.SetColWidth(scheduleSheet, "A", "A", 25)
	return nil
}

func writeBookingsSheet(f *excelize.File, bookings []*models.Booking) error {
	if _, err := f.NewSheet(bookingsSheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	headers := []string{"ID", "Equipment", "User", "Email", "Start", "End", "Quantity", "Status", "Purpose"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(1+i, 1)
		if err != nil {
			return err
		}
		_ = f.SetCellValue(bookingsSheet, cell, h)
	}

	for row, b := range bookings {
		values := []interface{}{
			b.ID, b.EquipmentName, b.UserName, b.UserEmail,
			b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"),
			b.Quantity, b.Status, b.Purpose,
		}
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(1+i, 2+row)
			if err != nil {
				return err
			}
			_ = f.SetCellValue(bookingsSheet, cell, v)
		}
	}
	return nil
}
