package main

import (
	"context"
	"time"

	"equipbook/internal/export"
	"equipbook/internal/service"

	"github.com/rs/zerolog"
)

// App bundles the service layer handed to an embedding presentation
// layer. The daemon itself only runs the background jobs.
type App struct {
	Bookings  *service.BookingService
	Equipment *service.EquipmentService
	Sessions  *service.SessionService
	Logger    *zerolog.Logger
}

const (
	exportInterval = 24 * time.Hour
	exportDays     = 14
)

// runScheduleExports writes an xlsx utilization schedule for the
// coming two weeks once a day.
func (a *App) runScheduleExports(ctx context.Context, dir string) {
	ticker := time.NewTicker(exportInterval)
	defer ticker.Stop()

	a.exportSchedule(ctx, dir)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.exportSchedule(ctx, dir)
		}
	}
}

func (a *App) exportSchedule(ctx context.Context, dir string) {
	start := time.Now()
	end := start.AddDate(0, 0, exportDays-1)

	equipment, err := a.Equipment.ListEquipment(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("schedule export: list equipment failed")
		return
	}
	bookings, err := a.Bookings.ListBookings(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("schedule export: list bookings failed")
		return
	}

	path, err := export.WriteSchedule(dir, start, end, equipment, bookings)
	if err != nil {
		a.Logger.Error().Err(err).Msg("schedule export failed")
		return
	}
	a.Logger.Info().Str("path", path).Msg("schedule exported")
}
