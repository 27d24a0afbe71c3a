package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equipbook/internal/config"
	"equipbook/internal/database"
	"equipbook/internal/events"
	"equipbook/internal/logging"
	"equipbook/internal/metrics"
	"equipbook/internal/repository"
	"equipbook/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
	go backup.Start(ctx)

	sessions := initSessionRepository(cfg, logger)

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, logger)

	bookingService := service.NewBookingService(db, db, eventBus, cfg.Booking.MaxAdvanceDays, logger)
	equipmentService := service.NewEquipmentService(db, logger)
	sessionService := service.NewSessionService(sessions,
		cfg.Booking.RateLimitCommands,
		time.Duration(cfg.Booking.RateLimitWindowSec)*time.Second,
		logger)

	if err := equipmentService.SeedEquipment(ctx, cfg.Equipment); err != nil {
		return fmt.Errorf("seed equipment: %w", err)
	}

	app := &App{
		Bookings:  bookingService,
		Equipment: equipmentService,
		Sessions:  sessionService,
		Logger:    logger,
	}
	go app.runScheduleExports(ctx, cfg.Exports.Path)

	if cfg.Monitoring.PrometheusEnabled {
		go serveMetrics(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	logger.Info().Msg("equipbook started")
	<-ctx.Done()
	logger.Info().Msg("shutting down")
	return nil
}

func initSessionRepository(cfg *config.Config, logger *zerolog.Logger) *repository.FailoverSessionRepository {
	ttl := time.Duration(cfg.Booking.SessionTTLSeconds) * time.Second
	memory := repository.NewMemorySessionRepository()

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, sessions held in memory")
		return repository.NewFailoverSessionRepository(memory, memory, logger)
	}

	client := repository.NewRedisClient(cfg.Redis)
	primary := repository.NewRedisSessionRepository(client, ttl)
	return repository.NewFailoverSessionRepository(primary, memory, logger)
}

func subscribeBookingEvents(bus *events.EventBus, logger *zerolog.Logger) {
	handler := func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			logger.Warn().Err(err).Str("event_type", event.Type).Msg("failed to decode event payload")
			return err
		}
		logger.Info().
			Str("event_type", event.Type).
			Str("booking_id", payload.BookingID).
			Str("equipment_id", payload.EquipmentID).
			Str("status", payload.Status).
			Msg("booking event")
		return nil
	}

	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
		events.EventBookingCheckedOut,
		events.EventBookingReturned,
		events.EventBookingCancelled,
		events.EventBookingUpdated,
		events.EventBookingDeleted,
	} {
		bus.Subscribe(eventType, handler)
	}
}

func serveMetrics(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("metrics endpoint listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
