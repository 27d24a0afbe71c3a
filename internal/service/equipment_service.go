package service

import (
	"context"
	"fmt"
	"strings"

	"equipbook/internal/domain"
	"equipbook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EquipmentService manages the catalog. Mutations are admin-gated; the
// booking core only ever reads quantity and the availability counter.
type EquipmentService struct {
	registry domain.EquipmentRegistry
	logger   *zerolog.Logger
}

func NewEquipmentService(registry domain.EquipmentRegistry, logger *zerolog.Logger) *EquipmentService {
	return &EquipmentService{
		registry: registry,
		logger:   logger,
	}
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, actor models.Actor, equipment *models.Equipment) error {
	if err := requireAdmin(actor, "manage equipment"); err != nil {
		return err
	}
	if equipment.Name == "" {
		return fmt.Errorf("equipment name is required: %w", domain.ErrValidation)
	}
	if equipment.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative: %w", domain.ErrValidation)
	}

	if equipment.ID == "" {
		equipment.ID = uuid.NewString()
	}
	// New equipment starts fully on the shelf.
	equipment.Available = equipment.Quantity
	equipment.IsActive = true

	if err := s.registry.CreateEquipment(ctx, equipment); err != nil {
		return err
	}

	s.logger.Info().Str("equipment_id", equipment.ID).Str("name", equipment.Name).Msg("equipment created")
	return nil
}

func (s *EquipmentService) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	return s.registry.GetEquipment(ctx, id)
}

func (s *EquipmentService) ListEquipment(ctx context.Context) ([]*models.Equipment, error) {
	return s.registry.ListEquipment(ctx)
}

// SearchEquipment filters the active catalog by a case-insensitive
// name/description query and an optional category.
func (s *EquipmentService) SearchEquipment(ctx context.Context, query, category string) ([]*models.Equipment, error) {
	items, err := s.registry.ListEquipment(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var matched []*models.Equipment
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		matched = append(matched, item)
	}
	return matched, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, actor models.Actor, equipment *models.Equipment) error {
	if err := requireAdmin(actor, "manage equipment"); err != nil {
		return err
	}
	if equipment.Available < 0 || equipment.Available > equipment.Quantity {
		return fmt.Errorf("availability %d outside [0, %d]: %w", equipment.Available, equipment.Quantity, domain.ErrValidation)
	}
	return s.registry.UpdateEquipment(ctx, equipment)
}

func (s *EquipmentService) DeactivateEquipment(ctx context.Context, actor models.Actor, id string) error {
	if err := requireAdmin(actor, "manage equipment"); err != nil {
		return err
	}
	return s.registry.DeactivateEquipment(ctx, id)
}

// AdjustAvailability exposes the registry counter for manual admin
// corrections outside the checkout/return flow.
func (s *EquipmentService) AdjustAvailability(ctx context.Context, actor models.Actor, id string, delta int64) error {
	if err := requireAdmin(actor, "adjust availability"); err != nil {
		return err
	}
	return s.registry.AdjustAvailability(ctx, id, delta)
}

// SeedEquipment creates any configured equipment items that are not
// already present. Existing rows are left untouched.
func (s *EquipmentService) SeedEquipment(ctx context.Context, items []models.Equipment) error {
	for i := range items {
		item := items[i]
		if _, err := s.registry.GetEquipment(ctx, item.ID); err == nil {
			continue
		}
		if item.Available == 0 && item.Quantity > 0 {
			item.Available = item.Quantity
		}
		item.IsActive = true
		if err := s.registry.CreateEquipment(ctx, &item); err != nil {
			return fmt.Errorf("failed to seed equipment %s: %w", item.ID, err)
		}
		s.logger.Info().Str("equipment_id", item.ID).Str("name", item.Name).Msg("equipment seeded")
	}
	return nil
}
