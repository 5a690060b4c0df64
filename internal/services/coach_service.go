package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/tradeacademy/tradeacademy-api/internal/cache"
	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/repository"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
)

// CoachService manages coaches and their weekly availability
type CoachService struct {
	coaches repository.CoachStore
	catalog *cache.Catalog
}

// NewCoachService creates the coach service
func NewCoachService(coaches repository.CoachStore, catalog *cache.Catalog) *CoachService {
	return &CoachService{
		coaches: coaches,
		catalog: catalog,
	}
}

// ListCoaches returns all coaches with availability, cache-aside
func (s *CoachService) ListCoaches(ctx context.Context) ([]*models.Coach, error) {
	if coaches, found := s.catalog.GetCoaches(); found {
		return coaches, nil
	}

	coaches, err := s.coaches.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.SetCoaches(coaches)
	return coaches, nil
}

// GetCoach returns one coach with availability
func (s *CoachService) GetCoach(ctx context.Context, id int64) (*models.Coach, error) {
	return s.coaches.GetByID(ctx, id)
}

// CreateCoach inserts a coach profile and invalidates the coach listing
func (s *CoachService) CreateCoach(ctx context.Context, input *models.CoachInput) (*models.Coach, error) {
	coach, err := s.coaches.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.catalog.InvalidateCoaches()
	logger.Info("Coach created", zap.Int64("coach_id", coach.ID), zap.String("name", coach.Name))

	return coach, nil
}

// UpdateCoach rewrites a coach profile and invalidates the coach listing
func (s *CoachService) UpdateCoach(ctx context.Context, id int64, input *models.CoachInput) (*models.Coach, error) {
	coach, err := s.coaches.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.catalog.InvalidateCoaches()
	logger.Info("Coach updated", zap.Int64("coach_id", id))

	return coach, nil
}

// DeleteCoach removes a coach and invalidates the coach listing
func (s *CoachService) DeleteCoach(ctx context.Context, id int64) error {
	if err := s.coaches.Delete(ctx, id); err != nil {
		return err
	}

	s.catalog.InvalidateCoaches()
	logger.Info("Coach deleted", zap.Int64("coach_id", id))

	return nil
}

// AddSlot attaches a weekly availability window to a coach
func (s *CoachService) AddSlot(ctx context.Context, coachID int64, input *models.SlotInput) (*models.AvailabilitySlot, error) {
	if _, err := s.coaches.GetByID(ctx, coachID); err != nil {
		return nil, err
	}

	slot, err := s.coaches.AddSlot(ctx, coachID, input)
	if err != nil {
		return nil, err
	}

	s.catalog.InvalidateCoaches()
	logger.Info("Availability slot added", zap.Int64("coach_id", coachID), zap.Int64("slot_id", slot.ID))

	return slot, nil
}

// DeleteSlot removes an availability window from a coach
func (s *CoachService) DeleteSlot(ctx context.Context, coachID, slotID int64) error {
	if err := s.coaches.DeleteSlot(ctx, coachID, slotID); err != nil {
		return err
	}

	s.catalog.InvalidateCoaches()
	logger.Info("Availability slot removed", zap.Int64("coach_id", coachID), zap.Int64("slot_id", slotID))

	return nil
}
