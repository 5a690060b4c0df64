package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeacademy/tradeacademy-api/internal/cache"
	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/services"
)

func TestCoachService_ListCoaches_CacheAside(t *testing.T) {
	mockCoaches := new(MockCoachStore)
	catalog := cache.NewCatalog(60)
	svc := services.NewCoachService(mockCoaches, catalog)
	ctx := context.Background()

	expected := []*models.Coach{{ID: 1, Name: "Dana"}}
	mockCoaches.On("GetAll", ctx).Return(expected, nil).Once()

	first, err := svc.ListCoaches(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, first)

	second, err := svc.ListCoaches(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, second)
	mockCoaches.AssertExpectations(t)
}

func TestCoachService_CreateCoach_InvalidatesListing(t *testing.T) {
	mockCoaches := new(MockCoachStore)
	catalog := cache.NewCatalog(60)
	svc := services.NewCoachService(mockCoaches, catalog)
	ctx := context.Background()

	catalog.SetCoaches([]*models.Coach{})
	input := &models.CoachInput{Name: "Dana", Email: "dana@tradeacademy.io"}
	mockCoaches.On("Create", ctx, input).Return(&models.Coach{ID: 1, Name: "Dana"}, nil).Once()

	coach, err := svc.CreateCoach(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, int64(1), coach.ID)

	_, found := catalog.GetCoaches()
	assert.False(t, found)
	mockCoaches.AssertExpectations(t)
}

func TestCoachService_AddSlot_UnknownCoach(t *testing.T) {
	mockCoaches := new(MockCoachStore)
	catalog := cache.NewCatalog(60)
	svc := services.NewCoachService(mockCoaches, catalog)
	ctx := context.Background()

	mockCoaches.On("GetByID", ctx, int64(99)).Return(nil, assert.AnError).Once()

	_, err := svc.AddSlot(ctx, 99, &models.SlotInput{Day: "monday", StartTime: "09:00", EndTime: "10:00"})
	assert.Error(t, err)
	mockCoaches.AssertNotCalled(t, "AddSlot")
}

func TestCoachService_AddSlot(t *testing.T) {
	mockCoaches := new(MockCoachStore)
	catalog := cache.NewCatalog(60)
	svc := services.NewCoachService(mockCoaches, catalog)
	ctx := context.Background()

	catalog.SetCoaches([]*models.Coach{{ID: 1}})
	input := &models.SlotInput{Day: "monday", StartTime: "09:00", EndTime: "10:00"}
	mockCoaches.On("GetByID", ctx, int64(1)).Return(&models.Coach{ID: 1}, nil).Once()
	mockCoaches.On("AddSlot", ctx, int64(1), input).
		Return(&models.AvailabilitySlot{ID: 7, CoachID: 1, Day: "monday"}, nil).Once()

	slot, err := svc.AddSlot(ctx, 1, input)
	require.NoError(t, err)
	assert.Equal(t, int64(7), slot.ID)

	_, found := catalog.GetCoaches()
	assert.False(t, found)
	mockCoaches.AssertExpectations(t)
}

func TestCoachService_DeleteSlot(t *testing.T) {
	mockCoaches := new(MockCoachStore)
	catalog := cache.NewCatalog(60)
	svc := services.NewCoachService(mockCoaches, catalog)
	ctx := context.Background()

	mockCoaches.On("DeleteSlot", ctx, int64(1), int64(7)).Return(nil).Once()

	err := svc.DeleteSlot(ctx, 1, 7)
	require.NoError(t, err)
	mockCoaches.AssertExpectations(t)
}
