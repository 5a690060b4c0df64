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

func TestUserService_ListUsers_CacheAside(t *testing.T) {
	mockUsers := new(MockUserStore)
	catalog := cache.NewCatalog(60)
	svc := services.NewUserService(mockUsers, catalog)
	ctx := context.Background()

	expected := []*models.User{{ID: 1, Email: "a@tradeacademy.io"}}
	mockUsers.On("GetAll", ctx).Return(expected, nil).Once()

	first, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, first)

	second, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, second)
	mockUsers.AssertExpectations(t)
}

func TestUserService_SetAdmin_InvalidatesUserList(t *testing.T) {
	mockUsers := new(MockUserStore)
	catalog := cache.NewCatalog(60)
	svc := services.NewUserService(mockUsers, catalog)
	ctx := context.Background()

	mockUsers.On("GetAll", ctx).Return([]*models.User{{ID: 2}}, nil).Twice()
	mockUsers.On("SetAdmin", ctx, int64(2), true).
		Return(&models.User{ID: 2, IsAdmin: true}, nil).Once()

	_, err := svc.ListUsers(ctx)
	require.NoError(t, err)

	user, err := svc.SetAdmin(ctx, 2, true)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	// stale list was dropped, second read hits the store
	_, err = svc.ListUsers(ctx)
	require.NoError(t, err)
	mockUsers.AssertExpectations(t)
}

func TestUserService_SetAdmin_NotFound(t *testing.T) {
	mockUsers := new(MockUserStore)
	catalog := cache.NewCatalog(60)
	svc := services.NewUserService(mockUsers, catalog)
	ctx := context.Background()

	mockUsers.On("SetAdmin", ctx, int64(99), false).Return(nil, assert.AnError).Once()

	_, err := svc.SetAdmin(ctx, 99, false)
	assert.Error(t, err)
	mockUsers.AssertExpectations(t)
}
