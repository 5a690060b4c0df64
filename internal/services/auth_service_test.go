package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/services"
	apperrors "github.com/tradeacademy/tradeacademy-api/pkg/errors"
	"github.com/tradeacademy/tradeacademy-api/pkg/jwt"
)

func testCredentials(t *testing.T, password string) *models.UserCredentials {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.UserCredentials{
		User:         models.User{ID: 1, Email: "admin@tradeacademy.io", Name: "Admin", IsAdmin: true},
		PasswordHash: string(hash),
	}
}

func TestAuthService_Login(t *testing.T) {
	mockUsers := new(MockUserStore)
	tm := jwt.NewTokenManager("test-secret", "tradeacademy-test", 1)
	service := services.NewAuthService(mockUsers, tm)
	ctx := context.Background()

	creds := testCredentials(t, "Str0ngPass")
	mockUsers.On("GetByEmail", ctx, "admin@tradeacademy.io").Return(creds, nil).Once()

	resp, err := service.Login(ctx, "admin@tradeacademy.io", "Str0ngPass")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, int64(1), resp.User.ID)

	// the token must round trip through validation
	claims, err := tm.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.True(t, claims.IsAdmin)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockUsers := new(MockUserStore)
	tm := jwt.NewTokenManager("test-secret", "tradeacademy-test", 1)
	service := services.NewAuthService(mockUsers, tm)
	ctx := context.Background()

	creds := testCredentials(t, "Str0ngPass")
	mockUsers.On("GetByEmail", ctx, "admin@tradeacademy.io").Return(creds, nil).Once()

	resp, err := service.Login(ctx, "admin@tradeacademy.io", "WrongPass1")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Nil(t, resp)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	mockUsers := new(MockUserStore)
	tm := jwt.NewTokenManager("test-secret", "tradeacademy-test", 1)
	service := services.NewAuthService(mockUsers, tm)
	ctx := context.Background()

	mockUsers.On("GetByEmail", ctx, "ghost@tradeacademy.io").
		Return(nil, apperrors.NotFoundError("user")).Once()

	// unknown email and wrong password are indistinguishable
	resp, err := service.Login(ctx, "ghost@tradeacademy.io", "Whatever1")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Nil(t, resp)
	mockUsers.AssertExpectations(t)
}
