package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", 1)

	token, err := tm.GenerateToken(42, "admin@example.com", "Admin", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "Admin", claims.Name)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", 1)
	other := NewTokenManager("other-secret", "test-issuer", 1)

	token, err := tm.GenerateToken(1, "user@example.com", "User", false)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", 1)

	_, err := tm.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", 1)
	tm.ttl = -time.Hour

	token, err := tm.GenerateToken(1, "user@example.com", "User", false)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGetExpirationTime(t *testing.T) {
	tm := NewTokenManager("test-secret", "test-issuer", 24)
	assert.Equal(t, 24*time.Hour, tm.GetExpirationTime())
}
