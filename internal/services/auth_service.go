package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/repository"
	apperrors "github.com/tradeacademy/tradeacademy-api/pkg/errors"
	"github.com/tradeacademy/tradeacademy-api/pkg/jwt"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
	"github.com/tradeacademy/tradeacademy-api/pkg/metrics"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response does not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// dummyHash keeps password verification time roughly constant when the
// email is unknown.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuthService verifies credentials and issues session tokens
type AuthService struct {
	users        repository.UserStore
	tokenManager *jwt.TokenManager
}

// NewAuthService creates the auth service
func NewAuthService(users repository.UserStore, tokenManager *jwt.TokenManager) *AuthService {
	return &AuthService{
		users:        users,
		tokenManager: tokenManager,
	}
}

// Login verifies an email/password pair and returns a signed session token.
// Validation of the input shape happens at the handler; this layer only
// decides whether the credentials match an account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	creds, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// burn a bcrypt round anyway
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password)) //nolint:errcheck
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			logger.Warn("Login attempt for unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		logger.Warn("Login attempt with wrong password", zap.Int64("user_id", creds.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenManager.GenerateToken(creds.ID, creds.Email, creds.Name, creds.IsAdmin)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		logger.Error("Failed to generate session token", zap.Error(err))
		return nil, apperrors.InternalError("failed to create session")
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logger.Info("User logged in", zap.Int64("user_id", creds.ID), zap.Bool("is_admin", creds.IsAdmin))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.tokenManager.GetExpirationTime().Seconds()),
		User:        &creds.User,
	}, nil
}
