package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/tradeacademy/tradeacademy-api/internal/cache"
	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/repository"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
)

// UserService exposes the admin user management operations
type UserService struct {
	users   repository.UserStore
	catalog *cache.Catalog
}

// NewUserService creates the user service
func NewUserService(users repository.UserStore, catalog *cache.Catalog) *UserService {
	return &UserService{
		users:   users,
		catalog: catalog,
	}
}

// ListUsers returns all accounts, cache-aside
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if users, found := s.catalog.GetUsers(); found {
		return users, nil
	}

	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.SetUsers(users)
	return users, nil
}

// SetAdmin toggles a user's admin flag and invalidates the user listing
func (s *UserService) SetAdmin(ctx context.Context, id int64, isAdmin bool) (*models.User, error) {
	user, err := s.users.SetAdmin(ctx, id, isAdmin)
	if err != nil {
		return nil, err
	}

	s.catalog.InvalidateUsers()
	logger.Info("User admin flag changed", zap.Int64("user_id", id), zap.Bool("is_admin", isAdmin))

	return user, nil
}
