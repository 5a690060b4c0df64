package repository

import (
	"context"

	"github.com/tradeacademy/tradeacademy-api/internal/models"
)

// CourseStore defines course catalog persistence
type CourseStore interface {
	GetAll(ctx context.Context) ([]*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, input *models.CourseInput) (*models.Course, error)
	Update(ctx context.Context, id int64, input *models.CourseInput) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

// VideoStore defines lecture video persistence
type VideoStore interface {
	GetByCourse(ctx context.Context, courseID int64) ([]*models.Video, error)
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	Create(ctx context.Context, courseID int64, input *models.VideoInput) (*models.Video, error)
	Update(ctx context.Context, id int64, input *models.VideoInput) (*models.Video, error)
	Delete(ctx context.Context, id int64) error
}

// UserStore defines user account persistence
type UserStore interface {
	GetAll(ctx context.Context) ([]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.UserCredentials, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) (*models.User, error)
}

// CoachStore defines coach and availability persistence
type CoachStore interface {
	GetAll(ctx context.Context) ([]*models.Coach, error)
	GetByID(ctx context.Context, id int64) (*models.Coach, error)
	Create(ctx context.Context, input *models.CoachInput) (*models.Coach, error)
	Update(ctx context.Context, id int64, input *models.CoachInput) (*models.Coach, error)
	Delete(ctx context.Context, id int64) error
	AddSlot(ctx context.Context, coachID int64, input *models.SlotInput) (*models.AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, coachID, slotID int64) error
}
