package models

import "time"

// User is a platform account visible in the admin dashboard
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCredentials carries the persisted password hash alongside the public
// user fields. Never serialized to API responses.
type UserCredentials struct {
	User
	PasswordHash string `json:"-"`
}

// SetAdminRequest toggles the admin flag on a user.
// Pointer so that explicit false is distinguishable from a missing field.
type SetAdminRequest struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}

// UserListResponse wraps the admin user listing
type UserListResponse struct {
	Users []*User `json:"users"`
}
