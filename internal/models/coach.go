package models

import "time"

// Coach is a trading coach managed through the dashboard
type Coach struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Email           string              `json:"email"`
	Bio             string              `json:"bio"`
	Expertise       string              `json:"expertise"`
	Specializations []string            `json:"specializations"`
	ImageURL        string              `json:"image,omitempty"`
	BookingsCount   int                 `json:"bookings_count"`
	Slots           []*AvailabilitySlot `json:"availability_slots"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// AvailabilitySlot is a weekly recurring availability window for a coach
type AvailabilitySlot struct {
	ID        int64     `json:"id"`
	CoachID   int64     `json:"coach_id"`
	Day       string    `json:"day"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsBooked  bool      `json:"is_booked"`
	CreatedAt time.Time `json:"created_at"`
}

// CoachInput is the validated payload for creating or updating a coach
type CoachInput struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Bio             string   `json:"bio"`
	Expertise       string   `json:"expertise"`
	Specializations []string `json:"specializations"`
}

// SlotInput is the payload for adding an availability slot
type SlotInput struct {
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// CoachListResponse wraps the coach listing
type CoachListResponse struct {
	Coaches []*Coach `json:"coaches"`
}
