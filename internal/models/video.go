package models

import "time"

// Video is a lecture video attached to a course
type Video struct {
	ID           int64     `json:"id"`
	CourseID     int64     `json:"course_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StreamURL    string    `json:"stream_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail,omitempty"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VideoInput is the validated payload for creating or updating a lecture.
// Empty StreamURL/ThumbnailURL on update means "keep the existing object".
type VideoInput struct {
	Title        string
	Description  string
	StreamURL    string
	ThumbnailURL string
	FileSize     int64
}

// VideoListResponse wraps the lecture listing for a course
type VideoListResponse struct {
	Videos []*Video `json:"videos"`
}
