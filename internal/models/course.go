package models

import "time"

// Course is a course as shown in the admin catalog
type Course struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail,omitempty"`
	LectureCount int       `json:"lecture_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CourseInput is the validated payload for creating or updating a course.
// Thumbnail staging is handled separately by the upload package.
type CourseInput struct {
	Title        string
	Description  string
	ThumbnailURL string
}

// CourseListResponse wraps the course listing
type CourseListResponse struct {
	Courses []*Course `json:"courses"`
}
