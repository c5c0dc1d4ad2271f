package model

import "time"

// DefaultCredits is applied when a course is created without credits.
const DefaultCredits = 3

// Course is owned by exactly one teacher.
type Course struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	TeacherID   int       `json:"-"`
	Teacher     *Teacher  `json:"teacher"`
	Credits     int       `json:"credits"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCourseRequest is the payload for creating a course. The owner is
// always the calling teacher.
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Code        string `json:"code" binding:"required,max=10"`
	Description string `json:"description"`
	Credits     *int   `json:"credits" binding:"omitempty,min=0"`
}

// UpdateCourseRequest is a partial update; nil fields are left untouched.
type UpdateCourseRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Code        *string `json:"code" binding:"omitempty,min=1,max=10"`
	Description *string `json:"description"`
	Credits     *int    `json:"credits" binding:"omitempty,min=0"`
}
