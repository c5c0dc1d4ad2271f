package model

import "time"

// MaxGradeLength bounds the grade column.
const MaxGradeLength = 2

// Enrollment pairs one student with one course. The pair is unique.
type Enrollment struct {
	ID             int       `json:"id"`
	StudentID      int       `json:"-"`
	CourseID       int       `json:"-"`
	Student        *Student  `json:"student"`
	Course         *Course   `json:"course"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	Grade          *string   `json:"grade"`
}

// EnrollmentFilter narrows enrollment listings. Zero values mean no filter.
type EnrollmentFilter struct {
	StudentID int
	CourseID  int
	TeacherID int
	// Recent orders by enrollment date, newest first. Otherwise by id.
	Recent bool
	Limit  int
}

// EnrollRequest is the student self-enroll payload.
type EnrollRequest struct {
	CourseID int `json:"course_id"`
}

// CreateEnrollmentRequest is the admin payload.
type CreateEnrollmentRequest struct {
	Student int     `json:"student" binding:"required"`
	Course  int     `json:"course" binding:"required"`
	Grade   *string `json:"grade" binding:"omitempty,max=2"`
}

// UpdateGradeRequest carries the grade a teacher assigns.
type UpdateGradeRequest struct {
	Grade string `json:"grade"`
}
