package model

import "time"

// Student is the student profile attached one-to-one to an account.
type Student struct {
	ID             int       `json:"id"`
	AccountID      int       `json:"-"`
	User           *Account  `json:"user"`
	StudentID      string    `json:"student_id"`
	PhoneNumber    string    `json:"phone_number"`
	DateOfBirth    Date      `json:"date_of_birth"`
	Address        string    `json:"address"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

// StudentProfileFields are the profile half of both student payloads.
type StudentProfileFields struct {
	StudentID   string `json:"student_id" binding:"required,max=20"`
	PhoneNumber string `json:"phone_number" binding:"required,max=15"`
	DateOfBirth string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Address     string `json:"address" binding:"required"`
}

// StudentRegistrationRequest is the flat public registration payload.
type StudentRegistrationRequest struct {
	AccountRequest
	StudentProfileFields
}

// CreateStudentRequest is the nested payload used by administrators.
type CreateStudentRequest struct {
	User AccountRequest `json:"user"`
	StudentProfileFields
}

// UpdateStudentRequest is a partial update; nil fields are left untouched.
type UpdateStudentRequest struct {
	StudentID   *string `json:"student_id" binding:"omitempty,min=1,max=20"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address"`
}
