package model

import "time"

// Teacher is the teacher profile attached one-to-one to an account.
type Teacher struct {
	ID                    int       `json:"id"`
	AccountID             int       `json:"-"`
	User                  *Account  `json:"user"`
	EmployeeID            string    `json:"employee_id"`
	PhoneNumber           string    `json:"phone_number"`
	SubjectSpecialization string    `json:"subject_specialization"`
	HireDate              time.Time `json:"hire_date"`
}

// TeacherProfileFields are the profile half of both teacher payloads.
type TeacherProfileFields struct {
	EmployeeID            string `json:"employee_id" binding:"required,max=20"`
	PhoneNumber           string `json:"phone_number" binding:"required,max=15"`
	SubjectSpecialization string `json:"subject_specialization" binding:"required,max=100"`
}

// TeacherRegistrationRequest is the flat public registration payload.
type TeacherRegistrationRequest struct {
	AccountRequest
	TeacherProfileFields
}

// CreateTeacherRequest is the nested payload used by administrators.
type CreateTeacherRequest struct {
	User AccountRequest `json:"user"`
	TeacherProfileFields
}

// UpdateTeacherRequest is a partial update; nil fields are left untouched.
type UpdateTeacherRequest struct {
	EmployeeID            *string `json:"employee_id" binding:"omitempty,min=1,max=20"`
	PhoneNumber           *string `json:"phone_number" binding:"omitempty,max=15"`
	SubjectSpecialization *string `json:"subject_specialization" binding:"omitempty,min=1,max=100"`
}
