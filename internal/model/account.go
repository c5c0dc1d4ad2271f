package model

import "time"

// Account is an identity record. Student and teacher profiles hang off it.
type Account struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"-"`
	IsStaff      bool      `json:"-"`
	IsSuperuser  bool      `json:"-"`
	DateJoined   time.Time `json:"date_joined"`
}

// IsElevated reports whether the account carries a staff or superuser flag.
func (a *Account) IsElevated() bool {
	return a != nil && (a.IsStaff || a.IsSuperuser)
}

// Token is the opaque bearer credential of an account. An account holds at
// most one token at a time.
type Token struct {
	Key       string    `json:"key"`
	AccountID int       `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountRequest carries the account half of every registration payload.
type AccountRequest struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"required,email,max=254"`
	FirstName       string `json:"first_name" binding:"required,max=150"`
	LastName        string `json:"last_name" binding:"required,max=150"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// LoginRequest accepts a username or an email in the username field.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LogoutRequest is the optional body of a logout call.
type LogoutRequest struct {
	Token string `json:"token"`
}
