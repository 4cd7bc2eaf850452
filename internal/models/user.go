package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated account. Sign-in is by email; there
// is no username.
type User struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string         `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string         `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// SignIn is the credential payload for signing in.
type SignIn struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignUp is the credential payload for registering. RepeatPassword must
// match Password.
type SignUp struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	RepeatPassword string `json:"repeat_password" validate:"required,eqfield=Password"`
}

// ForgotPassword requests a password-reset mail.
type ForgotPassword struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdatePassword sets a new password for the authenticated user.
type UpdatePassword struct {
	Password string `json:"password" validate:"required,min=6"`
}
