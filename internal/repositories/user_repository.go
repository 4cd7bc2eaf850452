package repositories

import "gudang/internal/models"

// UserRepository defines the interface for user data access.
// GetByEmail and GetByID report absence as (nil, nil).
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	UpdatePassword(id, passwordHash string) error
}
