package repositories

import (
	"gudang/internal/models"
)

// ProductRepository is the only component allowed to touch the backing
// store for products. Every operation is scoped to the owning user and
// never observes soft-deleted rows.
//
// GetByID reports absence as (nil, nil); Update and Delete report it
// as apperrors.ErrNotFound. Any other store failure comes back as an
// *apperrors.StoreError, never as a raw driver error.
type ProductRepository interface {
	GetAll(userID string) ([]models.Product, error)
	GetByID(userID, id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(userID, id string, updates *models.ProductUpdate) (*models.Product, error)
	Delete(userID, id string) error
}
