package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gudang/internal/apperrors"
	"gudang/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. It mirrors the GORM implementation's contract,
// soft delete included, and backs unit tests and db-less runs.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all live products owned by userID, ordered by name.
func (r *MockProductRepository) GetAll(userID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.UserID != userID || p.DeletedAt.Valid {
			continue
		}
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].Name < productList[j].Name
	})
	return productList, nil
}

// GetByID returns a product by its ID, or (nil, nil) when it is absent
// or soft-deleted.
func (r *MockProductRepository) GetByID(userID, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || product.UserID != userID || product.DeletedAt.Valid {
		return nil, nil
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update patches only the set fields of an existing live product.
func (r *MockProductRepository) Update(userID, id string, updates *models.ProductUpdate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.UserID != userID || product.DeletedAt.Valid {
		return nil, apperrors.ErrNotFound
	}

	if updates.Name != nil {
		product.Name = *updates.Name
	}
	if updates.Quantity != nil {
		product.Quantity = *updates.Quantity
	}
	if updates.PurchasePrice != nil {
		product.PurchasePrice = *updates.PurchasePrice
	}
	if updates.SalePrice != nil {
		product.SalePrice = *updates.SalePrice
	}
	if updates.Code != nil {
		product.Code = updates.Code
	}
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return &product, nil
}

// Delete marks a product deleted; the entry stays in the map.
func (r *MockProductRepository) Delete(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.UserID != userID || product.DeletedAt.Valid {
		return apperrors.ErrNotFound
	}
	product.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.products[id] = product
	return nil
}
