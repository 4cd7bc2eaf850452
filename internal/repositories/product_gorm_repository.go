package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gudang/internal/apperrors"
	"gudang/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
//
// Product.DeletedAt is a gorm.DeletedAt, so every query below already
// excludes soft-deleted rows; no method needs its own deleted_at
// filter.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all live products owned by userID, ordered by name.
func (r *GORMProductRepository) GetAll(userID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&products).Error; err != nil {
		return nil, apperrors.Store("get all products", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID. Absence (including a
// soft-deleted row) is a valid result, reported as (nil, nil).
func (r *GORMProductRepository) GetByID(userID, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Store("get product by id", err)
	}
	return &product, nil
}

// Create inserts a new product row, assigning an ID when none is set.
// The store populates CreatedAt/UpdatedAt on the passed product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return apperrors.Store("create product", err)
	}
	return nil
}

// Update applies only the fields set on the patch and returns the
// refreshed row. A missing or soft-deleted target reports ErrNotFound;
// the row is never resurrected.
func (r *GORMProductRepository) Update(userID, id string, updates *models.ProductUpdate) (*models.Product, error) {
	if updates.Empty() {
		product, err := r.GetByID(userID, id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperrors.ErrNotFound
		}
		return product, nil
	}

	res := r.db.Model(&models.Product{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(patchColumns(updates))
	if res.Error != nil {
		return nil, apperrors.Store("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}

	product, err := r.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.ErrNotFound
	}
	return product, nil
}

// Delete soft-deletes a product by setting its deletion timestamp. The
// row stays in the table.
func (r *GORMProductRepository) Delete(userID, id string) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Product{})
	if res.Error != nil {
		return apperrors.Store("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// patchColumns maps set patch fields to their columns. Nil fields are
// omitted so the UPDATE leaves them untouched.
func patchColumns(updates *models.ProductUpdate) map[string]interface{} {
	columns := make(map[string]interface{})
	if updates.Name != nil {
		columns["name"] = *updates.Name
	}
	if updates.Quantity != nil {
		columns["quantity"] = *updates.Quantity
	}
	if updates.PurchasePrice != nil {
		columns["purchase_price"] = *updates.PurchasePrice
	}
	if updates.SalePrice != nil {
		columns["sale_price"] = *updates.SalePrice
	}
	if updates.Code != nil {
		columns["code"] = *updates.Code
	}
	return columns
}
