package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a single catalog item owned by one user.
//
// A product is never removed physically: Delete sets DeletedAt and every
// read issued through GORM excludes rows with a non-null DeletedAt. That
// is the one place the soft-delete invariant lives.
type Product struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID        string         `json:"user_id" gorm:"index;type:varchar(36)"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Quantity      int64          `json:"quantity" gorm:"not null" validate:"gte=0"`
	PurchasePrice float64        `json:"purchase_price" gorm:"not null" validate:"gte=0"`
	SalePrice     float64        `json:"sale_price" gorm:"not null" validate:"gte=0"`
	Code          *string        `json:"code,omitempty" gorm:"type:varchar(50)" validate:"omitempty,min=1,max=50"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// ProductInsert is the validated payload for creating a product.
// Numeric fields are pointers so "missing" and "zero" stay distinct;
// zero quantities and prices are legal.
type ProductInsert struct {
	Name          string   `json:"name" validate:"required"`
	Quantity      *int64   `json:"quantity" validate:"required,gte=0"`
	PurchasePrice *float64 `json:"purchase_price" validate:"required,gte=0"`
	SalePrice     *float64 `json:"sale_price" validate:"required,gte=0"`
	Code          *string  `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
}

// ProductUpdate is the validated partial payload for updating a product.
// Nil fields are left untouched by the update (patch, not replace).
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Quantity      *int64   `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	SalePrice     *float64 `json:"sale_price,omitempty" validate:"omitempty,gte=0"`
	Code          *string  `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
}

// Empty reports whether the patch carries no fields at all.
func (u *ProductUpdate) Empty() bool {
	return u.Name == nil && u.Quantity == nil && u.PurchasePrice == nil &&
		u.SalePrice == nil && u.Code == nil
}
