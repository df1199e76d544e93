package model

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products.
type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// CategoryRequest is the payload for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// Product represents an item in the catalogue.
type Product struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	ImageURL     string          `json:"imageUrl" db:"image_url"`
	CategoryID   uuid.UUID       `json:"categoryId" db:"category_id"`
	CategoryName string          `json:"categoryName" db:"category_name"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty" db:"updated_at"`
}

// ProductInput carries the non-file fields of a product form.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  uuid.UUID       `json:"categoryId" validate:"required"`
}

// ImageUpload is an image attached to a product form.
type ImageUpload struct {
	FileName string
	Content  io.Reader
}
