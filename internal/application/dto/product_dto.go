package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string           `json:"sku" validate:"required,min=1,max=100"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Description  string           `json:"description" validate:"max=2000"`
	Barcode      string           `json:"barcode" validate:"max=100"`
	UnitID       *int64           `json:"unit_id" validate:"omitempty,min=1"`
	CategoryID   *int64           `json:"category_id" validate:"omitempty,min=1"`
	DefaultCost  *decimal.Decimal `json:"default_cost"`
	DefaultPrice *decimal.Decimal `json:"default_price"`
	MinStock     *decimal.Decimal `json:"min_stock"`
	IsActive     *bool            `json:"is_active"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// Las existencias solo cambian a través del ledger.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=2000"`
	Barcode      *string          `json:"barcode" validate:"omitempty,max=100"`
	UnitID       *int64           `json:"unit_id" validate:"omitempty,min=1"`
	CategoryID   *int64           `json:"category_id" validate:"omitempty,min=1"`
	DefaultCost  *decimal.Decimal `json:"default_cost"`
	DefaultPrice *decimal.Decimal `json:"default_price"`
	MinStock     *decimal.Decimal `json:"min_stock"`
	IsActive     *bool            `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64            `json:"id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Barcode      string           `json:"barcode"`
	UnitID       *int64           `json:"unit_id"`
	CategoryID   *int64           `json:"category_id"`
	DefaultCost  *decimal.Decimal `json:"default_cost"`
	DefaultPrice *decimal.Decimal `json:"default_price"`
	MinStock     *decimal.Decimal `json:"min_stock"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	ParentID    *int64 `json:"parent_id" validate:"omitempty,min=1"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	ParentID    *int64    `json:"parent_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
