package entity

import "time"

// Category categoría de productos (jerárquica opcional).
type Category struct {
	ID          int64
	ParentID    *int64 // nil si es raíz
	Name        string // único
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
