package entity

import "time"

// Warehouse representa una bodega o ubicación donde se almacena inventario.
type Warehouse struct {
	ID        int64
	Code      string // opcional, único cuando existe
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
