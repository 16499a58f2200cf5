package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Deliverer is a courier attached to a store. Orders reference one by id;
// unassigned orders carry a null deliverer.
type Deliverer struct {
	bun.BaseModel `bun:"table:deliverers"`

	ID           int64     `bun:",pk,autoincrement"`
	StoreID      int64     `bun:"store_id"`
	Name         string    `bun:"name"`
	Phone        string    `bun:"phone"`
	Vehicle      string    `bun:"vehicle"`
	VehiclePlate string    `bun:"vehicle_plate"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
