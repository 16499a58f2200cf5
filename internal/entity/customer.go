package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Customer is a buyer registered against a store.
type Customer struct {
	bun.BaseModel `bun:"table:customers"`

	ID        int64     `bun:",pk,autoincrement"`
	StoreID   int64     `bun:"store_id"`
	Name      string    `bun:"name"`
	Phone     string    `bun:"phone"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`

	Address *Address `bun:"rel:has-one,join:id=customer_id"`
}

// Address is the customer's delivery address used for geocoding.
type Address struct {
	bun.BaseModel `bun:"table:addresses"`

	ID           int64  `bun:",pk,autoincrement"`
	CustomerID   int64  `bun:"customer_id"`
	Street       string `bun:"street"`
	Number       string `bun:"number"`
	Neighborhood string `bun:"neighborhood"`
	City         string `bun:"city"`
	State        string `bun:"state"`
	PostalCode   string `bun:"postal_code"`
}
