package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Product is a catalog item sold by a store. Order items snapshot its price
// at purchase time, so later edits never rewrite past orders.
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID         int64     `bun:",pk,autoincrement"`
	StoreID    int64     `bun:"store_id"`
	Name       string    `bun:"name"`
	PriceCents int64     `bun:"price_cents"`
	Active     bool      `bun:"active"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero"`
}
