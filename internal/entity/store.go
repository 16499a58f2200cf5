package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Store is a merchant tenant owning its own storefront, catalog and orders.
type Store struct {
	bun.BaseModel `bun:"table:stores"`

	ID          int64     `bun:",pk,autoincrement"`
	Name        string    `bun:"name"`
	Slug        string    `bun:"slug"`
	GeocoderKey string    `bun:"geocoder_key"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`
}
