package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// DeliveryAreaRadius is a central point around which concentric fee bands
// are configured. A store may own several centers.
type DeliveryAreaRadius struct {
	bun.BaseModel `bun:"table:delivery_area_radius"`

	ID              int64     `bun:",pk,autoincrement"`
	StoreID         int64     `bun:"store_id"`
	CenterLatitude  float64   `bun:"center_latitude"`
	CenterLongitude float64   `bun:"center_longitude"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero"`

	Tiers []*FeeTier `bun:"rel:has-many,join:id=delivery_area_id"`
}

// FeeTier is one concentric band: customers within DistanceKm of the center
// (and outside any smaller band) pay PriceCents. DistanceKm is unique per
// area.
type FeeTier struct {
	bun.BaseModel `bun:"table:fee_tiers"`

	ID             int64 `bun:",pk,autoincrement"`
	DeliveryAreaID int64 `bun:"delivery_area_id"`
	DistanceKm     int   `bun:"distance_km"`
	PriceCents     int64 `bun:"price_cents"`
}

// DeliveryAreaZone is a flat-fee locality match with no geometry. Locality
// strings are normalized (lower-cased, trimmed) on write.
type DeliveryAreaZone struct {
	bun.BaseModel `bun:"table:delivery_area_zones"`

	ID           int64  `bun:",pk,autoincrement"`
	StoreID      int64  `bun:"store_id"`
	City         string `bun:"city"`
	State        string `bun:"state"`
	Neighborhood string `bun:"neighborhood"`
	FeeCents     int64  `bun:"fee_cents"`
}
