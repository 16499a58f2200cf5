package dto

// FeeTierInput is one concentric band of a radius delivery area.
type FeeTierInput struct {
	DistanceKm int   `json:"distance_km"`
	PriceCents int64 `json:"price_cents"`
}

// CreateRadiusAreaInput configures one center point with its fee bands.
type CreateRadiusAreaInput struct {
	StoreID         int64          `json:"store_id"`
	CenterLatitude  float64        `json:"center_latitude"`
	CenterLongitude float64        `json:"center_longitude"`
	Tiers           []FeeTierInput `json:"tiers"`
}

// CreateZoneInput configures a flat-fee locality zone.
type CreateZoneInput struct {
	StoreID      int64  `json:"store_id"`
	City         string `json:"city"`
	State        string `json:"state"`
	Neighborhood string `json:"neighborhood"`
	FeeCents     int64  `json:"fee_cents"`
}

// DeliveryQuoteResponse is the outcome of resolving a customer's delivery
// fee against a store's configured areas.
type DeliveryQuoteResponse struct {
	FeeCents   int64   `json:"fee_cents"`
	DistanceKm float64 `json:"distance_km,omitempty"`
	Message    string  `json:"message"`
}
