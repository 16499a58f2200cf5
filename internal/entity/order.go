package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order lifecycle statuses. Transitions between them are validated by the
// order service before anything is persisted.
const (
	StatusAccepted      = "ACCEPTED"
	StatusPreparing     = "PREPARING"
	StatusInTransit     = "IN_TRANSIT"
	StatusFinished      = "FINISHED"
	StatusConsumeOnSite = "CONSUME_ON_SITE"
	StatusDelivered     = "DELIVERED"
	StatusCancelled     = "CANCELLED"
	StatusWithdrawn     = "WITHDRAWN"
)

// Order fulfilment types.
const (
	TypeDelivery      = "DELIVERY"
	TypePickup        = "PICKUP"
	TypeConsumeOnSite = "CONSUME_ON_SITE"
)

// Order is a customer purchase owned by a store. DailyNumber is the
// per-store, per-calendar-day sequence shown to customers; it is assigned
// once at creation and never recomputed.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID              int64     `bun:",pk,autoincrement"`
	StoreID         int64     `bun:"store_id"`
	CustomerID      int64     `bun:"customer_id"`
	DailyNumber     int       `bun:"daily_number"`
	TotalPriceCents int64     `bun:"total_price_cents"`
	Latitude        float64   `bun:"latitude"`
	Longitude       float64   `bun:"longitude"`
	PlaceID         string    `bun:"place_id"`
	Type            string    `bun:"type"`
	Status          string    `bun:"status"`
	PaymentStatus   string    `bun:"payment_status"`
	PaymentType     string    `bun:"payment_type"`
	DelivererID     *int64    `bun:"deliverer_id"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`

	Items []*OrderItem `bun:"rel:has-many,join:id=order_id"`
}

// OrderItem is an immutable line of an order with the product price
// snapshotted at order time.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID         int64 `bun:",pk,autoincrement"`
	OrderID    int64 `bun:"order_id"`
	ProductID  int64 `bun:"product_id"`
	PriceCents int64 `bun:"price_cents"`
	Quantity   int   `bun:"quantity"`
}

// Receipt is the fiscal companion row created in the same transaction as
// its order.
type Receipt struct {
	bun.BaseModel `bun:"table:receipts"`

	ID            int64     `bun:",pk,autoincrement"`
	OrderID       int64     `bun:"order_id"`
	StoreID       int64     `bun:"store_id"`
	ReceiptNumber string    `bun:"receipt_number"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
