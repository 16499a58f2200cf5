package dto

import "time"

// OrderItemInput is one requested order line with the price snapshot taken
// by the storefront at cart time.
type OrderItemInput struct {
	ProductID  int64 `json:"product_id"`
	PriceCents int64 `json:"price_cents"`
	Quantity   int   `json:"quantity"`
}

// CreateOrderInput carries everything needed to build an order.
type CreateOrderInput struct {
	StoreID       int64            `json:"store_id"`
	CustomerID    int64            `json:"customer_id"`
	Type          string           `json:"type"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"payment_status"`
	PaymentType   string           `json:"payment_type"`
	Items         []OrderItemInput `json:"items"`
}

// UpdateOrderInput mutates payment fields on an existing order.
type UpdateOrderInput struct {
	PaymentStatus string `json:"payment_status"`
	PaymentType   string `json:"payment_type"`
}

// AssignOrdersInput attaches a deliverer to a batch of orders.
type AssignOrdersInput struct {
	StoreID     int64   `json:"store_id"`
	OrderIDs    []int64 `json:"order_ids"`
	DelivererID int64   `json:"deliverer_id"`
}

// OrderItemResponse is an order line as exposed via transport layers.
type OrderItemResponse struct {
	ID         int64 `json:"id"`
	ProductID  int64 `json:"product_id"`
	PriceCents int64 `json:"price_cents"`
	Quantity   int   `json:"quantity"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID              int64               `json:"id"`
	StoreID         int64               `json:"store_id"`
	CustomerID      int64               `json:"customer_id"`
	DailyNumber     int                 `json:"daily_number"`
	TotalPriceCents int64               `json:"total_price_cents"`
	Latitude        float64             `json:"latitude"`
	Longitude       float64             `json:"longitude"`
	PlaceID         string              `json:"place_id"`
	Type            string              `json:"type"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	PaymentType     string              `json:"payment_type"`
	DelivererID     *int64              `json:"deliverer_id"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []OrderItemResponse `json:"items,omitempty"`
}
