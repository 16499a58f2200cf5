package dto

import "time"

// CashRegisterReport summarizes one accounting window at close time. It is
// derived from orders and never stored.
type CashRegisterReport struct {
	StoreID           int64     `json:"store_id"`
	OpenedAt          time.Time `json:"opened_at"`
	ClosedAt          time.Time `json:"closed_at"`
	TotalRevenueCents int64     `json:"total_revenue_cents"`
	OrderCount        int       `json:"order_count"`
	CompletedOrders   int       `json:"completed_orders"`
	PendingOrders     int       `json:"pending_orders"`
}
