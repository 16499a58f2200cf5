package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// CashRegisterSession marks one open/close accounting window per store.
// The close-time report is computed from orders, never stored.
type CashRegisterSession struct {
	bun.BaseModel `bun:"table:cash_register_sessions"`

	ID       int64      `bun:",pk,autoincrement"`
	StoreID  int64      `bun:"store_id"`
	OpenedAt time.Time  `bun:"opened_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	ClosedAt *time.Time `bun:"closed_at"`
}
