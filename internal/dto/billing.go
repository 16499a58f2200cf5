package dto

// ChargeSubscriptionInput bills a store for its platform plan.
type ChargeSubscriptionInput struct {
	StoreID     int64  `json:"store_id"`
	PlanID      string `json:"plan_id"`
	AmountCents int64  `json:"amount_cents"`
}

// ChargeSubscriptionResponse reports the gateway outcome.
type ChargeSubscriptionResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}
