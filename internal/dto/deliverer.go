package dto

// CreateDelivererInput registers a courier for a store.
type CreateDelivererInput struct {
	StoreID      int64  `json:"store_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Vehicle      string `json:"vehicle"`
	VehiclePlate string `json:"vehicle_plate"`
}
