package order

import "github.com/pratoapp/prato/internal/entity"

// transitions is the allowed lifecycle graph. Anything not listed here is
// rejected before a status write reaches the database.
var transitions = map[string][]string{
	entity.StatusAccepted: {
		entity.StatusPreparing,
		entity.StatusCancelled,
		entity.StatusWithdrawn,
	},
	entity.StatusPreparing: {
		entity.StatusInTransit,
		entity.StatusFinished,
		entity.StatusConsumeOnSite,
		entity.StatusCancelled,
		entity.StatusWithdrawn,
	},
	entity.StatusInTransit: {
		entity.StatusDelivered,
		entity.StatusCancelled,
		entity.StatusWithdrawn,
	},
	entity.StatusFinished: {
		entity.StatusDelivered,
		entity.StatusCancelled,
		entity.StatusWithdrawn,
	},
	entity.StatusConsumeOnSite: {
		entity.StatusDelivered,
		entity.StatusCancelled,
		entity.StatusWithdrawn,
	},
	entity.StatusDelivered: {},
	entity.StatusCancelled: {},
	entity.StatusWithdrawn: {},
}

// IsValidStatus reports whether s names a known lifecycle status.
func IsValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s string) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidType reports whether t names a known fulfilment type.
func IsValidType(t string) bool {
	switch t {
	case entity.TypeDelivery, entity.TypePickup, entity.TypeConsumeOnSite:
		return true
	}
	return false
}
