package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pratoapp/prato/internal/entity"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{entity.StatusAccepted, entity.StatusPreparing},
		{entity.StatusAccepted, entity.StatusCancelled},
		{entity.StatusAccepted, entity.StatusWithdrawn},
		{entity.StatusPreparing, entity.StatusInTransit},
		{entity.StatusPreparing, entity.StatusFinished},
		{entity.StatusPreparing, entity.StatusConsumeOnSite},
		{entity.StatusInTransit, entity.StatusDelivered},
		{entity.StatusFinished, entity.StatusDelivered},
		{entity.StatusConsumeOnSite, entity.StatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{entity.StatusAccepted, entity.StatusDelivered},
		{entity.StatusAccepted, entity.StatusInTransit},
		{entity.StatusInTransit, entity.StatusPreparing},
		{entity.StatusDelivered, entity.StatusAccepted},
		{entity.StatusDelivered, entity.StatusCancelled},
		{entity.StatusCancelled, entity.StatusAccepted},
		{entity.StatusWithdrawn, entity.StatusDelivered},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(entity.StatusDelivered))
	assert.True(t, IsTerminal(entity.StatusCancelled))
	assert.True(t, IsTerminal(entity.StatusWithdrawn))
	assert.False(t, IsTerminal(entity.StatusAccepted))
	assert.False(t, IsTerminal(entity.StatusPreparing))
	assert.False(t, IsTerminal("UNKNOWN"))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(entity.StatusAccepted))
	assert.True(t, IsValidStatus(entity.StatusConsumeOnSite))
	assert.False(t, IsValidStatus("accepted"))
	assert.False(t, IsValidStatus(""))
}

func TestIsValidType(t *testing.T) {
	assert.True(t, IsValidType(entity.TypeDelivery))
	assert.True(t, IsValidType(entity.TypePickup))
	assert.True(t, IsValidType(entity.TypeConsumeOnSite))
	assert.False(t, IsValidType("delivery"))
}
