package deliveryfee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.Zero(t, HaversineKm(-23.5505, -46.6333, -23.5505, -46.6333))
	})

	t.Run("sao paulo to rio", func(t *testing.T) {
		got := HaversineKm(-23.5505, -46.6333, -22.9068, -43.1729)
		assert.InDelta(t, 360.7, got, 5)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := HaversineKm(-23.5505, -46.6333, -23.6, -46.7)
		b := HaversineKm(-23.6, -46.7, -23.5505, -46.6333)
		assert.Equal(t, a, b)
	})

	t.Run("small offset is short", func(t *testing.T) {
		got := HaversineKm(0, 0, 0.0189, 0)
		assert.InDelta(t, 2.1, got, 0.05)
	})
}
