package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanPool(t *testing.T) {
	t.Run("mask weighted average", func(t *testing.T) {
		tokens := [][]float32{
			{2, 4},
			{6, 8},
			{100, 100}, // padding
		}
		mask := []float32{1, 1, 0}

		got := meanPool(tokens, mask)
		assert.InDelta(t, 4.0, float64(got[0]), 1e-6)
		assert.InDelta(t, 6.0, float64(got[1]), 1e-6)
	})

	t.Run("nil mask attends every token", func(t *testing.T) {
		tokens := [][]float32{
			{1, 3},
			{3, 5},
		}
		got := meanPool(tokens, nil)
		assert.InDelta(t, 2.0, float64(got[0]), 1e-6)
		assert.InDelta(t, 4.0, float64(got[1]), 1e-6)
	})

	t.Run("short mask pads with zero weight", func(t *testing.T) {
		tokens := [][]float32{
			{2, 2},
			{100, 100},
		}
		got := meanPool(tokens, []float32{1})
		assert.InDelta(t, 2.0, float64(got[0]), 1e-6)
		assert.InDelta(t, 2.0, float64(got[1]), 1e-6)
	})

	t.Run("all-zero mask clamps divisor", func(t *testing.T) {
		tokens := [][]float32{{1, 1}}
		got := meanPool(tokens, []float32{0})
		// Weighted sum is zero, so a clamped divisor yields zeros
		// instead of NaN.
		assert.Equal(t, float32(0), got[0])
		assert.Equal(t, float32(0), got[1])
	})

	t.Run("no tokens", func(t *testing.T) {
		assert.Empty(t, meanPool(nil, nil))
	})
}
