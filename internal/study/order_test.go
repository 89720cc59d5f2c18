package study

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkruk/flashdeck/internal/models"
)

func TestBuildOrder(t *testing.T) {
	levels := []models.CardLevel{
		models.LevelNew,
		models.LevelKnown,
		models.LevelNew,
		models.LevelMastered,
		models.LevelNew,
	}

	t.Run("no filter no shuffle is ascending", func(t *testing.T) {
		order := BuildOrder(levels, nil, false, nil)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	})

	t.Run("filter keeps matching indices in ascending order", func(t *testing.T) {
		filter := models.LevelNew
		order := BuildOrder(levels, &filter, false, nil)
		assert.Equal(t, []int{0, 2, 4}, order)
	})

	t.Run("filter with no matches is empty", func(t *testing.T) {
		filter := models.LevelFair
		order := BuildOrder(levels, &filter, false, nil)
		assert.Empty(t, order)
	})

	t.Run("shuffle is a permutation of the filtered set", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		order := BuildOrder(levels, nil, true, rng)
		require.Len(t, order, len(levels))

		seen := make(map[int]bool, len(order))
		for _, idx := range order {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, len(levels))
			assert.False(t, seen[idx], "index %d appears twice", idx)
			seen[idx] = true
		}
	})

	t.Run("shuffle is deterministic for a fixed seed", func(t *testing.T) {
		a := BuildOrder(levels, nil, true, rand.New(rand.NewSource(7)))
		b := BuildOrder(levels, nil, true, rand.New(rand.NewSource(7)))
		assert.Equal(t, a, b)
	})

	t.Run("single element shuffle", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		order := BuildOrder([]models.CardLevel{models.LevelNew}, nil, true, rng)
		assert.Equal(t, []int{0}, order)
	})

	t.Run("empty input", func(t *testing.T) {
		order := BuildOrder(nil, nil, false, nil)
		assert.Empty(t, order)
	})
}
