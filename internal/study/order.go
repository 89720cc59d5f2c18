package study

import (
	"math/rand"

	"github.com/pkruk/flashdeck/internal/models"
)

// BuildOrder produces the sequence of card indices governing
// presentation order. Indices into levels that match the filter (all
// indices when filter is nil) are retained in ascending order, then
// permuted in place with a Fisher-Yates shuffle when shuffle is set.
// An empty result under a non-nil filter is the "no cards match
// filter" condition; callers must treat it distinctly from an empty
// deck.
func BuildOrder(levels []models.CardLevel, filter *models.CardLevel, shuffle bool, rng *rand.Rand) []int {
	order := make([]int, 0, len(levels))
	for i, l := range levels {
		if filter == nil || l == *filter {
			order = append(order, i)
		}
	}

	if shuffle {
		for i := len(order) - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			order[i], order[j] = order[j], order[i]
		}
	}
	return order
}
