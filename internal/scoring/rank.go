package scoring

import (
	"sort"

	"github.com/hollyoak/plantshop/internal/catalog"
	"github.com/hollyoak/plantshop/internal/customer"
)

// DefaultTopK is how many candidates a ranking returns when the caller
// doesn't ask for a specific count.
const DefaultTopK = 3

// ScoredCandidate pairs a catalog item with its fit score.
type ScoredCandidate struct {
	Item  *catalog.Item `json:"item"`
	Score float64       `json:"score"`
}

// TopMatches scores every item and returns the k best, highest first.
// The sort is stable: items with equal scores keep their catalog order.
// That ordering is part of the contract — the catalog's curation order is
// the tiebreak, not an accident of the sort.
func TopMatches(items []catalog.Item, need *customer.NeedProfile, k int, playerHardiness float64) []ScoredCandidate {
	if k <= 0 {
		k = DefaultTopK
	}

	scored := make([]ScoredCandidate, len(items))
	for i := range items {
		scored[i] = ScoredCandidate{
			Item:  &items[i],
			Score: Score(&items[i], need, playerHardiness),
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}
