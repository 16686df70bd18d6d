// Package scoring computes the normalized fit between a customer's need
// profile and a catalog item, and ranks a catalog by that fit.
package scoring

import (
	"github.com/hollyoak/plantshop/internal/affinity"
	"github.com/hollyoak/plantshop/internal/catalog"
	"github.com/hollyoak/plantshop/internal/customer"
)

// Dimension weights. Each sub-score lands in [0, 1]; the weighted sum is
// normalized by WeightTotal to keep the final score on the unit interval.
const (
	WeightLight     = 3.0
	WeightMoisture  = 3.0
	WeightSoil      = 3.0
	WeightContainer = 2.0
	WeightColor     = 1.0
	WeightSize      = 2.0
	WeightWildlife  = 1.0
	WeightHardiness = 3.0

	WeightTotal = WeightLight + WeightMoisture + WeightSoil + WeightContainer +
		WeightColor + WeightSize + WeightWildlife + WeightHardiness
)

// Soft-preference tunables.
const (
	// ColorFloor keeps a stated color preference from ever fully
	// disqualifying an item: color is a nudge, not a hard filter.
	ColorFloor = 0.2

	// SizeLabelMismatchFactor discounts the size affinity when the
	// customer asked for a different growth-habit class.
	SizeLabelMismatchFactor = 0.6

	// WildlifeBaseline is the credit an item keeps when it serves none of
	// the customer's wildlife goals.
	WildlifeBaseline = 0.25

	// PlayerHardinessWeight dampens the substitution of the shopkeeper's
	// own climate band for the customer's stated hardiness target.
	PlayerHardinessWeight = 0.8

	// DefaultPlayerHardiness is used when session state supplies none.
	DefaultPlayerHardiness = 0.7
)

// Score returns the fit of an item against a need on [0, 1]. Pure and
// deterministic; playerHardiness is expected to be pre-clamped by session
// setup.
func Score(item *catalog.Item, need *customer.NeedProfile, playerHardiness float64) float64 {
	attrs := &item.Attributes

	sum := WeightLight * affinity.Closeness(attrs.Sun, need.LightTarget)
	sum += WeightMoisture * affinity.Closeness(attrs.Moisture, need.MoistureTarget)
	sum += WeightSoil * affinity.VectorCloseness(attrs.Soil[:], need.SoilTarget[:])
	sum += WeightContainer * containerScore(attrs, need)
	sum += WeightColor * colorScore(attrs, need)
	sum += WeightSize * sizeScore(attrs, need)
	sum += WeightWildlife * wildlifeScore(attrs, need)
	sum += WeightHardiness * hardinessScore(attrs, need, playerHardiness)

	return affinity.Clamp01(sum / WeightTotal)
}

func containerScore(attrs *catalog.AttributeProfile, need *customer.NeedProfile) float64 {
	if !need.ContainerRequired || attrs.SupportsContainer {
		return 1
	}
	return 0
}

// colorScore takes the better of bloom and fruit color against the target.
// No stated preference is a free pass.
func colorScore(attrs *catalog.AttributeProfile, need *customer.NeedProfile) float64 {
	if need.ColorTarget == nil {
		return 1
	}
	best := affinity.ColorAffinity(attrs.BloomColor, *need.ColorTarget)
	if fruit := affinity.ColorAffinity(attrs.FruitColor, *need.ColorTarget); fruit > best {
		best = fruit
	}
	if best < ColorFloor {
		best = ColorFloor
	}
	return best
}

func sizeScore(attrs *catalog.AttributeProfile, need *customer.NeedProfile) float64 {
	score := affinity.Closeness(attrs.Size.Scale, need.SizeTarget.Scale)
	if attrs.Size.Label != need.SizeTarget.Label {
		score *= SizeLabelMismatchFactor
	}
	return score
}

func wildlifeScore(attrs *catalog.AttributeProfile, need *customer.NeedProfile) float64 {
	if !need.WantsWildlife() {
		return 1
	}
	for _, goal := range need.WildlifeGoals {
		for _, tag := range attrs.WildlifeAffinities {
			if goal == tag {
				return 1
			}
		}
	}
	return WildlifeBaseline
}

// hardinessScore lets an item suited to the shopkeeper's own climate band
// partially stand in for a mismatch with the customer's stated target.
func hardinessScore(attrs *catalog.AttributeProfile, need *customer.NeedProfile, playerHardiness float64) float64 {
	r := attrs.Hardiness
	needFit := affinity.RangeAffinity(r.Min, r.Max, need.HardinessTarget)
	playerFit := PlayerHardinessWeight * affinity.RangeAffinity(r.Min, r.Max, playerHardiness)
	if playerFit > needFit {
		return playerFit
	}
	return needFit
}
