// Package customer provides the need profile a visiting customer presents
// and a procedural generator that produces a drifting stream of them.
package customer

import (
	"github.com/hollyoak/plantshop/internal/affinity"
	"github.com/hollyoak/plantshop/internal/catalog"
)

// NeedProfile is the multi-attribute target a customer is shopping for.
// WildlifeGoals may be empty and ColorTarget may be nil; both relax the
// corresponding scoring dimension rather than failing it.
type NeedProfile struct {
	LightTarget       float64          `json:"light_target"`
	MoistureTarget    float64          `json:"moisture_target"`
	SoilTarget        [3]float64       `json:"soil_target"`
	ContainerRequired bool             `json:"container_required"`
	ColorTarget       *affinity.Color  `json:"color_target,omitempty"`
	SizeTarget        catalog.SizeSpec `json:"size_target"`
	HardinessTarget   float64          `json:"hardiness_target"`
	WildlifeGoals     []string         `json:"wildlife_goals,omitempty"`
}

// WantsWildlife reports whether the profile carries any wildlife goals.
func (n *NeedProfile) WantsWildlife() bool {
	return len(n.WildlifeGoals) > 0
}
