// Procedural customer generation — each visit samples a set of independent
// noise layers so tastes drift smoothly between customers instead of
// jumping at random.
package customer

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/hollyoak/plantshop/internal/affinity"
)

// visitStride is the noise-space distance between consecutive visits.
// Small enough that neighboring customers feel related, large enough that
// a day of visits covers real variety.
const visitStride = 0.35

// sizeLabels are the growth-habit classes customers ask for, ordered by
// typical scale so a single noise layer can pick both label and scale.
var sizeLabels = []string{"groundcover", "perennial", "grass", "vegetable", "shrub", "tree"}

// wildlifeTags are the goals customers may bring. Matched against the
// catalog's wildlife affinity tags.
var wildlifeTags = []string{"pollinators", "butterflies", "bees", "hummingbirds"}

// Generator produces NeedProfiles deterministically from a seed. Layers are
// seeded at fixed offsets from the base seed, one per need dimension.
type Generator struct {
	light     opensimplex.Noise
	moisture  opensimplex.Noise
	soil      [3]opensimplex.Noise
	color     opensimplex.Noise
	size      opensimplex.Noise
	hardiness opensimplex.Noise
	wildlife  opensimplex.Noise
	container opensimplex.Noise

	visit int
}

// NewGenerator creates a customer generator for the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		light:     opensimplex.NewNormalized(seed),
		moisture:  opensimplex.NewNormalized(seed + 1),
		soil:      [3]opensimplex.Noise{opensimplex.NewNormalized(seed + 2), opensimplex.NewNormalized(seed + 3), opensimplex.NewNormalized(seed + 4)},
		color:     opensimplex.NewNormalized(seed + 5),
		size:      opensimplex.NewNormalized(seed + 6),
		hardiness: opensimplex.NewNormalized(seed + 7),
		wildlife:  opensimplex.NewNormalized(seed + 8),
		container: opensimplex.NewNormalized(seed + 9),
	}
}

// Visits returns how many customers have been generated so far.
func (g *Generator) Visits() int {
	return g.visit
}

// Next generates the need profile for the next customer visit.
func (g *Generator) Next() NeedProfile {
	x := float64(g.visit) * visitStride
	g.visit++

	need := NeedProfile{
		LightTarget:    g.light.Eval2(x, 0),
		MoistureTarget: g.moisture.Eval2(x, 0),
		SoilTarget: [3]float64{
			g.soil[0].Eval2(x, 0),
			g.soil[1].Eval2(x, 0),
			g.soil[2].Eval2(x, 0),
		},
		HardinessTarget: g.hardiness.Eval2(x, 0),
	}

	// Container shoppers are roughly a third of visits.
	need.ContainerRequired = g.container.Eval2(x, 0) > 0.66

	// Size: one layer picks the label band, a second sample within the
	// same layer sets the relative scale.
	sizeVal := g.size.Eval2(x, 0)
	idx := int(sizeVal * float64(len(sizeLabels)))
	if idx >= len(sizeLabels) {
		idx = len(sizeLabels) - 1
	}
	need.SizeTarget.Label = sizeLabels[idx]
	need.SizeTarget.Scale = g.size.Eval2(x, 1)

	// Color preference appears for about half of customers; the preferred
	// hue itself drifts with three offset samples of the color layer.
	if g.color.Eval2(x, 0) > 0.5 {
		c := affinity.Color{
			g.color.Eval2(x, 1),
			g.color.Eval2(x, 2),
			g.color.Eval2(x, 3),
		}
		need.ColorTarget = &c
	}

	// Wildlife goals: the layer value gates both whether the customer has
	// goals at all and how many tags they bring.
	wv := g.wildlife.Eval2(x, 0)
	if wv > 0.55 {
		count := 1
		if wv > 0.85 {
			count = 2
		}
		start := int(wv*97) % len(wildlifeTags)
		for i := 0; i < count; i++ {
			need.WildlifeGoals = append(need.WildlifeGoals, wildlifeTags[(start+i)%len(wildlifeTags)])
		}
	}

	return need
}
