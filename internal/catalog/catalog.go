// Package catalog provides the item data model and catalog loading.
// A catalog is loaded once per process and treated as immutable for the
// life of the session.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hollyoak/plantshop/internal/affinity"
)

// SizeSpec classifies an item's growth habit: a coarse label plus a
// relative scale on the unit interval.
type SizeSpec struct {
	Label string  `json:"label"` // "groundcover", "shrub", "tree", ...
	Scale float64 `json:"scale"` // 0 = smallest stocked, 1 = largest
}

// HardinessRange is the climate band an item tolerates, both bounds
// normalized to [0, 1]. Min <= Max.
type HardinessRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AttributeProfile describes an item's growing requirements and traits.
// Color and tag fields are optional; absent colors never match a color
// preference and absent tag sets never satisfy a wildlife goal.
type AttributeProfile struct {
	Sun                float64         `json:"sun"`      // 0 = deep shade, 1 = full sun
	Moisture           float64         `json:"moisture"` // 0 = dry, 1 = wet
	Soil               [3]float64      `json:"soil"`     // drainage, pH, nutrients
	Size               SizeSpec        `json:"size"`
	Hardiness          HardinessRange  `json:"hardiness"`
	SupportsContainer  bool            `json:"supports_container"`
	BloomColor         *affinity.Color `json:"bloom_color,omitempty"`
	FruitColor         *affinity.Color `json:"fruit_color,omitempty"`
	BloomSeasons       []string        `json:"bloom_seasons,omitempty"`
	WildlifeAffinities []string        `json:"wildlife_affinities,omitempty"`
}

// Item is one stockable catalog entry. DisplayAppeal is carried for the
// presentation layer and plays no part in scoring.
type Item struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	BaseCost      float64          `json:"base_cost"`
	ListPrice     float64          `json:"msrp"`
	DisplayAppeal float64          `json:"display_appeal"`
	Attributes    AttributeProfile `json:"attributes"`
}

//go:embed data/catalog.json
var defaultCatalogJSON []byte

// Default returns the embedded stock catalog.
func Default() []Item {
	items, err := parse(defaultCatalogJSON)
	if err != nil {
		// The embedded catalog is validated by tests; a parse failure here
		// means a broken build, not bad runtime input.
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return items
}

// Load reads a catalog from a JSON file.
func Load(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	items, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return items, nil
}

func parse(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("item %d: missing id", i)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("duplicate item id %q", item.ID)
		}
		seen[item.ID] = true
		if item.Attributes.Hardiness.Min > item.Attributes.Hardiness.Max {
			return nil, fmt.Errorf("item %q: inverted hardiness range", item.ID)
		}
	}
	return items, nil
}
