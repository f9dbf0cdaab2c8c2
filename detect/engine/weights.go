package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/reddit-ranger/ranger/detect"
)

// WeightConfig is the closed, versioned weight table. Changing any value is
// a configuration change carrying a new Version string, never a runtime
// mutation: a result is reproducible from the profile content plus one
// specific version of this table.
type WeightConfig struct {
	Version string `json:"version"`

	// relative weight of each sub-category in the overall probability
	Categories map[string]float64 `json:"categories"`

	// relative weight of each feature within its category; features not
	// listed default to 1
	Features map[string]float64 `json:"features"`
}

// DefaultWeights returns the built-in table. Temporal and linguistic
// evidence carry the most weight: cadence and text are where automation is
// hardest to hide.
func DefaultWeights() *WeightConfig {
	return &WeightConfig{
		Version: "2024-05",
		Categories: map[string]float64{
			detect.CategoryAccount:     0.20,
			detect.CategoryTemporal:    0.25,
			detect.CategoryEngagement:  0.15,
			detect.CategoryLinguistic:  0.25,
			detect.CategoryStylometric: 0.15,
		},
		Features: map[string]float64{},
	}
}

func (w *WeightConfig) featureWeight(name string) float64 {
	if v, ok := w.Features[name]; ok && v > 0 {
		return v
	}
	return 1
}

// LoadFromFileJSON replaces the table with one read from a JSON file. The
// file must carry a version string and a weight for every category.
func (w *WeightConfig) LoadFromFileJSON(p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var loaded WeightConfig
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return err
	}
	if loaded.Version == "" {
		return fmt.Errorf("weight config %s: missing version", p)
	}
	for _, cat := range detect.Categories {
		if loaded.Categories[cat] <= 0 {
			return fmt.Errorf("weight config %s (version %s): missing or non-positive weight for category %q", p, loaded.Version, cat)
		}
	}
	if loaded.Features == nil {
		loaded.Features = map[string]float64{}
	}
	*w = loaded
	return nil
}
