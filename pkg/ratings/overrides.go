package ratings

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bimforge/bimforge/pkg/classify"
)

// Overrides is the on-disk shape of a rating override file. Entries merge
// over the compiled-in defaults; anything absent keeps its default.
//
//	ratings:
//	  ch:
//	    fire_door: "T 90"
//	safety:
//	  en:
//	    site_qss_level: "QSS Level 4"
//	    occupancy:
//	      ground: 80
type Overrides struct {
	Ratings map[string]map[string]string `yaml:"ratings"`
	Safety  map[string]Safety            `yaml:"safety"`
}

// Load decodes an override document.
func Load(r io.Reader) (Overrides, error) {
	var o Overrides
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && err != io.EOF {
		return Overrides{}, fmt.Errorf("decode rating overrides: %w", err)
	}
	return o, nil
}

// LoadFile decodes an override document from a file.
func LoadFile(path string) (Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("open rating overrides: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Apply merges overrides into the configuration. Overrides may only
// touch standards the tables already carry.
func (c *Config) Apply(o Overrides) error {
	for std, entries := range o.Ratings {
		table, ok := c.Ratings[Standard(std)]
		if !ok {
			return fmt.Errorf("rating overrides for standard %q: %w", std, ErrMissingConfiguration)
		}
		for cat, value := range entries {
			table[classify.Category(cat)] = value
		}
	}
	for std, s := range o.Safety {
		base, ok := c.Safety[Standard(std)]
		if !ok {
			return fmt.Errorf("safety overrides for standard %q: %w", std, ErrMissingConfiguration)
		}
		if s.SiteQSSLevel != "" {
			base.SiteQSSLevel = s.SiteQSSLevel
		}
		if s.BuildingCategory != "" {
			base.BuildingCategory = s.BuildingCategory
		}
		if s.BuildingVKFCategory != "" {
			base.BuildingVKFCategory = s.BuildingVKFCategory
		}
		for cat, n := range s.Occupancy {
			base.Occupancy[cat] = n
		}
		c.Safety[Standard(std)] = base
	}
	return nil
}
