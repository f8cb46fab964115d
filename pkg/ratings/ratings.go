// Package ratings holds the configuration tables driving annotation:
// per-standard fire-rating values keyed by classification category, fire
// safety values for the spatial hierarchy, and the property set name for
// each element kind. Property set and property names are always English;
// only values vary by standard.
package ratings

import (
	"errors"
	"fmt"

	"github.com/bimforge/bimforge/pkg/classify"
	"github.com/bimforge/bimforge/pkg/model"
)

// ErrMissingConfiguration: a lookup referenced a standard the tables do
// not carry.
var ErrMissingConfiguration = errors.New("missing configuration")

// Standard selects the national value set.
type Standard string

const (
	StandardEN Standard = "en" // European (EN 13501-2)
	StandardDE Standard = "de" // German (DIN EN 13501-2)
	StandardFR Standard = "fr" // French (EN 13501-2)
	StandardCH Standard = "ch" // Swiss (VKF, T and EI classifications)
)

// Standards lists the supported standards in a fixed order.
func Standards() []Standard {
	return []Standard{StandardEN, StandardDE, StandardFR, StandardCH}
}

// ParseStandard validates a standard tag from user input.
func ParseStandard(s string) (Standard, error) {
	for _, std := range Standards() {
		if Standard(s) == std {
			return std, nil
		}
	}
	return "", fmt.Errorf("standard %q: %w", s, ErrMissingConfiguration)
}

// Safety carries the building-level fire safety values of one standard.
type Safety struct {
	SiteQSSLevel        string         `yaml:"site_qss_level"`
	BuildingCategory    string         `yaml:"building_category"`
	BuildingVKFCategory string         `yaml:"building_vkf_category"`
	Occupancy           map[string]int `yaml:"occupancy"`
}

// Config is the full rating configuration. Zero-value maps mean "no
// entries"; use Defaults for the compiled-in tables.
type Config struct {
	Ratings map[Standard]map[classify.Category]string
	Safety  map[Standard]Safety
}

// defaultRating is handed out when a category has no table entry. Kept
// from the source behavior rather than erroring.
const defaultRating = "30 min"

// europeanRatings is the EN 13501-2 value set shared by the en, de and fr
// standards.
func europeanRatings() map[classify.Category]string {
	return map[classify.Category]string{
		classify.ExternalWall:    "REI 90",
		classify.InternalWall:    "REI 60",
		classify.LoadbearingWall: "REI 90",
		"fire_separation_wall":   "REI 120",

		classify.ExternalDoor: "EI2 30-C5-Sa",
		classify.InternalDoor: "EI2 30-C5",
		classify.FireDoor:     "EI2 60-C5-S200",

		classify.Slab:   "REI 60",
		classify.Beam:   "R 90",
		classify.Column: "R 120",
		classify.Roof:   "REI 30",

		classify.Stair:  "R 60",
		classify.Window: "EW 30",
	}
}

// swissRatings replaces the door and window entries with VKF
// classifications.
func swissRatings() map[classify.Category]string {
	m := europeanRatings()
	m[classify.ExternalDoor] = "T 30"
	m[classify.InternalDoor] = "T 30"
	m[classify.FireDoor] = "T 60"
	m[classify.Window] = "EI 30"
	return m
}

func defaultOccupancy() map[string]int {
	return map[string]int{
		string(classify.Basement): 5,
		string(classify.Ground):   50,
		string(classify.Upper):    30,
		string(classify.Roof):     10,
	}
}

// Defaults returns the compiled-in configuration tables.
func Defaults() *Config {
	return &Config{
		Ratings: map[Standard]map[classify.Category]string{
			StandardEN: europeanRatings(),
			StandardDE: europeanRatings(),
			StandardFR: europeanRatings(),
			StandardCH: swissRatings(),
		},
		Safety: map[Standard]Safety{
			StandardEN: {
				SiteQSSLevel:        "QSS Level 3",
				BuildingCategory:    "Medium-rise building",
				BuildingVKFCategory: "Medium height building",
				Occupancy:           defaultOccupancy(),
			},
			StandardDE: {
				SiteQSSLevel:        "QSS Stufe 3",
				BuildingCategory:    "Gebäude mittlerer Höhe",
				BuildingVKFCategory: "Gebäude mittlerer Höhe",
				Occupancy:           defaultOccupancy(),
			},
			StandardFR: {
				SiteQSSLevel:        "QSS Niveau 3",
				BuildingCategory:    "Bâtiment de hauteur moyenne",
				BuildingVKFCategory: "Bâtiment de hauteur moyenne",
				Occupancy:           defaultOccupancy(),
			},
			StandardCH: {
				SiteQSSLevel:        "QSS Stufe 3",
				BuildingCategory:    "Gebäudekategorie VKF",
				BuildingVKFCategory: "Gebäude mittlerer Höhe",
				Occupancy:           defaultOccupancy(),
			},
		},
	}
}

// RatingFor returns the fire rating value for a classification category
// under the given standard. Unknown categories fall back to a generic
// rating; an unknown standard is a configuration error.
func (c *Config) RatingFor(std Standard, cat classify.Category) (string, error) {
	table, ok := c.Ratings[std]
	if !ok {
		return "", fmt.Errorf("ratings for standard %q: %w", std, ErrMissingConfiguration)
	}
	if v, ok := table[cat]; ok {
		return v, nil
	}
	return defaultRating, nil
}

// SafetyFor returns the building-level safety values for a standard.
func (c *Config) SafetyFor(std Standard) (Safety, error) {
	s, ok := c.Safety[std]
	if !ok {
		return Safety{}, fmt.Errorf("safety values for standard %q: %w", std, ErrMissingConfiguration)
	}
	return s, nil
}

// OccupancyFor returns the maximum occupancy for a storey category under
// the given standard.
func (c *Config) OccupancyFor(std Standard, cat classify.Category) (int, error) {
	s, err := c.SafetyFor(std)
	if err != nil {
		return 0, err
	}
	n, ok := s.Occupancy[string(cat)]
	if !ok {
		return 0, fmt.Errorf("occupancy for %q under %q: %w", cat, std, ErrMissingConfiguration)
	}
	return n, nil
}

// psetNames maps element kinds to their schema-mandated property set
// name. The names never vary by standard.
var psetNames = map[model.EntityKind]string{
	model.KindWall:   "Pset_WallCommon",
	model.KindDoor:   "Pset_DoorCommon",
	model.KindSlab:   "Pset_SlabCommon",
	model.KindBeam:   "Pset_BeamCommon",
	model.KindColumn: "Pset_ColumnCommon",
	model.KindWindow: "Pset_WindowCommon",
	model.KindStair:  "Pset_StairCommon",

	model.KindProject:  "Pset_ProjectCommon",
	model.KindSite:     "Pset_SiteCommon",
	model.KindBuilding: "Pset_BuildingCommon",
	model.KindStorey:   "Pset_BuildingStoreyCommon",
}

// PsetNameFor returns the common property set name for an entity kind.
// Kinds without a mapping share the wall set, mirroring the element
// fallback of the classifier.
func PsetNameFor(kind model.EntityKind) string {
	if name, ok := psetNames[kind]; ok {
		return name
	}
	return psetNames[model.KindWall]
}
