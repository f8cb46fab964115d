// Package classify derives semantic categories from an element's
// structural context: where it is contained and which property names it
// already carries. The heuristic is intentionally coarse (structural
// position, not spatial geometry) and is a fixed contract; consumers rely
// on it for reproducible output.
package classify

import (
	"strings"

	"github.com/bimforge/bimforge/pkg/model"
)

// Category is a derived classification label used to select configuration
// values.
type Category string

const (
	ExternalWall    Category = "external_wall"
	InternalWall    Category = "internal_wall"
	LoadbearingWall Category = "loadbearing_wall"

	ExternalDoor Category = "external_door"
	InternalDoor Category = "internal_door"
	FireDoor     Category = "fire_door"

	Slab   Category = "slab"
	Beam   Category = "beam"
	Column Category = "column"
	Window Category = "window"
	Stair  Category = "stair"

	// Storey occupancy categories.
	Basement Category = "basement"
	Ground   Category = "ground"
	Upper    Category = "upper"
	Roof     Category = "roof"
)

// StructuralContext is everything the classifier looks at: the kind of the
// spatial node the element is contained in and the names of the properties
// already attached to it.
type StructuralContext struct {
	ContainerKind model.EntityKind
	PropertyNames []string
}

// hasNameContaining reports whether any property name contains any of the
// given fragments, case-insensitively.
func (c StructuralContext) hasNameContaining(fragments ...string) bool {
	for _, name := range c.PropertyNames {
		lower := strings.ToLower(name)
		for _, frag := range fragments {
			if strings.Contains(lower, frag) {
				return true
			}
		}
	}
	return false
}

// rule is one entry of an ordered decision table: first match wins.
type rule struct {
	match func(StructuralContext) bool
	cat   Category
}

func evaluate(rules []rule, ctx StructuralContext, fallback Category) Category {
	for _, r := range rules {
		if r.match(ctx) {
			return r.cat
		}
	}
	return fallback
}

// Wall rules: contained directly in the building (not a storey) means
// external; a property name mentioning "load" means load-bearing.
var wallRules = []rule{
	{func(c StructuralContext) bool { return c.ContainerKind == model.KindBuilding }, ExternalWall},
	{func(c StructuralContext) bool { return c.hasNameContaining("load") }, LoadbearingWall},
}

// Door rules: "brand" is the localized fire synonym carried over from the
// source vocabulary.
var doorRules = []rule{
	{func(c StructuralContext) bool { return c.ContainerKind == model.KindBuilding }, ExternalDoor},
	{func(c StructuralContext) bool { return c.hasNameContaining("fire", "brand") }, FireDoor},
}

// kindCategories maps the remaining element kinds 1:1 to a fixed category.
var kindCategories = map[model.EntityKind]Category{
	model.KindSlab:   Slab,
	model.KindBeam:   Beam,
	model.KindColumn: Column,
	model.KindWindow: Window,
	model.KindStair:  Stair,
}

// Element classifies an element kind against its structural context.
// Unmapped kinds fall into the internal-wall bucket; that quirk is part of
// the contract.
func Element(kind model.EntityKind, ctx StructuralContext) Category {
	switch kind {
	case model.KindWall:
		return evaluate(wallRules, ctx, InternalWall)
	case model.KindDoor:
		return evaluate(doorRules, ctx, InternalDoor)
	default:
		if cat, ok := kindCategories[kind]; ok {
			return cat
		}
		return InternalWall
	}
}

// Ground-floor and roof name synonyms, probed case-insensitively against
// storey names regardless of the selected standard.
var (
	groundSynonyms = []string{"ground", "erdgeschoss", "rez-de-chaussée"}
	roofSynonyms   = []string{"roof", "dach", "toit"}
)

func nameContainsAny(name string, synonyms []string) bool {
	lower := strings.ToLower(name)
	for _, s := range synonyms {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// Storey classifies a storey for occupancy purposes by elevation and name.
func Storey(name string, elevation float64) Category {
	switch {
	case elevation < 0:
		return Basement
	case elevation == 0 || nameContainsAny(name, groundSynonyms):
		return Ground
	case nameContainsAny(name, roofSynonyms):
		return Roof
	default:
		return Upper
	}
}

// ContextFor builds the structural context of an element from the model
// graph: its first containment target and the names of every property in
// every attached property set, in attachment order.
func ContextFor(s *model.Store, e *model.Entity) StructuralContext {
	ctx := StructuralContext{}
	if container := s.ContainerOf(e.ID); container != nil {
		ctx.ContainerKind = container.Kind
	}
	for _, pset := range s.PropertySetsOn(e.ID) {
		if data := pset.PropertySet(); data != nil {
			for _, p := range data.Properties {
				ctx.PropertyNames = append(ctx.PropertyNames, p.Name)
			}
		}
	}
	return ctx
}
