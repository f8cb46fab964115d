package classify_test

import (
	"testing"

	"github.com/bimforge/bimforge/pkg/classify"
	"github.com/bimforge/bimforge/pkg/model"
)

func TestElementWallRules(t *testing.T) {
	tests := []struct {
		name string
		ctx  classify.StructuralContext
		want classify.Category
	}{
		{
			"contained in building is external",
			classify.StructuralContext{ContainerKind: model.KindBuilding},
			classify.ExternalWall,
		},
		{
			"load property name wins over storey containment",
			classify.StructuralContext{ContainerKind: model.KindStorey, PropertyNames: []string{"LoadBearing"}},
			classify.LoadbearingWall,
		},
		{
			"building containment wins over load property",
			classify.StructuralContext{ContainerKind: model.KindBuilding, PropertyNames: []string{"LoadBearing"}},
			classify.ExternalWall,
		},
		{
			"plain storey wall is internal",
			classify.StructuralContext{ContainerKind: model.KindStorey},
			classify.InternalWall,
		},
		{
			"uncontained wall is internal",
			classify.StructuralContext{},
			classify.InternalWall,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify.Element(model.KindWall, tt.ctx); got != tt.want {
				t.Errorf("Element(wall) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestElementDoorRules(t *testing.T) {
	tests := []struct {
		name string
		ctx  classify.StructuralContext
		want classify.Category
	}{
		{"building containment", classify.StructuralContext{ContainerKind: model.KindBuilding}, classify.ExternalDoor},
		{"fire property", classify.StructuralContext{ContainerKind: model.KindStorey, PropertyNames: []string{"FireRating"}}, classify.FireDoor},
		{"brand synonym", classify.StructuralContext{ContainerKind: model.KindStorey, PropertyNames: []string{"Brandschutz"}}, classify.FireDoor},
		{"plain door", classify.StructuralContext{ContainerKind: model.KindStorey}, classify.InternalDoor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify.Element(model.KindDoor, tt.ctx); got != tt.want {
				t.Errorf("Element(door) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestElementFixedKindsAndFallback(t *testing.T) {
	ctx := classify.StructuralContext{ContainerKind: model.KindStorey}
	fixed := map[model.EntityKind]classify.Category{
		model.KindSlab:   classify.Slab,
		model.KindBeam:   classify.Beam,
		model.KindColumn: classify.Column,
		model.KindWindow: classify.Window,
		model.KindStair:  classify.Stair,
	}
	for kind, want := range fixed {
		if got := classify.Element(kind, ctx); got != want {
			t.Errorf("Element(%s) = %q, want %q", kind, got, want)
		}
	}

	// Kinds outside the element tables share the internal-wall bucket.
	if got := classify.Element(model.KindOpening, ctx); got != classify.InternalWall {
		t.Errorf("Element(opening) = %q, want internal_wall fallback", got)
	}
}

func TestStorey(t *testing.T) {
	tests := []struct {
		name      string
		storey    string
		elevation float64
		want      classify.Category
	}{
		{"negative elevation", "Keller", -2.5, classify.Basement},
		{"zero elevation", "Level A", 0, classify.Ground},
		{"ground name synonym", "Ground Floor", 3, classify.Ground},
		{"german ground synonym", "Erdgeschoss", 3, classify.Ground},
		{"french ground synonym", "Rez-de-chaussée", 3, classify.Ground},
		{"roof name", "Roof Terrace", 9, classify.Roof},
		{"german roof name", "Dachgeschoss", 9, classify.Roof},
		{"plain upper storey", "First Floor", 3, classify.Upper},
		// Elevation < 0 wins even over a roof name.
		{"negative elevation beats name", "Roof", -1, classify.Basement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify.Storey(tt.storey, tt.elevation); got != tt.want {
				t.Errorf("Storey(%q, %g) = %q, want %q", tt.storey, tt.elevation, got, tt.want)
			}
		})
	}
}

func TestContextFor(t *testing.T) {
	s := model.NewStore()
	storey := s.CreateEntity(model.KindStorey, "gf", model.StoreyData{})
	wall := s.CreateEntity(model.KindWall, "wall", nil)
	if _, err := s.CreateRelation(model.RelContains, "", storey.ID, wall.ID); err != nil {
		t.Fatal(err)
	}
	set := s.CreateEntity(model.KindPropertySet, "Pset_WallCommon", &model.PropertySetData{
		Properties: []model.Property{
			{Name: "LoadBearing", Value: model.Boolean(true)},
			{Name: "FireRating", Value: model.Text("REI 60")},
		},
	})
	if _, err := s.CreateRelation(model.RelDefinesByProperties, "", set.ID, wall.ID); err != nil {
		t.Fatal(err)
	}

	ctx := classify.ContextFor(s, wall)
	if ctx.ContainerKind != model.KindStorey {
		t.Errorf("container kind = %v, want storey", ctx.ContainerKind)
	}
	if len(ctx.PropertyNames) != 2 || ctx.PropertyNames[0] != "LoadBearing" {
		t.Errorf("property names = %v", ctx.PropertyNames)
	}

	if got := classify.Element(model.KindWall, ctx); got != classify.LoadbearingWall {
		t.Errorf("classified = %q, want loadbearing via property name", got)
	}
}
