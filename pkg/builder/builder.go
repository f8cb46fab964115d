// Package builder assembles building-model graphs: spatial hierarchy,
// placeable elements with derived geometry, opening cutouts and type
// definitions. It drives a model.Sink and never touches persistence.
package builder

import (
	"errors"
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/bimforge/bimforge/pkg/model"
	"github.com/bimforge/bimforge/pkg/placement"
)

var (
	// ErrInvalidHost: the opening coordinator was given a host that
	// cannot be voided (only walls and slabs can).
	ErrInvalidHost = errors.New("invalid opening host")

	// ErrInvalidPenetrator: the opening coordinator was given a filler
	// that cannot fill an opening (only windows and doors can).
	ErrInvalidPenetrator = errors.New("invalid opening penetrator")
)

// Opening envelope margins. The cutout always strictly contains the
// penetrator so downstream boolean cuts leave no sliver artifacts.
const (
	openingPlanMargin   = 0.02 // added to the penetrator's plan width
	openingDepthMargin  = 0.05 // added to the host wall thickness
	openingHeightMargin = 0.01 // added to the penetrator's extrusion height
)

// Builder assembles a building model into a sink. One builder owns one
// model for the duration of a build; it is not safe for concurrent use.
type Builder struct {
	sink  model.Sink
	world *placement.LocalPlacement
}

// New returns a builder writing into the given sink.
func New(sink model.Sink) *Builder {
	return &Builder{
		sink:  sink,
		world: &placement.LocalPlacement{Frame: placement.WorldFrame()},
	}
}

// World returns the root placement every element frame nests under.
func (b *Builder) World() *placement.LocalPlacement { return b.world }

// StoreyDescriptor names a storey and its explicit elevation.
type StoreyDescriptor struct {
	Name      string
	Elevation float64
}

// Hierarchy is the spatial tree produced by BuildHierarchy.
type Hierarchy struct {
	Project  *model.Entity
	Site     *model.Entity
	Building *model.Entity
	Storeys  []*model.Entity
}

// BuildHierarchy creates exactly one project, site and building, plus the
// given storeys in order, and wires one aggregation relation per level
// carrying the full child list.
func (b *Builder) BuildHierarchy(projectName, siteName, buildingName string, storeys []StoreyDescriptor) (*Hierarchy, error) {
	h, err := b.StartHierarchy(projectName, siteName, buildingName)
	if err != nil {
		return nil, err
	}
	for _, d := range storeys {
		h.Storeys = append(h.Storeys, b.AddStorey(d))
	}
	if err := b.AttachStoreys(h); err != nil {
		return nil, err
	}
	return h, nil
}

// StartHierarchy creates the project, site and building and their two
// aggregation relations. Storeys are added afterwards and attached in one
// batch by AttachStoreys.
func (b *Builder) StartHierarchy(projectName, siteName, buildingName string) (*Hierarchy, error) {
	h := &Hierarchy{
		Project:  b.sink.CreateEntity(model.KindProject, projectName, nil),
		Site:     b.sink.CreateEntity(model.KindSite, siteName, nil),
		Building: b.sink.CreateEntity(model.KindBuilding, buildingName, nil),
	}
	if _, err := b.sink.CreateRelation(model.RelAggregates, "", h.Project.ID, h.Site.ID); err != nil {
		return nil, err
	}
	if _, err := b.sink.CreateRelation(model.RelAggregates, "", h.Site.ID, h.Building.ID); err != nil {
		return nil, err
	}
	return h, nil
}

// AddStorey creates a storey entity. It carries no relations until
// AttachStoreys wires the full list.
func (b *Builder) AddStorey(d StoreyDescriptor) *model.Entity {
	return b.sink.CreateEntity(model.KindStorey, d.Name, model.StoreyData{Elevation: d.Elevation})
}

// AttachStoreys wires the single building-to-storeys aggregation relation
// carrying the full child list. Call it exactly once per hierarchy, after
// the last storey.
func (b *Builder) AttachStoreys(h *Hierarchy) error {
	ids := make([]model.GlobalID, len(h.Storeys))
	for i, s := range h.Storeys {
		ids[i] = s.ID
	}
	_, err := b.sink.CreateRelation(model.RelAggregates, "", h.Building.ID, ids...)
	return err
}

// Contain creates one fresh containment relation from the spatial node to
// the given element group. Single-element calls get a single-element list;
// downstream lookups expect one relation per insertion call.
func (b *Builder) Contain(node *model.Entity, elements ...*model.Entity) error {
	if !node.Kind.IsSpatial() {
		return fmt.Errorf("contain in %s %q: %w", node.Kind, node.Name, model.ErrUnknownEntity)
	}
	ids := make([]model.GlobalID, len(elements))
	for i, e := range elements {
		ids[i] = e.ID
	}
	_, err := b.sink.CreateRelation(model.RelContains, "", node.ID, ids...)
	return err
}

// WallSpec describes a wall by its 2D footprint segment.
type WallSpec struct {
	Name       string
	Start, End v2.Vec
	BaseHeight float64
	Height     float64
	Thickness  float64
}

// AddWall derives the wall frame from the footprint segment, creates the
// wall and contains it in the storey via a fresh containment relation.
func (b *Builder) AddWall(storey *model.Entity, spec WallSpec) (*model.Entity, error) {
	if spec.Height <= 0 || spec.Thickness <= 0 {
		return nil, fmt.Errorf("wall %q: height %g thickness %g: %w",
			spec.Name, spec.Height, spec.Thickness, placement.ErrDegenerateGeometry)
	}
	frame, err := placement.ComputeWallFrame(spec.Start, spec.End, spec.BaseHeight)
	if err != nil {
		return nil, fmt.Errorf("wall %q: %w", spec.Name, err)
	}

	wall := b.sink.CreateEntity(model.KindWall, spec.Name, model.ElementData{
		Placement: &placement.LocalPlacement{
			Parent: b.world,
			Frame:  placement.FrameAt(frame.Center, frame.AngleDeg),
		},
		Profile: placement.Profile{Length: frame.Length, Width: spec.Thickness},
		Height:  spec.Height,
	})
	if err := b.Contain(storey, wall); err != nil {
		return nil, err
	}
	return wall, nil
}

// SlabSpec describes an axis-aligned slab footprint.
type SlabSpec struct {
	Name      string
	Length    float64
	Width     float64
	BaseZ     float64
	Thickness float64
}

// AddSlab creates a slab at the footprint midpoint and contains it in the
// storey. Slabs never rotate.
func (b *Builder) AddSlab(storey *model.Entity, spec SlabSpec) (*model.Entity, error) {
	if spec.Thickness <= 0 {
		return nil, fmt.Errorf("slab %q: thickness %g: %w",
			spec.Name, spec.Thickness, placement.ErrDegenerateGeometry)
	}
	center, err := placement.ComputeSlabFrame(spec.Length, spec.Width, spec.BaseZ)
	if err != nil {
		return nil, fmt.Errorf("slab %q: %w", spec.Name, err)
	}

	slab := b.sink.CreateEntity(model.KindSlab, spec.Name, model.ElementData{
		Placement: &placement.LocalPlacement{
			Parent: b.world,
			Frame:  placement.FrameAt(center, 0),
		},
		Profile: placement.Profile{Length: spec.Length, Width: spec.Width},
		Height:  spec.Thickness,
	})
	if err := b.Contain(storey, slab); err != nil {
		return nil, err
	}
	return slab, nil
}

// FillerSpec describes a window or door placed at an absolute slot
// position: plan width, plan depth and extrusion height.
type FillerSpec struct {
	Name     string
	Position v3.Vec
	AngleDeg float64
	Width    float64
	Depth    float64
	Height   float64
}

// AddFiller creates a window or door element at its slot position and
// contains it in the storey. The caller wires the opening afterwards (or
// uses Insert, which does both).
func (b *Builder) AddFiller(kind model.EntityKind, storey *model.Entity, spec FillerSpec) (*model.Entity, error) {
	if kind != model.KindWindow && kind != model.KindDoor {
		return nil, fmt.Errorf("filler %q has kind %s: %w", spec.Name, kind, ErrInvalidPenetrator)
	}
	if spec.Width <= 0 || spec.Height <= 0 || spec.Depth <= 0 {
		return nil, fmt.Errorf("filler %q: size %gx%gx%g: %w",
			spec.Name, spec.Width, spec.Depth, spec.Height, placement.ErrDegenerateGeometry)
	}

	filler := b.sink.CreateEntity(kind, spec.Name, model.ElementData{
		Placement: &placement.LocalPlacement{
			Parent: b.world,
			Frame:  placement.FrameAt(spec.Position, spec.AngleDeg),
		},
		Profile: placement.Profile{Length: spec.Width, Width: spec.Depth},
		Height:  spec.Height,
	})
	if err := b.Contain(storey, filler); err != nil {
		return nil, err
	}
	return filler, nil
}
