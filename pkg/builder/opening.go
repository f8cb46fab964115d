package builder

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/bimforge/bimforge/pkg/model"
	"github.com/bimforge/bimforge/pkg/placement"
)

// SlotSpec positions an opening slot: where the cutout sits, how it is
// rotated, and the penetrator's plan width and extrusion height at that
// slot. The cutout envelope is derived from these plus the host thickness.
type SlotSpec struct {
	Position v3.Vec
	AngleDeg float64
	Width    float64
	Height   float64
}

// CutOpening creates the opening cutout for a penetrating element and
// wires exactly one voids relation (host -> opening) and one fills
// relation (opening -> penetrator). The opening envelope strictly contains
// the penetrator: plan width + 2 cm, depth = host thickness + 5 cm,
// extrusion height + 1 cm. An opening is never shared between hosts or
// penetrators.
func (b *Builder) CutOpening(host, penetrator *model.Entity, slot SlotSpec) (*model.Entity, error) {
	if !host.Kind.IsPenetrable() {
		return nil, fmt.Errorf("cut opening: host %s %q: %w", host.Kind, host.Name, ErrInvalidHost)
	}
	if penetrator.Kind != model.KindWindow && penetrator.Kind != model.KindDoor {
		return nil, fmt.Errorf("cut opening: penetrator %s %q: %w",
			penetrator.Kind, penetrator.Name, ErrInvalidPenetrator)
	}
	if slot.Width <= 0 || slot.Height <= 0 {
		return nil, fmt.Errorf("cut opening for %q: slot %gx%g: %w",
			penetrator.Name, slot.Width, slot.Height, placement.ErrDegenerateGeometry)
	}

	hostData := host.Element()
	if hostData == nil {
		return nil, fmt.Errorf("cut opening: host %q has no geometry: %w", host.Name, ErrInvalidHost)
	}

	opening := b.sink.CreateEntity(model.KindOpening, penetrator.Name+" Opening", model.ElementData{
		Placement: &placement.LocalPlacement{
			Parent: b.world,
			Frame:  placement.FrameAt(slot.Position, slot.AngleDeg),
		},
		Profile: placement.Profile{
			Length: slot.Width + openingPlanMargin,
			Width:  hostData.Profile.Width + openingDepthMargin,
		},
		Height: slot.Height + openingHeightMargin,
	})

	if _, err := b.sink.CreateRelation(model.RelVoids, penetrator.Name+" Opening", host.ID, opening.ID); err != nil {
		return nil, err
	}
	if _, err := b.sink.CreateRelation(model.RelFills, penetrator.Name+" Fills Opening", opening.ID, penetrator.ID); err != nil {
		return nil, err
	}
	return opening, nil
}

// InsertSpec places a filler into a host wall: run distance from the wall
// start, sill height above the wall base, and the filler's dimensions.
type InsertSpec struct {
	Name   string
	Offset float64
	Sill   float64
	Width  float64
	Height float64
	Depth  float64
}

// Insert creates a window or door positioned along a host wall, contains
// it in the storey, and cuts its opening. It is the one-call path the
// generation scripts use.
func (b *Builder) Insert(kind model.EntityKind, storey, wall *model.Entity, spec InsertSpec) (*model.Entity, error) {
	wallData := wall.Element()
	if wall.Kind != model.KindWall || wallData == nil {
		return nil, fmt.Errorf("insert %q: host %s %q: %w", spec.Name, wall.Kind, wall.Name, ErrInvalidHost)
	}

	start, end, err := wallSegment(wallData)
	if err != nil {
		return nil, fmt.Errorf("insert %q: %w", spec.Name, err)
	}
	base := wallData.Placement.Frame.Origin.Z
	pos, err := placement.PointAlong(start, end, spec.Offset, base+spec.Sill)
	if err != nil {
		return nil, fmt.Errorf("insert %q: %w", spec.Name, err)
	}

	filler, err := b.AddFiller(kind, storey, FillerSpec{
		Name:     spec.Name,
		Position: pos,
		AngleDeg: wallData.Placement.Frame.AngleDeg(),
		Width:    spec.Width,
		Depth:    spec.Depth,
		Height:   spec.Height,
	})
	if err != nil {
		return nil, err
	}

	if _, err := b.CutOpening(wall, filler, SlotSpec{
		Position: pos,
		AngleDeg: wallData.Placement.Frame.AngleDeg(),
		Width:    spec.Width,
		Height:   spec.Height,
	}); err != nil {
		return nil, err
	}
	return filler, nil
}
