package builder

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/bimforge/bimforge/pkg/model"
	"github.com/bimforge/bimforge/pkg/placement"
)

// DefineType creates a type-definition template entity.
func (b *Builder) DefineType(kind model.EntityKind, name, description string) (*model.Entity, error) {
	if !kind.IsType() {
		return nil, fmt.Errorf("define type %q: kind %s: %w", name, kind, model.ErrUnknownEntity)
	}
	return b.sink.CreateEntity(kind, name, model.TypeData{Description: description}), nil
}

// typeTargets maps type kinds to the element kind they may define.
var typeTargets = map[model.EntityKind]model.EntityKind{
	model.KindWallType:   model.KindWall,
	model.KindWindowType: model.KindWindow,
	model.KindDoorType:   model.KindDoor,
}

// ApplyType wires one defines-by-type relation from the type template to
// the element group. Many elements may share one type.
func (b *Builder) ApplyType(typ *model.Entity, elements ...*model.Entity) error {
	target, ok := typeTargets[typ.Kind]
	if !ok {
		return fmt.Errorf("apply type %q: %s is not a type kind: %w", typ.Name, typ.Kind, model.ErrUnknownEntity)
	}
	ids := make([]model.GlobalID, len(elements))
	for i, e := range elements {
		if e.Kind != target {
			return fmt.Errorf("apply type %q: %s %q is not a %s: %w",
				typ.Name, e.Kind, e.Name, target, model.ErrUnknownEntity)
		}
		ids[i] = e.ID
	}
	_, err := b.sink.CreateRelation(model.RelDefinesByType, typ.Name+" Assignment", typ.ID, ids...)
	return err
}

// wallSegment reconstructs the 2D footprint segment of a wall from its
// derived frame (center, angle, length).
func wallSegment(d *model.ElementData) (start, end v2.Vec, err error) {
	if d.Profile.Length <= 0 {
		return start, end, fmt.Errorf("wall length %g: %w", d.Profile.Length, placement.ErrDegenerateGeometry)
	}
	c := d.Placement.Frame.Origin
	rad := d.Placement.Frame.AngleDeg() * math.Pi / 180.0
	half := d.Profile.Length / 2
	dx, dy := math.Cos(rad)*half, math.Sin(rad)*half
	start = v2.Vec{X: c.X - dx, Y: c.Y - dy}
	end = v2.Vec{X: c.X + dx, Y: c.Y + dy}
	return start, end, nil
}
