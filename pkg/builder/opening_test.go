package builder_test

import (
	"errors"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/bimforge/bimforge/pkg/builder"
	"github.com/bimforge/bimforge/pkg/model"
	"github.com/bimforge/bimforge/pkg/placement"
)

func TestCutOpeningEnvelopeMargins(t *testing.T) {
	store, b, h := newHouse(t)
	wall, _ := b.AddWall(h.Storeys[0], builder.WallSpec{
		Name:  "Front Wall",
		Start: v2.Vec{}, End: v2.Vec{X: 8}, Height: 3, Thickness: 0.2,
	})
	window, _ := b.AddFiller(model.KindWindow, h.Storeys[0], builder.FillerSpec{
		Name:     "Window",
		Position: v3.Vec{X: 2, Y: 0, Z: 1},
		Width:    1.5, Depth: 0.25, Height: 1.2,
	})

	opening, err := b.CutOpening(wall, window, builder.SlotSpec{
		Position: v3.Vec{X: 2, Y: 0, Z: 1},
		Width:    1.5, Height: 1.2,
	})
	if err != nil {
		t.Fatal(err)
	}

	d := opening.Element()
	if !near(d.Profile.Length, 1.52) {
		t.Errorf("opening plan width = %g, want penetrator + 0.02", d.Profile.Length)
	}
	if !near(d.Profile.Width, 0.25) {
		t.Errorf("opening depth = %g, want host thickness + 0.05", d.Profile.Width)
	}
	if !near(d.Height, 1.21) {
		t.Errorf("opening height = %g, want penetrator + 0.01", d.Height)
	}
	if opening.Name != "Window Opening" {
		t.Errorf("opening name = %q", opening.Name)
	}

	voids := store.Relations(model.RelVoids)
	fills := store.Relations(model.RelFills)
	if len(voids) != 1 || voids[0].Relating != wall.ID || voids[0].Related[0] != opening.ID {
		t.Errorf("voids wiring = %v, want wall -> opening", voids)
	}
	if len(fills) != 1 || fills[0].Relating != opening.ID || fills[0].Related[0] != window.ID {
		t.Errorf("fills wiring = %v, want opening -> window", fills)
	}
}

func TestCutOpeningValidatesParticipants(t *testing.T) {
	_, b, h := newHouse(t)
	wall, _ := b.AddWall(h.Storeys[0], builder.WallSpec{
		Start: v2.Vec{}, End: v2.Vec{X: 8}, Height: 3, Thickness: 0.2,
	})
	window, _ := b.AddFiller(model.KindWindow, h.Storeys[0], builder.FillerSpec{
		Name: "W", Position: v3.Vec{X: 2}, Width: 1.5, Depth: 0.25, Height: 1.2,
	})
	slot := builder.SlotSpec{Width: 1.5, Height: 1.2}

	if _, err := b.CutOpening(window, window, slot); !errors.Is(err, builder.ErrInvalidHost) {
		t.Errorf("window host: got %v, want ErrInvalidHost", err)
	}
	if _, err := b.CutOpening(wall, wall, slot); !errors.Is(err, builder.ErrInvalidPenetrator) {
		t.Errorf("wall penetrator: got %v, want ErrInvalidPenetrator", err)
	}
	if _, err := b.CutOpening(wall, window, builder.SlotSpec{Width: 0, Height: 1.2}); !errors.Is(err, placement.ErrDegenerateGeometry) {
		t.Errorf("zero slot width: got %v, want ErrDegenerateGeometry", err)
	}
}

func TestInsertPositionsFillerAlongWall(t *testing.T) {
	store, b, h := newHouse(t)

	// Vertical wall on the right edge, running from the front corner.
	wall, _ := b.AddWall(h.Storeys[0], builder.WallSpec{
		Name:  "Right Wall",
		Start: v2.Vec{X: 8, Y: 0}, End: v2.Vec{X: 8, Y: 6},
		Height: 3, Thickness: 0.2,
	})

	door, err := b.Insert(model.KindDoor, h.Storeys[0], wall, builder.InsertSpec{
		Name: "Entrance", Offset: 2, Width: 0.9, Height: 2.1, Depth: 0.25,
	})
	if err != nil {
		t.Fatal(err)
	}

	origin, angle := door.Element().Placement.Absolute()
	if !near(origin.X, 8) || !near(origin.Y, 2) || !near(origin.Z, 0) {
		t.Errorf("door origin = %v, want (8, 2, 0)", origin)
	}
	if !near(angle, 90) {
		t.Errorf("door angle = %g, want wall angle 90", angle)
	}

	// Insert also contains the filler and cuts its opening.
	if c := store.ContainerOf(door.ID); c == nil || c.ID != h.Storeys[0].ID {
		t.Error("door not contained in storey")
	}
	if len(store.Relations(model.RelVoids)) != 1 || len(store.Relations(model.RelFills)) != 1 {
		t.Error("insert did not wire the opening")
	}
}

func TestInsertSillLiftsFiller(t *testing.T) {
	_, b, h := newHouse(t)
	wall, _ := b.AddWall(h.Storeys[1], builder.WallSpec{
		Start: v2.Vec{}, End: v2.Vec{X: 8}, BaseHeight: 3, Height: 3, Thickness: 0.2,
	})
	window, err := b.Insert(model.KindWindow, h.Storeys[1], wall, builder.InsertSpec{
		Name: "W", Offset: 2, Sill: 1, Width: 1.5, Height: 1.2, Depth: 0.25,
	})
	if err != nil {
		t.Fatal(err)
	}
	origin, _ := window.Element().Placement.Absolute()
	if !near(origin.Z, 4) {
		t.Errorf("window z = %g, want wall base + sill = 4", origin.Z)
	}
}

func TestInsertRejectsNonWallHost(t *testing.T) {
	_, b, h := newHouse(t)
	slab, _ := b.AddSlab(h.Storeys[0], builder.SlabSpec{
		Name: "S", Length: 8, Width: 6, Thickness: 0.2,
	})
	_, err := b.Insert(model.KindDoor, h.Storeys[0], slab, builder.InsertSpec{
		Name: "D", Offset: 2, Width: 0.9, Height: 2.1, Depth: 0.25,
	})
	if !errors.Is(err, builder.ErrInvalidHost) {
		t.Errorf("slab host for insert: got %v, want ErrInvalidHost", err)
	}
}

func TestAddFillerValidation(t *testing.T) {
	_, b, h := newHouse(t)
	if _, err := b.AddFiller(model.KindWall, h.Storeys[0], builder.FillerSpec{
		Name: "X", Width: 1, Depth: 1, Height: 1,
	}); !errors.Is(err, builder.ErrInvalidPenetrator) {
		t.Errorf("wall as filler: got %v, want ErrInvalidPenetrator", err)
	}
	if _, err := b.AddFiller(model.KindWindow, h.Storeys[0], builder.FillerSpec{
		Name: "X", Width: 0, Depth: 1, Height: 1,
	}); !errors.Is(err, placement.ErrDegenerateGeometry) {
		t.Errorf("zero width filler: got %v, want ErrDegenerateGeometry", err)
	}
}
