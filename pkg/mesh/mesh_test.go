package mesh_test

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/bimforge/bimforge/pkg/builder"
	"github.com/bimforge/bimforge/pkg/kernel"
	"github.com/bimforge/bimforge/pkg/mesh"
	"github.com/bimforge/bimforge/pkg/model"
)

// fakeSolid tracks an axis-aligned bounding box through the kernel
// operations, plus the number of cuts taken out of it. Exact enough for
// the axis-aligned frames the builder produces.
type fakeSolid struct {
	min, max [3]float64
	cuts     int
}

func (s *fakeSolid) BoundingBox() (min, max [3]float64) { return s.min, s.max }

type fakeKernel struct{}

func (k *fakeKernel) Box(x, y, z float64) kernel.Solid {
	return &fakeSolid{max: [3]float64{x, y, z}}
}

func (k *fakeKernel) Union(a, b kernel.Solid) kernel.Solid {
	fa, fb := a.(*fakeSolid), b.(*fakeSolid)
	out := &fakeSolid{min: fa.min, max: fa.max, cuts: fa.cuts}
	for i := 0; i < 3; i++ {
		out.min[i] = math.Min(out.min[i], fb.min[i])
		out.max[i] = math.Max(out.max[i], fb.max[i])
	}
	return out
}

func (k *fakeKernel) Difference(a, _ kernel.Solid) kernel.Solid {
	fa := a.(*fakeSolid)
	return &fakeSolid{min: fa.min, max: fa.max, cuts: fa.cuts + 1}
}

func (k *fakeKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	f := s.(*fakeSolid)
	return &fakeSolid{
		min:  [3]float64{f.min[0] + x, f.min[1] + y, f.min[2] + z},
		max:  [3]float64{f.max[0] + x, f.max[1] + y, f.max[2] + z},
		cuts: f.cuts,
	}
}

// Rotate handles the vertical-axis rotations the frames use; the bounding
// box of the rotated box is the box of the rotated corners.
func (k *fakeKernel) Rotate(s kernel.Solid, _, _, zDeg float64) kernel.Solid {
	f := s.(*fakeSolid)
	rad := zDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	out := &fakeSolid{
		min:  [3]float64{math.Inf(1), math.Inf(1), f.min[2]},
		max:  [3]float64{math.Inf(-1), math.Inf(-1), f.max[2]},
		cuts: f.cuts,
	}
	for _, x := range []float64{f.min[0], f.max[0]} {
		for _, y := range []float64{f.min[1], f.max[1]} {
			rx, ry := x*cos-y*sin, x*sin+y*cos
			out.min[0] = math.Min(out.min[0], rx)
			out.max[0] = math.Max(out.max[0], rx)
			out.min[1] = math.Min(out.min[1], ry)
			out.max[1] = math.Max(out.max[1], ry)
		}
	}
	return out
}

func (k *fakeKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return &kernel.Mesh{Vertices: []float32{0, 0, 0}, Indices: []uint32{0, 0, 0}}, nil
}

var _ kernel.Kernel = (*fakeKernel)(nil)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func house(t *testing.T) (*model.Store, *builder.Builder, *builder.Hierarchy) {
	t.Helper()
	store := model.NewStore()
	b := builder.New(store)
	h, err := b.BuildHierarchy("P", "S", "B", []builder.StoreyDescriptor{
		{Name: "Ground Floor", Elevation: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	return store, b, h
}

func TestElementSolidWallBounds(t *testing.T) {
	_, b, h := house(t)
	k := &fakeKernel{}

	wall, err := b.AddWall(h.Storeys[0], builder.WallSpec{
		Name:  "South Wall",
		Start: v2.Vec{}, End: v2.Vec{X: 8}, Height: 3, Thickness: 0.2,
	})
	if err != nil {
		t.Fatal(err)
	}

	solid, err := mesh.ElementSolid(k, wall)
	if err != nil {
		t.Fatal(err)
	}
	min, max := solid.BoundingBox()
	if !near(min[0], 0) || !near(max[0], 8) {
		t.Errorf("X bounds = [%g, %g], want [0, 8]", min[0], max[0])
	}
	if !near(min[1], -0.1) || !near(max[1], 0.1) {
		t.Errorf("Y bounds = [%g, %g], want thickness centered on axis", min[1], max[1])
	}
	if !near(min[2], 0) || !near(max[2], 3) {
		t.Errorf("Z bounds = [%g, %g], want [0, 3]", min[2], max[2])
	}
}

func TestElementSolidRotatedWallBounds(t *testing.T) {
	_, b, h := house(t)
	k := &fakeKernel{}

	wall, err := b.AddWall(h.Storeys[0], builder.WallSpec{
		Name:  "East Wall",
		Start: v2.Vec{X: 8}, End: v2.Vec{X: 8, Y: 6}, Height: 3, Thickness: 0.2,
	})
	if err != nil {
		t.Fatal(err)
	}

	solid, err := mesh.ElementSolid(k, wall)
	if err != nil {
		t.Fatal(err)
	}
	min, max := solid.BoundingBox()
	if !near(min[0], 7.9) || !near(max[0], 8.1) {
		t.Errorf("X bounds = [%g, %g], want wall thickness around x=8", min[0], max[0])
	}
	if !near(min[1], 0) || !near(max[1], 6) {
		t.Errorf("Y bounds = [%g, %g], want [0, 6]", min[1], max[1])
	}
}

func TestElementSolidRejectsBadInput(t *testing.T) {
	store, _, h := house(t)
	k := &fakeKernel{}

	if _, err := mesh.ElementSolid(k, h.Project); err == nil {
		t.Error("spatial entity accepted as element")
	}
	broken := store.CreateEntity(model.KindWall, "broken", &model.ElementData{})
	if _, err := mesh.ElementSolid(k, broken); err == nil {
		t.Error("zero-extent element accepted")
	}
}

func TestHostSolidSubtractsOpenings(t *testing.T) {
	store, b, h := house(t)
	k := &fakeKernel{}

	wall, err := b.AddWall(h.Storeys[0], builder.WallSpec{
		Name:  "South Wall",
		Start: v2.Vec{}, End: v2.Vec{X: 8}, Height: 3, Thickness: 0.2,
	})
	if err != nil {
		t.Fatal(err)
	}
	window, err := b.Insert(model.KindWindow, h.Storeys[0], wall, builder.InsertSpec{
		Name: "W", Offset: 2, Sill: 1, Width: 1.5, Height: 1.2, Depth: 0.25,
	})
	if err != nil {
		t.Fatal(err)
	}

	solid, err := mesh.HostSolid(k, store, wall)
	if err != nil {
		t.Fatal(err)
	}
	f := solid.(*fakeSolid)
	if f.cuts != 1 {
		t.Errorf("wall solid carries %d cuts, want 1", f.cuts)
	}
	min, max := solid.BoundingBox()
	if !near(min[0], 0) || !near(max[0], 8) {
		t.Errorf("cutting changed the wall bounds: [%g, %g]", min[0], max[0])
	}

	// The window itself is not penetrable and comes back uncut.
	solid, err = mesh.HostSolid(k, store, window)
	if err != nil {
		t.Fatal(err)
	}
	if f := solid.(*fakeSolid); f.cuts != 0 {
		t.Errorf("window solid carries %d cuts, want 0", f.cuts)
	}
}

func TestPreviewsSkipsOpenings(t *testing.T) {
	store, b, h := house(t)
	k := &fakeKernel{}

	wall, err := b.AddWall(h.Storeys[0], builder.WallSpec{
		Name:  "South Wall",
		Start: v2.Vec{}, End: v2.Vec{X: 8}, Height: 3, Thickness: 0.2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Insert(model.KindDoor, h.Storeys[0], wall, builder.InsertSpec{
		Name: "Door", Offset: 3, Width: 0.9, Height: 2.1, Depth: 0.25,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddSlab(h.Storeys[0], builder.SlabSpec{
		Name: "Slab", Length: 8, Width: 6, Thickness: 0.2,
	}); err != nil {
		t.Fatal(err)
	}

	meshes, err := mesh.Previews(k, store)
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 3 {
		t.Fatalf("%d meshes, want 3 (wall, door, slab; opening consumed)", len(meshes))
	}
	names := map[string]bool{}
	for _, m := range meshes {
		names[m.Element] = true
	}
	for _, want := range []string{"South Wall", "Door", "Slab"} {
		if !names[want] {
			t.Errorf("no mesh named %q (have %v)", want, names)
		}
	}
}
