// Package placement computes element frames and local coordinate systems
// from simple 2D footprint inputs. It is pure geometry: no entity graph
// knowledge, no side effects.
package placement

import (
	"errors"
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrDegenerateGeometry: zero-length segment or non-positive size. Wrapped
// by every geometry operation in this package and reused by the builder for
// slot-size validation.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Frame is a local coordinate frame: an origin, an up axis pinned to global
// vertical, and a reference direction in the XY plane.
type Frame struct {
	Origin v3.Vec
	Axis   v3.Vec
	RefDir v3.Vec
}

// WorldFrame returns the identity frame at the world origin.
func WorldFrame() Frame {
	return Frame{
		Axis:   v3.Vec{Z: 1},
		RefDir: v3.Vec{X: 1},
	}
}

// FrameAt returns a frame at origin rotated angleDeg about the vertical axis.
func FrameAt(origin v3.Vec, angleDeg float64) Frame {
	rad := angleDeg * math.Pi / 180.0
	return Frame{
		Origin: origin,
		Axis:   v3.Vec{Z: 1},
		RefDir: v3.Vec{X: math.Cos(rad), Y: math.Sin(rad)},
	}
}

// AngleDeg returns the rotation about the vertical axis implied by the
// reference direction, in degrees in (-180, 180].
func (f Frame) AngleDeg() float64 {
	a := math.Atan2(f.RefDir.Y, f.RefDir.X) * 180.0 / math.Pi
	if a <= -180 {
		a += 360
	}
	return a
}

// LocalPlacement is a frame expressed relative to a parent placement.
// Placements compose by nesting; they are never flattened to world
// coordinates ahead of time.
type LocalPlacement struct {
	Parent *LocalPlacement
	Frame  Frame
}

// Absolute resolves the placement chain to a world origin and rotation.
// All frames in this system rotate about the vertical axis only, so the
// composition is a rotation-then-translation per level.
func (p *LocalPlacement) Absolute() (origin v3.Vec, angleDeg float64) {
	if p == nil {
		return v3.Vec{}, 0
	}
	parentOrigin, parentAngle := p.Parent.Absolute()
	rad := parentAngle * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	local := p.Frame.Origin
	return v3.Vec{
		X: parentOrigin.X + local.X*cos - local.Y*sin,
		Y: parentOrigin.Y + local.X*sin + local.Y*cos,
		Z: parentOrigin.Z + local.Z,
	}, parentAngle + p.Frame.AngleDeg()
}

// Profile is the plan rectangle of an extruded element.
type Profile struct {
	Length float64 // extent along the element's reference direction
	Width  float64 // extent across it
}

// WallFrame is the derived frame of a wall segment.
type WallFrame struct {
	Center   v3.Vec
	AngleDeg float64
	Length   float64

	// AxisAligned is false for segments that are neither horizontal nor
	// vertical. Such segments still receive the horizontal-wall angle
	// convention below; callers may use this flag to warn.
	AxisAligned bool
}

// ComputeWallFrame derives the center point, rotation and length for a wall
// running from start to end at the given base height.
//
// Only axis-aligned segments are supported: vertical segments rotate +90 or
// -90 degrees by endpoint y-order, everything else gets 0 or 180 degrees by
// endpoint x-order. Non-axis-aligned input silently falls into the
// horizontal branch; this matches the established output and is not to be
// generalized.
func ComputeWallFrame(start, end v2.Vec, baseHeight float64) (WallFrame, error) {
	length := math.Hypot(end.X-start.X, end.Y-start.Y)
	if length == 0 {
		return WallFrame{}, fmt.Errorf("wall segment (%g,%g)-(%g,%g): %w",
			start.X, start.Y, end.X, end.Y, ErrDegenerateGeometry)
	}

	var angle float64
	if start.X == end.X { // vertical
		if end.Y > start.Y {
			angle = 90
		} else {
			angle = -90
		}
	} else { // horizontal, and the fallback for everything else
		if end.X > start.X {
			angle = 0
		} else {
			angle = 180
		}
	}

	return WallFrame{
		Center: v3.Vec{
			X: (start.X + end.X) / 2,
			Y: (start.Y + end.Y) / 2,
			Z: baseHeight,
		},
		AngleDeg:    angle,
		Length:      length,
		AxisAligned: start.X == end.X || start.Y == end.Y,
	}, nil
}

// ComputeSlabFrame returns the center point of an axis-aligned slab
// footprint at the given elevation. Slabs never rotate.
func ComputeSlabFrame(length, width, baseZ float64) (v3.Vec, error) {
	if length <= 0 || width <= 0 {
		return v3.Vec{}, fmt.Errorf("slab footprint %gx%g: %w",
			length, width, ErrDegenerateGeometry)
	}
	return v3.Vec{X: length / 2, Y: width / 2, Z: baseZ}, nil
}

// PointAlong returns the point at the given run distance from the start of
// a segment, lifted to elevation z. Used to position opening slots on walls.
func PointAlong(start, end v2.Vec, offset, z float64) (v3.Vec, error) {
	length := math.Hypot(end.X-start.X, end.Y-start.Y)
	if length == 0 {
		return v3.Vec{}, fmt.Errorf("segment (%g,%g)-(%g,%g): %w",
			start.X, start.Y, end.X, end.Y, ErrDegenerateGeometry)
	}
	t := offset / length
	return v3.Vec{
		X: start.X + t*(end.X-start.X),
		Y: start.Y + t*(end.Y-start.Y),
		Z: z,
	}, nil
}
