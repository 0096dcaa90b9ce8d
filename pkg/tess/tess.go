// Package tess computes per-patch tessellation levels for heightmap terrain.
//
// A patch is a quad of four corners already transformed into reference space:
// X and Y are screen-plane coordinates, Z carries the depth sign (positive in
// front of the camera). The evaluator decides whether the patch can be seen
// at all and, if so, how finely each edge and the interior should be
// subdivided so that on-screen triangle density stays roughly constant.
package tess

import "github.com/Faultbox/hmaptess/pkg/math"

// Defaults used when a host does not override them.
const (
	DefaultMaxLevel  = 16
	DefaultPrecision = 50.0
	DefaultFallOff   = 1.5
)

// Patch holds the four corners of a quad patch.
//
// Edge order used by the evaluator:
//
//	edge 0: C0-C2
//	edge 1: C0-C1
//	edge 2: C1-C3
//	edge 3: C3-C2
//
// With corners laid out bottom-left, bottom-right, top-left, top-right this
// is left, bottom, right, top.
type Patch struct {
	C0, C1, C2, C3 math.Vec3
}

// Corner returns corner i (0-3). Out of range indices panic.
func (p Patch) Corner(i int) math.Vec3 {
	switch i {
	case 0:
		return p.C0
	case 1:
		return p.C1
	case 2:
		return p.C2
	case 3:
		return p.C3
	}
	panic("tess: corner index out of range")
}

// Corners returns the corners in patch order.
func (p Patch) Corners() [4]math.Vec3 {
	return [4]math.Vec3{p.C0, p.C1, p.C2, p.C3}
}

// Levels are the outer (per-edge) and inner tessellation levels of a patch.
// Either all six are zero (culled) or all lie in [1, MaxLevel].
type Levels struct {
	Outer0, Outer1, Outer2, Outer3 float32
	Inner0, Inner1                 float32
}

// Culled reports whether the patch was rejected by the visibility test.
func (l Levels) Culled() bool {
	return l == Levels{}
}

// Outer returns the outer levels in edge order.
func (l Levels) Outer() [4]float32 {
	return [4]float32{l.Outer0, l.Outer1, l.Outer2, l.Outer3}
}

// Inner returns the two inner levels.
func (l Levels) Inner() [2]float32 {
	return [2]float32{l.Inner0, l.Inner1}
}

// Settings configure the evaluator. The zero value is not usable; start from
// DefaultSettings. Settings are never validated: MaxLevel < 1 or a negative
// Precision give undefined results.
type Settings struct {
	// MaxLevel caps every level. Edges crossing the camera plane get this value.
	MaxLevel float32
	// Precision scales projected edge length into a subdivision count.
	Precision float32
	// FallOff is the screen-space margin past which a patch is culled.
	// It is wider than the visible [-1, 1] range because a coarse patch may
	// reach into view once subdivided and displaced.
	FallOff float32
	// StrictEdgeDepth gates edge 2 on both C1 and C3 being in front.
	// When false edge 2 only checks C1.
	StrictEdgeDepth bool
}

// DefaultSettings returns the stock evaluator settings.
func DefaultSettings() Settings {
	return Settings{
		MaxLevel:  DefaultMaxLevel,
		Precision: DefaultPrecision,
		FallOff:   DefaultFallOff,
	}
}

// Output is what the evaluator hands to the subdivision stage.
type Output struct {
	Levels Levels
	// ControlPoints are the input corners, passed through unmodified.
	ControlPoints Patch
}

// Visible reports whether any part of the patch may end up on screen.
// A patch is rejected only when all four corners fail the same test.
func Visible(p Patch, falloff float32) bool {
	var behind, left, right, below, above int
	for _, v := range p.Corners() {
		if v.Z <= 0 {
			behind++
		}
		if v.X <= -falloff {
			left++
		}
		if v.X >= falloff {
			right++
		}
		if v.Y <= -falloff {
			below++
		}
		if v.Y >= falloff {
			above++
		}
	}
	return behind < 4 && left < 4 && right < 4 && below < 4 && above < 4
}

// EdgeLevel returns the level for an edge whose endpoints are both in front
// of the camera: projected length times Precision, clamped to [1, MaxLevel].
func EdgeLevel(a, b math.Vec3, s Settings) float32 {
	return min(s.MaxLevel, max(a.XY().Distance(b.XY())*s.Precision, 1))
}

// Evaluate computes the tessellation levels for one patch.
func Evaluate(p Patch, s Settings) Output {
	out := Output{ControlPoints: p}
	if !Visible(p, s.FallOff) {
		return out
	}

	// Edges that cross the camera plane keep MaxLevel; projected length is
	// meaningless there.
	edge := func(a, b math.Vec3, inFront bool) float32 {
		if !inFront {
			return s.MaxLevel
		}
		return EdgeLevel(a, b, s)
	}

	// Edge 2 is gated on C1 alone unless StrictEdgeDepth is set.
	edge2Front := p.C1.Z > 0
	if s.StrictEdgeDepth {
		edge2Front = p.C1.Z > 0 && p.C3.Z > 0
	}

	l := &out.Levels
	l.Outer0 = edge(p.C0, p.C2, p.C0.Z > 0 && p.C2.Z > 0)
	l.Outer1 = edge(p.C0, p.C1, p.C0.Z > 0 && p.C1.Z > 0)
	l.Outer2 = edge(p.C1, p.C3, edge2Front)
	l.Outer3 = edge(p.C3, p.C2, p.C3.Z > 0 && p.C2.Z > 0)
	l.Inner0 = min(l.Outer1, l.Outer3)
	l.Inner1 = min(l.Outer0, l.Outer2)
	return out
}

// EvaluateInvocation runs the evaluator as one of the four control-point
// invocations of a patch. Every invocation computes the same levels; only
// invocation 0 should commit them. The returned point is this invocation's
// control point.
func EvaluateInvocation(p Patch, s Settings, invocation int) (levels Levels, commit bool, controlPoint math.Vec3) {
	out := Evaluate(p, s)
	return out.Levels, invocation == 0, out.ControlPoints.Corner(invocation)
}
