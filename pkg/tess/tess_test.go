package tess

import (
	"math/rand"
	"testing"

	"github.com/Faultbox/hmaptess/pkg/math"
)

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}

func unitSquare(z float32) Patch {
	return Patch{
		C0: math.Vec3{X: 0, Y: 0, Z: z},
		C1: math.Vec3{X: 1, Y: 0, Z: z},
		C2: math.Vec3{X: 0, Y: 1, Z: z},
		C3: math.Vec3{X: 1, Y: 1, Z: z},
	}
}

// randomPatch returns a patch with coordinates in [-3, 3].
func randomPatch(r *rand.Rand) Patch {
	v := func() math.Vec3 {
		return math.Vec3{
			X: r.Float32()*6 - 3,
			Y: r.Float32()*6 - 3,
			Z: r.Float32()*6 - 3,
		}
	}
	return Patch{v(), v(), v(), v()}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.MaxLevel != 16 {
		t.Errorf("expected MaxLevel 16, got %v", s.MaxLevel)
	}
	if s.Precision != 50 {
		t.Errorf("expected Precision 50, got %v", s.Precision)
	}
	if s.FallOff != 1.5 {
		t.Errorf("expected FallOff 1.5, got %v", s.FallOff)
	}
	if s.StrictEdgeDepth {
		t.Error("expected StrictEdgeDepth to be false by default")
	}
}

func TestEvaluate_UnitSquareInFront(t *testing.T) {
	out := Evaluate(unitSquare(2), DefaultSettings())
	want := Levels{16, 16, 16, 16, 16, 16}
	if out.Levels != want {
		t.Errorf("Evaluate() levels = %+v, want %+v", out.Levels, want)
	}
}

func TestEvaluate_Culled(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
	}{
		{"behind camera", unitSquare(-1)},
		{"on camera plane", unitSquare(0)},
		{"left", Patch{
			C0: math.Vec3{X: -1.5, Y: 0, Z: 1},
			C1: math.Vec3{X: -2, Y: 0, Z: 1},
			C2: math.Vec3{X: -1.6, Y: 1, Z: 1},
			C3: math.Vec3{X: -9, Y: 1, Z: 1},
		}},
		{"right", Patch{
			C0: math.Vec3{X: 2, Y: 0, Z: 2},
			C1: math.Vec3{X: 3, Y: 0, Z: -2},
			C2: math.Vec3{X: 2, Y: 1, Z: 2},
			C3: math.Vec3{X: 3, Y: 1, Z: 0},
		}},
		{"bottom", Patch{
			C0: math.Vec3{X: 0, Y: -1.5, Z: 1},
			C1: math.Vec3{X: 1, Y: -1.5, Z: 1},
			C2: math.Vec3{X: 0, Y: -4, Z: 1},
			C3: math.Vec3{X: 1, Y: -4, Z: 1},
		}},
		{"top", Patch{
			C0: math.Vec3{X: 0, Y: 1.5, Z: 1},
			C1: math.Vec3{X: 1, Y: 1.5, Z: 1},
			C2: math.Vec3{X: 0, Y: 2, Z: 1},
			C3: math.Vec3{X: 1, Y: 2, Z: 1},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Evaluate(tt.patch, DefaultSettings())
			if !out.Levels.Culled() {
				t.Errorf("expected patch to be culled, got %+v", out.Levels)
			}
			if out.Levels != (Levels{}) {
				t.Errorf("culled levels should all be zero, got %+v", out.Levels)
			}
			if out.ControlPoints != tt.patch {
				t.Error("control points must pass through unchanged when culled")
			}
		})
	}
}

func TestEvaluate_OneCornerInsideKeepsPatch(t *testing.T) {
	// Three corners far right, one inside the margin
	p := Patch{
		C0: math.Vec3{X: 1.49, Y: 0, Z: 1},
		C1: math.Vec3{X: 3, Y: 0, Z: 1},
		C2: math.Vec3{X: 3, Y: 1, Z: 1},
		C3: math.Vec3{X: 3, Y: 1, Z: 1},
	}
	if !Visible(p, DefaultFallOff) {
		t.Fatal("patch with one corner inside the margin should be visible")
	}
	if Evaluate(p, DefaultSettings()).Levels.Culled() {
		t.Error("patch with one corner inside the margin should not be culled")
	}
}

func TestEvaluate_MixedFailuresNotCulled(t *testing.T) {
	// Every corner is outside, but not all on the same side
	p := Patch{
		C0: math.Vec3{X: -2, Y: 0, Z: 1},
		C1: math.Vec3{X: 2, Y: 0, Z: 1},
		C2: math.Vec3{X: -2, Y: 1, Z: 1},
		C3: math.Vec3{X: 2, Y: 1, Z: 1},
	}
	if Evaluate(p, DefaultSettings()).Levels.Culled() {
		t.Error("patch straddling the screen should not be culled")
	}
}

func TestEvaluate_MarginIsSettable(t *testing.T) {
	p := Patch{
		C0: math.Vec3{X: 2, Y: 0, Z: 1},
		C1: math.Vec3{X: 2.5, Y: 0, Z: 1},
		C2: math.Vec3{X: 2, Y: 0.5, Z: 1},
		C3: math.Vec3{X: 2.5, Y: 0.5, Z: 1},
	}
	s := DefaultSettings()
	if !Evaluate(p, s).Levels.Culled() {
		t.Error("expected cull with default margin")
	}
	s.FallOff = 3
	if Evaluate(p, s).Levels.Culled() {
		t.Error("expected patch kept with margin 3")
	}
}

func TestEvaluate_EdgeBehindCameraGetsMaxLevel(t *testing.T) {
	// C3 is behind the camera; every edge is 0.02 long.
	p := Patch{
		C0: math.Vec3{X: 0, Y: 0, Z: 1},
		C1: math.Vec3{X: 0.02, Y: 0, Z: 1},
		C2: math.Vec3{X: 0, Y: 0.02, Z: 1},
		C3: math.Vec3{X: 0.02, Y: 0.02, Z: -1},
	}

	t.Run("default", func(t *testing.T) {
		l := Evaluate(p, DefaultSettings()).Levels
		// Edge 2 only checks C1, so it is measured like edges 0 and 1
		for i, got := range []float32{l.Outer0, l.Outer1, l.Outer2} {
			if !approx(got, 1) {
				t.Errorf("Outer%d = %v, want 1", i, got)
			}
		}
		if l.Outer3 != 16 {
			t.Errorf("Outer3 = %v, want 16", l.Outer3)
		}
		if !approx(l.Inner0, 1) || !approx(l.Inner1, 1) {
			t.Errorf("Inner = %v, want [1 1]", l.Inner())
		}
	})

	t.Run("strict", func(t *testing.T) {
		s := DefaultSettings()
		s.StrictEdgeDepth = true
		l := Evaluate(p, s).Levels
		if !approx(l.Outer0, 1) || !approx(l.Outer1, 1) {
			t.Errorf("Outer0/1 = %v/%v, want 1", l.Outer0, l.Outer1)
		}
		if l.Outer2 != 16 || l.Outer3 != 16 {
			t.Errorf("Outer2/3 = %v/%v, want 16", l.Outer2, l.Outer3)
		}
		if !approx(l.Inner0, 1) || !approx(l.Inner1, 1) {
			t.Errorf("Inner = %v, want [1 1]", l.Inner())
		}
	})
}

func TestEvaluate_EdgeOrder(t *testing.T) {
	// Distinct edge lengths so each outer level identifies its edge
	p := Patch{
		C0: math.Vec3{X: 0, Y: 0, Z: 1},
		C1: math.Vec3{X: 0.1, Y: 0, Z: 1},
		C2: math.Vec3{X: 0, Y: 0.2, Z: 1},
		C3: math.Vec3{X: 0.1, Y: 0.5, Z: 1},
	}
	s := Settings{MaxLevel: 64, Precision: 100, FallOff: 1.5}
	l := Evaluate(p, s).Levels

	top := p.C3.XY().Distance(p.C2.XY()) * 100 // ~0.316
	want := [4]float32{
		20, // C0-C2: 0.2
		10, // C0-C1: 0.1
		50, // C1-C3: 0.5
		top,
	}
	for i, got := range l.Outer() {
		if !approx(got, want[i]) {
			t.Errorf("Outer%d = %v, want %v", i, got, want[i])
		}
	}
	if l.Inner0 != min(l.Outer1, l.Outer3) {
		t.Errorf("Inner0 = %v, want min(Outer1, Outer3) = %v", l.Inner0, min(l.Outer1, l.Outer3))
	}
	if l.Inner1 != min(l.Outer0, l.Outer2) {
		t.Errorf("Inner1 = %v, want min(Outer0, Outer2) = %v", l.Inner1, min(l.Outer0, l.Outer2))
	}
}

func TestEvaluate_RandomInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	s := DefaultSettings()

	for range 5000 {
		p := randomPatch(r)
		out := Evaluate(p, s)
		l := out.Levels

		if out.ControlPoints != p {
			t.Fatalf("control points changed: %+v -> %+v", p, out.ControlPoints)
		}
		if l.Culled() == Visible(p, s.FallOff) {
			t.Fatalf("Culled() = %v disagrees with Visible() for %+v", l.Culled(), p)
		}
		if l.Culled() {
			continue
		}
		for i, v := range l.Outer() {
			if v < 1 || v > s.MaxLevel {
				t.Fatalf("Outer%d = %v out of [1, %v] for %+v", i, v, s.MaxLevel, p)
			}
		}
		if l.Inner0 != min(l.Outer1, l.Outer3) || l.Inner1 != min(l.Outer0, l.Outer2) {
			t.Fatalf("inner levels %v not min of opposing edges %v", l.Inner(), l.Outer())
		}
	}
}

func TestEdgeLevel_ClampAndScale(t *testing.T) {
	s := Settings{MaxLevel: 1000, Precision: 50, FallOff: 1.5}
	a := math.Vec3{X: 0.1, Y: 0.2, Z: 1}
	b := math.Vec3{X: 0.3, Y: -0.1, Z: 1}

	base := EdgeLevel(a, b, s)
	for _, k := range []float32{0.5, 2, 3.5} {
		got := EdgeLevel(a.Scale(k), b.Scale(k), s)
		if !approx(got, base*k) {
			t.Errorf("EdgeLevel scaled by %v = %v, want %v", k, got, base*k)
		}
	}

	if got := EdgeLevel(b, a, s); got != base {
		t.Errorf("EdgeLevel swapped = %v, want %v", got, base)
	}

	if got := EdgeLevel(a, a, s); got != 1 {
		t.Errorf("EdgeLevel zero length = %v, want 1", got)
	}

	s.MaxLevel = 4
	if got := EdgeLevel(a, b, s); got != 4 {
		t.Errorf("EdgeLevel capped = %v, want 4", got)
	}
}

func TestEvaluate_PrecisionMonotonic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	lo := Settings{MaxLevel: 64, Precision: 10, FallOff: 1.5}
	hi := lo
	hi.Precision = 40

	for range 1000 {
		p := randomPatch(r)
		a := Evaluate(p, lo).Levels.Outer()
		b := Evaluate(p, hi).Levels.Outer()
		for i := range a {
			if b[i] < a[i] {
				t.Fatalf("Outer%d decreased from %v to %v when precision rose", i, a[i], b[i])
			}
		}
	}
}

func TestEvaluate_SwapEdgeEndpoints(t *testing.T) {
	p := Patch{
		C0: math.Vec3{X: 0, Y: 0, Z: 1},
		C1: math.Vec3{X: 0.1, Y: 0.05, Z: 1},
		C2: math.Vec3{X: 0.02, Y: 0.1, Z: 1},
		C3: math.Vec3{X: 0.12, Y: 0.13, Z: 1},
	}
	// Swapping C1 and C2 exchanges edges 0 and 1
	swapped := Patch{C0: p.C0, C1: p.C2, C2: p.C1, C3: p.C3}

	a := Evaluate(p, DefaultSettings()).Levels
	b := Evaluate(swapped, DefaultSettings()).Levels
	if a.Outer0 != b.Outer1 || a.Outer1 != b.Outer0 {
		t.Errorf("edge levels not order independent: %v vs %v", a.Outer(), b.Outer())
	}
}

func TestEvaluateInvocation(t *testing.T) {
	p := unitSquare(2)
	want := Evaluate(p, DefaultSettings()).Levels

	commits := 0
	for i := range 4 {
		l, commit, cp := EvaluateInvocation(p, DefaultSettings(), i)
		if l != want {
			t.Errorf("invocation %d levels = %+v, want %+v", i, l, want)
		}
		if commit {
			commits++
		}
		if cp != p.Corner(i) {
			t.Errorf("invocation %d control point = %v, want %v", i, cp, p.Corner(i))
		}
	}
	if commits != 1 {
		t.Errorf("expected exactly one committing invocation, got %d", commits)
	}
}

func TestPatchCorner(t *testing.T) {
	p := unitSquare(3)
	c := p.Corners()
	for i := range 4 {
		if p.Corner(i) != c[i] {
			t.Errorf("Corner(%d) = %v, want %v", i, p.Corner(i), c[i])
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("Corner(4) should panic")
		}
	}()
	p.Corner(4)
}
