package camera

import (
	"github.com/Faultbox/hmaptess/pkg/math"
	"github.com/Faultbox/hmaptess/pkg/tess"
)

// ProjectPoint maps a world-space point into tessellation reference space:
// X and Y are the perspective-divided clip coordinates, Z is clip W, which
// is positive for points in front of the camera.
// A point on the camera plane (W == 0) keeps its raw clip X and Y.
func ProjectPoint(viewProj math.Mat4, p math.Vec3) math.Vec3 {
	clip := viewProj.MulVec4(p.Vec4(1))
	w := clip[3]
	if w == 0 {
		return math.Vec3{X: clip[0], Y: clip[1], Z: 0}
	}
	return math.Vec3{X: clip[0] / w, Y: clip[1] / w, Z: w}
}

// Project maps the four world-space corners of a terrain quad into a
// tessellation patch, keeping corner order.
func Project(viewProj math.Mat4, corners [4]math.Vec3) tess.Patch {
	return tess.Patch{
		C0: ProjectPoint(viewProj, corners[0]),
		C1: ProjectPoint(viewProj, corners[1]),
		C2: ProjectPoint(viewProj, corners[2]),
		C3: ProjectPoint(viewProj, corners[3]),
	}
}
