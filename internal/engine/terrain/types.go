// Package terrain turns heightmaps into grids of quad patches for the
// tessellation evaluator.
package terrain

import "github.com/Faultbox/hmaptess/pkg/math"

// Heightmap is a grid of height samples, one per patch-grid vertex.
type Heightmap struct {
	Width   int       // Samples along X
	Depth   int       // Samples along Z
	Heights []float32 // Row-major, index z*Width + x
}

// Patch is one quad of the terrain grid in world space.
// Corners are ordered bottom-left, bottom-right, top-left, top-right,
// where "bottom" is the higher Z row.
type Patch struct {
	Col, Row int
	Corners  [4]math.Vec3
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}
