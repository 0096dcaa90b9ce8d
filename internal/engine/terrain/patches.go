package terrain

import (
	"fmt"

	"github.com/Faultbox/hmaptess/pkg/math"
)

// BuildPatches splits the heightmap into quad patches of cellsPerPatch x
// cellsPerPatch cells. Patches on the far edges are clipped to the grid.
// World X and Z are sample indices times tileSize; Y is the sampled height.
func BuildPatches(h *Heightmap, tileSize float32, cellsPerPatch int) ([]Patch, error) {
	if h == nil || h.Width < 2 || h.Depth < 2 {
		return nil, fmt.Errorf("heightmap too small for patches")
	}
	if cellsPerPatch < 1 {
		return nil, fmt.Errorf("cells per patch must be positive, got %d", cellsPerPatch)
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %v", tileSize)
	}

	cols := ceilDiv(h.Width-1, cellsPerPatch)
	rows := ceilDiv(h.Depth-1, cellsPerPatch)
	patches := make([]Patch, 0, cols*rows)

	vertex := func(x, z int) math.Vec3 {
		return math.Vec3{
			X: float32(x) * tileSize,
			Y: h.At(x, z),
			Z: float32(z) * tileSize,
		}
	}

	for row := range rows {
		for col := range cols {
			x0 := col * cellsPerPatch
			z0 := row * cellsPerPatch
			x1 := min(x0+cellsPerPatch, h.Width-1)
			z1 := min(z0+cellsPerPatch, h.Depth-1)

			patches = append(patches, Patch{
				Col: col,
				Row: row,
				Corners: [4]math.Vec3{
					vertex(x0, z1), // Bottom-left
					vertex(x1, z1), // Bottom-right
					vertex(x0, z0), // Top-left
					vertex(x1, z0), // Top-right
				},
			})
		}
	}
	return patches, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
