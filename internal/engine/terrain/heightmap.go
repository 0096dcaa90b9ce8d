package terrain

import (
	"fmt"
	"image"
	"image/color"
	"os"

	// Heightmap decoders; PNG comes from the standard library, TGA from tga.go.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/Faultbox/hmaptess/pkg/math"
)

// NewHeightmap creates a flat heightmap.
func NewHeightmap(width, depth int) *Heightmap {
	return &Heightmap{
		Width:   width,
		Depth:   depth,
		Heights: make([]float32, width*depth),
	}
}

// At returns the height at sample (x, z), clamping to the grid edge.
func (h *Heightmap) At(x, z int) float32 {
	x = clampi(x, 0, h.Width-1)
	z = clampi(z, 0, h.Depth-1)
	return h.Heights[z*h.Width+x]
}

// Set stores the height at sample (x, z). Out-of-range samples are ignored.
func (h *Heightmap) Set(x, z int, v float32) {
	if x < 0 || z < 0 || x >= h.Width || z >= h.Depth {
		return
	}
	h.Heights[z*h.Width+x] = v
}

// Bounds returns the world-space box of the heightmap at the given tile size.
func (h *Heightmap) Bounds(tileSize float32) Bounds {
	b := Bounds{
		Min: math.Vec3{X: 0, Y: 1e10, Z: 0},
		Max: math.Vec3{
			X: float32(h.Width-1) * tileSize,
			Y: -1e10,
			Z: float32(h.Depth-1) * tileSize,
		},
	}
	for _, v := range h.Heights {
		b.Min.Y = min(b.Min.Y, v)
		b.Max.Y = max(b.Max.Y, v)
	}
	if len(h.Heights) == 0 {
		b.Min.Y, b.Max.Y = 0, 0
	}
	return b
}

// FromImage builds a heightmap from image luminance.
// Black maps to 0 and white to heightScale.
func FromImage(img image.Image, heightScale float32) *Heightmap {
	bounds := img.Bounds()
	h := NewHeightmap(bounds.Dx(), bounds.Dy())

	for z := range h.Depth {
		for x := range h.Width {
			g := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+z)).(color.Gray16)
			h.Heights[z*h.Width+x] = float32(g.Y) / 0xFFFF * heightScale
		}
	}
	return h
}

// Load decodes a heightmap image (PNG, BMP, TIFF or TGA) from disk.
func Load(path string, heightScale float32) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap %s: %w", path, err)
	}
	h := FromImage(img, heightScale)
	if h.Width < 2 || h.Depth < 2 {
		return nil, fmt.Errorf("heightmap %s (%s) is %dx%d, need at least 2x2", path, format, h.Width, h.Depth)
	}
	return h, nil
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
