package terrain

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeTrueColor    = 2  // Uncompressed true-color
	TGATypeGray         = 3  // Uncompressed grayscale
	TGATypeTrueColorRLE = 10 // RLE compressed true-color
	TGATypeGrayRLE      = 11 // RLE compressed grayscale
)

const tgaHeaderSize = 18

func init() {
	// TGA has no magic number; match on "no color map" plus a supported type.
	for _, typ := range []byte{TGATypeTrueColor, TGATypeGray, TGATypeTrueColorRLE, TGATypeGrayRLE} {
		image.RegisterFormat("tga", "?\x00"+string(typ), decodeTGAReader, decodeTGAConfig)
	}
}

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("TGA data too short")
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&0x20 != 0,
	}
	if data[1] != 0 {
		return h, fmt.Errorf("color-mapped TGA not supported")
	}

	switch h.imageType {
	case TGATypeTrueColor, TGATypeTrueColorRLE:
		if h.bpp != 24 && h.bpp != 32 {
			return h, fmt.Errorf("unsupported true-color TGA bit depth %d", h.bpp)
		}
	case TGATypeGray, TGATypeGrayRLE:
		if h.bpp != 8 {
			return h, fmt.Errorf("unsupported grayscale TGA bit depth %d", h.bpp)
		}
	default:
		return h, fmt.Errorf("unsupported TGA type %d", h.imageType)
	}
	return h, nil
}

func (h tgaHeader) gray() bool {
	return h.imageType == TGATypeGray || h.imageType == TGATypeGrayRLE
}

func (h tgaHeader) rle() bool {
	return h.imageType == TGATypeTrueColorRLE || h.imageType == TGATypeGrayRLE
}

func decodeTGAConfig(r io.Reader) (image.Config, error) {
	var buf [tgaHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return image.Config{}, err
	}
	h, err := parseTGAHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	model := color.RGBAModel
	if h.gray() {
		model = color.GrayModel
	}
	return image.Config{ColorModel: model, Width: h.width, Height: h.height}, nil
}

func decodeTGAReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeTGA(data)
}

// DecodeTGA decodes a TGA heightmap. Supports uncompressed and RLE
// true-color (24/32 bit) and grayscale (8 bit) images. Grayscale input
// yields *image.Gray, true-color yields *image.RGBA.
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	bytesPerPixel := h.bpp / 8
	var pixels []byte
	if h.rle() {
		pixels, err = expandTGARLE(data[offset:], h.width*h.height, bytesPerPixel)
		if err != nil {
			return nil, err
		}
	} else {
		pixels = data[offset:]
		if len(pixels) < h.width*h.height*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
	}

	// Rows are stored bottom-up unless the descriptor says otherwise
	destRow := func(y int) int {
		if h.topToBottom {
			return y
		}
		return h.height - 1 - y
	}

	rect := image.Rect(0, 0, h.width, h.height)
	if h.gray() {
		img := image.NewGray(rect)
		for y := range h.height {
			copy(img.Pix[destRow(y)*img.Stride:], pixels[y*h.width:(y+1)*h.width])
		}
		return img, nil
	}

	img := image.NewRGBA(rect)
	for y := range h.height {
		for x := range h.width {
			i := (y*h.width + x) * bytesPerPixel
			a := uint8(255)
			if bytesPerPixel == 4 {
				a = pixels[i+3]
			}
			// Stored as BGR(A)
			img.SetRGBA(x, destRow(y), color.RGBA{R: pixels[i+2], G: pixels[i+1], B: pixels[i], A: a})
		}
	}
	return img, nil
}

// expandTGARLE unpacks RLE packets into raw pixel bytes.
// The output grows with the packets actually present; header dimensions
// alone never size an allocation.
func expandTGARLE(src []byte, pixelCount, bytesPerPixel int) ([]byte, error) {
	var out []byte
	want := pixelCount * bytesPerPixel

	for i := 0; len(out) < want; {
		if i >= len(src) {
			return nil, fmt.Errorf("TGA RLE data truncated")
		}
		packet := src[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run packet: one pixel repeated
			if i+bytesPerPixel > len(src) {
				return nil, fmt.Errorf("TGA RLE data truncated")
			}
			px := src[i : i+bytesPerPixel]
			i += bytesPerPixel
			for range count {
				out = append(out, px...)
			}
		} else {
			// Raw packet: count literal pixels
			n := count * bytesPerPixel
			if i+n > len(src) {
				return nil, fmt.Errorf("TGA RLE data truncated")
			}
			out = append(out, src[i:i+n]...)
			i += n
		}
	}
	return out[:want], nil
}
