package xfb

import (
	"fmt"
	"image/color"
)

// Fixed-point BT.601 RGB -> YCbCr. Luma is scaled by 1000, chroma by 100000,
// and the chroma offset of 128 is folded in before the division.
const (
	lumaScale   = 1000
	chromaScale = 100000
	chromaBias  = 128 * chromaScale
)

// PackPair converts two horizontally adjacent RGB pixels into one Y1CbY2Cr unit.
// Division truncates toward zero and chroma is averaged with a shift. Nothing
// is clamped: every 8-bit input already lands in [0,255] for all four fields.
func PackPair(r1, g1, b1, r2, g2, b2 uint8) uint32 {
	y1, cb1, cr1 := ycbcr(int32(r1), int32(g1), int32(b1))
	y2, cb2, cr2 := ycbcr(int32(r2), int32(g2), int32(b2))

	cb := (cb1 + cb2) >> 1
	cr := (cr1 + cr2) >> 1
	return uint32(y1)<<24 | uint32(cb)<<16 | uint32(y2)<<8 | uint32(cr)
}

func ycbcr(r, g, b int32) (y, cb, cr int32) {
	y = (299*r + 587*g + 114*b) / lumaScale
	cb = (-16874*r - 33126*g + 50000*b + chromaBias) / chromaScale
	cr = (50000*r - 41869*g - 8131*b + chromaBias) / chromaScale
	return y, cb, cr
}

// UnpackPair expands a Y1CbY2Cr unit back into two RGB pixels sharing the chroma pair.
func UnpackPair(u uint32) (r1, g1, b1, r2, g2, b2 uint8) {
	y1, cb, y2, cr := uint8(u>>24), uint8(u>>16), uint8(u>>8), uint8(u)
	r1, g1, b1 = color.YCbCrToRGB(y1, cb, cr)
	r2, g2, b2 = color.YCbCrToRGB(y2, cb, cr)
	return
}

// Pack converts an interleaved RGB buffer into packed units, height rows of
// width/2 units each. An odd trailing column is dropped.
func Pack(rgb []byte, width, height int) ([]uint32, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	if len(rgb) < width*height*3 {
		return nil, fmt.Errorf("%w: rgb buffer has %d bytes, need %d", ErrInvalidArgument, len(rgb), width*height*3)
	}

	units := width >> 1
	pix := make([]uint32, height*units)
	for y := 0; y < height; y++ {
		src := rgb[y*width*3 : (y+1)*width*3]
		dst := row(pix, y, units)
		for k := range dst {
			p := src[k*6 : k*6+6]
			dst[k] = PackPair(p[0], p[1], p[2], p[3], p[4], p[5])
		}
	}
	return pix, nil
}
