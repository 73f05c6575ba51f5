package xfb

import (
	"image"
	"image/color"
)

// YCbYCr is an image.Image over packed Y1CbY2Cr units. Stride counts units,
// Rect counts pixels.
type YCbYCr struct {
	Pix    []uint32
	Stride int
	Rect   image.Rectangle
}

// NewYCbYCr wraps pix, laid out as rows of width/2 units, without copying
func NewYCbYCr(pix []uint32, width, height int) *YCbYCr {
	return &YCbYCr{
		Pix:    pix,
		Stride: width >> 1,
		Rect:   image.Rect(0, 0, width&^1, height),
	}
}

func (p *YCbYCr) Bounds() image.Rectangle { return p.Rect }
func (p *YCbYCr) ColorModel() color.Model { return color.RGBAModel }

func (p *YCbYCr) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	r1, g1, b1, r2, g2, b2 := UnpackPair(p.Pix[p.UnitOffset(x, y)])
	if (x-p.Rect.Min.X)&1 == 0 {
		return color.RGBA{R: r1, G: g1, B: b1, A: 0xff}
	}
	return color.RGBA{R: r2, G: g2, B: b2, A: 0xff}
}

// UnitOffset returns the index in Pix of the unit holding pixel (x, y)
func (p *YCbYCr) UnitOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)>>1
}

// RGBA renders the view into a new RGBA image
func (p *YCbYCr) RGBA() *image.RGBA {
	out := image.NewRGBA(p.Rect)
	w := p.Rect.Dx() >> 1
	for y := 0; y < p.Rect.Dy(); y++ {
		units := p.Pix[y*p.Stride : y*p.Stride+w]
		dst := out.Pix[y*out.Stride:]
		for k, u := range units {
			r1, g1, b1, r2, g2, b2 := UnpackPair(u)
			o := k * 8
			dst[o], dst[o+1], dst[o+2], dst[o+3] = r1, g1, b1, 0xff
			dst[o+4], dst[o+5], dst[o+6], dst[o+7] = r2, g2, b2, 0xff
		}
	}
	return out
}
