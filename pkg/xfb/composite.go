package xfb

import (
	"fmt"
	"math"
)

// Composite copies the packed buffer into dst, a framebuffer laid out per
// mode, with the image's top-left corner at canvas position (x, y). The canvas
// is the caller's coordinate space; it is rescaled to the framebuffer per axis.
//
// Rows and columns falling outside the framebuffer are clipped. An image
// entirely off the framebuffer is a no-op, not an error. Non-positive canvas
// dimensions and a dst shorter than the mode fail with ErrInvalidArgument
// before anything is written.
func (img *Image) Composite(dst []uint32, mode Mode, canvasW, canvasH, x, y float64) error {
	if !(canvasW > 0) || !(canvasH > 0) {
		return fmt.Errorf("%w: canvas %vx%v", ErrInvalidArgument, canvasW, canvasH)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: position (%v, %v)", ErrInvalidArgument, x, y)
	}
	if err := mode.Validate(); err != nil {
		return err
	}
	if len(dst) < mode.Units() {
		return fmt.Errorf("%w: framebuffer has %d units, mode %s needs %d",
			ErrInvalidArgument, len(dst), mode, mode.Units())
	}

	img.posX, img.posY = clampInt32(x), clampInt32(y)
	img.displayed = true

	stride := mode.Stride()
	units := img.width >> 1
	// clip in float space so out-of-range positions never reach an int conversion
	fx := math.Floor(x * float64(stride) / canvasW)
	fy := math.Floor(y * float64(mode.XFBHeight) / canvasH)
	if fx >= float64(mode.FBWidth) || fx <= -float64(units) ||
		fy >= float64(mode.XFBHeight) || fy <= -float64(img.height) {
		return nil
	}
	sx, sy := int(fx), int(fy)

	i := 0
	if sy < 0 {
		i = -sy
	}
	for ; i < img.height && sy+i < mode.XFBHeight; i++ {
		src := row(img.pix, i, units)
		fb := row(dst, sy+i, stride)
		if sx < 0 {
			n := min(units+sx, stride)
			if n <= 0 {
				return nil
			}
			copy(fb[:n], src[-sx:-sx+n])
		} else {
			n := min(units, stride-sx)
			if n <= 0 {
				return nil
			}
			copy(fb[sx:sx+n], src[:n])
		}
	}
	return nil
}

// clampInt32 truncates v toward zero, saturating at the int32 range
func clampInt32(v float64) int32 {
	switch {
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}
