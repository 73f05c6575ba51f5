// Package testcard renders colour-bar test patterns and encodes them as JPEG,
// giving the packer and compositor a known source image.
package testcard

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"github.com/fogleman/gg"
)

// Bars are the 75% colour bars, left to right
var Bars = []color.RGBA{
	{191, 191, 191, 255}, // white
	{191, 191, 0, 255},   // yellow
	{0, 191, 191, 255},   // cyan
	{0, 191, 0, 255},     // green
	{191, 0, 191, 255},   // magenta
	{191, 0, 0, 255},     // red
	{0, 0, 191, 255},     // blue
}

// rampSteps is the number of grey steps in the bottom band
const rampSteps = 8

// Render draws the bars over the top two thirds, a grey ramp below them and
// the dimensions as a label.
func Render(width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("testcard: invalid dimensions %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	barsH := float64(height * 2 / 3)
	for i, c := range Bars {
		x0 := i * width / len(Bars)
		x1 := (i + 1) * width / len(Bars)
		dc.SetColor(c)
		dc.DrawRectangle(float64(x0), 0, float64(x1-x0), barsH)
		dc.Fill()
	}

	for i := 0; i < rampSteps; i++ {
		x0 := i * width / rampSteps
		x1 := (i + 1) * width / rampSteps
		v := i * 255 / (rampSteps - 1)
		dc.SetRGB255(v, v, v)
		dc.DrawRectangle(float64(x0), barsH, float64(x1-x0), float64(height)-barsH)
		dc.Fill()
	}

	if height >= 32 && width >= 64 {
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(fmt.Sprintf("%dx%d", width, height), float64(width)/2, barsH/2, 0.5, 0.5)
	}
	return dc.Image(), nil
}

// EncodeJPEG writes img as a baseline JPEG; quality is clamped to [1,100]
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	quality = max(1, min(quality, 100))
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// JPEG renders a test card and returns it JPEG compressed
func JPEG(width, height, quality int) ([]byte, error) {
	img, err := Render(width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, img, quality); err != nil {
		return nil, fmt.Errorf("testcard: encoding: %w", err)
	}
	return buf.Bytes(), nil
}
