package xfb

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	// registered codecs available to StdDecoder
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels bounds the decoded pixel count StdDecoder accepts (64 Mpx)
const DefaultMaxPixels = 64 << 20

// Decoder turns a compressed image into interleaved 8-bit RGB samples.
// The returned buffer is width*height*3 bytes, row-major, with no padding.
type Decoder interface {
	Decode(data []byte) (width, height int, rgb []byte, err error)
}

// DecoderFunc adapts a plain function to the Decoder interface
type DecoderFunc func(data []byte) (width, height int, rgb []byte, err error)

// Decode calls f(data)
func (f DecoderFunc) Decode(data []byte) (int, int, []byte, error) {
	return f(data)
}

// StdDecoder decodes JPEG (and BMP, TIFF, WebP) streams with the image package codecs.
type StdDecoder struct {
	// MaxPixels caps width*height; zero means DefaultMaxPixels
	MaxPixels int
}

// Decode implements Decoder. Header failures map to ErrDecodeHeader, oversize
// images to ErrAllocation and body failures to ErrDecode.
func (d StdDecoder) Decode(data []byte) (int, int, []byte, error) {
	if len(data) == 0 {
		return 0, 0, nil, ErrInputEmpty
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", ErrDecodeHeader, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrDecodeHeader, cfg.Width, cfg.Height)
	}

	size, err := rgbSize(cfg.Width, cfg.Height, d.maxPixels())
	if err != nil {
		return 0, 0, nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() != cfg.Width || b.Dy() != cfg.Height {
		return 0, 0, nil, fmt.Errorf("%w: decoded %dx%d, header says %dx%d",
			ErrDecode, b.Dx(), b.Dy(), cfg.Width, cfg.Height)
	}

	rgb := make([]byte, size)
	toRGB(img, rgb)
	return cfg.Width, cfg.Height, rgb, nil
}

func (d StdDecoder) maxPixels() int {
	if d.MaxPixels > 0 {
		return d.MaxPixels
	}
	return DefaultMaxPixels
}

// rgbSize returns the RGB buffer length for the given dimensions
func rgbSize(width, height, maxPixels int) (int, error) {
	if width > maxPixels/height {
		return 0, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocation, width, height, maxPixels)
	}
	return width * height * 3, nil
}

// toRGB flattens img into dst as packed R,G,B bytes. Alpha is ignored.
func toRGB(img image.Image, dst []byte) {
	b := img.Bounds()
	i := 0
	switch m := img.(type) {
	case *image.YCbCr:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				yi := m.YOffset(x, y)
				ci := m.COffset(x, y)
				dst[i], dst[i+1], dst[i+2] = color.YCbCrToRGB(m.Y[yi], m.Cb[ci], m.Cr[ci])
				i += 3
			}
		}
	case *image.Gray:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := m.Pix[m.PixOffset(b.Min.X, y):]
			for x := 0; x < b.Dx(); x++ {
				dst[i], dst[i+1], dst[i+2] = row[x], row[x], row[x]
				i += 3
			}
		}
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := m.Pix[m.PixOffset(b.Min.X, y):]
			for x := 0; x < b.Dx(); x++ {
				copy(dst[i:i+3], row[x*4:x*4+3])
				i += 3
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				dst[i], dst[i+1], dst[i+2] = uint8(r>>8), uint8(g>>8), uint8(bl>>8)
				i += 3
			}
		}
	}
}
