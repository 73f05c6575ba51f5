// Package xfb decodes compressed images into the packed Y1CbY2Cr layout of an
// external framebuffer and composites them onto framebuffer surfaces.
//
// Every pair of horizontally adjacent source pixels becomes one 32-bit unit
// holding two luma samples and their averaged chroma:
//
//	bits 31-24  Y1
//	bits 23-16  Cb
//	bits 15-8   Y2
//	bits 7-0    Cr
//
// Basic usage:
//
//	img, err := xfb.ReadFile("/path/to/splash.jpg", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fb, _ := xfb.NewSurface(xfb.ModeNTSC480i)
//	// center a 640x480 canvas position onto the framebuffer
//	err = fb.Composite(img, 640, 480, 100, 50)
package xfb

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
)

// Undisplayed is the position coordinate of an image that was never composited
const Undisplayed = math.MinInt32

// Options configures image construction. A nil *Options uses StdDecoder and slog.Default.
type Options struct {
	Decoder Decoder
	Logger  *slog.Logger
}

func (o *Options) decoder() Decoder {
	if o == nil || o.Decoder == nil {
		return StdDecoder{}
	}
	return o.Decoder
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Image owns a packed Y1CbY2Cr buffer of Height rows by Width/2 units.
// The buffer is written once at construction; Clone duplicates it and Move
// hands it to a new Image, emptying the source.
type Image struct {
	width     int
	height    int
	posX      int32
	posY      int32
	displayed bool
	pix       []uint32
}

// ReadFile reads a compressed image from disk and decodes it
func ReadFile(path string, opts *Options) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("reading file %s: %w", path, ErrInputEmpty)
	}
	return Decode(data, opts)
}

// Decode decodes a compressed image held in memory and packs it.
// On failure no Image is returned and no intermediate buffer is retained.
func Decode(data []byte, opts *Options) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrInputEmpty
	}

	width, height, rgb, err := opts.decoder().Decode(data)
	if err != nil {
		return nil, classify(err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: decoder returned %dx%d", ErrDecode, width, height)
	}
	if len(rgb) < width*height*3 {
		return nil, fmt.Errorf("%w: decoder returned %d bytes for %dx%d", ErrDecode, len(rgb), width, height)
	}

	pix, err := Pack(rgb, width, height)
	if err != nil {
		return nil, err
	}
	if width&1 != 0 {
		opts.logger().Debug("Odd image width, last column dropped", slog.Int("width", width))
	}
	opts.logger().Debug("Decoded image",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("units", len(pix)))

	return &Image{
		width:  width,
		height: height,
		posX:   Undisplayed,
		posY:   Undisplayed,
		pix:    pix,
	}, nil
}

// classify keeps decoder errors reachable through one of the package sentinels
func classify(err error) error {
	for _, sentinel := range []error{ErrInputEmpty, ErrAllocation, ErrDecodeHeader, ErrDecode} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrDecode, err)
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// Position returns the canvas position of the last Composite call,
// or (Undisplayed, Undisplayed) if the image was never composited.
func (img *Image) Position() (x, y int32) { return img.posX, img.posY }

// Displayed reports whether Composite recorded a position since the image
// was decoded. Zero-value, moved-from and released images report false.
func (img *Image) Displayed() bool { return img.displayed }

// Pix returns the packed buffer. It must not be modified.
func (img *Image) Pix() []uint32 { return img.pix }

// Clone returns an Image with the same dimensions and position backed by a new buffer
func (img *Image) Clone() *Image {
	c := *img
	if img.pix != nil {
		c.pix = make([]uint32, len(img.pix))
		copy(c.pix, img.pix)
	}
	return &c
}

// Move transfers the buffer to a new Image and empties img
func (img *Image) Move() *Image {
	m := *img
	*img = Image{}
	return &m
}

// Release drops the buffer and resets img to the never-displayed empty state
func (img *Image) Release() {
	*img = Image{posX: Undisplayed, posY: Undisplayed}
}

// Preview returns an RGB view of the packed buffer
func (img *Image) Preview() *YCbYCr {
	return NewYCbYCr(img.pix, img.width, img.height)
}
