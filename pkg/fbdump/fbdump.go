// Package fbdump reads and writes packed framebuffer dumps.
//
// Layout:
//
//	4 bytes   magic "XFB1"
//	4 bytes   width in pixels (uint32 little-endian)
//	4 bytes   height in rows (uint32 little-endian)
//	4 bytes   flags (uint32 little-endian, bit 0 = zstd body)
//	body      height*(width/2) units, each uint32 big-endian (Y1 Cb Y2 Cr)
package fbdump

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const (
	magic      = "XFB1"
	headerSize = 16

	flagZstd uint32 = 1 << 0

	// maxUnits bounds the body a header may claim (4096x4096)
	maxUnits = 2048 * 4096
)

// ErrFormat is returned when the magic does not match
var ErrFormat = errors.New("fbdump: not a framebuffer dump")

// Options controls how a dump is written
type Options struct {
	// Zstd compresses the body
	Zstd bool
}

// Dump is a decoded framebuffer dump
type Dump struct {
	Width  int
	Height int
	Pix    []uint32
}

// Write writes width x height pixels worth of packed units to w
func Write(w io.Writer, width, height int, pix []uint32, opts *Options) error {
	if width < 2 || height <= 0 {
		return fmt.Errorf("fbdump: invalid dimensions %dx%d", width, height)
	}
	units := (width >> 1) * height
	if len(pix) < units {
		return fmt.Errorf("fbdump: have %d units, %dx%d needs %d", len(pix), width, height, units)
	}

	var flags uint32
	if opts != nil && opts.Zstd {
		flags |= flagZstd
	}

	hdr := make([]byte, headerSize)
	copy(hdr, magic)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(width))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(height))
	binary.LittleEndian.PutUint32(hdr[12:], flags)
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("fbdump: writing header: %w", err)
	}

	body := make([]byte, units*4)
	for i, u := range pix[:units] {
		binary.BigEndian.PutUint32(body[i*4:], u)
	}

	if flags&flagZstd == 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("fbdump: writing body: %w", err)
		}
		return nil
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("fbdump: zstd writer: %w", err)
	}
	if _, err := enc.Write(body); err != nil {
		enc.Close()
		return fmt.Errorf("fbdump: writing body: %w", err)
	}
	return enc.Close()
}

// Read parses a dump written by Write
func Read(r io.Reader) (*Dump, error) {
	br := bufio.NewReader(r)
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, fmt.Errorf("fbdump: reading header: %w", err)
	}
	if string(hdr[:4]) != magic {
		return nil, ErrFormat
	}

	d := &Dump{
		Width:  int(binary.LittleEndian.Uint32(hdr[4:])),
		Height: int(binary.LittleEndian.Uint32(hdr[8:])),
	}
	flags := binary.LittleEndian.Uint32(hdr[12:])
	if d.Width < 2 || d.Height <= 0 || d.Height > maxUnits/(d.Width>>1) {
		return nil, fmt.Errorf("fbdump: invalid dimensions %dx%d", d.Width, d.Height)
	}

	var body io.Reader = br
	if flags&flagZstd != 0 {
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("fbdump: zstd reader: %w", err)
		}
		defer dec.Close()
		body = dec
	}

	raw := make([]byte, (d.Width>>1)*d.Height*4)
	if _, err := io.ReadFull(body, raw); err != nil {
		return nil, fmt.Errorf("fbdump: body truncated: %w", err)
	}
	d.Pix = make([]uint32, len(raw)/4)
	for i := range d.Pix {
		d.Pix[i] = binary.BigEndian.Uint32(raw[i*4:])
	}
	return d, nil
}
