package xfb

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYCbYCr_At(t *testing.T) {
	// row 0: white|white, black|black; row 1: gray|gray, white|white
	pix := []uint32{0xFF80FF80, Black, 0x80808080, 0xFF80FF80}
	p := NewYCbYCr(pix, 4, 2)

	assert.Equal(t, image.Rect(0, 0, 4, 2), p.Bounds())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, p.At(0, 0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, p.At(1, 0))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, p.At(2, 0))
	assert.Equal(t, color.RGBA{128, 128, 128, 255}, p.At(0, 1))
	assert.Equal(t, color.RGBA{}, p.At(4, 0), "outside bounds")
	assert.Equal(t, 3, p.UnitOffset(3, 1))
}

func TestYCbYCr_RGBA(t *testing.T) {
	pix := []uint32{0xFF80FF80, Black, 0x80808080, 0xFF80FF80}
	out := NewYCbYCr(pix, 4, 2).RGBA()

	require.Equal(t, image.Rect(0, 0, 4, 2), out.Bounds())
	assert.Equal(t, []uint8{
		255, 255, 255, 255, 255, 255, 255, 255, 0, 0, 0, 255, 0, 0, 0, 255,
		128, 128, 128, 255, 128, 128, 128, 255, 255, 255, 255, 255, 255, 255, 255, 255,
	}, out.Pix)
}

func TestSurface_Image(t *testing.T) {
	s, err := NewSurface(tinyMode)
	require.NoError(t, err)
	p := s.Image()
	assert.Equal(t, image.Rect(0, 0, 8, 4), p.Bounds())
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, p.At(7, 3))
}

func TestModeByName(t *testing.T) {
	m, ok := ModeByName("pal528")
	require.True(t, ok)
	assert.Equal(t, 320, m.Stride())
	assert.Equal(t, 320*528, m.Units())
	assert.NoError(t, m.Validate())

	_, ok = ModeByName("secam")
	assert.False(t, ok)

	assert.Equal(t, []string{"eurgb60", "mpal480", "ntsc480i", "ntsc480p", "pal528", "pal574"}, Modes())
}
