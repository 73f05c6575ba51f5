package xfb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fill uint32 = 0xDEADBEEF

// tinyMode has 4 units per row and 4 rows; with a 4x4 canvas, canvas
// coordinates map 1:1 onto units and rows
var tinyMode = Mode{Name: "tiny", FBWidth: 8, XFBHeight: 4}

// newTestImage builds a width x height image whose units count up from 1
func newTestImage(width, height int) *Image {
	pix := make([]uint32, height*(width/2))
	for i := range pix {
		pix[i] = uint32(i + 1)
	}
	return &Image{width: width, height: height, posX: Undisplayed, posY: Undisplayed, pix: pix}
}

func newFramebuffer(m Mode) []uint32 {
	fb := make([]uint32, m.Units())
	for i := range fb {
		fb[i] = fill
	}
	return fb
}

func TestComposite_Clipping(t *testing.T) {
	const F = fill
	tests := []struct {
		name string
		x, y float64
		want []uint32
	}{
		{
			name: "inside",
			x:    1, y: 1,
			want: []uint32{
				F, F, F, F,
				F, 1, 2, F,
				F, 3, 4, F,
				F, F, F, F,
			},
		},
		{
			name: "origin",
			x:    0, y: 0,
			want: []uint32{
				1, 2, F, F,
				3, 4, F, F,
				F, F, F, F,
				F, F, F, F,
			},
		},
		{
			name: "straddles left edge",
			x:    -1, y: 0,
			want: []uint32{
				2, F, F, F,
				4, F, F, F,
				F, F, F, F,
				F, F, F, F,
			},
		},
		{
			name: "straddles right edge",
			x:    3, y: 2,
			want: []uint32{
				F, F, F, F,
				F, F, F, F,
				F, F, F, 1,
				F, F, F, 3,
			},
		},
		{
			name: "straddles top edge",
			x:    2, y: -1,
			want: []uint32{
				F, F, 3, 4,
				F, F, F, F,
				F, F, F, F,
				F, F, F, F,
			},
		},
		{
			name: "straddles bottom edge",
			x:    0, y: 3,
			want: []uint32{
				F, F, F, F,
				F, F, F, F,
				F, F, F, F,
				1, 2, F, F,
			},
		},
		{
			name: "straddles corner",
			x:    -1, y: -1,
			want: []uint32{
				4, F, F, F,
				F, F, F, F,
				F, F, F, F,
				F, F, F, F,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newTestImage(4, 2)
			fb := newFramebuffer(tinyMode)
			require.NoError(t, img.Composite(fb, tinyMode, 4, 4, tt.x, tt.y))
			assert.Equal(t, tt.want, fb)

			x, y := img.Position()
			assert.Equal(t, int32(tt.x), x)
			assert.Equal(t, int32(tt.y), y)
			assert.True(t, img.Displayed())
		})
	}
}

func TestComposite_OffSurface(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
	}{
		{"far right", 8, 0},
		{"past stride", 4, 0},
		{"exactly one width left", -2, 0},
		{"far left", -100, 0},
		{"below", 0, 4},
		{"above", 0, -2},
		{"far above", 0, -1000},
		{"huge below", 0, 1e300},
		{"huge above", 0, -1e300},
		{"huge right", 1e300, 0},
		{"huge left", -1e300, 0},
		{"max float", math.MaxFloat64, -math.MaxFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newTestImage(4, 2)
			fb := newFramebuffer(tinyMode)
			require.NotPanics(t, func() {
				require.NoError(t, img.Composite(fb, tinyMode, 4, 4, tt.x, tt.y))
			})
			assert.Equal(t, newFramebuffer(tinyMode), fb, "nothing may be written")
			assert.True(t, img.Displayed())
		})
	}
}

func TestComposite_WiderThanSurface(t *testing.T) {
	// 12 pixels = 6 units per row, surface stride is 4
	img := newTestImage(12, 1)
	fb := newFramebuffer(tinyMode)

	require.NoError(t, img.Composite(fb, tinyMode, 4, 4, 0, 0))
	assert.Equal(t, []uint32{1, 2, 3, 4}, fb[:4])

	fb = newFramebuffer(tinyMode)
	require.NoError(t, img.Composite(fb, tinyMode, 4, 4, -1, 0))
	assert.Equal(t, []uint32{2, 3, 4, 5}, fb[:4])
	assert.Equal(t, fill, fb[4])
}

func TestComposite_CanvasScaling(t *testing.T) {
	img := newTestImage(20, 2) // 10 units per row
	fb := newFramebuffer(ModeNTSC480i)

	// 640 canvas pixels map onto 320 units: x=-11 floors to unit -6
	require.NoError(t, img.Composite(fb, ModeNTSC480i, 640, 480, -11, 0))
	assert.Equal(t, []uint32{7, 8, 9, 10}, fb[:4])
	assert.Equal(t, fill, fb[4])

	x, y := img.Position()
	assert.Equal(t, int32(-11), x)
	assert.Equal(t, int32(0), y)

	// a 320x240 canvas doubles the row mapping
	fb = newFramebuffer(ModeNTSC480i)
	require.NoError(t, img.Composite(fb, ModeNTSC480i, 320, 240, 10, 10))
	stride := ModeNTSC480i.Stride()
	assert.Equal(t, uint32(1), fb[20*stride+10])
	assert.Equal(t, uint32(11), fb[21*stride+10])
}

func TestComposite_InvalidArguments(t *testing.T) {
	tests := []struct {
		name             string
		fb               []uint32
		mode             Mode
		canvasW, canvasH float64
		x, y             float64
	}{
		{"zero canvas width", newFramebuffer(tinyMode), tinyMode, 0, 4, 0, 0},
		{"zero canvas height", newFramebuffer(tinyMode), tinyMode, 4, 0, 0, 0},
		{"negative canvas", newFramebuffer(tinyMode), tinyMode, -4, -4, 0, 0},
		{"short framebuffer", make([]uint32, 3), tinyMode, 4, 4, 0, 0},
		{"empty mode", newFramebuffer(tinyMode), Mode{}, 4, 4, 0, 0},
		{"nan x", newFramebuffer(tinyMode), tinyMode, 4, 4, math.NaN(), 0},
		{"nan y", newFramebuffer(tinyMode), tinyMode, 4, 4, 0, math.NaN()},
		{"inf x", newFramebuffer(tinyMode), tinyMode, 4, 4, math.Inf(1), 0},
		{"negative inf y", newFramebuffer(tinyMode), tinyMode, 4, 4, 0, math.Inf(-1)},
		{"nan canvas", newFramebuffer(tinyMode), tinyMode, math.NaN(), 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newTestImage(4, 2)
			before := append([]uint32(nil), tt.fb...)
			err := img.Composite(tt.fb, tt.mode, tt.canvasW, tt.canvasH, tt.x, tt.y)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, before, tt.fb)
			assert.False(t, img.Displayed())
			x, y := img.Position()
			assert.Equal(t, int32(Undisplayed), x)
			assert.Equal(t, int32(Undisplayed), y)
		})
	}
}

func TestComposite_PositionSaturates(t *testing.T) {
	img := newTestImage(4, 2)
	fb := newFramebuffer(tinyMode)
	require.NoError(t, img.Composite(fb, tinyMode, 4, 4, 1e12, -1e12))
	x, y := img.Position()
	assert.Equal(t, int32(math.MaxInt32), x)
	assert.Equal(t, int32(math.MinInt32), y)
	assert.True(t, img.Displayed())
}

func TestSurface_Composite(t *testing.T) {
	s, err := NewSurface(tinyMode)
	require.NoError(t, err)
	for _, u := range s.Pix {
		require.Equal(t, Black, u)
	}

	img := newTestImage(4, 2)
	require.NoError(t, s.Composite(img, 4, 4, 2, 2))
	assert.Equal(t, []uint32{Black, Black, 1, 2}, s.Row(2))
	assert.Equal(t, []uint32{Black, Black, 3, 4}, s.Row(3))

	_, err = NewSurface(Mode{Name: "bad", FBWidth: 1, XFBHeight: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
