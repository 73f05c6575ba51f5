package xfb

import (
	"fmt"
	"sort"
)

// Black is a packed unit holding two black pixels with neutral chroma
const Black uint32 = 0x00800080

// Mode describes the geometry of a target framebuffer
type Mode struct {
	Name      string
	FBWidth   int // framebuffer width in pixels; two pixels per packed unit
	XFBHeight int // framebuffer rows
}

// Stride returns the row length in packed units
func (m Mode) Stride() int { return m.FBWidth >> 1 }

// Units returns the packed unit count of a full framebuffer
func (m Mode) Units() int { return m.Stride() * m.XFBHeight }

// Validate reports whether the geometry can address at least one unit
func (m Mode) Validate() error {
	if m.FBWidth < 2 || m.XFBHeight <= 0 {
		return fmt.Errorf("%w: mode %q has geometry %dx%d", ErrInvalidArgument, m.Name, m.FBWidth, m.XFBHeight)
	}
	return nil
}

func (m Mode) String() string {
	return fmt.Sprintf("%s (%dx%d)", m.Name, m.FBWidth, m.XFBHeight)
}

// modesByName maps the common video modes to their framebuffer geometry
var modesByName = map[string]Mode{
	"ntsc480i": {Name: "ntsc480i", FBWidth: 640, XFBHeight: 480},
	"ntsc480p": {Name: "ntsc480p", FBWidth: 640, XFBHeight: 480},
	"pal528":   {Name: "pal528", FBWidth: 640, XFBHeight: 528},
	"pal574":   {Name: "pal574", FBWidth: 640, XFBHeight: 574},
	"mpal480":  {Name: "mpal480", FBWidth: 640, XFBHeight: 480},
	"eurgb60":  {Name: "eurgb60", FBWidth: 640, XFBHeight: 480},
}

// Predefined modes for convenience
var (
	ModeNTSC480i = modesByName["ntsc480i"]
	ModePAL528   = modesByName["pal528"]
)

// ModeByName returns a predefined mode, or false if the name is unknown
func ModeByName(name string) (Mode, bool) {
	m, ok := modesByName[name]
	return m, ok
}

// Modes lists the predefined mode names in sorted order
func Modes() []string {
	names := make([]string, 0, len(modesByName))
	for name := range modesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Surface is an owned framebuffer of packed units laid out per Mode
type Surface struct {
	Mode Mode
	Pix  []uint32
}

// NewSurface allocates a surface for m cleared to Black
func NewSurface(m Mode) (*Surface, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	s := &Surface{Mode: m, Pix: make([]uint32, m.Units())}
	s.Clear(Black)
	return s, nil
}

// Row returns the packed units of framebuffer row y
func (s *Surface) Row(y int) []uint32 {
	return row(s.Pix, y, s.Mode.Stride())
}

// Clear fills every unit with u
func (s *Surface) Clear(u uint32) {
	for i := range s.Pix {
		s.Pix[i] = u
	}
}

// Composite draws img onto the surface, see Image.Composite
func (s *Surface) Composite(img *Image, canvasW, canvasH, x, y float64) error {
	return img.Composite(s.Pix, s.Mode, canvasW, canvasH, x, y)
}

// Image returns an RGB view of the surface
func (s *Surface) Image() *YCbYCr {
	return NewYCbYCr(s.Pix, s.Mode.FBWidth, s.Mode.XFBHeight)
}

// row slices the units of row y out of a buffer with the given stride
func row(pix []uint32, y, stride int) []uint32 {
	return pix[y*stride : (y+1)*stride]
}
