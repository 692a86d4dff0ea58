package overlay

import (
	"context"
	"image"
	"math"

	"snap-mosaic/src/screenshot"
)

// Selector runs an interactive region selection. Select returns immediately;
// done is called exactly once on the UI thread with the result.
// If cancelled is true the region is undefined and err is nil.
type Selector interface {
	Select(ctx context.Context, done func(region screenshot.Region, cancelled bool, err error))
}

// Point is a position in overlay units.
type Point struct {
	X, Y float32
}

// Rect is a normalized rectangle in overlay units.
type Rect struct {
	X, Y, Width, Height float32
}

// Drag tracks a rubber-band selection.
type Drag struct {
	anchor  Point
	current Point
	active  bool
}

func (d *Drag) Press(p Point) {
	d.anchor = p
	d.current = p
	d.active = true
}

// Move updates the free corner while a press is active.
func (d *Drag) Move(p Point) {
	if d.active {
		d.current = p
	}
}

// Release finalizes the selection. It returns false if no press preceded it.
func (d *Drag) Release(p Point) (Rect, bool) {
	if !d.active {
		return Rect{}, false
	}
	d.current = p
	d.active = false
	return normalize(d.anchor, d.current), true
}

// Current is the rectangle to draw while dragging.
func (d *Drag) Current() (Rect, bool) {
	if !d.active {
		return Rect{}, false
	}
	return normalize(d.anchor, d.current), true
}

func (d *Drag) Active() bool { return d.active }

func (d *Drag) Reset() { d.active = false }

func normalize(a, b Point) Rect {
	x0, x1 := a.X, b.X
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Mapper converts overlay units into virtual-desktop logical coordinates.
// The overlay shows a snapshot whose top-left pixel is Origin; PixelsPerUnit
// is snapshot pixels per overlay unit and DeviceScale the device pixel ratio.
// PixelsPerUnitY is only needed when the snapshot is stretched unevenly.
type Mapper struct {
	Origin         image.Point
	PixelsPerUnit  float64
	PixelsPerUnitY float64
	DeviceScale    float64
}

func (m Mapper) ToRegion(r Rect) screenshot.Region {
	ppx := m.PixelsPerUnit
	if ppx <= 0 {
		ppx = 1
	}
	ppy := m.PixelsPerUnitY
	if ppy <= 0 {
		ppy = ppx
	}
	scale := m.DeviceScale
	if scale <= 0 {
		scale = 1
	}
	conv := func(v float32, origin int, ppu float64) int {
		return int(math.Round((float64(origin) + float64(v)*ppu) / scale))
	}
	x0 := conv(r.X, m.Origin.X, ppx)
	y0 := conv(r.Y, m.Origin.Y, ppy)
	x1 := conv(r.X+r.Width, m.Origin.X, ppx)
	y1 := conv(r.Y+r.Height, m.Origin.Y, ppy)
	return screenshot.Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
