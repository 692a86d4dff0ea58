package screenshot

import (
	"fmt"
	"image"
	"math"

	"github.com/kbinani/screenshot"
)

// Region is a rectangle in virtual-desktop logical coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether the region has a positive area.
func (r Region) Valid() bool { return r.Width > 0 && r.Height > 0 }

// Physical converts the region to physical pixels for the given device pixel ratio.
func (r Region) Physical(scale float64) image.Rectangle {
	if scale <= 0 {
		scale = 1
	}
	x := int(math.Round(float64(r.X) * scale))
	y := int(math.Round(float64(r.Y) * scale))
	w := int(math.Round(float64(r.Width) * scale))
	h := int(math.Round(float64(r.Height) * scale))
	return image.Rect(x, y, x+w, y+h)
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}

// Grabber reads pixels from the screen.
type Grabber interface {
	Grab(rect image.Rectangle) (*image.RGBA, error)
}

// Display grabs pixels from the attached displays.
type Display struct{}

func (Display) Grab(rect image.Rectangle) (*image.RGBA, error) {
	return CaptureRect(rect)
}

// VirtualBounds returns the union of all active display bounds.
func VirtualBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}

// DisplayBounds returns the bounds of every active display.
func DisplayBounds() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}

// Snapshot captures the entire virtual desktop and returns it with its bounds.
func Snapshot() (*image.RGBA, image.Rectangle, error) {
	union, err := VirtualBounds()
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to capture virtual desktop: %w", err)
	}
	return img, union, nil
}

// CaptureRect captures a rectangle given in physical pixels.
func CaptureRect(rect image.Rectangle) (*image.RGBA, error) {
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", rect.Dx(), rect.Dy())
	}
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %w", err)
	}
	return img, nil
}
