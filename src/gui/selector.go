package gui

import (
	"context"
	"image"
	"time"

	"fyne.io/fyne/v2"

	"snap-mosaic/src/overlay"
	"snap-mosaic/src/screenshot"
)

// hideDelay lets the main window disappear before the desktop is grabbed.
const hideDelay = 200 * time.Millisecond

// Selector is the region selection overlay spanning the virtual desktop.
// scale is the device pixel ratio shared with the capture pipeline, so a
// region maps back to the same physical pixels it was drawn over.
type Selector struct {
	app      fyne.App
	snapshot func() (*image.RGBA, image.Rectangle, error)
	scale    func() float64
	delay    time.Duration
}

func NewSelector(app fyne.App, scale func() float64) *Selector {
	if scale == nil {
		scale = func() float64 { return 1 }
	}
	return &Selector{app: app, snapshot: screenshot.Snapshot, scale: scale, delay: hideDelay}
}

// Select grabs the desktop off the UI thread and then shows the overlay.
func (s *Selector) Select(ctx context.Context, done func(region screenshot.Region, cancelled bool, err error)) {
	go func() {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			fyne.Do(func() { done(screenshot.Region{}, true, nil) })
			return
		}
		img, bounds, err := s.snapshot()
		fyne.Do(func() {
			if err != nil {
				done(screenshot.Region{}, false, err)
				return
			}
			s.show(ctx, img, bounds, done)
		})
	}()
}

// mapper converts a selection made over a view of viewW x viewH units that
// shows the snapshot covering bounds.
func (s *Selector) mapper(bounds image.Rectangle, viewW, viewH float32) overlay.Mapper {
	return overlay.Mapper{
		Origin:         bounds.Min,
		PixelsPerUnit:  float64(bounds.Dx()) / float64(viewW),
		PixelsPerUnitY: float64(bounds.Dy()) / float64(viewH),
		DeviceScale:    s.scale(),
	}
}
