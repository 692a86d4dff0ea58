//go:build !windows

package gui

import (
	"context"
	"image"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"snap-mosaic/src/overlay"
	"snap-mosaic/src/screenshot"
)

// show opens a borderless full-screen fyne window over the snapshot. Outside
// Windows the window manager decides which monitor a full-screen window fills.
func (s *Selector) show(ctx context.Context, img *image.RGBA, bounds image.Rectangle, done func(screenshot.Region, bool, error)) {
	var w fyne.Window
	if drv, ok := s.app.Driver().(desktop.Driver); ok {
		w = drv.CreateSplashWindow()
	} else {
		w = s.app.NewWindow("Select Region")
	}

	finished := false
	stop := make(chan struct{})
	finish := func(region screenshot.Region, cancelled bool) {
		if finished {
			return
		}
		finished = true
		close(stop)
		w.Close()
		done(region, cancelled, nil)
	}

	surface := newSelectionSurface(img, func(r overlay.Rect, viewport fyne.Size) {
		if viewport.Width <= 0 || viewport.Height <= 0 {
			finish(screenshot.Region{}, true)
			return
		}
		region := s.mapper(bounds, viewport.Width, viewport.Height).ToRegion(r)
		log.Printf("overlay: selected %v (overlay rect %+v)", region, r)
		finish(region, false)
	})
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			log.Printf("overlay: cancelled")
			finish(screenshot.Region{}, true)
		}
	})
	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(func() { finish(screenshot.Region{}, true) })
		case <-stop:
		}
	}()

	w.SetContent(surface)
	w.SetPadded(false)
	w.SetFullScreen(true)
	w.Show()
	w.RequestFocus()
}

var (
	dimColor  = color.NRGBA{A: 0x60}
	bandColor = color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	bandFill  = color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0x30}
)

// selectionSurface draws the desktop snapshot and the rubber band.
type selectionSurface struct {
	widget.BaseWidget

	drag     overlay.Drag
	last     overlay.Point
	image    *canvas.Image
	dim      *canvas.Rectangle
	band     *canvas.Rectangle
	onSelect func(r overlay.Rect, viewport fyne.Size)
}

func newSelectionSurface(img image.Image, onSelect func(overlay.Rect, fyne.Size)) *selectionSurface {
	s := &selectionSurface{onSelect: onSelect}
	s.image = canvas.NewImageFromImage(img)
	s.image.FillMode = canvas.ImageFillStretch
	s.dim = canvas.NewRectangle(dimColor)
	s.band = canvas.NewRectangle(bandFill)
	s.band.StrokeColor = bandColor
	s.band.StrokeWidth = 2
	s.band.Hide()
	s.ExtendBaseWidget(s)
	return s
}

func (s *selectionSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(s.image, s.dim, container.NewWithoutLayout(s.band)))
}

func (s *selectionSurface) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	s.last = point(e.Position)
	s.drag.Press(s.last)
	s.updateBand()
}

func (s *selectionSurface) MouseUp(e *desktop.MouseEvent) {
	s.release(point(e.Position))
}

func (s *selectionSurface) MouseIn(*desktop.MouseEvent) {}

func (s *selectionSurface) MouseOut() {}

func (s *selectionSurface) MouseMoved(e *desktop.MouseEvent) {
	s.move(point(e.Position))
}

func (s *selectionSurface) Dragged(e *fyne.DragEvent) {
	s.move(point(e.Position))
}

// DragEnd finishes at the last pointer position when no MouseUp arrives.
func (s *selectionSurface) DragEnd() {
	if s.drag.Active() {
		s.release(s.last)
	}
}

func (s *selectionSurface) move(p overlay.Point) {
	s.last = p
	s.drag.Move(p)
	s.updateBand()
}

func (s *selectionSurface) release(p overlay.Point) {
	r, ok := s.drag.Release(p)
	s.band.Hide()
	if !ok {
		return
	}
	s.onSelect(r, s.Size())
}

func (s *selectionSurface) updateBand() {
	r, ok := s.drag.Current()
	if !ok {
		s.band.Hide()
		return
	}
	s.band.Move(fyne.NewPos(r.X, r.Y))
	s.band.Resize(fyne.NewSize(r.Width, r.Height))
	s.band.Show()
	s.band.Refresh()
}

func point(p fyne.Position) overlay.Point {
	return overlay.Point{X: p.X, Y: p.Y}
}
