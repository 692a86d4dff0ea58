// Package item models one captured image and the interaction state around it.
package item

import (
	"image"
	"time"

	"snap-mosaic/src/imaging"
)

// Item is a captured image held by the grid.
type Item struct {
	ID         int
	Original   image.Image
	Display    image.Image
	InsertedAt time.Time
	Saved      bool
	SavedPath  string

	// Pointer state, touched on the UI thread only.
	Hovered bool
	Hot     Hotspot
}

// New builds an item whose display buffer is original fitted to maxWidth.
func New(id int, original image.Image, maxWidth int, now time.Time) *Item {
	return &Item{
		ID:         id,
		Original:   original,
		Display:    imaging.FitWidth(original, maxWidth),
		InsertedAt: now,
	}
}

// Rescale recomputes the display buffer for a new width cap.
func (it *Item) Rescale(maxWidth int) {
	it.Display = imaging.FitWidth(it.Original, maxWidth)
}

func (it *Item) DisplaySize() (int, int) {
	if it == nil || it.Display == nil {
		return 0, 0
	}
	b := it.Display.Bounds()
	return b.Dx(), b.Dy()
}

// MarkSaved records a successful write to path.
func (it *Item) MarkSaved(path string) {
	it.Saved = true
	it.SavedPath = path
}
