package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"snap-mosaic/src/grid"
	"snap-mosaic/src/item"
)

// mosaic renders a grid.Layout. Widgets are reused across re-flows.
type mosaic struct {
	ui      *UI
	content *fyne.Container
	layout  grid.Layout
	widgets map[*item.Item]*itemWidget
}

func newMosaic(ui *UI) *mosaic {
	m := &mosaic{ui: ui, widgets: map[*item.Item]*itemWidget{}}
	m.content = container.New(m)
	return m
}

func (m *mosaic) apply(l grid.Layout) {
	m.layout = l
	live := make(map[*item.Item]bool, len(l.Cells))
	objects := make([]fyne.CanvasObject, 0, len(l.Cells))
	for _, c := range l.Cells {
		live[c.Item] = true
		w, ok := m.widgets[c.Item]
		if !ok {
			w = newItemWidget(c.Item, m.ui)
			m.widgets[c.Item] = w
		}
		w.sync()
		objects = append(objects, w)
	}
	for it := range m.widgets {
		if !live[it] {
			delete(m.widgets, it)
		}
	}
	m.content.Objects = objects
	m.content.Refresh()
}

// Layout places each widget at its cell position.
func (m *mosaic) Layout(_ []fyne.CanvasObject, _ fyne.Size) {
	for _, c := range m.layout.Cells {
		w := m.widgets[c.Item]
		if w == nil {
			continue
		}
		dw, dh := c.Item.DisplaySize()
		w.Move(fyne.NewPos(float32(c.X), float32(c.Y)))
		w.Resize(fyne.NewSize(float32(dw), float32(dh)))
	}
}

func (m *mosaic) MinSize(_ []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(float32(m.layout.Width), float32(m.layout.Height))
}

// viewportLayout reports the width it is given so the grid can re-flow.
type viewportLayout struct {
	last     float32
	onResize func(width float32)
}

func newViewport(scroll fyne.CanvasObject, onResize func(float32)) *fyne.Container {
	return container.New(&viewportLayout{last: -1, onResize: onResize}, scroll)
}

func (v *viewportLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
	if size.Width != v.last {
		v.last = size.Width
		v.onResize(size.Width)
	}
}

func (v *viewportLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var min fyne.Size
	for _, o := range objects {
		min = min.Max(o.MinSize())
	}
	return min
}

// hotspotLayout pins the action icons to the top-right corner.
type hotspotLayout struct{}

func (hotspotLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for i, h := range item.Hotspots() {
		if i >= len(objects) {
			return
		}
		r := h.Rect(int(size.Width))
		objects[i].Move(fyne.NewPos(float32(r.Min.X), float32(r.Min.Y)))
		objects[i].Resize(fyne.NewSize(float32(r.Dx()), float32(r.Dy())))
	}
}

func (hotspotLayout) MinSize([]fyne.CanvasObject) fyne.Size { return fyne.NewSize(0, 0) }

func toPoint(p fyne.Position) image.Point {
	return image.Pt(int(p.X), int(p.Y))
}
