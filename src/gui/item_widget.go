package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"snap-mosaic/src/item"
)

var (
	hoverStroke = color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	savedGreen  = color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	iconBack    = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xb0}
)

// itemWidget shows one captured image with its hotspot icons and saved badge.
type itemWidget struct {
	ttwidget.ToolTipWidget

	it *item.Item
	ui *UI

	img    *canvas.Image
	border *canvas.Rectangle
	icons  *fyne.Container
	badge  *fyne.Container
}

func newItemWidget(it *item.Item, ui *UI) *itemWidget {
	w := &itemWidget{it: it, ui: ui}
	w.img = canvas.NewImageFromImage(it.Display)
	w.img.FillMode = canvas.ImageFillStretch
	w.img.ScaleMode = canvas.ImageScaleSmooth

	w.border = canvas.NewRectangle(color.Transparent)
	w.border.StrokeWidth = 2

	var icons []fyne.CanvasObject
	for _, h := range item.Hotspots() {
		icons = append(icons, container.NewStack(canvas.NewRectangle(iconBack), widget.NewIcon(hotspotIcon(h))))
	}
	w.icons = container.New(hotspotLayout{}, icons...)
	w.icons.Hide()

	label := canvas.NewText(" Saved ", color.White)
	label.TextSize = theme.CaptionTextSize()
	label.TextStyle = fyne.TextStyle{Bold: true}
	w.badge = container.NewVBox(layout.NewSpacer(), container.NewHBox(container.NewStack(canvas.NewRectangle(savedGreen), label)))
	w.badge.Hide()

	w.ExtendBaseWidget(w)
	return w
}

func hotspotIcon(h item.Hotspot) fyne.Resource {
	switch h {
	case item.HotspotCopy:
		return theme.ContentCopyIcon()
	case item.HotspotSave:
		return theme.DocumentSaveIcon()
	default:
		return theme.DeleteIcon()
	}
}

func (w *itemWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(w.img, container.NewPadded(w.badge), w.border, w.icons))
}

func (w *itemWidget) MinSize() fyne.Size {
	dw, dh := w.it.DisplaySize()
	return fyne.NewSize(float32(dw), float32(dh))
}

// sync picks up display buffer and saved state changes.
func (w *itemWidget) sync() {
	if w.img.Image != w.it.Display {
		w.img.Image = w.it.Display
		w.img.Refresh()
	}
	if w.it.Saved {
		w.badge.Show()
	} else {
		w.badge.Hide()
	}
	w.Refresh()
}

func (w *itemWidget) setHovered(h bool) {
	w.it.Hovered = h
	if h {
		w.border.StrokeColor = hoverStroke
		w.icons.Show()
	} else {
		w.border.StrokeColor = color.Transparent
		w.icons.Hide()
	}
	w.border.Refresh()
}

func (w *itemWidget) MouseIn(e *desktop.MouseEvent) {
	w.ToolTipWidget.MouseIn(e)
	w.setHovered(true)
	w.ui.ctrl.ItemEntered(w.it)
	w.updateHotspot(e.Position)
}

func (w *itemWidget) MouseMoved(e *desktop.MouseEvent) {
	w.ToolTipWidget.MouseMoved(e)
	w.updateHotspot(e.Position)
}

func (w *itemWidget) MouseOut() {
	w.ToolTipWidget.MouseOut()
	w.setHovered(false)
	w.it.Hot = item.HotspotNone
	w.SetToolTip("")
	w.ui.ctrl.ItemLeft(w.it)
}

func (w *itemWidget) updateHotspot(p fyne.Position) {
	size := w.Size()
	h := item.HitTest(toPoint(p), int(size.Width), int(size.Height))
	if h == w.it.Hot {
		return
	}
	w.it.Hot = h
	w.SetToolTip(h.Tooltip())
}

// MouseDown runs the hotspot under the pointer when the primary button goes down.
func (w *itemWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	size := w.Size()
	h := item.HitTest(toPoint(e.Position), int(size.Width), int(size.Height))
	if h == item.HotspotNone {
		return
	}
	w.ui.ctrl.Hotspot(w.it, h)
}

func (w *itemWidget) MouseUp(*desktop.MouseEvent) {}
