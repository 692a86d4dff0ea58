package gui

import (
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"snap-mosaic/src/hotkey"
)

// HotkeyEntry records a key chord when tapped. Bare modifiers keep it
// recording; Escape alone or losing focus cancels and keeps the old value.
type HotkeyEntry struct {
	widget.BaseWidget

	OnChanged func(d hotkey.Descriptor)

	rec   *hotkey.Recorder
	held  map[fyne.KeyName]bool
	label *widget.Label
	bg    *canvas.Rectangle
}

var (
	_ fyne.Focusable = (*HotkeyEntry)(nil)
	_ desktop.Keyable = (*HotkeyEntry)(nil)
)

func NewHotkeyEntry(initial hotkey.Descriptor) *HotkeyEntry {
	e := &HotkeyEntry{
		rec:   hotkey.NewRecorder(initial),
		held:  map[fyne.KeyName]bool{},
		label: widget.NewLabel(""),
		bg:    canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground)),
	}
	e.bg.CornerRadius = theme.InputRadiusSize()
	e.ExtendBaseWidget(e)
	e.update()
	return e
}

func (e *HotkeyEntry) Value() hotkey.Descriptor { return e.rec.Value() }

func (e *HotkeyEntry) Recording() bool { return e.rec.Recording() }

func (e *HotkeyEntry) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(e.bg, e.label))
}

func (e *HotkeyEntry) MinSize() fyne.Size {
	return fyne.NewSize(180, e.label.MinSize().Height)
}

func (e *HotkeyEntry) Tapped(*fyne.PointEvent) {
	e.rec.Begin()
	clear(e.held)
	if c := fyne.CurrentApp().Driver().CanvasForObject(e); c != nil {
		c.Focus(e)
	}
	e.update()
}

func (e *HotkeyEntry) FocusGained() {}

func (e *HotkeyEntry) FocusLost() {
	e.rec.Cancel()
	clear(e.held)
	e.update()
}

func (e *HotkeyEntry) TypedRune(rune) {}

func (e *HotkeyEntry) TypedKey(*fyne.KeyEvent) {}

func (e *HotkeyEntry) KeyDown(ev *fyne.KeyEvent) {
	if !e.rec.Recording() {
		return
	}
	if hotkey.IsModifier(string(ev.Name)) {
		e.held[ev.Name] = true
		return
	}
	if ev.Name == fyne.KeyEscape && len(e.held) == 0 {
		e.rec.Cancel()
		e.update()
		return
	}
	if e.rec.Chord(e.modifiers(), string(ev.Name)) && e.OnChanged != nil {
		e.OnChanged(e.rec.Value())
	}
	clear(e.held)
	e.update()
}

func (e *HotkeyEntry) KeyUp(ev *fyne.KeyEvent) {
	delete(e.held, ev.Name)
}

func (e *HotkeyEntry) modifiers() []string {
	mods := make([]string, 0, len(e.held))
	for k := range e.held {
		mods = append(mods, string(k))
	}
	sort.Strings(mods)
	return mods
}

func (e *HotkeyEntry) update() {
	e.label.SetText(e.rec.Text())
	if e.rec.Recording() {
		e.label.TextStyle = fyne.TextStyle{Italic: true}
	} else {
		e.label.TextStyle = fyne.TextStyle{}
	}
	e.label.Refresh()
}
