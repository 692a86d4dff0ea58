package gui

import (
	"context"
	"image"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"snap-mosaic/src/config"
	"snap-mosaic/src/grid"
	"snap-mosaic/src/hotkey"
	"snap-mosaic/src/item"
	"snap-mosaic/src/overlay"
	"snap-mosaic/src/screenshot"
)

type fakeController struct {
	snaps    int
	toggles  int
	stops    int
	hotspots []item.Hotspot
	applied  []config.Settings
	resized  []int

	saves, copies, deletes int
}

func (c *fakeController) Snap() error {
	c.snaps++
	return nil
}

func (c *fakeController) DefineRegion(context.Context) error { return nil }

func (c *fakeController) ToggleAutoSnap() { c.toggles++ }

func (c *fakeController) StopAutoSnap() { c.stops++ }

func (c *fakeController) ClearAll() {}

func (c *fakeController) Hotspot(_ *item.Item, h item.Hotspot) { c.hotspots = append(c.hotspots, h) }

func (c *fakeController) ShortcutSave() { c.saves++ }

func (c *fakeController) ShortcutCopy() { c.copies++ }

func (c *fakeController) ShortcutDelete() { c.deletes++ }

func (c *fakeController) ItemEntered(*item.Item) {}

func (c *fakeController) ItemLeft(*item.Item) {}

func (c *fakeController) ViewportResized(w int) { c.resized = append(c.resized, w) }

func (c *fakeController) SaveGeometry(config.Geometry) {}

func (c *fakeController) Shutdown() {}

func (c *fakeController) ApplySettings(base, next config.Settings) error {
	c.applied = append(c.applied, next)
	return nil
}

func newTestUI(t *testing.T) (*UI, *fakeController) {
	t.Helper()
	a := test.NewTempApp(t)
	u := New(Options{App: a, Store: config.NewMemoryStore(config.Defaults()), Version: "test"})
	ctrl := &fakeController{}
	u.Bind(context.Background(), ctrl)
	return u, ctrl
}

func newItem(id, w, h int) *item.Item {
	return item.New(id, image.NewRGBA(image.Rect(0, 0, w, h)), 500, time.Now())
}

func TestButtonsShowHotkeys(t *testing.T) {
	u, ctrl := newTestUI(t)
	u.SetHotkeyLabels("Ctrl+F7", "F8")
	if got := u.snapBtn.Text; got != "Snap [Ctrl+F7]" {
		t.Errorf("snap button = %q", got)
	}
	if got := u.autoBtn.Text; got != "Auto-Snap [F8]" {
		t.Errorf("auto-snap button = %q", got)
	}
	u.SetAutoSnapRunning(true)
	if got := u.autoBtn.Text; got != "Stop Auto-Snap [F8]" {
		t.Errorf("running auto-snap button = %q", got)
	}

	test.Tap(u.snapBtn)
	test.Tap(u.autoBtn)
	if ctrl.snaps != 1 || ctrl.toggles != 1 {
		t.Errorf("snaps=%d toggles=%d", ctrl.snaps, ctrl.toggles)
	}
}

func TestWindowKeyBindings(t *testing.T) {
	u, ctrl := newTestUI(t)
	typed := u.win.Canvas().OnTypedKey()

	typed(&fyne.KeyEvent{Name: fyne.KeyEscape})
	typed(&fyne.KeyEvent{Name: fyne.KeyDelete})
	typed(&fyne.KeyEvent{Name: fyne.KeyA})
	u.shortcuts.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault})
	u.shortcuts.TypedShortcut(&fyne.ShortcutCopy{})

	tests := []struct {
		name string
		got  int
	}{
		{"stop auto-snap", ctrl.stops},
		{"delete", ctrl.deletes},
		{"save", ctrl.saves},
		{"copy", ctrl.copies},
	}
	for _, tt := range tests {
		if tt.got != 1 {
			t.Errorf("%s called %d times, want 1", tt.name, tt.got)
		}
	}
	if ctrl.snaps != 0 || ctrl.toggles != 0 {
		t.Errorf("unbound key reached the controller: snaps=%d toggles=%d", ctrl.snaps, ctrl.toggles)
	}
}

func TestRenderPlacesItems(t *testing.T) {
	u, _ := newTestUI(t)
	c := grid.New()
	for i := 1; i <= 3; i++ {
		c.Insert(newItem(i, 200, 100))
	}
	l := c.Reflow(450)
	u.Render(l)

	if len(u.mosaic.content.Objects) != 3 {
		t.Fatalf("objects = %d", len(u.mosaic.content.Objects))
	}
	u.mosaic.Layout(nil, fyne.NewSize(450, 400))
	for _, cell := range l.Cells {
		w := u.mosaic.widgets[cell.Item]
		if got := w.Position(); got != fyne.NewPos(float32(cell.X), float32(cell.Y)) {
			t.Errorf("item %d at %v, want (%d,%d)", cell.Item.ID, got, cell.X, cell.Y)
		}
	}
	if u.clearBtn.Disabled() {
		t.Error("clear should be enabled with items")
	}

	kept := l.Cells[1].Item
	c.Remove(l.Cells[0].Item)
	before := u.mosaic.widgets[kept]
	u.Render(c.Reflow(450))
	if len(u.mosaic.widgets) != 2 || u.mosaic.widgets[kept] != before {
		t.Error("widgets should be reused and removed ones dropped")
	}

	c.Clear()
	u.Render(c.Reflow(450))
	if len(u.mosaic.content.Objects) != 0 || !u.clearBtn.Disabled() {
		t.Error("empty layout should clear the grid")
	}
}

func press(pos fyne.Position, b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: pos}, Button: b}
}

func TestItemHotspotPress(t *testing.T) {
	u, ctrl := newTestUI(t)
	it := newItem(1, 300, 200)
	w := newItemWidget(it, u)
	w.Resize(fyne.NewSize(300, 200))

	tests := []struct {
		name string
		pos  fyne.Position
		want item.Hotspot
	}{
		{"delete", fyne.NewPos(300-29+2, 8), item.HotspotDelete},
		{"save", fyne.NewPos(300-58+2, 8), item.HotspotSave},
		{"copy", fyne.NewPos(300-87+2, 8), item.HotspotCopy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl.hotspots = nil
			w.MouseDown(press(tt.pos, desktop.MouseButtonPrimary))
			if len(ctrl.hotspots) != 1 || ctrl.hotspots[0] != tt.want {
				t.Errorf("hotspots = %v, want %v", ctrl.hotspots, tt.want)
			}
			w.MouseUp(press(tt.pos, desktop.MouseButtonPrimary))
			if len(ctrl.hotspots) != 1 {
				t.Errorf("release fired again: %v", ctrl.hotspots)
			}
		})
	}

	ctrl.hotspots = nil
	w.MouseDown(press(fyne.NewPos(100, 150), desktop.MouseButtonPrimary))
	if len(ctrl.hotspots) != 0 {
		t.Error("press outside hotspots should do nothing")
	}
	w.MouseDown(press(fyne.NewPos(300-29+2, 8), desktop.MouseButtonSecondary))
	if len(ctrl.hotspots) != 0 {
		t.Error("secondary button should not run a hotspot")
	}
}

func TestItemWidgetSavedBadge(t *testing.T) {
	u, _ := newTestUI(t)
	it := newItem(1, 100, 50)
	w := newItemWidget(it, u)
	w.sync()
	if w.badge.Visible() {
		t.Error("badge shown before save")
	}
	it.MarkSaved("x.png")
	w.sync()
	if !w.badge.Visible() {
		t.Error("badge hidden after save")
	}
	w.setHovered(true)
	if !w.icons.Visible() {
		t.Error("hotspot icons should show on hover")
	}
	w.setHovered(false)
	if w.icons.Visible() {
		t.Error("hotspot icons should hide on leave")
	}
}

func TestItemWidgetTracksPointerOnItem(t *testing.T) {
	u, _ := newTestUI(t)
	it := newItem(1, 300, 200)
	w := newItemWidget(it, u)
	w.Resize(fyne.NewSize(300, 200))

	w.setHovered(true)
	w.updateHotspot(fyne.NewPos(300-29+2, 8))
	if !it.Hovered || it.Hot != item.HotspotDelete {
		t.Errorf("over delete icon: hovered=%v hot=%v", it.Hovered, it.Hot)
	}
	w.updateHotspot(fyne.NewPos(10, 150))
	if it.Hot != item.HotspotNone {
		t.Errorf("hot = %v away from the icons", it.Hot)
	}
	w.setHovered(false)
	if it.Hovered {
		t.Error("item still hovered after leave")
	}
}

func TestViewportReportsWidthChanges(t *testing.T) {
	var got []float32
	v := &viewportLayout{last: -1, onResize: func(w float32) { got = append(got, w) }}
	v.Layout(nil, fyne.NewSize(800, 600))
	v.Layout(nil, fyne.NewSize(800, 500))
	v.Layout(nil, fyne.NewSize(640, 500))
	if len(got) != 2 || got[0] != 800 || got[1] != 640 {
		t.Errorf("widths = %v", got)
	}
}

func key(name fyne.KeyName) *fyne.KeyEvent { return &fyne.KeyEvent{Name: name} }

func TestHotkeyEntryRecordsChord(t *testing.T) {
	test.NewTempApp(t)
	e := NewHotkeyEntry(hotkey.MustParse("f7"))
	var changed []hotkey.Descriptor
	e.OnChanged = func(d hotkey.Descriptor) { changed = append(changed, d) }

	e.KeyDown(key(fyne.KeyF9))
	if len(changed) != 0 {
		t.Fatal("keys are ignored until recording starts")
	}

	e.Tapped(nil)
	if !e.Recording() || e.label.Text != "Press a key combination..." {
		t.Fatalf("recording=%v text=%q", e.Recording(), e.label.Text)
	}
	e.KeyDown(key(desktop.KeyShiftLeft))
	e.KeyDown(key(desktop.KeyControlLeft))
	if !e.Recording() {
		t.Fatal("bare modifiers must keep recording")
	}
	e.KeyDown(key(fyne.KeyF9))
	if got := e.Value().String(); got != "ctrl+shift+f9" {
		t.Errorf("value = %q", got)
	}
	if len(changed) != 1 || e.label.Text != "Ctrl+Shift+F9" {
		t.Errorf("changed=%v text=%q", changed, e.label.Text)
	}
}

func TestHotkeyEntryCancel(t *testing.T) {
	test.NewTempApp(t)
	e := NewHotkeyEntry(hotkey.MustParse("f7"))

	e.Tapped(nil)
	e.KeyDown(key(fyne.KeyEscape))
	if e.Recording() || e.Value().String() != "f7" {
		t.Errorf("escape should cancel: recording=%v value=%s", e.Recording(), e.Value())
	}

	e.Tapped(nil)
	e.FocusLost()
	if e.Recording() || e.label.Text != "F7" {
		t.Errorf("focus loss should cancel: text=%q", e.label.Text)
	}
}

func TestSettingsFormCollect(t *testing.T) {
	test.NewTempApp(t)
	base := config.Defaults()
	base.AutoSaveLocation = t.TempDir()

	f := newSettingsForm(base)
	got, err := f.collect()
	if err != nil {
		t.Fatalf("collect unchanged form: %v", err)
	}
	if got.Hotkey != "f7" || got.AutoSnapHotkey != "f8" || got.MaxDisplayWidth != 500 || got.AutoSnapInterval != 10 {
		t.Errorf("round trip = %+v", got)
	}

	f.interval.SetText("5")
	f.maxWidth.SetText("320")
	f.autoSave.SetChecked(true)
	f.suffix.SetSelected(config.SuffixNumeric)
	f.format.SetSelected(config.FormatJPG)
	got, err = f.collect()
	if err != nil {
		t.Fatal(err)
	}
	if got.AutoSnapInterval != 5 || got.MaxDisplayWidth != 320 || !got.AutoSaveEnabled ||
		got.AutoSaveSuffixType != config.SuffixNumeric || got.AutoSaveFormat != config.FormatJPG {
		t.Errorf("edited = %+v", got)
	}
	if f.counter.Disabled() {
		t.Error("counter should be editable for numeric suffixes")
	}
}

func TestSettingsFormRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		edit func(f *settingsForm)
	}{
		{"zero interval", func(f *settingsForm) { f.interval.SetText("0") }},
		{"text width", func(f *settingsForm) { f.maxWidth.SetText("wide") }},
		{"same hotkeys", func(f *settingsForm) {
			f.autoSnapKey.Tapped(nil)
			f.autoSnapKey.KeyDown(key(fyne.KeyF7))
		}},
		{"auto-save without folder", func(f *settingsForm) {
			f.autoSave.SetChecked(true)
			f.location.SetText("  ")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.NewTempApp(t)
			f := newSettingsForm(config.Defaults())
			tt.edit(f)
			if _, err := f.collect(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestSelectorMapperSharesScale(t *testing.T) {
	scale := 1.0
	s := NewSelector(nil, func() float64 { return scale })
	// Two 1920x1080 monitors side by side with the second left of the primary.
	bounds := image.Rect(-1920, 0, 1920, 1080)

	tests := []struct {
		name  string
		scale float64
		viewW float32
		viewH float32
		r     overlay.Rect
		want  screenshot.Region
	}{
		{"native view", 1, 3840, 1080, overlay.Rect{X: 100, Y: 50, Width: 200, Height: 100},
			screenshot.Region{X: -1820, Y: 50, Width: 200, Height: 100}},
		{"hidpi", 2, 3840, 1080, overlay.Rect{X: 1920, Y: 0, Width: 400, Height: 200},
			screenshot.Region{X: 0, Y: 0, Width: 200, Height: 100}},
		{"stretched view", 1, 1920, 540, overlay.Rect{X: 960, Y: 0, Width: 100, Height: 50},
			screenshot.Region{X: 0, Y: 0, Width: 200, Height: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale = tt.scale
			got := s.mapper(bounds, tt.viewW, tt.viewH).ToRegion(tt.r)
			if got != tt.want {
				t.Errorf("ToRegion = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOnScreen(t *testing.T) {
	displays := []image.Rectangle{image.Rect(0, 0, 1920, 1080), image.Rect(1920, 0, 3840, 1080)}
	tests := []struct {
		name string
		g    config.Geometry
		want bool
	}{
		{"primary", config.Geometry{X: 100, Y: 100, Width: 800, Height: 600}, true},
		{"secondary", config.Geometry{X: 2000, Y: 10, Width: 800, Height: 600}, true},
		{"disconnected monitor", config.Geometry{X: -3000, Y: 0, Width: 800, Height: 600}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := onScreen(tt.g, displays); got != tt.want {
				t.Errorf("onScreen = %v, want %v", got, tt.want)
			}
		})
	}
	if !onScreen(config.Geometry{X: -5000, Width: 10, Height: 10}, nil) {
		t.Error("without display info the geometry is trusted")
	}
}
