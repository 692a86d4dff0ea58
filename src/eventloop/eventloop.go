package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"snap-mosaic/src/autosnap"
	"snap-mosaic/src/capture"
	"snap-mosaic/src/config"
	"snap-mosaic/src/grid"
	"snap-mosaic/src/hotkey"
	"snap-mosaic/src/item"
	"snap-mosaic/src/overlay"
	"snap-mosaic/src/screenshot"
)

var ErrItemsPresent = errors.New("clear the captured images before defining a new region")

// View is the surface the loop drives. All methods are called on the UI thread.
type View interface {
	Warn(title, msg string)
	Info(title, msg string)
	Render(layout grid.Layout)
	Flash()
	SetAutoSnapRunning(running bool)
	SetHotkeyLabels(capture, autoSnap string)
	// ConfirmClearAll asks before discarding every item. onResult runs on the UI thread.
	ConfirmClearAll(onResult func(ok, dontAskAgain bool))
	HideMain()
	ShowMain()
}

type Options struct {
	Store          *config.Store
	Pipeline       *capture.Pipeline
	Selector       overlay.Selector
	View           View
	CaptureBridge  *hotkey.Bridge
	AutoSnapBridge *hotkey.Bridge
	// BackendFor returns the hotkey backend for a hotkey_backend value.
	BackendFor func(kind string) hotkey.Backend
	// Dispatch runs fn on the UI thread.
	Dispatch    func(fn func())
	NewTicker   func(d time.Duration) autosnap.Ticker
	ResizeDelay time.Duration
}

// Loop is the single-threaded coordinator between hotkeys, the capture
// pipeline and the grid. Except for Run, every method must be called on the
// UI thread.
type Loop struct {
	store      *config.Store
	pipeline   *capture.Pipeline
	selector   overlay.Selector
	view       View
	captureKey *hotkey.Bridge
	snapKey    *hotkey.Bridge
	backendFor func(string) hotkey.Backend
	dispatch   func(func())

	grid     *grid.Compositor
	autoSnap *autosnap.Controller
	hover    item.HoverTracker
	resize   *grid.Debouncer

	applied   config.Settings
	viewport  int
	pending   int
	selecting bool
}

func New(opts Options) *Loop {
	l := &Loop{
		store:      opts.Store,
		pipeline:   opts.Pipeline,
		selector:   opts.Selector,
		view:       opts.View,
		captureKey: opts.CaptureBridge,
		snapKey:    opts.AutoSnapBridge,
		backendFor: opts.BackendFor,
		dispatch:   opts.Dispatch,
		grid:       grid.New(),
	}
	if l.dispatch == nil {
		l.dispatch = func(fn func()) { fn() }
	}
	l.applied = l.store.Get()

	l.autoSnap = autosnap.New(autosnap.Options{
		Interval:      time.Duration(l.applied.AutoSnapInterval) * time.Second,
		Dispatch:      l.dispatch,
		OnTick:        l.autoSnapTick,
		OnStateChange: l.view.SetAutoSnapRunning,
		NewTicker:     opts.NewTicker,
	})

	delay := opts.ResizeDelay
	if delay <= 0 {
		delay = grid.ResizeDelay
	}
	l.resize = grid.NewDebouncer(delay, func() {
		l.dispatch(func() {
			if l.pending != l.viewport {
				l.viewport = l.pending
				l.render()
			}
		})
	})
	return l
}

// Start registers both global hotkeys from the stored settings.
// A failed registration is reported and leaves that hotkey unbound.
func (l *Loop) Start() {
	s := l.store.Get()
	l.bind(l.captureKey, s.Hotkey)
	l.bind(l.snapKey, s.AutoSnapHotkey)
	l.updateLabels()
}

func (l *Loop) bind(b *hotkey.Bridge, combo string) {
	if b == nil {
		return
	}
	d, err := hotkey.Parse(combo)
	if err == nil {
		err = b.Start(d)
	}
	if err != nil {
		log.Printf("eventloop: %s hotkey %q: %v", b.Name(), combo, err)
		l.view.Warn("Hotkey Error", fmt.Sprintf("Could not register the hotkey '%s'.\nIt might be already in use by another application.", combo))
	}
}

// Run forwards hotkey activations to the UI thread until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	var capSig, snapSig <-chan struct{}
	if l.captureKey != nil {
		capSig = l.captureKey.Signal()
	}
	if l.snapKey != nil {
		snapSig = l.snapKey.Signal()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-capSig:
			l.dispatch(func() {
				for n := l.captureKey.Drain(); n > 0; n-- {
					_ = l.Snap()
				}
			})
		case <-snapSig:
			l.dispatch(func() {
				for n := l.snapKey.Drain(); n > 0; n-- {
					l.ToggleAutoSnap()
				}
			})
		}
	}
}

// Shutdown stops timers and unregisters both hotkeys.
func (l *Loop) Shutdown() {
	l.autoSnap.Stop()
	l.resize.Stop()
	if l.captureKey != nil {
		l.captureKey.Stop()
	}
	if l.snapKey != nil {
		l.snapKey.Stop()
	}
}

// Snap captures the stored region into the grid.
func (l *Loop) Snap() error {
	if l.selecting {
		return nil
	}
	it, err := l.pipeline.Capture(l.store.Get().CaptureRegion)
	if errors.Is(err, capture.ErrNoRegion) {
		l.view.Warn("No Region Defined", "Please define a capture region first.")
		return err
	}
	if err != nil {
		log.Printf("eventloop: capture failed: %v", err)
		l.view.Warn("Capture Error", err.Error())
		return err
	}
	l.grid.Insert(it)
	l.render()
	return nil
}

func (l *Loop) autoSnapTick() {
	l.view.Flash()
	if err := l.Snap(); err != nil {
		l.autoSnap.Stop()
	}
}

// DefineRegion hides the main window and starts an interactive selection.
// The new region is persisted once the selection completes.
func (l *Loop) DefineRegion(ctx context.Context) error {
	if l.selecting {
		return nil
	}
	if l.grid.Len() > 0 {
		l.view.Warn("Clear Images First", "Please clear all captured images before defining a new region.")
		return ErrItemsPresent
	}
	l.autoSnap.Stop()
	l.selecting = true
	l.view.HideMain()
	l.selector.Select(ctx, func(region screenshot.Region, cancelled bool, err error) {
		l.selecting = false
		l.view.ShowMain()
		switch {
		case err != nil:
			log.Printf("eventloop: region selection failed: %v", err)
			l.view.Warn("Selection Error", err.Error())
		case cancelled:
			log.Printf("eventloop: region selection cancelled")
		case !region.Valid():
			log.Printf("eventloop: ignoring degenerate region %v", region)
		default:
			r := region
			if uerr := l.store.Update(func(s *config.Settings) { s.CaptureRegion = &r }); uerr != nil {
				log.Printf("eventloop: persist region: %v", uerr)
			}
			log.Printf("eventloop: capture region set to %v", region)
		}
	})
	return nil
}

// ToggleAutoSnap starts or stops auto-snap. Starting without a region warns.
func (l *Loop) ToggleAutoSnap() {
	if l.selecting {
		return
	}
	if _, err := l.autoSnap.Toggle(l.store.Get().CaptureRegion != nil); err != nil {
		l.view.Warn("No Region Defined", "Please define a capture region before starting Auto-Snap.")
	}
}

// StopAutoSnap stops auto-snap if running. It never starts it.
func (l *Loop) StopAutoSnap() { l.autoSnap.Stop() }

func (l *Loop) AutoSnapRunning() bool { return l.autoSnap.Running() }

// ClearAll removes every item, asking first unless the confirmation was dismissed.
func (l *Loop) ClearAll() {
	if l.grid.Len() == 0 {
		return
	}
	if !l.store.Get().Confirmations.ClearAll {
		l.clear()
		return
	}
	l.view.ConfirmClearAll(func(ok, dontAskAgain bool) {
		if !ok {
			return
		}
		if dontAskAgain {
			if err := l.store.Update(func(s *config.Settings) { s.Confirmations.ClearAll = false }); err != nil {
				log.Printf("eventloop: persist confirmation: %v", err)
			}
		}
		l.clear()
	})
}

func (l *Loop) clear() {
	removed := l.grid.Clear()
	l.hover.Reset()
	log.Printf("eventloop: cleared %d items", len(removed))
	l.render()
}

// Hotspot performs the action bound to h on it.
func (l *Loop) Hotspot(it *item.Item, h item.Hotspot) {
	switch h {
	case item.HotspotCopy:
		l.CopyItem(it)
	case item.HotspotSave:
		l.SaveItem(it)
	case item.HotspotDelete:
		l.DeleteItem(it)
	}
}

func (l *Loop) SaveItem(it *item.Item) {
	if !l.grid.Contains(it) {
		return
	}
	if l.pipeline.Save(it, false) == nil {
		l.render()
	}
}

func (l *Loop) CopyItem(it *item.Item) {
	if !l.grid.Contains(it) {
		return
	}
	_ = l.pipeline.Copy(it, false)
}

// DeleteItem removes it. Repeated requests for the same item are ignored.
func (l *Loop) DeleteItem(it *item.Item) {
	if !l.grid.Remove(it) {
		return
	}
	l.hover.Forget(it)
	l.render()
}

// ShortcutSave quietly saves the hovered item, or the newest one.
func (l *Loop) ShortcutSave() {
	it := l.target()
	if it == nil {
		return
	}
	if l.pipeline.Save(it, true) == nil {
		l.render()
	}
}

// ShortcutCopy quietly copies the hovered item, or the newest one.
func (l *Loop) ShortcutCopy() {
	if it := l.target(); it != nil {
		_ = l.pipeline.Copy(it, true)
	}
}

// ShortcutDelete removes the hovered item only.
func (l *Loop) ShortcutDelete() {
	if it := l.hover.Current(); it != nil {
		l.DeleteItem(it)
	}
}

func (l *Loop) target() *item.Item {
	if it := l.hover.Current(); it != nil && l.grid.Contains(it) {
		return it
	}
	return l.grid.Newest()
}

func (l *Loop) ItemEntered(it *item.Item) { l.hover.Enter(it) }

func (l *Loop) ItemLeft(it *item.Item) { l.hover.Leave(it) }

func (l *Loop) Hovered() *item.Item { return l.hover.Current() }

func (l *Loop) Items() []*item.Item { return l.grid.Items() }

// ViewportResized schedules a re-flow once resizing has been quiet for the debounce delay.
func (l *Loop) ViewportResized(width int) {
	if width == l.pending {
		return
	}
	l.pending = width
	l.resize.Trigger()
}

// SetViewport re-flows immediately.
func (l *Loop) SetViewport(width int) {
	l.pending = width
	l.viewport = width
	l.render()
}

func (l *Loop) render() {
	l.view.Render(l.grid.Reflow(l.viewport))
}

// ApplySettings persists the fields the settings dialog changed relative to
// base, the snapshot it was opened with, and applies them. Everything else keeps
// its current stored value.
func (l *Loop) ApplySettings(base, next config.Settings) error {
	err := l.store.Update(func(s *config.Settings) {
		region, geometry := s.CaptureRegion, s.WindowGeometry
		s.ApplyEdits(base, next)
		s.CaptureRegion, s.WindowGeometry = region, geometry
	})
	if err != nil {
		l.view.Warn("Settings Error", fmt.Sprintf("Could not save settings: %v", err))
	}
	l.SettingsChanged(l.store.Get())
	return err
}

// SettingsChanged applies the difference between cur and the last applied settings.
func (l *Loop) SettingsChanged(cur config.Settings) {
	prev := l.applied

	if cur.HotkeyBackend != prev.HotkeyBackend && l.backendFor != nil {
		backend := l.backendFor(cur.HotkeyBackend)
		for _, b := range []*hotkey.Bridge{l.captureKey, l.snapKey} {
			if b == nil {
				continue
			}
			if err := b.SetBackend(backend); err != nil {
				log.Printf("eventloop: switching %s to %s backend: %v", b.Name(), cur.HotkeyBackend, err)
				l.view.Warn("Hotkey Error", err.Error())
			}
		}
	}
	if cur.Hotkey != prev.Hotkey {
		l.rebind(l.captureKey, cur.Hotkey, prev.Hotkey, func(s *config.Settings, v string) { s.Hotkey = v })
	}
	if cur.AutoSnapHotkey != prev.AutoSnapHotkey {
		l.rebind(l.snapKey, cur.AutoSnapHotkey, prev.AutoSnapHotkey, func(s *config.Settings, v string) { s.AutoSnapHotkey = v })
	}
	if cur.AutoSnapInterval != prev.AutoSnapInterval {
		l.autoSnap.SetInterval(time.Duration(cur.AutoSnapInterval) * time.Second)
	}
	if cur.MaxDisplayWidth != prev.MaxDisplayWidth {
		l.grid.Rescale(cur.MaxDisplayWidth)
		l.render()
	}

	l.applied = l.store.Get()
	l.updateLabels()
}

func (l *Loop) rebind(b *hotkey.Bridge, next, prev string, set func(*config.Settings, string)) {
	if b == nil {
		return
	}
	d, err := hotkey.Parse(next)
	if err == nil {
		err = b.Rebind(d)
	}
	if err == nil {
		log.Printf("eventloop: %s hotkey is now %s", b.Name(), d)
		l.view.Info("Hotkey Updated", fmt.Sprintf("Hotkey changed to '%s'.", d.Label()))
		return
	}
	log.Printf("eventloop: rebind %s to %q: %v", b.Name(), next, err)
	l.view.Warn("Invalid Hotkey", fmt.Sprintf("Could not register the hotkey '%s'.\nIt might be already in use by another application.\nReverting to the previous hotkey.", next))
	if uerr := l.store.Update(func(s *config.Settings) { set(s, prev) }); uerr != nil {
		log.Printf("eventloop: revert %s hotkey: %v", b.Name(), uerr)
	}
}

func (l *Loop) updateLabels() {
	s := l.store.Get()
	l.view.SetHotkeyLabels(label(l.captureKey, s.Hotkey), label(l.snapKey, s.AutoSnapHotkey))
}

// label prefers the chord actually registered.
func label(b *hotkey.Bridge, fallback string) string {
	if b != nil {
		if d := b.Descriptor(); !d.IsZero() {
			return d.Label()
		}
	}
	if d, err := hotkey.Parse(fallback); err == nil {
		return d.Label()
	}
	return fallback
}

// SaveGeometry records the main window position and size.
func (l *Loop) SaveGeometry(g config.Geometry) {
	if g.Width <= 0 || g.Height <= 0 {
		return
	}
	if err := l.store.Update(func(s *config.Settings) { s.WindowGeometry = &g }); err != nil {
		log.Printf("eventloop: persist window geometry: %v", err)
	}
}
