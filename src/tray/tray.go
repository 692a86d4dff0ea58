// Package tray installs the system tray menu.
package tray

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/systray"
)

// Actions are the menu callbacks. They run on the UI thread.
type Actions struct {
	Show           func()
	Snap           func()
	ToggleAutoSnap func()
	Quit           func()
}

// Tray owns the tray menu so labels can follow application state.
type Tray struct {
	desk     desktop.App
	menu     *fyne.Menu
	snap     *fyne.MenuItem
	autoSnap *fyne.MenuItem
	tooltip  string
}

// Setup installs the menu. It returns nil when the driver has no tray support.
func Setup(app fyne.App, title string, a Actions) *Tray {
	desk, ok := app.(desktop.App)
	if !ok {
		log.Printf("tray: not supported by this driver")
		return nil
	}
	t := &Tray{desk: desk, tooltip: title}
	show := fyne.NewMenuItem("Show "+title, a.Show)
	t.snap = fyne.NewMenuItem("Snap", a.Snap)
	t.autoSnap = fyne.NewMenuItem("Start Auto-Snap", a.ToggleAutoSnap)
	quit := fyne.NewMenuItem("Quit", a.Quit)
	quit.IsQuit = true
	t.menu = fyne.NewMenu(title, show, fyne.NewMenuItemSeparator(), t.snap, t.autoSnap, fyne.NewMenuItemSeparator(), quit)

	desk.SetSystemTrayIcon(Icon())
	desk.SetSystemTrayMenu(t.menu)
	systray.SetTooltip(title)
	return t
}

// SetAutoSnapRunning relabels the toggle and the tooltip.
func (t *Tray) SetAutoSnapRunning(running bool) {
	if t == nil {
		return
	}
	if running {
		t.autoSnap.Label = "Stop Auto-Snap"
		systray.SetTooltip(t.tooltip + ": auto-snapping")
	} else {
		t.autoSnap.Label = "Start Auto-Snap"
		systray.SetTooltip(t.tooltip)
	}
	t.menu.Refresh()
}

// SetHotkeyLabel shows the capture hotkey next to the Snap item.
func (t *Tray) SetHotkeyLabel(label string) {
	if t == nil {
		return
	}
	t.snap.Label = fmt.Sprintf("Snap [%s]", label)
	t.menu.Refresh()
}
