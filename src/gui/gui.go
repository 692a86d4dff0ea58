package gui

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"snap-mosaic/src/config"
	"snap-mosaic/src/grid"
	"snap-mosaic/src/item"
	"snap-mosaic/src/notification"
	"snap-mosaic/src/screenshot"
	"snap-mosaic/src/tray"
)

// Controller is the part of the main controller the window drives.
type Controller interface {
	Snap() error
	DefineRegion(ctx context.Context) error
	ToggleAutoSnap()
	StopAutoSnap()
	ClearAll()
	Hotspot(it *item.Item, h item.Hotspot)
	ShortcutSave()
	ShortcutCopy()
	ShortcutDelete()
	ItemEntered(it *item.Item)
	ItemLeft(it *item.Item)
	ViewportResized(width int)
	ApplySettings(base, next config.Settings) error
	SaveGeometry(g config.Geometry)
	Shutdown()
}

type Options struct {
	App     fyne.App
	Store   *config.Store
	Version string
}

// UI is the main window. It implements the controller's view.
type UI struct {
	app     fyne.App
	win     fyne.Window
	store   *config.Store
	ctrl    Controller
	version string

	defineBtn *widget.Button
	snapBtn   *widget.Button
	autoBtn   *widget.Button
	clearBtn  *widget.Button
	status    *widget.Label
	mosaic    *mosaic
	flash     *canvas.Rectangle

	settingsWin fyne.Window
	tray        *tray.Tray
	shortcuts   fyne.ShortcutHandler

	labels      [2]string
	autoRunning bool
	visible     bool
	quitting    bool
	ctx         context.Context
}

func New(opts Options) *UI {
	u := &UI{
		app:     opts.App,
		store:   opts.Store,
		version: opts.Version,
		labels:  [2]string{"F7", "F8"},
		ctx:     context.Background(),
	}
	u.win = u.app.NewWindow(config.AppName)
	u.build()
	u.restoreGeometry()
	return u
}

// Bind attaches the controller. It must be called before the window is shown.
func (u *UI) Bind(ctx context.Context, ctrl Controller) {
	u.ctx = ctx
	u.ctrl = ctrl
}

func (u *UI) Window() fyne.Window { return u.win }

// AttachTray makes the tray menu follow auto-snap and hotkey changes.
func (u *UI) AttachTray(t *tray.Tray) {
	u.tray = t
	t.SetHotkeyLabel(u.labels[0])
}

// Quit saves the window size, stops the controller and leaves the event loop.
func (u *UI) Quit() {
	if u.quitting {
		return
	}
	u.quitting = true
	u.saveGeometry()
	if u.ctrl != nil {
		u.ctrl.Shutdown()
	}
	fynetooltip.DestroyWindowToolTipLayer(u.win.Canvas())
	u.app.Quit()
}

func (u *UI) build() {
	u.defineBtn = widget.NewButtonWithIcon("Define Region", theme.ViewFullScreenIcon(), func() {
		_ = u.ctrl.DefineRegion(u.ctx)
	})
	u.snapBtn = widget.NewButtonWithIcon("", theme.MediaPhotoIcon(), func() { _ = u.ctrl.Snap() })
	u.autoBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() { u.ctrl.ToggleAutoSnap() })
	u.clearBtn = widget.NewButtonWithIcon("Clear All", theme.ContentClearIcon(), func() { u.ctrl.ClearAll() })
	settingsBtn := widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), u.ShowSettings)
	aboutBtn := widget.NewButtonWithIcon("About", theme.InfoIcon(), u.ShowAbout)
	u.updateButtons()

	top := container.NewHBox(u.defineBtn, u.snapBtn, u.autoBtn, u.clearBtn, layout.NewSpacer(), settingsBtn, aboutBtn)

	u.mosaic = newMosaic(u)
	scroll := container.NewVScroll(u.mosaic.content)
	viewport := newViewport(scroll, func(width float32) {
		if u.ctrl != nil {
			u.ctrl.ViewportResized(int(width))
		}
	})

	u.flash = canvas.NewRectangle(color.Transparent)
	u.status = widget.NewLabel("")
	u.updateStatus()

	content := container.NewBorder(top, u.status, nil, nil, container.NewStack(viewport, u.flash))
	u.win.SetContent(fynetooltip.AddWindowToolTipLayer(content, u.win.Canvas()))
	u.bindShortcuts()

	u.win.SetCloseIntercept(u.Quit)
}

func (u *UI) bindShortcuts() {
	u.shortcuts.AddShortcut(saveShortcut, func(fyne.Shortcut) { u.ctrl.ShortcutSave() })
	u.shortcuts.AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) { u.ctrl.ShortcutCopy() })

	c := u.win.Canvas()
	c.AddShortcut(saveShortcut, u.shortcuts.TypedShortcut)
	c.AddShortcut(&fyne.ShortcutCopy{}, u.shortcuts.TypedShortcut)
	c.SetOnTypedKey(u.typedKey)
}

var saveShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}

func (u *UI) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyEscape:
		u.ctrl.StopAutoSnap()
	case fyne.KeyDelete:
		u.ctrl.ShortcutDelete()
	}
}

// ShowAndRun shows the main window and blocks in the fyne event loop.
func (u *UI) ShowAndRun() {
	u.visible = true
	u.win.ShowAndRun()
}

func (u *UI) Warn(title, msg string) {
	log.Printf("warning: %s: %s", title, msg)
	if !u.visible {
		notification.Send(title, msg)
		return
	}
	dialog.ShowInformation(title, msg, u.win)
}

func (u *UI) Info(title, msg string) {
	log.Printf("%s: %s", title, msg)
	if u.visible {
		dialog.ShowInformation(title, msg, u.win)
	}
}

func (u *UI) Render(l grid.Layout) {
	u.mosaic.apply(l)
	u.clearBtn.Disable()
	if len(l.Cells) > 0 {
		u.clearBtn.Enable()
	}
}

// Flash briefly whitens the grid as capture feedback.
func (u *UI) Flash() {
	anim := canvas.NewColorRGBAAnimation(
		color.NRGBA{R: 255, G: 255, B: 255, A: 160},
		color.NRGBA{R: 255, G: 255, B: 255, A: 0},
		250*time.Millisecond,
		func(c color.Color) {
			u.flash.FillColor = c
			u.flash.Refresh()
		})
	anim.Start()
}

func (u *UI) SetAutoSnapRunning(running bool) {
	u.autoRunning = running
	u.updateButtons()
	u.tray.SetAutoSnapRunning(running)
}

func (u *UI) SetHotkeyLabels(capture, autoSnap string) {
	u.labels = [2]string{capture, autoSnap}
	u.updateButtons()
	u.tray.SetHotkeyLabel(capture)
}

func (u *UI) updateButtons() {
	u.snapBtn.SetText(fmt.Sprintf("Snap [%s]", u.labels[0]))
	if u.autoRunning {
		u.autoBtn.SetText(fmt.Sprintf("Stop Auto-Snap [%s]", u.labels[1]))
		u.autoBtn.SetIcon(theme.MediaStopIcon())
		u.autoBtn.Importance = widget.HighImportance
	} else {
		u.autoBtn.SetText(fmt.Sprintf("Auto-Snap [%s]", u.labels[1]))
		u.autoBtn.SetIcon(theme.MediaPlayIcon())
		u.autoBtn.Importance = widget.MediumImportance
	}
	u.autoBtn.Refresh()
}

func (u *UI) updateStatus() {
	s := u.store.Get()
	if s.CaptureRegion == nil {
		u.status.SetText("No region defined")
		return
	}
	r := s.CaptureRegion
	u.status.SetText(fmt.Sprintf("Region: %dx%d at (%d, %d)", r.Width, r.Height, r.X, r.Y))
}

func (u *UI) ConfirmClearAll(onResult func(ok, dontAskAgain bool)) {
	dontAsk := widget.NewCheck("Don't ask again", nil)
	body := container.NewVBox(widget.NewLabel("Remove all captured images?"), dontAsk)
	dialog.ShowCustomConfirm("Clear All", "Clear", "Cancel", body, func(ok bool) {
		onResult(ok, dontAsk.Checked)
	}, u.win)
}

func (u *UI) HideMain() {
	u.visible = false
	u.win.Hide()
}

func (u *UI) ShowMain() {
	u.visible = true
	u.updateStatus()
	u.win.Show()
	u.win.RequestFocus()
}

func (u *UI) restoreGeometry() {
	g := u.store.Get().WindowGeometry
	if g == nil || !onScreen(*g, screenshot.DisplayBounds()) {
		u.win.Resize(fyne.NewSize(1100, 700))
		u.win.CenterOnScreen()
		return
	}
	u.win.Resize(fyne.NewSize(float32(g.Width), float32(g.Height)))
}

// fyne does not expose the window position, only its size is tracked.
func (u *UI) saveGeometry() {
	if u.ctrl == nil {
		return
	}
	size := u.win.Canvas().Size()
	g := config.Geometry{Width: int(size.Width), Height: int(size.Height)}
	if prev := u.store.Get().WindowGeometry; prev != nil {
		g.X, g.Y = prev.X, prev.Y
	}
	u.ctrl.SaveGeometry(g)
}
