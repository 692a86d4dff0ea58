package gui

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	nativedialog "github.com/sqweek/dialog"

	"snap-mosaic/src/config"
	"snap-mosaic/src/hotkey"
)

var (
	suffixOptions  = []string{config.SuffixTimestamp, config.SuffixNumeric}
	formatOptions  = []string{config.FormatPNG, config.FormatJPG}
	backendOptions = []string{config.BackendRegister, config.BackendHook}
)

// settingsForm holds the settings widgets. collect turns them back into Settings.
type settingsForm struct {
	base config.Settings

	captureKey  *HotkeyEntry
	autoSnapKey *HotkeyEntry
	backend     *widget.Select
	interval    *widget.Entry
	maxWidth    *widget.Entry

	autoCopy     *widget.Check
	sounds       *widget.Check
	confirmClear *widget.Check

	autoSave     *widget.Check
	location     *widget.Entry
	prefix       *widget.Entry
	suffix       *widget.Select
	counter      *widget.Entry
	format       *widget.Select
	quality      *widget.Slider
	qualityLabel *widget.Label
}

func newSettingsForm(s config.Settings) *settingsForm {
	f := &settingsForm{base: s.Clone()}

	f.captureKey = NewHotkeyEntry(parseOrZero(s.Hotkey))
	f.autoSnapKey = NewHotkeyEntry(parseOrZero(s.AutoSnapHotkey))
	f.backend = widget.NewSelect(backendOptions, nil)
	f.backend.SetSelected(s.HotkeyBackend)
	f.interval = intEntry(s.AutoSnapInterval)
	f.maxWidth = intEntry(s.MaxDisplayWidth)

	f.autoCopy = widget.NewCheck("Copy each capture to the clipboard", nil)
	f.autoCopy.SetChecked(s.AutoCopyToClipboard)
	f.sounds = widget.NewCheck("Play sounds", nil)
	f.sounds.SetChecked(s.SoundsEnabled)
	f.confirmClear = widget.NewCheck("Ask before clearing all images", nil)
	f.confirmClear.SetChecked(s.Confirmations.ClearAll)

	f.location = widget.NewEntry()
	f.location.SetText(s.AutoSaveLocation)
	f.prefix = widget.NewEntry()
	f.prefix.SetText(s.AutoSavePrefix)
	f.counter = intEntry(s.AutoSaveNumericCounter)
	f.suffix = widget.NewSelect(suffixOptions, func(string) { f.refreshEnabled() })
	f.suffix.SetSelected(s.AutoSaveSuffixType)

	f.qualityLabel = widget.NewLabel("")
	f.quality = widget.NewSlider(1, 100)
	f.quality.Step = 1
	f.quality.OnChanged = func(v float64) { f.qualityLabel.SetText(fmt.Sprintf("%d", int(v))) }
	f.quality.SetValue(float64(s.AutoSaveJPGQuality))
	f.qualityLabel.SetText(strconv.Itoa(s.AutoSaveJPGQuality))
	f.format = widget.NewSelect(formatOptions, func(string) { f.refreshEnabled() })
	f.format.SetSelected(s.AutoSaveFormat)

	f.autoSave = widget.NewCheck("Save each capture automatically", func(bool) { f.refreshEnabled() })
	f.autoSave.SetChecked(s.AutoSaveEnabled)
	f.refreshEnabled()
	return f
}

// refreshEnabled greys out the auto-save fields that currently have no effect.
func (f *settingsForm) refreshEnabled() {
	if f.autoSave == nil {
		return
	}
	on := f.autoSave.Checked
	setEnabled(on, f.location, f.prefix, f.suffix, f.format)
	setEnabled(on && f.suffix.Selected == config.SuffixNumeric, f.counter)
}

func setEnabled(on bool, widgets ...fyne.Disableable) {
	for _, w := range widgets {
		if on {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

func (f *settingsForm) content(browse fyne.CanvasObject) fyne.CanvasObject {
	general := widget.NewForm(
		widget.NewFormItem("Capture hotkey", f.captureKey),
		widget.NewFormItem("Auto-Snap hotkey", f.autoSnapKey),
		widget.NewFormItem("Hotkey backend", f.backend),
		widget.NewFormItem("Auto-Snap interval (s)", f.interval),
		widget.NewFormItem("Max display width", f.maxWidth),
	)
	saving := widget.NewForm(
		widget.NewFormItem("Folder", container.NewBorder(nil, nil, nil, browse, f.location)),
		widget.NewFormItem("Prefix", f.prefix),
		widget.NewFormItem("Suffix", f.suffix),
		widget.NewFormItem("Next number", f.counter),
		widget.NewFormItem("Format", f.format),
		widget.NewFormItem("JPG quality", container.NewBorder(nil, nil, nil, f.qualityLabel, f.quality)),
	)
	return container.NewVBox(
		widget.NewCard("", "General", container.NewVBox(general, f.autoCopy, f.sounds, f.confirmClear)),
		widget.NewCard("", "Auto-Save", container.NewVBox(f.autoSave, saving)),
	)
}

// collect validates the form and returns the edited settings.
func (f *settingsForm) collect() (config.Settings, error) {
	s := f.base.Clone()
	var errs []error

	s.Hotkey = f.captureKey.Value().String()
	s.AutoSnapHotkey = f.autoSnapKey.Value().String()
	if s.Hotkey != "" && s.Hotkey == s.AutoSnapHotkey {
		errs = append(errs, errors.New("the capture and Auto-Snap hotkeys must differ"))
	}
	s.HotkeyBackend = f.backend.Selected

	var err error
	if s.AutoSnapInterval, err = positiveInt(f.interval.Text, "Auto-Snap interval"); err != nil {
		errs = append(errs, err)
	}
	if s.MaxDisplayWidth, err = positiveInt(f.maxWidth.Text, "max display width"); err != nil {
		errs = append(errs, err)
	}
	if s.AutoSaveNumericCounter, err = positiveInt(f.counter.Text, "next number"); err != nil {
		errs = append(errs, err)
	}

	s.AutoCopyToClipboard = f.autoCopy.Checked
	s.SoundsEnabled = f.sounds.Checked
	s.Confirmations.ClearAll = f.confirmClear.Checked

	s.AutoSaveEnabled = f.autoSave.Checked
	s.AutoSaveLocation = strings.TrimSpace(f.location.Text)
	s.AutoSavePrefix = strings.TrimSpace(f.prefix.Text)
	s.AutoSaveSuffixType = f.suffix.Selected
	s.AutoSaveFormat = f.format.Selected
	s.AutoSaveJPGQuality = int(f.quality.Value)
	if s.AutoSaveEnabled && s.AutoSaveLocation == "" {
		errs = append(errs, errors.New("choose a folder for auto-save"))
	}

	if err := errors.Join(errs...); err != nil {
		return f.base, err
	}
	return s, nil
}

// ShowSettings opens the settings window, or focuses it if already open.
func (u *UI) ShowSettings() {
	if u.settingsWin != nil {
		u.settingsWin.RequestFocus()
		return
	}
	w := u.app.NewWindow("Settings")
	u.settingsWin = w
	form := newSettingsForm(u.store.Get())

	browse := widget.NewButton("Browse...", func() {
		start := form.location.Text
		go func() {
			dir, err := nativedialog.Directory().Title("Choose Auto-Save Folder").SetStartDir(start).Browse()
			if errors.Is(err, nativedialog.ErrCancelled) {
				return
			}
			if err != nil {
				log.Printf("settings: folder picker: %v", err)
				return
			}
			fyne.Do(func() { form.location.SetText(dir) })
		}()
	})

	save := widget.NewButton("Save", func() {
		s, err := form.collect()
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		_ = u.ctrl.ApplySettings(form.base, s)
		w.Close()
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButton("Cancel", w.Close)

	body := container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), cancel, save), nil, nil,
		container.NewVScroll(form.content(browse)))
	w.SetContent(fynetooltip.AddWindowToolTipLayer(container.NewPadded(body), w.Canvas()))
	w.Resize(fyne.NewSize(520, 620))
	w.SetOnClosed(func() {
		fynetooltip.DestroyWindowToolTipLayer(w.Canvas())
		u.settingsWin = nil
	})
	w.Show()
}

func parseOrZero(s string) hotkey.Descriptor {
	d, err := hotkey.Parse(s)
	if err != nil {
		log.Printf("settings: ignoring stored hotkey %q: %v", s, err)
	}
	return d
}

func intEntry(v int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(v))
	return e
}

func positiveInt(text, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive whole number", name)
	}
	return v, nil
}
