package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"snap-mosaic/src/screenshot"
)

const (
	AppName = "SnapMosaic"

	SuffixTimestamp = "timestamp"
	SuffixNumeric   = "numeric"

	FormatPNG = "png"
	FormatJPG = "jpg"

	BackendRegister = "register"
	BackendHook     = "hook"

	DefaultHotkey          = "f7"
	DefaultAutoSnapHotkey  = "f8"
	DefaultMaxDisplayWidth = 500
	DefaultSnapInterval    = 10
	DefaultJPGQuality      = 90
)

// Geometry is the persisted main-window position and size.
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Confirmations struct {
	ClearAll bool `json:"clear_all"`
}

// Settings is the full persisted configuration.
type Settings struct {
	Hotkey                 string             `json:"hotkey"`
	AutoSnapHotkey         string             `json:"auto_snap_hotkey"`
	CaptureRegion          *screenshot.Region `json:"capture_region"`
	AutoCopyToClipboard    bool               `json:"auto_copy_to_clipboard"`
	AutoSaveEnabled        bool               `json:"auto_save_enabled"`
	AutoSaveLocation       string             `json:"auto_save_location"`
	AutoSavePrefix         string             `json:"auto_save_prefix"`
	AutoSaveSuffixType     string             `json:"auto_save_suffix_type"`
	AutoSaveNumericCounter int                `json:"auto_save_numeric_counter"`
	AutoSaveFormat         string             `json:"auto_save_format"`
	AutoSaveJPGQuality     int                `json:"auto_save_jpg_quality"`
	AutoSnapInterval       int                `json:"auto_snap_interval"`
	MaxDisplayWidth        int                `json:"max_display_width"`
	SoundsEnabled          bool               `json:"sounds_enabled"`
	Confirmations          Confirmations      `json:"confirmations"`
	WindowGeometry         *Geometry          `json:"window_geometry"`
	HotkeyBackend          string             `json:"hotkey_backend"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		Hotkey:                 DefaultHotkey,
		AutoSnapHotkey:         DefaultAutoSnapHotkey,
		AutoSaveLocation:       DefaultSaveLocation(),
		AutoSavePrefix:         AppName,
		AutoSaveSuffixType:     SuffixTimestamp,
		AutoSaveNumericCounter: 1,
		AutoSaveFormat:         FormatPNG,
		AutoSaveJPGQuality:     DefaultJPGQuality,
		AutoSnapInterval:       DefaultSnapInterval,
		MaxDisplayWidth:        DefaultMaxDisplayWidth,
		SoundsEnabled:          true,
		Confirmations:          Confirmations{ClearAll: true},
		HotkeyBackend:          BackendRegister,
	}
}

// DefaultSaveLocation is the user's pictures folder plus the app name.
func DefaultSaveLocation() string {
	return filepath.Join(picturesDir(), AppName)
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	if s.CaptureRegion != nil {
		r := *s.CaptureRegion
		out.CaptureRegion = &r
	}
	if s.WindowGeometry != nil {
		g := *s.WindowGeometry
		out.WindowGeometry = &g
	}
	return out
}

// ApplyEdits copies onto s every field that differs between base and edited.
// Fields the editor left alone keep the value s holds now, so state written
// while a dialog was open (the numeric counter, dismissed confirmations) survives.
func (s *Settings) ApplyEdits(base, edited Settings) {
	dst := reflect.ValueOf(s).Elem()
	from := reflect.ValueOf(base)
	to := reflect.ValueOf(edited.Clone())
	for i := 0; i < dst.NumField(); i++ {
		if !reflect.DeepEqual(from.Field(i).Interface(), to.Field(i).Interface()) {
			dst.Field(i).Set(to.Field(i))
		}
	}
}

// Extension is the file extension for the configured save format.
func (s Settings) Extension() string {
	if s.AutoSaveFormat == FormatJPG {
		return "jpg"
	}
	return "png"
}

// Sanitize replaces out-of-range values with defaults.
func (s *Settings) Sanitize() {
	d := Defaults()
	s.Hotkey = strings.TrimSpace(s.Hotkey)
	if s.Hotkey == "" {
		s.Hotkey = d.Hotkey
	}
	s.AutoSnapHotkey = strings.TrimSpace(s.AutoSnapHotkey)
	if s.AutoSnapHotkey == "" {
		s.AutoSnapHotkey = d.AutoSnapHotkey
	}
	if s.CaptureRegion != nil && !s.CaptureRegion.Valid() {
		s.CaptureRegion = nil
	}
	if strings.TrimSpace(s.AutoSaveLocation) == "" {
		s.AutoSaveLocation = d.AutoSaveLocation
	}
	if strings.TrimSpace(s.AutoSavePrefix) == "" {
		s.AutoSavePrefix = d.AutoSavePrefix
	}
	switch strings.ToLower(strings.TrimSpace(s.AutoSaveSuffixType)) {
	case SuffixNumeric:
		s.AutoSaveSuffixType = SuffixNumeric
	default:
		s.AutoSaveSuffixType = SuffixTimestamp
	}
	if s.AutoSaveNumericCounter < 1 {
		s.AutoSaveNumericCounter = 1
	}
	switch strings.ToLower(strings.TrimSpace(s.AutoSaveFormat)) {
	case "jpg", "jpeg":
		s.AutoSaveFormat = FormatJPG
	default:
		s.AutoSaveFormat = FormatPNG
	}
	if s.AutoSaveJPGQuality < 1 {
		s.AutoSaveJPGQuality = 1
	}
	if s.AutoSaveJPGQuality > 100 {
		s.AutoSaveJPGQuality = 100
	}
	if s.AutoSnapInterval < 1 {
		s.AutoSnapInterval = d.AutoSnapInterval
	}
	if s.MaxDisplayWidth < 1 {
		s.MaxDisplayWidth = d.MaxDisplayWidth
	}
	if s.WindowGeometry != nil && (s.WindowGeometry.Width <= 0 || s.WindowGeometry.Height <= 0) {
		s.WindowGeometry = nil
	}
	switch strings.ToLower(strings.TrimSpace(s.HotkeyBackend)) {
	case BackendHook:
		s.HotkeyBackend = BackendHook
	default:
		s.HotkeyBackend = BackendRegister
	}
}
