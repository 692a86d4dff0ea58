package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"snap-mosaic/src/screenshot"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "SnapMosaic.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got := store.Get()
	if got.Hotkey != "f7" || got.AutoSnapHotkey != "f8" {
		t.Errorf("unexpected default hotkeys %q/%q", got.Hotkey, got.AutoSnapHotkey)
	}
	if got.MaxDisplayWidth != 500 || got.AutoSnapInterval != 10 || got.AutoSaveJPGQuality != 90 {
		t.Errorf("unexpected numeric defaults: %+v", got)
	}
	if got.CaptureRegion != nil {
		t.Errorf("expected no region, got %v", got.CaptureRegion)
	}
	if !got.SoundsEnabled || !got.Confirmations.ClearAll {
		t.Error("sounds and clear-all confirmation should default to on")
	}
	if got.AutoSavePrefix != "SnapMosaic" || filepath.Base(got.AutoSaveLocation) != "SnapMosaic" {
		t.Errorf("unexpected save defaults %q %q", got.AutoSavePrefix, got.AutoSaveLocation)
	}
}

func TestOpenMergesReadableKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SnapMosaic.json")
	writeFile(t, path, `{
		"hotkey": "ctrl+shift+f7",
		"max_display_width": "wide",
		"capture_region": {"x": 10, "y": 20, "width": 300, "height": 200},
		"confirmations": {"clear_all": false},
		"custom_plugin_key": 42
	}`)

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got := store.Get()
	if got.Hotkey != "ctrl+shift+f7" {
		t.Errorf("Hotkey = %q", got.Hotkey)
	}
	if got.MaxDisplayWidth != DefaultMaxDisplayWidth {
		t.Errorf("malformed key should keep default, got %d", got.MaxDisplayWidth)
	}
	want := screenshot.Region{X: 10, Y: 20, Width: 300, Height: 200}
	if got.CaptureRegion == nil || *got.CaptureRegion != want {
		t.Errorf("CaptureRegion = %v, want %v", got.CaptureRegion, want)
	}
	if got.Confirmations.ClearAll {
		t.Error("clear_all should be false")
	}

	if err := store.Update(func(s *Settings) { s.AutoSaveNumericCounter = 7 }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved file is not JSON: %v", err)
	}
	if string(raw["custom_plugin_key"]) != "42" {
		t.Errorf("unknown key not preserved: %s", raw["custom_plugin_key"])
	}
	if string(raw["auto_save_numeric_counter"]) != "7" {
		t.Errorf("counter not persisted: %s", raw["auto_save_numeric_counter"])
	}
}

func TestOpenCorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SnapMosaic.json")
	writeFile(t, path, `{"hotkey": "f9",`)

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := store.Get().Hotkey; got != DefaultHotkey {
		t.Errorf("Hotkey = %q, want default", got)
	}
}

func TestSanitize(t *testing.T) {
	s := Settings{
		AutoSaveFormat:     "JPEG",
		AutoSaveJPGQuality: 250,
		AutoSaveSuffixType: "random",
		AutoSnapInterval:   0,
		MaxDisplayWidth:    -3,
		CaptureRegion:      &screenshot.Region{Width: 0, Height: 10},
		HotkeyBackend:      "HOOK",
	}
	s.Sanitize()
	if s.AutoSaveFormat != FormatJPG || s.Extension() != "jpg" {
		t.Errorf("format = %q", s.AutoSaveFormat)
	}
	if s.AutoSaveJPGQuality != 100 {
		t.Errorf("quality = %d", s.AutoSaveJPGQuality)
	}
	if s.AutoSaveSuffixType != SuffixTimestamp {
		t.Errorf("suffix = %q", s.AutoSaveSuffixType)
	}
	if s.AutoSnapInterval != DefaultSnapInterval || s.MaxDisplayWidth != DefaultMaxDisplayWidth {
		t.Errorf("interval/width not reset: %d %d", s.AutoSnapInterval, s.MaxDisplayWidth)
	}
	if s.CaptureRegion != nil {
		t.Error("degenerate region should be dropped")
	}
	if s.HotkeyBackend != BackendHook {
		t.Errorf("backend = %q", s.HotkeyBackend)
	}
	if s.Hotkey != DefaultHotkey || s.AutoSaveNumericCounter != 1 {
		t.Errorf("empty values not defaulted: %+v", s)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(Defaults())
	_ = store.Update(func(s *Settings) { s.CaptureRegion = &screenshot.Region{Width: 5, Height: 5} })
	got := store.Get()
	got.CaptureRegion.Width = 99
	if store.Get().CaptureRegion.Width != 5 {
		t.Error("mutating a returned copy changed the store")
	}
}

func TestReloadReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SnapMosaic.json")
	store, _ := Open(path)
	if err := store.Update(func(s *Settings) {}); err != nil {
		t.Fatal(err)
	}
	if _, changed, err := store.Reload(); err != nil || changed {
		t.Fatalf("self write reported change=%v err=%v", changed, err)
	}
	writeFile(t, path, `{"auto_snap_interval": 3}`)
	got, changed, err := store.Reload()
	if err != nil || !changed {
		t.Fatalf("external edit not detected: changed=%v err=%v", changed, err)
	}
	if got.AutoSnapInterval != 3 {
		t.Errorf("AutoSnapInterval = %d", got.AutoSnapInterval)
	}
}

func TestReloadKeepsUpdateMadeDuringRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SnapMosaic.json")
	store, _ := Open(path)
	if err := store.Update(func(s *Settings) { s.AutoSaveNumericCounter = 5 }); err != nil {
		t.Fatal(err)
	}

	orig := readSettings
	t.Cleanup(func() { readSettings = orig })
	readSettings = func(p string) (Settings, map[string]json.RawMessage, error) {
		settings, extra, err := orig(p)
		// A save lands after the file was read but before Reload takes the lock.
		_ = store.Update(func(s *Settings) { s.AutoSaveNumericCounter++ })
		return settings, extra, err
	}

	got, changed, err := store.Reload()
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("an overtaken read must not count as a change")
	}
	if got.AutoSaveNumericCounter != 6 || store.Get().AutoSaveNumericCounter != 6 {
		t.Errorf("counter = %d / %d, want 6", got.AutoSaveNumericCounter, store.Get().AutoSaveNumericCounter)
	}
}

func TestApplyEdits(t *testing.T) {
	base := Defaults()
	edited := base.Clone()
	edited.Hotkey = "ctrl+f9"
	edited.Confirmations.ClearAll = false

	current := base.Clone()
	current.AutoSaveNumericCounter = 12
	current.CaptureRegion = &screenshot.Region{Width: 10, Height: 10}

	current.ApplyEdits(base, edited)
	if current.Hotkey != "ctrl+f9" || current.Confirmations.ClearAll {
		t.Errorf("edits not applied: %+v", current)
	}
	if current.AutoSaveNumericCounter != 12 {
		t.Errorf("untouched counter = %d, want 12", current.AutoSaveNumericCounter)
	}
	if current.CaptureRegion == nil {
		t.Error("untouched region was cleared")
	}
}

func TestWatcherDeliversExternalEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SnapMosaic.json")
	store, _ := Open(path)
	if err := store.Update(func(s *Settings) {}); err != nil {
		t.Fatal(err)
	}

	changes := make(chan Settings, 4)
	w := NewWatcher(store, func(s Settings) { changes <- s })
	w.delay = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, `{"max_display_width": 320}`)

	select {
	case s := <-changes:
		if s.MaxDisplayWidth != 320 {
			t.Errorf("MaxDisplayWidth = %d", s.MaxDisplayWidth)
		}
	case err := <-errCh:
		t.Skipf("watcher unavailable: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no change delivered")
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/tmp/from-env.json")
	t.Setenv(FileLoggingEnvVar, "TRUE")

	env := LoadEnvironment()
	if env.ConfigPath != "/tmp/from-env.json" {
		t.Errorf("ConfigPath = %q", env.ConfigPath)
	}
	if !env.EnableFileLogging {
		t.Error("EnableFileLogging should be true")
	}

	env = LoadEnvironmentWithOptions(LoadOptions{ConfigPathOverride: "/tmp/flag.json"})
	if env.ConfigPath != "/tmp/flag.json" {
		t.Errorf("option should win, got %q", env.ConfigPath)
	}
}
