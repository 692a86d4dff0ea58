package tray

import (
	"strings"
	"testing"
)

func TestIcon(t *testing.T) {
	res := Icon()
	if res.Name() != "snap-mosaic.svg" {
		t.Errorf("name = %q", res.Name())
	}
	if !strings.HasPrefix(string(res.Content()), "<svg") {
		t.Error("icon content should be SVG")
	}
}

func TestNilTrayIsSafe(t *testing.T) {
	var tr *Tray
	tr.SetAutoSnapRunning(true)
	tr.SetHotkeyLabel("F7")
}
