//go:build windows

package hotkey

import "golang.design/x/hotkey"

var modifierMap = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModAlt,
	"cmd":   hotkey.ModWin,
}

// Virtual-key codes the hotkey package has no named constant for.
var platformKeys = map[string]hotkey.Key{
	"backspace": hotkey.Key(0x08),
	"insert":    hotkey.Key(0x2D),
	"home":      hotkey.Key(0x24),
	"end":       hotkey.Key(0x23),
	"page_up":   hotkey.Key(0x21),
	"page_down": hotkey.Key(0x22),
	"f21":       hotkey.Key(0x84),
	"f22":       hotkey.Key(0x85),
	"f23":       hotkey.Key(0x86),
	"f24":       hotkey.Key(0x87),
}

var hookOnlyKeys = map[string]bool{}
