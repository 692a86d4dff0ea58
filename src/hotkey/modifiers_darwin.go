//go:build darwin

package hotkey

import "golang.design/x/hotkey"

var modifierMap = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModOption,
	"cmd":   hotkey.ModCmd,
}

// Carbon virtual key codes the hotkey package has no named constant for.
var platformKeys = map[string]hotkey.Key{
	"backspace": hotkey.Key(0x33),
	"insert":    hotkey.Key(0x72), // Help sits where Insert does
	"home":      hotkey.Key(0x73),
	"end":       hotkey.Key(0x77),
	"page_up":   hotkey.Key(0x74),
	"page_down": hotkey.Key(0x79),
}

// Mac keyboards stop at F20.
var hookOnlyKeys = map[string]bool{"f21": true, "f22": true, "f23": true, "f24": true}
