//go:build linux

package hotkey

import "golang.design/x/hotkey"

var modifierMap = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.Mod1, // Alt is Mod1 on X11
	"cmd":   hotkey.Mod4, // Super is Mod4 on X11
}

// X11 keysyms the hotkey package has no named constant for.
var platformKeys = map[string]hotkey.Key{
	"backspace": hotkey.Key(0xff08),
	"insert":    hotkey.Key(0xff63),
	"home":      hotkey.Key(0xff50),
	"end":       hotkey.Key(0xff57),
	"page_up":   hotkey.Key(0xff55),
	"page_down": hotkey.Key(0xff56),
	"f21":       hotkey.Key(0xffd2),
	"f22":       hotkey.Key(0xffd3),
	"f23":       hotkey.Key(0xffd4),
	"f24":       hotkey.Key(0xffd5),
}

var hookOnlyKeys = map[string]bool{}
