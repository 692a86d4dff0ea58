package hotkey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmpty      = errors.New("empty hotkey")
	ErrNoKey      = errors.New("hotkey has no base key")
	ErrTooManyKey = errors.New("hotkey has more than one base key")
)

// Descriptor is a canonical key chord: sorted modifiers plus one base key.
type Descriptor struct {
	Modifiers []string
	Key       string
}

var modifierOrder = map[string]int{"alt": 0, "cmd": 1, "ctrl": 2, "shift": 3}

var aliases = map[string]string{
	"control": "ctrl", "lctrl": "ctrl", "rctrl": "ctrl", "leftcontrol": "ctrl", "rightcontrol": "ctrl",
	"option": "alt", "lalt": "alt", "ralt": "alt", "leftalt": "alt", "rightalt": "alt",
	"lshift": "shift", "rshift": "shift", "leftshift": "shift", "rightshift": "shift",
	"win": "cmd", "super": "cmd", "meta": "cmd", "command": "cmd", "leftsuper": "cmd", "rightsuper": "cmd",
	"escape": "esc", "return": "enter", "del": "delete", "ins": "insert", "back": "backspace",
	"pageup": "page_up", "pgup": "page_up", "prior": "page_up",
	"pagedown": "page_down", "pgdn": "page_down", "next": "page_down",
}

// normalizeToken lowercases and resolves aliases.
func normalizeToken(tok string) string {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if a, ok := aliases[tok]; ok {
		return a
	}
	return tok
}

// IsModifier reports whether tok names a modifier key.
func IsModifier(tok string) bool {
	_, ok := modifierOrder[normalizeToken(tok)]
	return ok
}

// KnownKey reports whether tok is a supported base key.
func KnownKey(tok string) bool {
	_, ok := lookupRawcodes(normalizeToken(tok))
	return ok && !IsModifier(tok)
}

// Parse canonicalizes a chord like "Shift+Ctrl+F7" into ctrl+shift+f7.
func Parse(s string) (Descriptor, error) {
	if strings.TrimSpace(s) == "" {
		return Descriptor{}, ErrEmpty
	}
	var d Descriptor
	seen := map[string]bool{}
	for _, part := range strings.Split(s, "+") {
		tok := normalizeToken(part)
		if tok == "" {
			return Descriptor{}, fmt.Errorf("invalid hotkey %q", s)
		}
		if IsModifier(tok) {
			if !seen[tok] {
				seen[tok] = true
				d.Modifiers = append(d.Modifiers, tok)
			}
			continue
		}
		if !KnownKey(tok) {
			return Descriptor{}, fmt.Errorf("unknown key %q in hotkey %q", tok, s)
		}
		if d.Key != "" {
			return Descriptor{}, ErrTooManyKey
		}
		d.Key = tok
	}
	if d.Key == "" {
		return Descriptor{}, ErrNoKey
	}
	sort.Slice(d.Modifiers, func(i, j int) bool {
		return modifierOrder[d.Modifiers[i]] < modifierOrder[d.Modifiers[j]]
	})
	return d, nil
}

// MustParse is Parse for constants.
func MustParse(s string) Descriptor {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String is the canonical persisted form.
func (d Descriptor) String() string {
	if d.Key == "" {
		return ""
	}
	return strings.Join(append(append([]string{}, d.Modifiers...), d.Key), "+")
}

// Label is the human-readable form, e.g. "Ctrl+Shift+F7".
func (d Descriptor) Label() string {
	if d.Key == "" {
		return ""
	}
	parts := make([]string, 0, len(d.Modifiers)+1)
	for _, m := range d.Modifiers {
		parts = append(parts, titleToken(m))
	}
	parts = append(parts, titleToken(d.Key))
	return strings.Join(parts, "+")
}

func (d Descriptor) IsZero() bool { return d.Key == "" }

func (d Descriptor) Equal(o Descriptor) bool { return d.String() == o.String() }

// Tokens returns the modifiers followed by the key.
func (d Descriptor) Tokens() []string {
	return append(append([]string{}, d.Modifiers...), d.Key)
}

func titleToken(tok string) string {
	switch tok {
	case "esc":
		return "Esc"
	case "page_up":
		return "PageUp"
	case "page_down":
		return "PageDown"
	}
	if len(tok) >= 2 && tok[0] == 'f' && tok[1] >= '0' && tok[1] <= '9' {
		return strings.ToUpper(tok)
	}
	return strings.ToUpper(tok[:1]) + tok[1:]
}
