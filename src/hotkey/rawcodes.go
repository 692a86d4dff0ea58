package hotkey

import (
	"fmt"
	"log"
)

// Windows virtual-key codes as reported by the low-level hook.
var rawcodeTable = buildRawcodeTable()

func buildRawcodeTable() map[string][]uint16 {
	t := map[string][]uint16{
		// Modifiers: both left and right variants
		"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
		"alt":   {164, 165}, // VK_LMENU, VK_RMENU
		"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
		"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

		"space":     {32},
		"enter":     {13},
		"esc":       {27},
		"tab":       {9},
		"backspace": {8},
		"delete":    {46},
		"insert":    {45},
		"home":      {36},
		"end":       {35},
		"page_up":   {33}, // VK_PRIOR
		"page_down": {34}, // VK_NEXT
		"left":      {37},
		"up":        {38},
		"right":     {39},
		"down":      {40},
	}
	for c := 'a'; c <= 'z'; c++ {
		t[string(c)] = []uint16{uint16(65 + c - 'a')}
	}
	for c := '0'; c <= '9'; c++ {
		t[string(c)] = []uint16{uint16(48 + c - '0')}
	}
	for n := 1; n <= 24; n++ {
		t[fmt.Sprintf("f%d", n)] = []uint16{uint16(111 + n)} // VK_F1 = 112
	}
	return t
}

func lookupRawcodes(keyName string) ([]uint16, bool) {
	codes, ok := rawcodeTable[keyName]
	return codes, ok
}

// keyNameToRawcodes maps a canonical key name to its rawcodes.
func keyNameToRawcodes(keyName string) []uint16 {
	codes, ok := lookupRawcodes(keyName)
	if !ok {
		log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", keyName)
		return nil
	}
	return codes
}
