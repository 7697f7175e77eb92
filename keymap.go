package main

import (
	"fmt"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// PointerButtons are the five canonical mouse button codes. A device
// reporting all of them (plus a wheel and relative motion) is a mouse;
// any other key capability marks a keyboard.
var PointerButtons = map[evdev.EvCode]bool{
	evdev.BTN_LEFT:   true,
	evdev.BTN_RIGHT:  true,
	evdev.BTN_MIDDLE: true,
	evdev.BTN_SIDE:   true,
	evdev.BTN_EXTRA:  true,
}

// DefaultModifiers are the keys excluded from becoming the remembered
// "last key". Holding ctrl while recalling a control group must not turn
// ctrl itself into the recalled key.
var DefaultModifiers = []evdev.EvCode{
	evdev.KEY_LEFTCTRL,
	evdev.KEY_RIGHTCTRL,
	evdev.KEY_LEFTSHIFT,
	evdev.KEY_RIGHTSHIFT,
	evdev.KEY_LEFTALT,
	evdev.KEY_RIGHTALT,
	evdev.KEY_LEFTMETA,
	evdev.KEY_RIGHTMETA,
}

// keyCodeByName resolves a key name like "KEY_GRAVE" (or just "grave",
// case-insensitive) to its evdev code.
func keyCodeByName(name string) (evdev.EvCode, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(n, "KEY_") {
		n = "KEY_" + n
	}
	code, ok := evdev.KEYFromString[n]
	if !ok {
		return 0, fmt.Errorf("unknown key name %q", name)
	}
	return code, nil
}

// keyName returns the canonical name for a key code, for diagnostics.
func keyName(code evdev.EvCode) string {
	return evdev.CodeName(evdev.EV_KEY, code)
}
