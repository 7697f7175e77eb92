package main

import (
	"errors"
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

// ErrNoKeyboard is returned when classification finishes without finding
// any keyboard-capable device. There is nothing to grab, so the daemon
// cannot do anything useful.
var ErrNoKeyboard = errors.New("no keyboard device found")

type deviceRole int

const (
	roleNone deviceRole = iota
	roleKeyboard
	roleMouse
)

// capReport is the capability set observed on one candidate device.
type capReport struct {
	keys map[evdev.EvCode]bool
	rels map[evdev.EvCode]bool
}

// classify assigns a role from a capability report. The mouse rule is
// checked first: a combo device satisfying both rules is taken as a mouse
// and never considered for the keyboard role. This is a heuristic —
// unusual hardware may be misclassified, which is accepted in exchange
// for zero configuration (explicit device paths in the config override
// classification entirely).
func classify(rep capReport) deviceRole {
	if isMouse(rep) {
		return roleMouse
	}
	for code := range rep.keys {
		if !PointerButtons[code] {
			return roleKeyboard
		}
	}
	return roleNone
}

func isMouse(rep capReport) bool {
	for code := range PointerButtons {
		if !rep.keys[code] {
			return false
		}
	}
	return rep.rels[evdev.REL_WHEEL] && rep.rels[evdev.REL_X] && rep.rels[evdev.REL_Y]
}

// pickRoles classifies each report in order and returns the index of the
// first keyboard and the first mouse (-1 when a role stays unfilled).
// First-classified wins; later candidates that would duplicate a role are
// ignored.
func pickRoles(reps []capReport) (keyboard, mouse int) {
	keyboard, mouse = -1, -1
	for i, rep := range reps {
		switch classify(rep) {
		case roleKeyboard:
			if keyboard == -1 {
				keyboard = i
			}
		case roleMouse:
			if mouse == -1 {
				mouse = i
			}
		}
	}
	return keyboard, mouse
}

// Devices holds the classified source devices. Mouse is nil when no
// mouse was found; the scroll remap is disabled in that case.
type Devices struct {
	Keyboard *evdev.InputDevice
	Mouse    *evdev.InputDevice
}

func (d *Devices) Close() {
	if d.Keyboard != nil {
		d.Keyboard.Close()
	}
	if d.Mouse != nil {
		d.Mouse.Close()
	}
}

// enumerator produces the candidate device paths to probe. It exists so
// tests and unusual setups can substitute the discovery mechanism.
type enumerator func(bound int) []string

// listCandidates enumerates /dev/input event nodes, capped at bound.
func listCandidates(bound int) []string {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil
	}
	var out []string
	for _, p := range paths {
		if len(out) >= bound {
			break
		}
		out = append(out, p.Path)
	}
	return out
}

// FindDevices opens and classifies candidate devices until the keyboard
// and mouse roles are filled. Candidates that fail to open or satisfy
// neither rule are skipped. Explicit paths in the config pin a role
// without probing.
func FindDevices(cfg *Config, enum enumerator) (*Devices, error) {
	if enum == nil {
		enum = listCandidates
	}

	found := &Devices{}

	if cfg.KeyboardDevice != "" {
		dev, err := evdev.Open(cfg.KeyboardDevice)
		if err != nil {
			return nil, fmt.Errorf("open keyboard_device %s: %w", cfg.KeyboardDevice, err)
		}
		found.Keyboard = dev
	}
	if cfg.MouseDevice != "" {
		dev, err := evdev.Open(cfg.MouseDevice)
		if err != nil {
			found.Close()
			return nil, fmt.Errorf("open mouse_device %s: %w", cfg.MouseDevice, err)
		}
		found.Mouse = dev
	}

	for _, path := range enum(cfg.ScanBound) {
		if found.Keyboard != nil && found.Mouse != nil {
			break
		}
		if path == cfg.KeyboardDevice || path == cfg.MouseDevice {
			continue
		}

		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}

		switch classify(reportCaps(dev)) {
		case roleKeyboard:
			if found.Keyboard == nil {
				found.Keyboard = dev
				continue
			}
		case roleMouse:
			if found.Mouse == nil {
				found.Mouse = dev
				continue
			}
		}
		dev.Close()
	}

	if found.Keyboard == nil {
		found.Close()
		return nil, ErrNoKeyboard
	}
	return found, nil
}

// reportCaps reads a device's advertised EV_KEY and EV_REL capabilities.
func reportCaps(dev *evdev.InputDevice) capReport {
	rep := capReport{
		keys: make(map[evdev.EvCode]bool),
		rels: make(map[evdev.EvCode]bool),
	}
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		rep.keys[code] = true
	}
	for _, code := range dev.CapableEvents(evdev.EV_REL) {
		rep.rels[code] = true
	}
	return rep
}
