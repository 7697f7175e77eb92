package main

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

// Injector accepts events for emission on the synthetic output stream.
// The order of Inject calls is the externally observable event order.
type Injector interface {
	Inject(ev evdev.InputEvent) error
}

// Sink is the uinput device all forwarded and synthesized events are
// serialized through.
type Sink struct {
	dev *evdev.InputDevice
}

// sinkCapabilities advertises every key code plus the relative axes.
// The REL axes must be advertised even if only key events are ever
// injected: uinput rejects pointer-button key injection from a device
// without relative-motion capability.
func sinkCapabilities() map[evdev.EvType][]evdev.EvCode {
	keys := make([]evdev.EvCode, 0, evdev.KEY_MAX+1)
	for code := evdev.EvCode(0); code <= evdev.KEY_MAX; code++ {
		keys = append(keys, code)
	}
	return map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: keys,
		evdev.EV_REL: {evdev.REL_X, evdev.REL_Y, evdev.REL_WHEEL, evdev.REL_HWHEEL},
	}
}

// CreateSink creates the virtual output device. It is created once,
// before the remap loop starts.
func CreateSink(name string) (*Sink, error) {
	dev, err := evdev.CreateDevice(name, evdev.InputID{
		BusType: 0x03,
		Vendor:  0x01,
		Product: 0x01,
		Version: 1,
	}, sinkCapabilities())
	if err != nil {
		return nil, fmt.Errorf("create virtual device: %w", err)
	}
	return &Sink{dev: dev}, nil
}

// Inject writes one event followed by a SYN_REPORT frame terminator.
func (s *Sink) Inject(ev evdev.InputEvent) error {
	if err := s.dev.WriteOne(&ev); err != nil {
		return err
	}
	return s.dev.WriteOne(&evdev.InputEvent{
		Time: ev.Time,
		Type: evdev.EV_SYN,
		Code: evdev.SYN_REPORT,
	})
}

func (s *Sink) Close() error {
	return s.dev.Close()
}
