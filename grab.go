package main

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

// eventReader is the blocking-read side of an input device.
// *evdev.InputDevice satisfies it.
type eventReader interface {
	ReadOne() (*evdev.InputEvent, error)
}

// waitForKeyRelease blocks until a key-release event is observed on the
// reader. Grabbing a device while a key is physically held strands that
// key: the kernel delivers its release event to the pre-grab readers, so
// the grabbed stream opens with the key stuck down. A release event is
// proof that no key was mid-press just after it, which makes it a safe
// point to grab.
//
// The mitigation is known-incomplete: with several keys held at once,
// releasing one of them satisfies this wait while the others remain
// stranded. There is no full fix at this layer; the user recovers by
// pressing the stuck key once.
func waitForKeyRelease(r eventReader) error {
	for {
		ev, err := r.ReadOne()
		if err != nil {
			return fmt.Errorf("read while waiting for release: %w", err)
		}
		if ev.Type == evdev.EV_KEY && ev.Value == keyRelease {
			return nil
		}
	}
}

// acquireKeyboard waits for a safe point and then grabs the keyboard so
// its raw events stop reaching other consumers. Events read while
// waiting are discarded here; the device is not yet grabbed, so they
// still reach their native destination.
func acquireKeyboard(dev *evdev.InputDevice) error {
	if err := waitForKeyRelease(dev); err != nil {
		return err
	}
	if err := dev.Grab(); err != nil {
		return fmt.Errorf("grab keyboard: %w", err)
	}
	return nil
}
