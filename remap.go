package main

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

// Key event values.
const (
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

// sourceID tags which device an event was read from.
type sourceID int

const (
	srcKeyboard sourceID = iota
	srcMouse
)

// Remapper rewrites the grave key into "the last non-modifier key
// pressed" and turns wheel pulses into page key pulses. The last-key
// memory is sticky: it reflects the most recently pressed key, not the
// currently held one, and is never cleared by a release.
type Remapper struct {
	rules    *Rules
	lastKey  evdev.EvCode
	haveLast bool
}

func NewRemapper(rules *Rules) *Remapper {
	return &Remapper{rules: rules}
}

// Reload swaps the rules. The last-key memory is preserved so a config
// reload mid-game does not forget the active control group.
func (r *Remapper) Reload(rules *Rules) {
	r.rules = rules
}

// Transform maps one raw event to the events to emit, updating the
// last-key memory as a side effect. It touches no device handles, so the
// whole remapping policy is exercised in tests with plain values.
//
// Until a non-modifier key has been pressed there is no last key to
// recall; grave events are passed through unchanged in that window
// rather than swallowed.
func (r *Remapper) Transform(src sourceID, ev evdev.InputEvent) []evdev.InputEvent {
	// The sink frames its own output; SYN and MSC chatter from the
	// sources is dropped.
	if ev.Type == evdev.EV_SYN || ev.Type == evdev.EV_MSC {
		return nil
	}

	if src == srcKeyboard && ev.Type == evdev.EV_KEY {
		if ev.Code == r.rules.Grave {
			if !r.haveLast {
				return []evdev.InputEvent{ev}
			}
			out := ev
			out.Code = r.lastKey
			return []evdev.InputEvent{out}
		}
		if ev.Value == keyPress && !r.rules.Modifiers[ev.Code] {
			r.lastKey = ev.Code
			r.haveLast = true
		}
		return []evdev.InputEvent{ev}
	}

	if src == srcMouse && ev.Type == evdev.EV_REL && ev.Code == evdev.REL_WHEEL && ev.Value != 0 {
		page := r.rules.PageDown
		if ev.Value > 0 {
			page = r.rules.PageUp
		}
		// One wheel event of any magnitude is one pulse. The forwarded
		// wheel event and the pulse go out back-to-back; the loop emits
		// this slice before reading another event, which is what keeps
		// the pulse atomic relative to the other source.
		return []evdev.InputEvent{
			ev,
			{Time: ev.Time, Type: evdev.EV_KEY, Code: page, Value: keyPress},
			{Time: ev.Time, Type: evdev.EV_KEY, Code: page, Value: keyRelease},
		}
	}

	return []evdev.InputEvent{ev}
}

// readResult carries one read off a source device.
type readResult struct {
	ev  *evdev.InputEvent
	err error
}

// readEvents feeds a source's events into ch until a read fails. The
// failure is delivered too, then the goroutine exits.
func readEvents(r eventReader, ch chan<- readResult) {
	for {
		ev, err := r.ReadOne()
		ch <- readResult{ev: ev, err: err}
		if err != nil {
			return
		}
	}
}

// runLoop is the remap main loop: wait for whichever source has an event,
// transform it, and emit the results before waiting again. mouse may be
// nil (scroll remap disabled). New rules arriving on reload are applied
// between events, so the remap state keeps a single writer.
//
// A keyboard read failure is fatal — the keyboard is grabbed, so limping
// on would mean the user silently loses their keyboard. A mouse read
// failure only disables the scroll remap.
func runLoop(kb, mouse eventReader, sink Injector, r *Remapper, reload <-chan *Rules) error {
	kbCh := make(chan readResult)
	go readEvents(kb, kbCh)

	var mouseCh chan readResult
	if mouse != nil {
		mouseCh = make(chan readResult)
		go readEvents(mouse, mouseCh)
	}

	for {
		var src sourceID
		var res readResult

		select {
		case res = <-kbCh:
			if res.err != nil {
				return fmt.Errorf("keyboard source: %w", res.err)
			}
			src = srcKeyboard
		case res = <-mouseCh:
			if res.err != nil {
				warn("mouse disconnected, scroll remap disabled: %v", res.err)
				mouseCh = nil
				continue
			}
			src = srcMouse
		case rules := <-reload:
			r.Reload(rules)
			dbg("rules reloaded")
			continue
		}

		for _, out := range r.Transform(src, *res.ev) {
			if err := sink.Inject(out); err != nil {
				return fmt.Errorf("inject: %w", err)
			}
			if out.Type == evdev.EV_KEY {
				dbg("emit %s %d", keyName(out.Code), out.Value)
			}
		}
	}
}
