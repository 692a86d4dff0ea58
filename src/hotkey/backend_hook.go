package hotkey

import (
	"fmt"
	"log"
	"sync"

	gohook "github.com/robotn/gohook"
)

// HookBackend observes the keyboard through a low-level hook without claiming
// the chord, so it also fires when another application owns the combination.
// All registrations share one hook.
type HookBackend struct{}

func (HookBackend) Register(d Descriptor) (Registration, error) {
	c, err := newChord(d)
	if err != nil {
		return nil, err
	}
	sub := &hookSub{chord: c, fire: make(chan struct{}, 16)}
	sharedHub.subscribe(sub)
	return sub, nil
}

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// chord tracks which keys of one combination are held down.
type chord struct {
	mu     sync.Mutex
	label  string
	states []keyState
}

func newChord(d Descriptor) (*chord, error) {
	c := &chord{label: d.String()}
	for _, name := range d.Tokens() {
		codes := keyNameToRawcodes(name)
		if len(codes) == 0 {
			return nil, fmt.Errorf("cannot map key %q to rawcodes", name)
		}
		c.states = append(c.states, keyState{name: name, rawcodes: codes})
	}
	return c, nil
}

// press records a key-down and reports whether the whole chord is now held.
// States reset after a match so a held chord fires once.
func (c *chord) press(raw uint16) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.states {
		if contains(c.states[i].rawcodes, raw) {
			c.states[i].pressed = true
			break
		}
	}
	for i := range c.states {
		if !c.states[i].pressed {
			return false
		}
	}
	for i := range c.states {
		c.states[i].pressed = false
	}
	return true
}

func (c *chord) release(raw uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.states {
		if contains(c.states[i].rawcodes, raw) {
			c.states[i].pressed = false
			break
		}
	}
}

func contains(codes []uint16, raw uint16) bool {
	for _, c := range codes {
		if c == raw {
			return true
		}
	}
	return false
}

type hookSub struct {
	chord *chord
	fire  chan struct{}
}

func (s *hookSub) handle(kind uint8, raw uint16) {
	switch kind {
	case gohook.KeyDown:
		if s.chord.press(raw) {
			select {
			case s.fire <- struct{}{}:
			default:
				log.Printf("hotkey: %s activation dropped, listener behind", s.chord.label)
			}
		}
	case gohook.KeyUp:
		s.chord.release(raw)
	}
}

func (s *hookSub) Wait(stop <-chan struct{}) bool {
	select {
	case <-s.fire:
		return true
	case <-stop:
		return false
	}
}

func (s *hookSub) Unregister() { sharedHub.unsubscribe(s) }

// hookHub runs gohook while at least one subscriber exists.
type hookHub struct {
	mu      sync.Mutex
	subs    map[*hookSub]struct{}
	running bool
}

var sharedHub = &hookHub{subs: map[*hookSub]struct{}{}}

func (h *hookHub) subscribe(s *hookSub) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s] = struct{}{}
	if h.running {
		return
	}
	h.running = true
	evChan := gohook.Start()
	if evChan == nil {
		log.Printf("ERROR: gohook.Start() returned nil channel")
		h.running = false
		return
	}
	log.Printf("hotkey: keyboard hook started")
	go h.pump(evChan)
}

func (h *hookHub) unsubscribe(s *hookSub) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
	if len(h.subs) == 0 && h.running {
		h.running = false
		gohook.End()
		log.Printf("hotkey: keyboard hook stopped")
	}
}

func (h *hookHub) pump(evChan chan gohook.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hook pump: %v", r)
		}
	}()
	for ev := range evChan {
		if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
			continue
		}
		h.dispatch(ev.Kind, ev.Rawcode)
	}
	log.Printf("hotkey: hook event channel closed")
}

func (h *hookHub) dispatch(kind uint8, raw uint16) {
	h.mu.Lock()
	subs := make([]*hookSub, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()
	for _, s := range subs {
		s.handle(kind, raw)
	}
}
