package hotkey

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
)

// Backend turns a descriptor into an active OS-level registration.
type Backend interface {
	Register(d Descriptor) (Registration, error)
}

// Registration is one active chord.
type Registration interface {
	// Wait blocks until the chord fires (true) or stop is closed (false).
	Wait(stop <-chan struct{}) bool
	Unregister()
}

type binding struct {
	desc Descriptor
	stop chan struct{}
	done chan struct{}
}

// Bridge owns one global hotkey. A dedicated goroutine blocks on the backend
// and counts activations; the UI thread learns about them through Signal and
// collects them with Drain, so every press is delivered exactly once.
type Bridge struct {
	name    string
	backend Backend

	mu      sync.Mutex
	pending int
	active  *binding
	signal  chan struct{}
}

func NewBridge(name string, backend Backend) *Bridge {
	return &Bridge{name: name, backend: backend, signal: make(chan struct{}, 1)}
}

func (b *Bridge) Name() string { return b.name }

// Signal is readable whenever activations may be pending.
func (b *Bridge) Signal() <-chan struct{} { return b.signal }

// Drain returns and clears the number of activations since the last call.
func (b *Bridge) Drain() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.pending
	b.pending = 0
	return n
}

// Descriptor returns the active chord, or the zero value when stopped.
func (b *Bridge) Descriptor() Descriptor {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active == nil {
		return Descriptor{}
	}
	return b.active.desc
}

func (b *Bridge) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active != nil
}

// SetBackend swaps the backend. The current chord, if any, is re-registered
// through the new backend.
func (b *Bridge) SetBackend(backend Backend) error {
	d := b.Descriptor()
	b.Stop()
	b.mu.Lock()
	b.backend = backend
	b.mu.Unlock()
	if d.IsZero() {
		return nil
	}
	return b.Start(d)
}

// Start stops any current registration and registers d.
func (b *Bridge) Start(d Descriptor) error {
	if d.IsZero() {
		return ErrEmpty
	}
	b.Stop()

	bd := &binding{desc: d, stop: make(chan struct{}), done: make(chan struct{})}
	registered := make(chan error, 1)
	go b.run(bd, registered)
	if err := <-registered; err != nil {
		<-bd.done
		return fmt.Errorf("register %s hotkey %s: %w", b.name, d.Label(), err)
	}

	b.mu.Lock()
	b.active = bd
	b.mu.Unlock()
	log.Printf("hotkey[%s]: listening for %s", b.name, d)
	return nil
}

// Stop unregisters and waits for the listener goroutine. Safe to call when not started.
func (b *Bridge) Stop() {
	b.mu.Lock()
	bd := b.active
	b.active = nil
	b.mu.Unlock()
	if bd == nil {
		return
	}
	close(bd.stop)
	<-bd.done
	log.Printf("hotkey[%s]: stopped %s", b.name, bd.desc)
}

// Rebind switches to d. If d cannot be registered the previous chord is
// restored and the registration error is returned.
func (b *Bridge) Rebind(d Descriptor) error {
	prev := b.Descriptor()
	if !prev.IsZero() && prev.Equal(d) {
		return nil
	}
	err := b.Start(d)
	if err == nil {
		return nil
	}
	if !prev.IsZero() {
		if rerr := b.Start(prev); rerr != nil {
			log.Printf("hotkey[%s]: restoring %s failed: %v", b.name, prev, rerr)
			return errors.Join(err, rerr)
		}
		log.Printf("hotkey[%s]: reverted to %s", b.name, prev)
	}
	return err
}

func (b *Bridge) run(bd *binding, registered chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(bd.done)

	sent := false
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hotkey goroutine %s: %v", b.name, r)
			if !sent {
				registered <- fmt.Errorf("hotkey listener panicked: %v", r)
			}
		}
	}()

	reg, err := b.backend.Register(bd.desc)
	sent = true
	registered <- err
	if err != nil {
		return
	}
	defer reg.Unregister()

	for reg.Wait(bd.stop) {
		b.post()
	}
}

func (b *Bridge) post() {
	b.mu.Lock()
	b.pending++
	b.mu.Unlock()
	select {
	case b.signal <- struct{}{}:
	default:
	}
}
