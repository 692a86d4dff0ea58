// Package autosnap drives timed captures.
package autosnap

import (
	"errors"
	"log"
	"sync"
	"time"
)

var ErrNoRegion = errors.New("define a capture region before starting auto-snap")

// Ticker is the subset of time.Ticker the controller needs.
type Ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }

func (s systemTicker) Reset(d time.Duration) { s.t.Reset(d) }

func (s systemTicker) Stop() { s.t.Stop() }

func newSystemTicker(d time.Duration) Ticker { return systemTicker{time.NewTicker(d)} }

type Options struct {
	Interval time.Duration
	// Dispatch runs fn on the UI thread.
	Dispatch func(fn func())
	// OnTick runs on the UI thread for every tick while running.
	OnTick func()
	// OnStateChange runs on the caller's thread after Start or Stop.
	OnStateChange func(running bool)
	NewTicker     func(d time.Duration) Ticker
}

// Controller is Stopped until Start succeeds and Running until Stop.
type Controller struct {
	dispatch      func(func())
	onTick        func()
	onStateChange func(bool)
	newTicker     func(time.Duration) Ticker

	mu       sync.Mutex
	running  bool
	interval time.Duration
	gen      int
	ticker   Ticker
	stop     chan struct{}
}

func New(opts Options) *Controller {
	c := &Controller{
		dispatch:      opts.Dispatch,
		onTick:        opts.OnTick,
		onStateChange: opts.OnStateChange,
		newTicker:     opts.NewTicker,
		interval:      opts.Interval,
	}
	if c.dispatch == nil {
		c.dispatch = func(fn func()) { fn() }
	}
	if c.newTicker == nil {
		c.newTicker = newSystemTicker
	}
	if c.interval <= 0 {
		c.interval = 10 * time.Second
	}
	return c
}

func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// Start arms the ticker. It refuses to start without a capture region.
func (c *Controller) Start(regionDefined bool) error {
	if !regionDefined {
		return ErrNoRegion
	}
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.gen++
	c.ticker = c.newTicker(c.interval)
	c.stop = make(chan struct{})
	go c.loop(c.ticker, c.stop, c.gen)
	interval := c.interval
	c.mu.Unlock()

	log.Printf("autosnap: started, interval %v", interval)
	c.notify(true)
	return nil
}

// Stop cancels the ticker. Ticks already queued for the UI thread are discarded.
// It reports whether the controller was running.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return false
	}
	c.running = false
	c.gen++
	c.ticker.Stop()
	close(c.stop)
	c.ticker = nil
	c.stop = nil
	c.mu.Unlock()

	log.Printf("autosnap: stopped")
	c.notify(false)
	return true
}

// Toggle starts or stops and returns the new running state.
func (c *Controller) Toggle(regionDefined bool) (bool, error) {
	if c.Stop() {
		return false, nil
	}
	if err := c.Start(regionDefined); err != nil {
		return false, err
	}
	return true, nil
}

// SetInterval re-arms immediately when running; otherwise it applies on next Start.
func (c *Controller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if d == c.interval {
		return
	}
	c.interval = d
	if c.running {
		c.ticker.Reset(d)
		log.Printf("autosnap: interval changed to %v", d)
	}
}

func (c *Controller) loop(t Ticker, stop <-chan struct{}, gen int) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.dispatch(func() { c.fire(gen) })
		}
	}
}

func (c *Controller) fire(gen int) {
	c.mu.Lock()
	live := c.running && c.gen == gen
	c.mu.Unlock()
	if live && c.onTick != nil {
		c.onTick()
	}
}

func (c *Controller) notify(running bool) {
	if c.onStateChange != nil {
		c.onStateChange(running)
	}
}
