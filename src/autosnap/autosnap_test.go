package autosnap

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	resets  []time.Duration
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }

func (f *fakeTicker) Reset(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, d)
}

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

type fixture struct {
	ctrl    *Controller
	tickers []*fakeTicker
	created []time.Duration
	ticks   chan struct{}
	states  []bool
}

func newFixture(dispatch func(func())) *fixture {
	f := &fixture{ticks: make(chan struct{}, 16)}
	f.ctrl = New(Options{
		Interval: 10 * time.Second,
		Dispatch: dispatch,
		OnTick:   func() { f.ticks <- struct{}{} },
		OnStateChange: func(running bool) {
			f.states = append(f.states, running)
		},
		NewTicker: func(d time.Duration) Ticker {
			t := &fakeTicker{c: make(chan time.Time)}
			f.tickers = append(f.tickers, t)
			f.created = append(f.created, d)
			return t
		},
	})
	return f
}

func TestStartRequiresRegion(t *testing.T) {
	f := newFixture(nil)
	if err := f.ctrl.Start(false); !errors.Is(err, ErrNoRegion) {
		t.Fatalf("Start(false) = %v, want ErrNoRegion", err)
	}
	if f.ctrl.Running() || len(f.tickers) != 0 {
		t.Error("controller must stay stopped")
	}
	if _, err := f.ctrl.Toggle(false); !errors.Is(err, ErrNoRegion) {
		t.Errorf("Toggle(false) = %v", err)
	}
}

func TestTicksCaptureWhileRunning(t *testing.T) {
	f := newFixture(nil)
	if err := f.ctrl.Start(true); err != nil {
		t.Fatal(err)
	}
	if f.created[0] != 10*time.Second {
		t.Errorf("ticker interval = %v", f.created[0])
	}
	for i := 0; i < 3; i++ {
		f.tickers[0].c <- time.Now()
		select {
		case <-f.ticks:
		case <-time.After(time.Second):
			t.Fatalf("tick %d not delivered", i)
		}
	}
	if !f.ctrl.Stop() {
		t.Fatal("Stop should report it was running")
	}
	if !f.tickers[0].stopped {
		t.Error("ticker not stopped")
	}
	if len(f.states) != 2 || !f.states[0] || f.states[1] {
		t.Errorf("state changes = %v", f.states)
	}
	if f.ctrl.Stop() {
		t.Error("second Stop should be a no-op")
	}
}

func TestQueuedTickAfterStopIsDiscarded(t *testing.T) {
	var mu sync.Mutex
	var queued []func()
	f := newFixture(func(fn func()) {
		mu.Lock()
		queued = append(queued, fn)
		mu.Unlock()
	})
	if err := f.ctrl.Start(true); err != nil {
		t.Fatal(err)
	}
	f.tickers[0].c <- time.Now()
	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(queued)
		mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("tick never queued")
		}
		time.Sleep(time.Millisecond)
	}
	f.ctrl.Stop()

	mu.Lock()
	queued[0]()
	mu.Unlock()
	select {
	case <-f.ticks:
		t.Fatal("tick queued before Stop must not capture")
	default:
	}
}

func TestSetInterval(t *testing.T) {
	f := newFixture(nil)
	f.ctrl.SetInterval(5 * time.Second)
	if err := f.ctrl.Start(true); err != nil {
		t.Fatal(err)
	}
	if f.created[0] != 5*time.Second {
		t.Errorf("stopped interval change not applied on start: %v", f.created[0])
	}
	f.ctrl.SetInterval(2 * time.Second)
	if got := f.tickers[0].resets; len(got) != 1 || got[0] != 2*time.Second {
		t.Errorf("running ticker resets = %v", got)
	}
	f.ctrl.SetInterval(0)
	if f.ctrl.Interval() != 2*time.Second {
		t.Error("non-positive interval should be ignored")
	}
	f.ctrl.Stop()
}

func TestToggle(t *testing.T) {
	f := newFixture(nil)
	running, err := f.ctrl.Toggle(true)
	if err != nil || !running {
		t.Fatalf("Toggle = %v, %v", running, err)
	}
	running, err = f.ctrl.Toggle(true)
	if err != nil || running {
		t.Fatalf("second Toggle = %v, %v", running, err)
	}
}
