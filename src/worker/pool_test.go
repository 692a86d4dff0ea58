package worker

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRunsTask(t *testing.T) {
	p := New("test", 2, 4)
	var n atomic.Int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		if !p.Submit(func() { n.Add(1); done <- struct{}{} }) {
			t.Fatalf("submit %d rejected", i)
		}
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("task did not run")
		}
	}
	p.Close()
	if n.Load() != 3 {
		t.Errorf("ran %d tasks, want 3", n.Load())
	}
}

func TestSubmitDropsWhenFull(t *testing.T) {
	p := New("test", 1, 1)
	block := make(chan struct{})
	started := make(chan struct{})
	p.Submit(func() { close(started); <-block })
	<-started

	if !p.Submit(func() {}) {
		t.Fatal("queue slot should accept one task")
	}
	if p.Submit(func() {}) {
		t.Error("expected drop when worker busy and queue full")
	}
	close(block)
	p.Close()
	if p.Submit(func() {}) {
		t.Error("submit after Close should be rejected")
	}
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	p := New("test", 1, 2)
	defer p.Close()
	p.Submit(func() { panic("boom") })
	done := make(chan struct{})
	for !p.Submit(func() { close(done) }) {
		time.Sleep(time.Millisecond)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after panic")
	}
}
