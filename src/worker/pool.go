package worker

import (
	"log"
	"runtime"
	"sync"
)

// Task is a unit of fire-and-forget background work.
type Task func()

// Pool is a fixed-size worker pool with a bounded input queue (strict back-pressure).
type Pool struct {
	name string
	jobs chan Task
	wg   sync.WaitGroup

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// New creates a worker pool. Size defaults to NumCPU when size<=0; queue defaults to 1 slot.
func New(name string, size, queue int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if queue <= 0 {
		queue = 1
	}
	p := &Pool{name: name, jobs: make(chan Task, queue)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for t := range p.jobs {
				p.run(t)
			}
		}()
	}
}

func (p *Pool) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker[%s]: PANIC in task: %v", p.name, r)
		}
	}()
	t()
}

// Submit enqueues t if the queue has room. Returns false if dropped.
func (p *Pool) Submit(t Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- t:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining queued work.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
		p.wg.Wait()
	})
}
