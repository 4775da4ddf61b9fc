package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

var (
	// ErrPoolClosed is returned by Submit once Close has been called.
	ErrPoolClosed = errors.New("worker pool closed")
	// ErrQueueFull is returned when a bounded queue rejects new work.
	ErrQueueFull = errors.New("queue full")
)

// PanicError is the error a unit produces when its function panics.
type PanicError struct {
	Kind  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s unit panicked: %v", e.Kind, e.Value)
}

type unit struct {
	kind string
	run  func()
}

// Pool runs units of work on a fixed set of goroutines fed from a bounded
// queue. Units must not submit to the pool they run on and then wait.
type Pool struct {
	units   chan unit
	quit    chan struct{}
	workers int
	stats   *LatencyStats
	log     *slog.Logger

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewPool starts workers goroutines reading from a queue of queueSize units.
// stats may be nil.
func NewPool(workers, queueSize int, stats *LatencyStats, log *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{
		units:   make(chan unit, queueSize),
		quit:    make(chan struct{}),
		workers: workers,
		stats:   stats,
		log:     log,
	}
	for range workers {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for u := range p.units {
				u.run()
			}
		}()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// QueueDepth returns the number of queued units not yet picked up.
func (p *Pool) QueueDepth() int {
	return len(p.units)
}

// Close stops accepting units, runs the ones already queued and waits for
// the workers to exit. It is safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.mu.Lock()
		p.closed = true
		close(p.units)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

func (p *Pool) enqueue(ctx context.Context, u unit) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.units <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return ErrPoolClosed
	}
}

func (p *Pool) record(kind string, d time.Duration, err error) {
	if p.stats != nil {
		p.stats.Record(kind, d, err != nil)
	}
	var pe *PanicError
	if p.log != nil && errors.As(err, &pe) {
		p.log.Error("unit panicked", "kind", kind, "panic", fmt.Sprint(pe.Value), "stack", string(pe.Stack))
	}
}

// Future is the pending result of one submitted unit.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Done is closed when the unit has finished.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the unit finishes or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit queues fn on the pool. It blocks while the queue is full. A unit
// whose ctx is already done when a worker picks it up is not run and fails
// with the context error. A panic in fn becomes a *PanicError.
func Submit[T any](ctx context.Context, p *Pool, kind string, fn func() (T, error)) (*Future[T], error) {
	f := &Future[T]{done: make(chan struct{})}
	u := unit{kind: kind, run: func() {
		start := time.Now()
		defer func() {
			p.record(kind, time.Since(start), f.err)
			close(f.done)
		}()
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.val, f.err = call(kind, fn)
	}}
	if err := p.enqueue(ctx, u); err != nil {
		return nil, fmt.Errorf("submit %s unit: %w", kind, err)
	}
	return f, nil
}

func call[T any](kind string, fn func() (T, error)) (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			val = zero
			err = &PanicError{Kind: kind, Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// Result is the outcome of one unit.
type Result[T any] struct {
	Value T
	Err   error
}

// WaitAll joins futures and returns their outcomes in submission order.
// Unit failures are reported per result; the returned error is only set
// when ctx ends before every unit has finished.
func WaitAll[T any](ctx context.Context, futures []*Future[T]) ([]Result[T], error) {
	out := make([]Result[T], len(futures))
	for i, f := range futures {
		select {
		case <-f.done:
			out[i] = Result[T]{Value: f.val, Err: f.err}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}
