package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/routinize/internal/constants"
)

// Runner pairs a Timer with at most one live Ticker. Every transition out of
// Running releases the ticker.
type Runner struct {
	mu        sync.Mutex
	timer     *Timer
	ticker    *Ticker
	newSource func() Source
	onTick    func(TickResult)
}

type RunnerOption func(*Runner)

// WithSource replaces the wall clock tick source.
func WithSource(fn func() Source) RunnerOption {
	return func(r *Runner) {
		r.newSource = fn
	}
}

// WithInterval sets the wall clock tick interval.
func WithInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.newSource = func() Source { return ClockSource(d) }
	}
}

// OnTick registers a callback for tick results. See StartTicker. The
// callback runs on the tick goroutine and must not call back into the Runner.
func OnTick(fn func(TickResult)) RunnerOption {
	return func(r *Runner) {
		r.onTick = fn
	}
}

func NewRunner(timer *Timer, opts ...RunnerOption) *Runner {
	r := &Runner{
		timer:     timer,
		newSource: func() Source { return ClockSource(constants.TickInterval) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Timer() *Timer {
	return r.timer
}

// Start runs the timer and acquires a tick source bound to ctx.
func (r *Runner) Start(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.timer.Start() {
		return false
	}
	r.releaseLocked()
	r.ticker = StartTicker(ctx, r.timer, r.newSource(), r.onTick)
	return true
}

func (r *Runner) Pause() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok := r.timer.Pause()
	r.releaseLocked()
	return ok
}

func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timer.Stop()
	r.releaseLocked()
}

func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timer.Reset()
	r.releaseLocked()
}

// Close releases the tick source without changing the timer.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
}

// Done is closed when the most recent tick source has been released. It
// returns a closed channel when nothing was ever started.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ticker == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return r.ticker.Done()
}

// releaseLocked stops the current tick source and waits for its goroutine to
// exit, so no stale tick can reach the timer after a transition.
func (r *Runner) releaseLocked() {
	if r.ticker != nil {
		r.ticker.Stop()
		<-r.ticker.Done()
	}
}
