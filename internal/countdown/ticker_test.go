package countdown

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeSource delivers ticks only when the test sends them.
type fakeSource struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan time.Time)}
}

// newBufferedSource holds one pending tick, like time.Ticker.
func newBufferedSource() *fakeSource {
	return &fakeSource{ch: make(chan time.Time, 1)}
}

func (f *fakeSource) C() <-chan time.Time { return f.ch }

func (f *fakeSource) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeSource) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker was not released")
	}
}

func TestTickerRunsToExpiry(t *testing.T) {
	tm := NewSeconds(3)
	tm.Start()
	src := newFakeSource()

	results := make(chan TickResult, 3)
	k := StartTicker(context.Background(), tm, src, func(r TickResult) {
		results <- r
	})

	for i := 0; i < 3; i++ {
		src.ch <- time.Now()
	}
	waitDone(t, k.Done())

	if !src.isStopped() {
		t.Error("source should be stopped on expiry")
	}
	for i, want := range []TickResult{Ticked, Ticked, Expired} {
		select {
		case got := <-results:
			if got != want {
				t.Errorf("result %d = %v, want %v", i, got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("result %d not delivered", i)
		}
	}
}

func TestTickerReleasedOnStop(t *testing.T) {
	tm := NewSeconds(60)
	tm.Start()
	src := newFakeSource()
	k := StartTicker(context.Background(), tm, src, nil)

	src.ch <- time.Now()
	k.Stop()
	k.Stop()
	waitDone(t, k.Done())

	if !src.isStopped() {
		t.Error("source should be stopped")
	}
	if tm.Remaining().Seconds() != 59 {
		t.Errorf("remaining = %v", tm.Remaining())
	}
}

func TestTickerReleasedOnContextCancel(t *testing.T) {
	tm := NewSeconds(60)
	tm.Start()
	src := newFakeSource()
	ctx, cancel := context.WithCancel(context.Background())
	k := StartTicker(ctx, tm, src, nil)

	cancel()
	waitDone(t, k.Done())
	if !src.isStopped() {
		t.Error("source should be stopped")
	}
}

func TestTickerReleasedWhenTimerPausedElsewhere(t *testing.T) {
	tm := NewSeconds(60)
	tm.Start()
	src := newFakeSource()
	results := make(chan TickResult, 1)
	k := StartTicker(context.Background(), tm, src, func(r TickResult) { results <- r })

	tm.Pause()
	src.ch <- time.Now()
	waitDone(t, k.Done())

	if got := <-results; got != Ignored {
		t.Errorf("last result = %v, want Ignored", got)
	}
}

func TestClockSource(t *testing.T) {
	tm := NewSeconds(2)
	tm.Start()
	k := StartTicker(context.Background(), tm, ClockSource(5*time.Millisecond), nil)
	waitDone(t, k.Done())
	if tm.State() != Completed {
		t.Errorf("state = %v, want completed", tm.State())
	}
}

func TestTickerIgnoresPendingTickAfterCancel(t *testing.T) {
	for i := 0; i < 200; i++ {
		tm := NewSeconds(10)
		tm.Start()
		src := newBufferedSource()
		src.ch <- time.Now()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		k := StartTicker(ctx, tm, src, nil)
		waitDone(t, k.Done())

		if got := tm.Remaining(); got != 10*time.Second {
			t.Fatalf("run %d: cancelled ticker advanced the timer to %v", i, got)
		}
		if !src.isStopped() {
			t.Fatalf("run %d: source not released", i)
		}
	}
}
