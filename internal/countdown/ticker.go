package countdown

import (
	"context"
	"sync"
	"time"
)

// Source delivers ticks. It is satisfied by a wrapped time.Ticker and by
// fakes in tests.
type Source interface {
	C() <-chan time.Time
	Stop()
}

type clockSource struct {
	t *time.Ticker
}

func (c clockSource) C() <-chan time.Time { return c.t.C }
func (c clockSource) Stop()               { c.t.Stop() }

// ClockSource ticks on the wall clock every interval.
func ClockSource(interval time.Duration) Source {
	return clockSource{t: time.NewTicker(interval)}
}

// Ticker drives one Timer from one Source until the timer stops running, the
// context ends or Stop is called. The source is always stopped on exit.
type Ticker struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartTicker launches the tick goroutine. onTick, if set, is called after
// every tick that changed the timer. The final call (Expired or Ignored)
// happens after the ticker has been released.
func StartTicker(ctx context.Context, timer *Timer, src Source, onTick func(TickResult)) *Ticker {
	ctx, cancel := context.WithCancel(ctx)
	k := &Ticker{cancel: cancel, done: make(chan struct{})}

	go func() {
		release := func() {
			src.Stop()
			cancel()
			close(k.done)
		}
		for {
			select {
			case <-ctx.Done():
				release()
				return
			case <-src.C():
				// select picks at random when both are ready
				if ctx.Err() != nil {
					release()
					return
				}
				res := timer.Tick()
				if res == Ticked {
					if onTick != nil {
						onTick(res)
					}
					continue
				}
				release()
				if onTick != nil {
					onTick(res)
				}
				return
			}
		}
	}()
	return k
}

// Stop releases the ticker. It does not wait for the goroutine; use Done for
// that.
func (k *Ticker) Stop() {
	k.once.Do(k.cancel)
}

// Done is closed once the tick goroutine has exited.
func (k *Ticker) Done() <-chan struct{} {
	return k.done
}
