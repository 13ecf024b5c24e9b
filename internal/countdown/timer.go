package countdown

import (
	"fmt"
	"sync"
	"time"
)

type State int

const (
	Ready State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// TickResult tells the caller what a tick did.
type TickResult int

const (
	// Ignored means the timer was not running
	Ignored TickResult = iota
	// Ticked means one second elapsed
	Ticked
	// Expired means the tick brought the timer to zero and completed it
	Expired
)

// Timer counts a time block down one second per tick. It is safe for use from
// a tick goroutine and a UI at the same time.
type Timer struct {
	mu        sync.Mutex
	total     int
	remaining int
	state     State
}

// New returns a Ready timer for a block of the given minutes.
func New(durationMin int) *Timer {
	return NewSeconds(durationMin * 60)
}

func NewSeconds(seconds int) *Timer {
	if seconds < 0 {
		seconds = 0
	}
	return &Timer{total: seconds, remaining: seconds}
}

// Restore rebuilds a timer in a known state, e.g. after reloading a block.
func Restore(seconds, remaining int, state State) *Timer {
	t := NewSeconds(seconds)
	if remaining < 0 {
		remaining = 0
	}
	if remaining > t.total {
		remaining = t.total
	}
	t.remaining = remaining
	t.state = state
	return t
}

// Start runs the timer from Ready or Paused. A completed timer stays
// completed until Reset.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case Ready, Paused:
		if t.remaining == 0 {
			t.state = Completed
			return false
		}
		t.state = Running
		return true
	default:
		return false
	}
}

func (t *Timer) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running {
		return false
	}
	t.state = Paused
	return true
}

// Stop completes the timer and rewinds it to the full duration.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = Completed
	t.remaining = t.total
}

func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = Ready
	t.remaining = t.total
}

func (t *Timer) Tick() TickResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running {
		return Ignored
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.state = Completed
		return Expired
	}
	return Ticked
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.remaining) * time.Second
}

func (t *Timer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.total) * time.Second
}

// Progress is the elapsed share of the full duration in percent, 0-100.
func (t *Timer) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.total == 0 {
		return 0
	}
	p := float64(t.total-t.remaining) / float64(t.total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Resumable is true when a stopped countdown has already used some time.
func (t *Timer) Resumable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != Running && t.state != Completed && t.remaining < t.total
}

// Format renders the remaining time as H:MM:SS, or M:SS under an hour.
func (t *Timer) Format() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return FormatSeconds(t.remaining)
}

func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
