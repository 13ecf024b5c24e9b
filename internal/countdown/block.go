package countdown

import "github.com/julianstephens/routinize/internal/models"

// ForBlock returns the countdown of a time block. A block paused part way
// through comes back Paused with its stored remaining time.
func ForBlock(b models.TimeBlock) *Timer {
	if b.Resumable() {
		return Restore(b.DurationSeconds(), b.RemainingSec, Paused)
	}
	return New(b.DurationMin)
}
