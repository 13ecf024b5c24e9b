package models

import (
	"fmt"
	"strings"
)

// The Coerce functions repair records read back from storage. They fix what
// can be fixed without guessing and reject the rest.

func CoerceRoutine(r Routine) (Routine, error) {
	if r.ID == "" {
		return r, fmt.Errorf("routine has no id")
	}
	r.Category = Category(strings.ToLower(string(r.Category)))
	if !r.Category.Valid() {
		return r, fmt.Errorf("routine %s has unknown category %q", r.ID, r.Category)
	}
	if r.DurationMin < 0 {
		r.DurationMin = 0
	}
	if r.Tasks == nil {
		r.Tasks = []RoutineTask{}
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	return r, nil
}

func CoerceTimeBlock(b TimeBlock) (TimeBlock, error) {
	if b.ID == "" {
		return b, fmt.Errorf("time block has no id")
	}
	if b.DurationMin <= 0 {
		return b, fmt.Errorf("time block %s has non-positive duration %d", b.ID, b.DurationMin)
	}
	if b.RemainingSec < 0 || b.RemainingSec >= b.DurationSeconds() {
		b.RemainingSec = 0
	}
	return b, nil
}

func CoerceHealthRecord(r HealthRecord) (HealthRecord, error) {
	if r.ID == "" {
		return r, fmt.Errorf("health record has no id")
	}
	r.Data = r.Data.Clamped()
	return r, nil
}
