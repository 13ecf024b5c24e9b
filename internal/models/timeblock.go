package models

import (
	"fmt"
	"strings"
	"time"
)

type BlockStatus string

const (
	BlockPending   BlockStatus = "pending"
	BlockActive    BlockStatus = "active"
	BlockCompleted BlockStatus = "completed"
)

type TimeBlock struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	DurationMin int        `json:"duration"`
	Active      bool       `json:"isActive"`
	Completed   bool       `json:"isCompleted"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	// RemainingSec is what was left on the countdown when the block was last
	// paused. Zero means the countdown has not been used.
	RemainingSec int `json:"remainingSeconds,omitempty"`
}

func (b TimeBlock) GetID() string { return b.ID }

// Status derives the block state from its two flags. Completed wins over
// active so a block is always in exactly one state.
func (b TimeBlock) Status() BlockStatus {
	switch {
	case b.Completed:
		return BlockCompleted
	case b.Active:
		return BlockActive
	default:
		return BlockPending
	}
}

// Label is the human readable status shown on a time block card.
func (b TimeBlock) Label() string {
	switch b.Status() {
	case BlockCompleted:
		return "Completed"
	case BlockActive:
		return "In Progress"
	default:
		return "Ready"
	}
}

// Resumable reports whether a paused countdown can pick up where it stopped.
func (b TimeBlock) Resumable() bool {
	return !b.Completed && b.RemainingSec > 0 && b.RemainingSec < b.DurationSeconds()
}

// DurationSeconds is the full countdown length.
func (b TimeBlock) DurationSeconds() int {
	return b.DurationMin * 60
}

func (b TimeBlock) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("time block id is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("time block title is required")
	}
	if b.DurationMin <= 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	if b.RemainingSec < 0 || b.RemainingSec > b.DurationSeconds() {
		return fmt.Errorf("remaining time %ds is outside the block duration", b.RemainingSec)
	}
	if b.StartTime != nil && b.EndTime != nil && b.EndTime.Before(*b.StartTime) {
		return fmt.Errorf("end time is before start time")
	}
	return nil
}

// TimeBlockPatch holds the fields of a partial time block update.
type TimeBlockPatch struct {
	Title       *string
	DurationMin *int
	Active      *bool
	Completed   *bool
	StartTime   *time.Time
	EndTime     *time.Time
	Notes       *string
}

func (p TimeBlockPatch) Apply(b *TimeBlock) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.DurationMin != nil {
		b.DurationMin = *p.DurationMin
	}
	if p.Active != nil {
		b.Active = *p.Active
	}
	if p.Completed != nil {
		b.Completed = *p.Completed
	}
	if p.StartTime != nil {
		t := *p.StartTime
		b.StartTime = &t
	}
	if p.EndTime != nil {
		t := *p.EndTime
		b.EndTime = &t
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
}
