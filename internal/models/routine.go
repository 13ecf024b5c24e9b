package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/routinize/internal/constants"
)

type Category string

const (
	CategoryMorning Category = "morning"
	CategoryWork    Category = "work"
	CategoryHealth  Category = "health"
	CategoryEvening Category = "evening"
)

// Categories lists the known routine categories in display order.
var Categories = []Category{CategoryMorning, CategoryWork, CategoryHealth, CategoryEvening}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("invalid category: %s (expected morning|work|health|evening)", s)
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Title returns the capitalized category name, e.g. "Morning".
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

type RoutineTask struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DurationMin int    `json:"duration"`
	Completed   bool   `json:"isCompleted"`
	Order       int    `json:"order"`
}

type Routine struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    Category      `json:"type"`
	DurationMin int           `json:"duration"`
	StartTime   string        `json:"startTime"` // HH:MM format
	EndTime     string        `json:"endTime"`   // HH:MM format
	Active      bool          `json:"isActive"`
	Completed   bool          `json:"isCompleted"`
	Tasks       []RoutineTask `json:"tasks"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (r Routine) GetID() string { return r.ID }

// Status mirrors the routine card: Completed, In Progress or Ready.
func (r Routine) Status() string {
	switch {
	case r.Completed:
		return "Completed"
	case r.Active:
		return "In Progress"
	default:
		return "Ready"
	}
}

// SortedTasks returns the tasks ordered by their Order field.
func (r Routine) SortedTasks() []RoutineTask {
	tasks := make([]RoutineTask, len(r.Tasks))
	copy(tasks, r.Tasks)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Order < tasks[j].Order
	})
	return tasks
}

// TaskDurationDrift is the routine duration minus the sum of its task
// durations. Zero means the two agree.
func (r Routine) TaskDurationDrift() int {
	sum := 0
	for _, t := range r.Tasks {
		sum += t.DurationMin
	}
	return r.DurationMin - sum
}

// NextTaskOrder returns the order value for a task appended to the routine.
func (r Routine) NextTaskOrder() int {
	max := 0
	for _, t := range r.Tasks {
		if t.Order > max {
			max = t.Order
		}
	}
	return max + 1
}

func (r Routine) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("routine id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("routine name is required")
	}
	if !r.Category.Valid() {
		return fmt.Errorf("invalid category: %q", r.Category)
	}
	if r.DurationMin < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	for _, field := range []struct{ name, value string }{{"start time", r.StartTime}, {"end time", r.EndTime}} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse(constants.TimeFormat, field.value); err != nil {
			return fmt.Errorf("invalid %s %q (expected HH:MM)", field.name, field.value)
		}
	}
	seen := make(map[int]bool, len(r.Tasks))
	for _, t := range r.Tasks {
		if t.ID == "" {
			return fmt.Errorf("task %q has no id", t.Name)
		}
		if seen[t.Order] {
			return fmt.Errorf("duplicate task order %d", t.Order)
		}
		seen[t.Order] = true
	}
	return nil
}

// RoutinePatch holds the fields of a partial routine update. Nil fields are
// left untouched.
type RoutinePatch struct {
	Name        *string
	Description *string
	Category    *Category
	DurationMin *int
	StartTime   *string
	EndTime     *string
	Active      *bool
	Completed   *bool
	Tasks       []RoutineTask
}

func (p RoutinePatch) Apply(r *Routine) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.DurationMin != nil {
		r.DurationMin = *p.DurationMin
	}
	if p.StartTime != nil {
		r.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		r.EndTime = *p.EndTime
	}
	if p.Active != nil {
		r.Active = *p.Active
	}
	if p.Completed != nil {
		r.Completed = *p.Completed
	}
	if p.Tasks != nil {
		r.Tasks = p.Tasks
	}
}

// Touch records a modification time.
func (r *Routine) Touch(now time.Time) {
	r.UpdatedAt = now
}
