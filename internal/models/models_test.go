package models

import (
	"testing"
	"time"
)

func TestRoutineStatus(t *testing.T) {
	tests := []struct {
		name    string
		routine Routine
		want    string
	}{
		{"ready", Routine{}, "Ready"},
		{"active", Routine{Active: true}, "In Progress"},
		{"completed", Routine{Completed: true}, "Completed"},
		{"completed wins over active", Routine{Active: true, Completed: true}, "Completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.routine.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoutineSortedTasksAndDrift(t *testing.T) {
	r := Routine{
		DurationMin: 90,
		Tasks: []RoutineTask{
			{ID: "b", Name: "Exercise", DurationMin: 30, Order: 2},
			{ID: "a", Name: "Meditation", DurationMin: 15, Order: 1},
			{ID: "c", Name: "Journaling", DurationMin: 15, Order: 3},
		},
	}

	sorted := r.SortedTasks()
	for i, want := range []string{"a", "b", "c"} {
		if sorted[i].ID != want {
			t.Errorf("SortedTasks()[%d] = %s, want %s", i, sorted[i].ID, want)
		}
	}
	if r.Tasks[0].ID != "b" {
		t.Error("SortedTasks() must not reorder the routine's own slice")
	}
	if drift := r.TaskDurationDrift(); drift != 30 {
		t.Errorf("TaskDurationDrift() = %d, want 30", drift)
	}
	if next := r.NextTaskOrder(); next != 4 {
		t.Errorf("NextTaskOrder() = %d, want 4", next)
	}
}

func TestRoutineValidate(t *testing.T) {
	valid := Routine{ID: "1", Name: "Morning Ritual", Category: CategoryMorning, StartTime: "06:00", EndTime: "07:30"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Routine)
	}{
		{"missing name", func(r *Routine) { r.Name = " " }},
		{"bad category", func(r *Routine) { r.Category = "night" }},
		{"bad start time", func(r *Routine) { r.StartTime = "6am" }},
		{"duplicate order", func(r *Routine) {
			r.Tasks = []RoutineTask{{ID: "a", Order: 1}, {ID: "b", Order: 1}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Evening ")
	if err != nil || c != CategoryEvening {
		t.Errorf("ParseCategory() = %q, %v; want evening", c, err)
	}
	if c.Title() != "Evening" {
		t.Errorf("Title() = %q, want Evening", c.Title())
	}
	if _, err := ParseCategory("lunch"); err == nil {
		t.Error("ParseCategory(lunch) expected error")
	}
}

func TestTimeBlockStatus(t *testing.T) {
	tests := []struct {
		block TimeBlock
		want  BlockStatus
		label string
	}{
		{TimeBlock{}, BlockPending, "Ready"},
		{TimeBlock{Active: true}, BlockActive, "In Progress"},
		{TimeBlock{Completed: true}, BlockCompleted, "Completed"},
		{TimeBlock{Active: true, Completed: true}, BlockCompleted, "Completed"},
	}
	for _, tt := range tests {
		if got := tt.block.Status(); got != tt.want {
			t.Errorf("Status() = %s, want %s", got, tt.want)
		}
		if got := tt.block.Label(); got != tt.label {
			t.Errorf("Label() = %s, want %s", got, tt.label)
		}
	}
}

func TestTimeBlockPatch(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := TimeBlock{ID: "1", Title: "Deep Work Session", DurationMin: 120}
	active := true
	notes := "no slack"
	TimeBlockPatch{Active: &active, StartTime: &start, Notes: &notes}.Apply(&b)

	if !b.Active || b.Notes != notes || b.StartTime == nil || !b.StartTime.Equal(start) {
		t.Errorf("Apply() produced %+v", b)
	}
	if b.Title != "Deep Work Session" || b.DurationMin != 120 {
		t.Error("Apply() changed fields that were not in the patch")
	}
}

func TestHealthCheck(t *testing.T) {
	c := HealthCheck{Hydration: 12, Energy: 0, Focus: 9, Mood: 8}
	if err := c.Validate(); err == nil {
		t.Error("Validate() expected error for out of range metrics")
	}
	clamped := c.Clamped()
	if clamped.Hydration != 10 || clamped.Energy != 1 {
		t.Errorf("Clamped() = %+v", clamped)
	}
	if err := clamped.Validate(); err != nil {
		t.Errorf("Validate() after Clamped() = %v", err)
	}
	if total := clamped.Total(); total != 28 {
		t.Errorf("Total() = %d, want 28", total)
	}
	if d := DefaultHealthCheck(); d.Total() != 20 {
		t.Errorf("DefaultHealthCheck().Total() = %d, want 20", d.Total())
	}
}

func TestCoerce(t *testing.T) {
	if _, err := CoerceRoutine(Routine{Category: CategoryWork}); err == nil {
		t.Error("CoerceRoutine() should reject a routine without id")
	}
	r, err := CoerceRoutine(Routine{ID: "1", Category: "WORK"})
	if err != nil {
		t.Fatalf("CoerceRoutine() unexpected error: %v", err)
	}
	if r.Category != CategoryWork || r.Tasks == nil {
		t.Errorf("CoerceRoutine() = %+v", r)
	}

	if _, err := CoerceTimeBlock(TimeBlock{ID: "1"}); err == nil {
		t.Error("CoerceTimeBlock() should reject a zero duration")
	}

	h, err := CoerceHealthRecord(HealthRecord{ID: "1", Data: HealthCheck{Hydration: 15, Energy: 5, Focus: 5, Mood: -2}})
	if err != nil {
		t.Fatalf("CoerceHealthRecord() unexpected error: %v", err)
	}
	if h.Data.Hydration != 10 || h.Data.Mood != 1 {
		t.Errorf("CoerceHealthRecord() did not clamp: %+v", h.Data)
	}
}
