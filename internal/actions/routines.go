package actions

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routinize/internal/models"
)

// FilterAll selects every category.
const FilterAll = "all"

func cloneRoutines(routines []models.Routine) []models.Routine {
	out := make([]models.Routine, len(routines))
	for i, r := range routines {
		tasks := make([]models.RoutineTask, len(r.Tasks))
		copy(tasks, r.Tasks)
		r.Tasks = tasks
		out[i] = r
	}
	return out
}

// NewRoutine builds a routine with a fresh id and no tasks.
func NewRoutine(name, description string, category models.Category, durationMin int, start, end string, now time.Time) models.Routine {
	return models.Routine{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Category:    category,
		DurationMin: durationMin,
		StartTime:   start,
		EndTime:     end,
		Tasks:       []models.RoutineTask{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// StartRoutine activates the routine with id and deactivates all others, so
// at most one routine is active afterwards.
func StartRoutine(routines []models.Routine, id string, now time.Time) []models.Routine {
	out := cloneRoutines(routines)
	for i := range out {
		active := out[i].ID == id
		if out[i].Active != active {
			out[i].Active = active
			out[i].Touch(now)
		}
	}
	return out
}

func PauseRoutine(routines []models.Routine, id string, now time.Time) []models.Routine {
	out := cloneRoutines(routines)
	for i := range out {
		if out[i].ID == id {
			out[i].Active = false
			out[i].Touch(now)
		}
	}
	return out
}

func CompleteRoutine(routines []models.Routine, id string, now time.Time) []models.Routine {
	out := cloneRoutines(routines)
	for i := range out {
		if out[i].ID == id {
			out[i].Completed = true
			out[i].Active = false
			out[i].Touch(now)
		}
	}
	return out
}

// ToggleTask flips the completion of one task in one routine.
func ToggleTask(routines []models.Routine, routineID, taskID string, now time.Time) []models.Routine {
	out := cloneRoutines(routines)
	for i := range out {
		if out[i].ID != routineID {
			continue
		}
		for j := range out[i].Tasks {
			if out[i].Tasks[j].ID == taskID {
				out[i].Tasks[j].Completed = !out[i].Tasks[j].Completed
				out[i].Touch(now)
			}
		}
	}
	return out
}

// AddTask appends a task after the routine's last one.
func AddTask(routines []models.Routine, routineID, name string, durationMin int, now time.Time) []models.Routine {
	out := cloneRoutines(routines)
	for i := range out {
		if out[i].ID != routineID {
			continue
		}
		out[i].Tasks = append(out[i].Tasks, models.RoutineTask{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(name),
			DurationMin: durationMin,
			Order:       out[i].NextTaskOrder(),
		})
		out[i].Touch(now)
	}
	return out
}

// FilterByCategory keeps the routines of one category. "all" or an empty
// filter keeps everything. Matching is case-insensitive.
func FilterByCategory(routines []models.Routine, filter string) []models.Routine {
	filter = strings.ToLower(strings.TrimSpace(filter))
	out := make([]models.Routine, 0, len(routines))
	for _, r := range routines {
		if filter == "" || filter == FilterAll || string(r.Category) == filter {
			out = append(out, r)
		}
	}
	return out
}

// Filters lists the category filters in display order, starting with "all".
func Filters() []string {
	out := []string{FilterAll}
	for _, c := range models.Categories {
		out = append(out, string(c))
	}
	return out
}

// NextFilter cycles to the filter after current.
func NextFilter(current string) string {
	filters := Filters()
	for i, f := range filters {
		if f == current {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}
