// Package seed holds the demo data written by `routinize init --seed`.
package seed

import (
	"context"
	"time"

	"github.com/julianstephens/routinize/internal/models"
	"github.com/julianstephens/routinize/internal/storage"
)

type task struct {
	id       string
	name     string
	duration int
	done     bool
}

func tasks(ts ...task) []models.RoutineTask {
	out := make([]models.RoutineTask, len(ts))
	for i, t := range ts {
		out[i] = models.RoutineTask{ID: t.id, Name: t.name, DurationMin: t.duration, Completed: t.done, Order: i + 1}
	}
	return out
}

func Routines(now time.Time) []models.Routine {
	return []models.Routine{
		{
			ID:          "1",
			Name:        "Morning Ritual",
			Description: "Start the day with intention and energy",
			Category:    models.CategoryMorning,
			DurationMin: 90,
			StartTime:   "06:00",
			EndTime:     "07:30",
			Completed:   true,
			Tasks: tasks(
				task{"1", "Meditation", 15, true},
				task{"2", "Exercise", 30, true},
				task{"3", "Journaling", 15, true},
				task{"4", "Healthy Breakfast", 30, true},
			),
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "2",
			Name:        "Deep Work Block",
			Description: "Focused coding and development work",
			Category:    models.CategoryWork,
			DurationMin: 180,
			StartTime:   "09:00",
			EndTime:     "12:00",
			Active:      true,
			Tasks: tasks(
				task{"5", "Code Review", 30, true},
				task{"6", "Feature Development", 90, false},
				task{"7", "Architecture Planning", 60, false},
			),
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "3",
			Name:        "Health Check",
			Description: "Midday wellness and energy assessment",
			Category:    models.CategoryHealth,
			DurationMin: 15,
			StartTime:   "14:00",
			EndTime:     "14:15",
			Tasks: tasks(
				task{"8", "Hydration Check", 5, false},
				task{"9", "Posture Reset", 5, false},
				task{"10", "Energy Assessment", 5, false},
			),
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "4",
			Name:        "Evening Wind-down",
			Description: "Prepare for rest and recovery",
			Category:    models.CategoryEvening,
			DurationMin: 60,
			StartTime:   "20:00",
			EndTime:     "21:00",
			Tasks: tasks(
				task{"11", "Digital Detox", 20, false},
				task{"12", "Reading", 20, false},
				task{"13", "Gratitude Practice", 20, false},
			),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func TimeBlocks() []models.TimeBlock {
	return []models.TimeBlock{
		{ID: "1", Title: "Deep Work Session", DurationMin: 120},
		{ID: "2", Title: "Code Review", DurationMin: 60, Completed: true},
		{ID: "3", Title: "Learning & Research", DurationMin: 90, Active: true},
	}
}

// HealthRecords returns today's and yesterday's checks, most recent first.
func HealthRecords(now time.Time) []models.HealthRecord {
	return []models.HealthRecord{
		{
			ID:   "1",
			Date: now,
			Data: models.HealthCheck{Hydration: 8, Energy: 7, Focus: 9, Mood: 8, Notes: "Feeling great today! Had a good morning routine."},
		},
		{
			ID:   "2",
			Date: now.Add(-24 * time.Hour),
			Data: models.HealthCheck{Hydration: 6, Energy: 5, Focus: 6, Mood: 7, Notes: "Tired from late night work. Need better sleep schedule."},
		},
	}
}

// Write replaces all three collections with the demo data.
func Write(ctx context.Context, a *storage.Accessor, now time.Time) error {
	if err := a.Routines.Save(ctx, Routines(now)); err != nil {
		return err
	}
	if err := a.TimeBlocks.Save(ctx, TimeBlocks()); err != nil {
		return err
	}
	return a.HealthRecords.Save(ctx, HealthRecords(now))
}
