package models

import "time"

// Progress summarizes how far a routine got on a given day.
type Progress struct {
	RoutineID      string    `json:"routineId"`
	Date           time.Time `json:"date"`
	CompletionRate int       `json:"completionRate"` // 0-100
	TotalTimeSpent int       `json:"totalTimeSpent"` // minutes
	Streak         int       `json:"streak"`
}
