package actions

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routinize/internal/models"
)

// NewHealthRecord stamps a check with a fresh id and the time it was taken.
// Metrics are clamped to the valid range.
func NewHealthRecord(check models.HealthCheck, now time.Time) models.HealthRecord {
	return models.HealthRecord{
		ID:   uuid.NewString(),
		Date: now,
		Data: check.Clamped(),
	}
}
