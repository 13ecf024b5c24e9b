package seed

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/routinize/internal/stats"
	"github.com/julianstephens/routinize/internal/storage"
)

func TestSeedDataIsValid(t *testing.T) {
	now := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)

	for _, r := range Routines(now) {
		if err := r.Validate(); err != nil {
			t.Errorf("routine %s invalid: %v", r.ID, err)
		}
		if drift := r.TaskDurationDrift(); drift != 0 {
			t.Errorf("routine %s duration drift %d", r.ID, drift)
		}
	}
	for _, b := range TimeBlocks() {
		if err := b.Validate(); err != nil {
			t.Errorf("block %s invalid: %v", b.ID, err)
		}
	}
	for _, h := range HealthRecords(now) {
		if err := h.Validate(); err != nil {
			t.Errorf("record %s invalid: %v", h.ID, err)
		}
	}
}

func TestWrite(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	a := storage.NewAccessor(storage.NewMemoryBackend())

	if err := Write(ctx, a, now); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	day := stats.DaySummary(a.Routines.GetAll(ctx), a.TimeBlocks.GetAll(ctx), a.HealthRecords.GetAll(ctx))
	if day.RoutinesTotal != 4 || day.RoutinesCompleted != 1 {
		t.Errorf("routines %d/%d", day.RoutinesCompleted, day.RoutinesTotal)
	}
	if day.Blocks != (stats.BlockSummary{Completed: 1, Pending: 1, Active: 1, Total: 3, Percent: 33}) {
		t.Errorf("blocks = %+v", day.Blocks)
	}
	if day.HealthAverage != 7 || day.HealthBand != stats.Good {
		t.Errorf("health = %d %v", day.HealthAverage, day.HealthBand)
	}
}
