package actions

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routinize/internal/models"
)

func cloneBlocks(blocks []models.TimeBlock) []models.TimeBlock {
	out := make([]models.TimeBlock, len(blocks))
	copy(out, blocks)
	return out
}

func NewTimeBlock(title string, durationMin int, notes string) models.TimeBlock {
	return models.TimeBlock{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		DurationMin: durationMin,
		Notes:       notes,
	}
}

// StartBlock makes id the only active block and clears its completed flag.
// The first start of a block records its start time.
func StartBlock(blocks []models.TimeBlock, id string, now time.Time) []models.TimeBlock {
	out := cloneBlocks(blocks)
	for i := range out {
		if out[i].ID != id {
			out[i].Active = false
			continue
		}
		out[i].Active = true
		out[i].Completed = false
		out[i].EndTime = nil
		if out[i].StartTime == nil {
			t := now
			out[i].StartTime = &t
		}
	}
	return out
}

func PauseBlock(blocks []models.TimeBlock, id string) []models.TimeBlock {
	out := cloneBlocks(blocks)
	for i := range out {
		if out[i].ID == id {
			out[i].Active = false
		}
	}
	return out
}

// PauseBlockAt pauses a block and keeps the countdown's remaining time so a
// later run resumes from it.
func PauseBlockAt(blocks []models.TimeBlock, id string, remaining time.Duration) []models.TimeBlock {
	out := cloneBlocks(blocks)
	for i := range out {
		if out[i].ID == id {
			out[i].Active = false
			out[i].RemainingSec = int(remaining / time.Second)
		}
	}
	return out
}

// StopBlock completes a block and records when it ended.
func StopBlock(blocks []models.TimeBlock, id string, now time.Time) []models.TimeBlock {
	out := cloneBlocks(blocks)
	for i := range out {
		if out[i].ID == id {
			out[i].Active = false
			out[i].Completed = true
			out[i].RemainingSec = 0
			t := now
			out[i].EndTime = &t
		}
	}
	return out
}

// ResetBlock returns a block to pending and forgets its run times.
func ResetBlock(blocks []models.TimeBlock, id string) []models.TimeBlock {
	out := cloneBlocks(blocks)
	for i := range out {
		if out[i].ID == id {
			out[i].Active = false
			out[i].Completed = false
			out[i].StartTime = nil
			out[i].EndTime = nil
			out[i].RemainingSec = 0
		}
	}
	return out
}

// ActiveBlock returns the first block in the active state.
func ActiveBlock(blocks []models.TimeBlock) (models.TimeBlock, bool) {
	for _, b := range blocks {
		if b.Status() == models.BlockActive {
			return b, true
		}
	}
	return models.TimeBlock{}, false
}

func PendingBlocks(blocks []models.TimeBlock) []models.TimeBlock {
	return blocksWithStatus(blocks, models.BlockPending)
}

func CompletedBlocks(blocks []models.TimeBlock) []models.TimeBlock {
	return blocksWithStatus(blocks, models.BlockCompleted)
}

func blocksWithStatus(blocks []models.TimeBlock, status models.BlockStatus) []models.TimeBlock {
	out := make([]models.TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Status() == status {
			out = append(out, b)
		}
	}
	return out
}
