package stats

import (
	"math"
	"time"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/models"
)

// Color names a traffic-light color. Renderers map it to a terminal color.
type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Red    Color = "red"
)

// ScoreBand classifies a health score.
type ScoreBand struct {
	Label string
	Color Color
}

var (
	Excellent      = ScoreBand{Label: "Excellent", Color: Green}
	Good           = ScoreBand{Label: "Good", Color: Yellow}
	NeedsAttention = ScoreBand{Label: "Needs Attention", Color: Red}
)

// AverageScore is the mean of all four metrics over all records, rounded to
// the nearest integer. Zero when there are no records.
func AverageScore(records []models.HealthRecord) int {
	if len(records) == 0 {
		return 0
	}
	total := 0
	for _, r := range records {
		total += r.Data.Total()
	}
	return int(math.Round(float64(total) / float64(len(records)*4)))
}

// RecentAverage averages the n most recent records. Records are stored
// most-recent-first. A non-positive n uses the default window.
func RecentAverage(records []models.HealthRecord, n int) int {
	return AverageScore(Recent(records, n))
}

// Recent returns the n most recent records.
func Recent(records []models.HealthRecord, n int) []models.HealthRecord {
	if n <= 0 {
		n = constants.RecentWindow
	}
	if len(records) > n {
		return records[:n]
	}
	return records
}

// Latest returns the most recent record.
func Latest(records []models.HealthRecord) (models.HealthRecord, bool) {
	if len(records) == 0 {
		return models.HealthRecord{}, false
	}
	return records[0], true
}

func Band(score int) ScoreBand {
	switch {
	case score >= constants.ExcellentScoreMin:
		return Excellent
	case score >= constants.GoodScoreMin:
		return Good
	default:
		return NeedsAttention
	}
}

// SliderBand colors a single metric while it is being entered.
func SliderBand(value int) Color {
	switch {
	case value <= constants.SliderLowMax:
		return Red
	case value <= constants.SliderMidMax:
		return Yellow
	default:
		return Green
	}
}

// BlockSummary counts time blocks by status.
type BlockSummary struct {
	Completed int
	Pending   int
	Active    int
	Total     int
	Percent   int
}

func SummarizeBlocks(blocks []models.TimeBlock) BlockSummary {
	s := BlockSummary{Total: len(blocks)}
	for _, b := range blocks {
		switch b.Status() {
		case models.BlockCompleted:
			s.Completed++
		case models.BlockActive:
			s.Active++
		default:
			s.Pending++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// RoutineCompletion is the percentage of tasks done, rounded. A routine
// without tasks counts as 100 once completed and 0 otherwise.
func RoutineCompletion(r models.Routine) int {
	if len(r.Tasks) == 0 {
		if r.Completed {
			return 100
		}
		return 0
	}
	done := 0
	for _, t := range r.Tasks {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(r.Tasks)) * 100))
}

// RoutineProgress builds the progress entry of a routine for the day of now.
// Streaks across days are not tracked, so the streak is 1 for a routine
// completed today and 0 otherwise.
func RoutineProgress(r models.Routine, now time.Time) models.Progress {
	spent := 0
	for _, t := range r.Tasks {
		if t.Completed {
			spent += t.DurationMin
		}
	}
	streak := 0
	if r.Completed {
		streak = 1
	}
	y, m, d := now.Date()
	return models.Progress{
		RoutineID:      r.ID,
		Date:           time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
		CompletionRate: RoutineCompletion(r),
		TotalTimeSpent: spent,
		Streak:         streak,
	}
}

// Day is the dashboard summary.
type Day struct {
	RoutinesTotal     int
	RoutinesCompleted int
	ActiveRoutine     *models.Routine
	Blocks            BlockSummary
	ActiveBlock       *models.TimeBlock
	HealthAverage     int
	HealthBand        ScoreBand
	HealthRecords     int
}

func DaySummary(routines []models.Routine, blocks []models.TimeBlock, records []models.HealthRecord) Day {
	d := Day{
		RoutinesTotal: len(routines),
		Blocks:        SummarizeBlocks(blocks),
		HealthAverage: RecentAverage(records, constants.RecentWindow),
		HealthRecords: len(records),
	}
	d.HealthBand = Band(d.HealthAverage)
	for i := range routines {
		if routines[i].Completed {
			d.RoutinesCompleted++
		}
		if routines[i].Active && d.ActiveRoutine == nil {
			r := routines[i]
			d.ActiveRoutine = &r
		}
	}
	for i := range blocks {
		if blocks[i].Status() == models.BlockActive {
			b := blocks[i]
			d.ActiveBlock = &b
			break
		}
	}
	return d
}
