package health

import (
	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/models"
	"github.com/julianstephens/routinize/internal/stats"
)

// HealthLogCmd records a self-rating. Values outside 1-10 are clamped.
type HealthLogCmd struct {
	Hydration int    `short:"w" help:"Hydration (1-10)." default:"5"`
	Energy    int    `short:"e" help:"Energy (1-10)." default:"5"`
	Focus     int    `short:"f" help:"Focus (1-10)." default:"5"`
	Mood      int    `short:"m" help:"Mood (1-10)." default:"5"`
	Notes     string `short:"n" help:"Optional notes."`
}

func (c *HealthLogCmd) Run(ctx *cli.Context) error {
	check := models.HealthCheck{
		Hydration: c.Hydration,
		Energy:    c.Energy,
		Focus:     c.Focus,
		Mood:      c.Mood,
		Notes:     c.Notes,
	}
	if err := check.Validate(); err != nil {
		ctx.Printf("⚠ %v; clamping to %d-%d\n", err, constants.MetricMin, constants.MetricMax)
	}
	record := actions.NewHealthRecord(check, ctx.Now())
	ctx.Accessor.HealthRecords.Add(ctx.Ctx(), record)

	score := stats.AverageScore([]models.HealthRecord{record})
	ctx.Printf("Logged health check: score %d/10 (%s)\n", score, stats.Band(score).Label)
	return nil
}

type HealthListCmd struct {
	Limit int `short:"l" help:"Number of records to show (0 for all)." default:"7"`
}

func (c *HealthListCmd) Run(ctx *cli.Context) error {
	records, err := cli.Items(ctx.Accessor.HealthRecords.Load(ctx.Ctx()))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		ctx.Println("No health records yet.")
		return nil
	}
	if c.Limit > 0 && len(records) > c.Limit {
		records = records[:c.Limit]
	}

	for _, r := range records {
		d := r.Data
		ctx.Printf("%s  💧%2d ⚡%2d 🎯%2d 🙂%2d  avg %d\n",
			r.Date.Local().Format(constants.DateFormat+" "+constants.TimeFormat),
			d.Hydration, d.Energy, d.Focus, d.Mood,
			stats.AverageScore([]models.HealthRecord{r}))
		if d.Notes != "" {
			ctx.Printf("                  %s\n", d.Notes)
		}
	}
	return nil
}

type HealthSummaryCmd struct {
	Window int `short:"n" help:"Number of recent records to average." default:"7"`
}

func (c *HealthSummaryCmd) Run(ctx *cli.Context) error {
	records, err := cli.Items(ctx.Accessor.HealthRecords.Load(ctx.Ctx()))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		ctx.Println("No health records yet. Log one with 'routinize health log'.")
		return nil
	}

	recent := stats.Recent(records, c.Window)
	score := stats.AverageScore(recent)
	band := stats.Band(score)
	ctx.Printf("Health score: %d/10 (%s) over the last %d record(s)\n", score, band.Label, len(recent))

	latest, _ := stats.Latest(records)
	ctx.Printf("Latest (%s):\n", latest.Date.Local().Format(constants.DateFormat))
	for _, m := range latest.Data.Metrics() {
		ctx.Printf("  %-10s %2d  %s\n", m.Name, m.Value, stats.SliderBand(m.Value))
	}
	return nil
}
