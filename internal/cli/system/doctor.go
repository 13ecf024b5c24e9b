package system

import (
	"fmt"
	"sort"

	"github.com/julianstephens/routinize/internal/backup"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/keyring"
	"github.com/julianstephens/routinize/internal/models"
	"github.com/julianstephens/routinize/internal/storage"
	"github.com/julianstephens/routinize/internal/storage/sqlite"
)

type DoctorCmd struct{}

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
)

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, res checkResult, details ...string) {
		switch res {
		case checkOK:
			ctx.Printf("✓ %s: OK\n", name)
		case checkWarn:
			ctx.Printf("⚠ %s: WARNING\n", name)
		case checkFail:
			ctx.Printf("❌ %s: FAIL\n", name)
			hasError = true
		}
		for _, d := range details {
			ctx.Printf("   %s\n", d)
		}
	}

	reachable := true
	if err := checkReachable(ctx); err != nil {
		report("Store reachable", checkFail, fmt.Sprintf("Error: %v", err))
		reachable = false
	} else {
		report("Store reachable", checkOK)
	}

	if reachable {
		for _, d := range ctx.Accessor.Diagnose(ctx.Ctx()) {
			res, details := checkCollection(d)
			report("Collection "+d.Key, res, details...)
		}

		res, details := checkRoutines(ctx.Accessor.Routines.GetAll(ctx.Ctx()))
		report("Routine integrity", res, details...)

		res, details = checkTimeBlocks(ctx.Accessor.TimeBlocks.GetAll(ctx.Ctx()))
		report("Time block integrity", res, details...)

		res, details = checkHealthRecords(ctx.Accessor.HealthRecords.GetAll(ctx.Ctx()))
		report("Health record order", res, details...)
	} else {
		ctx.Println("⊘ Collections: SKIPPED (store not reachable)")
	}

	if path, ok := ctx.DataFile(); ok {
		backups, err := backup.NewManager(path).ListBackups()
		switch {
		case err != nil:
			report("Backups present", checkWarn, err.Error())
		case len(backups) == 0:
			report("Backups present", checkWarn, "No backups found. Run 'routinize backup create'.")
		default:
			report("Backups present", checkOK)
		}
	}

	if keyring.IsAvailable() {
		report("OS keyring", checkOK)
	} else {
		report("OS keyring", checkWarn, "Connection strings must come from "+constants.EnvDBConnection)
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkReachable(ctx *cli.Context) error {
	if err := ctx.Backend.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if s, ok := ctx.Backend.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	if _, err := ctx.Backend.Keys(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	return nil
}

func checkCollection(d storage.Diagnostic) (checkResult, []string) {
	if d.Err != nil {
		return checkFail, []string{fmt.Sprintf("Error: %v", d.Err)}
	}
	if !d.Found {
		return checkOK, []string{"Not created yet"}
	}
	var details []string
	res := checkOK
	if d.Version < constants.CollectionVersion {
		res = checkWarn
		details = append(details, "Stored in the legacy format. Run 'routinize migrate'.")
	}
	if len(d.Dropped) > 0 {
		res = checkWarn
		details = append(details, fmt.Sprintf("%d unreadable record(s) will be dropped on the next write:", len(d.Dropped)))
		for _, err := range d.Dropped {
			details = append(details, "  "+err.Error())
		}
	}
	details = append(details, fmt.Sprintf("%d record(s)", d.Count))
	return res, details
}

func checkRoutines(routines []models.Routine) (checkResult, []string) {
	res := checkOK
	var details []string
	active := 0
	for _, r := range routines {
		if r.Active {
			active++
		}
		if err := r.Validate(); err != nil {
			res = checkFail
			details = append(details, fmt.Sprintf("%s: %v", r.Name, err))
		}
		if drift := r.TaskDurationDrift(); drift != 0 && len(r.Tasks) > 0 {
			if res == checkOK {
				res = checkWarn
			}
			details = append(details, fmt.Sprintf("%s: duration differs from task total by %+d min", r.Name, drift))
		}
	}
	if active > 1 {
		res = checkFail
		details = append(details, fmt.Sprintf("%d routines are active at once", active))
	}
	return res, details
}

func checkTimeBlocks(blocks []models.TimeBlock) (checkResult, []string) {
	res := checkOK
	var details []string
	active := 0
	for _, b := range blocks {
		if b.Status() == models.BlockActive {
			active++
		}
		if err := b.Validate(); err != nil {
			res = checkFail
			details = append(details, fmt.Sprintf("%s: %v", b.Title, err))
		}
	}
	if active > 1 {
		res = checkFail
		details = append(details, fmt.Sprintf("%d time blocks are active at once", active))
	}
	return res, details
}

func checkHealthRecords(records []models.HealthRecord) (checkResult, []string) {
	sorted := sort.SliceIsSorted(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	if !sorted {
		return checkWarn, []string{"Records are not ordered most recent first"}
	}
	return checkOK, nil
}
