package routines

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/models"
)

type TaskAddCmd struct {
	Routine  string `arg:"" help:"Routine id or unique prefix."`
	Name     string `arg:"" help:"Task name."`
	Duration int    `short:"d" help:"Duration in minutes." required:""`
}

func (c *TaskAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("task name is required")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r, err := apply(ctx, c.Routine, func(items []models.Routine, id string, now time.Time) []models.Routine {
		return actions.AddTask(items, id, c.Name, c.Duration, now)
	})
	if err != nil {
		return err
	}
	ctx.Printf("Added task %q to %s\n", strings.TrimSpace(c.Name), r.Name)
	return nil
}

type TaskToggleCmd struct {
	Routine string `arg:"" help:"Routine id or unique prefix."`
	Task    string `arg:"" help:"Task id, unique prefix or order number."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	routines, err := cli.Items(ctx.Accessor.Routines.Load(ctx.Ctx()))
	if err != nil {
		return err
	}
	r, err := find(routines, c.Routine)
	if err != nil {
		return err
	}
	task, err := findTask(r, c.Task)
	if err != nil {
		return err
	}

	now := ctx.Now()
	ctx.Accessor.Routines.Mutate(ctx.Ctx(), func(items []models.Routine) []models.Routine {
		return actions.ToggleTask(items, r.ID, task.ID, now)
	})

	state := "done"
	if task.Completed {
		state = "not done"
	}
	ctx.Printf("Marked %q %s\n", task.Name, state)
	return nil
}

// findTask matches a task by order number first, then by id.
func findTask(r models.Routine, ref string) (models.RoutineTask, error) {
	if order, err := strconv.Atoi(ref); err == nil {
		for _, t := range r.Tasks {
			if t.Order == order {
				return t, nil
			}
		}
	}
	ids := make([]string, len(r.Tasks))
	for i, t := range r.Tasks {
		ids[i] = t.ID
	}
	id, err := cli.ResolveID(ids, ref, "task")
	if err != nil {
		return models.RoutineTask{}, err
	}
	for _, t := range r.Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.RoutineTask{}, fmt.Errorf("task not found: %s", ref)
}
