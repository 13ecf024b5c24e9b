package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/logger"
	"github.com/julianstephens/routinize/internal/models"
	"github.com/julianstephens/routinize/internal/tui/components/blocktimer"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.timers.SetWidth(max(msg.Width-12, 10))
		return m, nil

	case blocktimer.TickMsg:
		cmd, expired := m.timers.Update(msg)
		if expired != "" {
			m.persistBlocks(func(blocks []models.TimeBlock) []models.TimeBlock {
				return actions.StopBlock(blocks, expired, m.now())
			})
			m.status = "Time block completed"
			logger.Info("Time block completed", "id", expired)
		}
		return m, cmd
	}

	switch m.state {
	case constants.StateHealthForm:
		return m.updateHealthForm(msg)
	case constants.StateAddBlock:
		return m.updateBlockForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		m.switchTab(1)
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.switchTab(-1)
		return m, nil
	}

	m.status = ""
	switch m.state {
	case constants.StateRoutines:
		return m.updateRoutines(keyMsg)
	case constants.StateBlocks:
		return m.updateBlocks(keyMsg)
	case constants.StateHealth:
		return m.updateHealth(keyMsg)
	}
	return m, nil
}

func (m *Model) switchTab(step int) {
	current := 0
	for i, t := range tabs {
		if t.state == m.state {
			current = i
		}
	}
	next := (current + step + len(tabs)) % len(tabs)
	m.state = tabs[next].state
}

func (m *Model) persistRoutines(fn func([]models.Routine) []models.Routine) {
	m.accessor.Routines.Mutate(m.ctx, fn)
	m.reload()
}

func (m *Model) persistBlocks(fn func([]models.TimeBlock) []models.TimeBlock) {
	m.accessor.TimeBlocks.Mutate(m.ctx, fn)
	m.reload()
}

func (m Model) updateRoutines(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.routineCursor > 0 {
			m.routineCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.routineCursor < len(m.visibleRoutines())-1 {
			m.routineCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Filter):
		m.filter = actions.NextFilter(m.filter)
		m.routineCursor = 0
		return m, nil
	}

	r, ok := m.selectedRoutine()
	if !ok {
		return m, nil
	}
	now := m.now()

	switch {
	case key.Matches(msg, m.keys.Start):
		if r.Completed {
			m.status = r.Name + " is already completed"
			return m, nil
		}
		m.persistRoutines(func(rs []models.Routine) []models.Routine { return actions.StartRoutine(rs, r.ID, now) })
	case key.Matches(msg, m.keys.Pause):
		m.persistRoutines(func(rs []models.Routine) []models.Routine { return actions.PauseRoutine(rs, r.ID, now) })
	case key.Matches(msg, m.keys.Complete):
		m.persistRoutines(func(rs []models.Routine) []models.Routine { return actions.CompleteRoutine(rs, r.ID, now) })
	case key.Matches(msg, m.keys.Toggle):
		n, _ := strconv.Atoi(msg.String())
		tasks := r.SortedTasks()
		if n < 1 || n > len(tasks) {
			return m, nil
		}
		taskID := tasks[n-1].ID
		m.persistRoutines(func(rs []models.Routine) []models.Routine { return actions.ToggleTask(rs, r.ID, taskID, now) })
	case key.Matches(msg, m.keys.Delete):
		m.askDelete(r.ID, r.Name)
	}
	return m, nil
}

func (m Model) updateBlocks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.blockCursor > 0 {
			m.blockCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.blockCursor < len(m.blocks)-1 {
			m.blockCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.blockForm = &BlockFormModel{}
		m.form = NewBlockForm(m.blockForm)
		m.previousState = m.state
		m.state = constants.StateAddBlock
		return m, m.form.Init()
	}

	b, ok := m.selectedBlock()
	if !ok {
		return m, nil
	}
	now := m.now()

	switch {
	case key.Matches(msg, m.keys.Start):
		cmd := m.timers.Start(b)
		if cmd == nil {
			return m, nil
		}
		m.persistBlocks(func(bs []models.TimeBlock) []models.TimeBlock { return actions.StartBlock(bs, b.ID, now) })
		return m, cmd
	case key.Matches(msg, m.keys.Pause):
		m.timers.Pause(b.ID)
		remaining := m.timers.Timer(b).Remaining()
		m.persistBlocks(func(bs []models.TimeBlock) []models.TimeBlock { return actions.PauseBlockAt(bs, b.ID, remaining) })
	case key.Matches(msg, m.keys.Stop):
		m.timers.Stop(b.ID)
		m.persistBlocks(func(bs []models.TimeBlock) []models.TimeBlock { return actions.StopBlock(bs, b.ID, now) })
	case key.Matches(msg, m.keys.Reset):
		m.timers.Reset(b.ID)
		m.persistBlocks(func(bs []models.TimeBlock) []models.TimeBlock { return actions.ResetBlock(bs, b.ID) })
	case key.Matches(msg, m.keys.Delete):
		m.askDelete(b.ID, b.Title)
	}
	return m, nil
}

func (m Model) updateHealth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Log) {
		m.healthForm = &HealthFormModel{Check: models.DefaultHealthCheck()}
		m.form = NewHealthForm(m.healthForm)
		m.previousState = m.state
		m.state = constants.StateHealthForm
		return m, m.form.Init()
	}
	return m, nil
}

func (m *Model) askDelete(id, name string) {
	m.pending = &deleteTarget{state: m.state, id: id, name: name}
	m.previousState = m.state
	m.state = constants.StateConfirmDelete
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		target := m.pending
		m.pending = nil
		m.state = m.previousState
		if target == nil {
			return m, nil
		}
		switch target.state {
		case constants.StateRoutines:
			m.accessor.Routines.Delete(m.ctx, target.id)
		case constants.StateBlocks:
			m.timers.Forget(target.id)
			m.accessor.TimeBlocks.Delete(m.ctx, target.id)
		}
		m.reload()
		m.status = fmt.Sprintf("Deleted %s", target.name)
	case key.Matches(keyMsg, m.keys.Cancel):
		m.pending = nil
		m.state = m.previousState
	}
	return m, nil
}

// updateForm forwards msg to the active form and reports its state.
func (m *Model) updateForm(msg tea.Msg) (huh.FormState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return huh.StateAborted, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return m.form.State, cmd
}

func (m Model) updateHealthForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	state, cmd := m.updateForm(msg)
	switch state {
	case huh.StateCompleted:
		record := actions.NewHealthRecord(m.healthForm.Check, m.now())
		m.accessor.HealthRecords.Add(m.ctx, record)
		m.reload()
		m.state = m.previousState
		m.status = "Health check-in saved"
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m Model) updateBlockForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	state, cmd := m.updateForm(msg)
	switch state {
	case huh.StateCompleted:
		duration, err := strconv.Atoi(strings.TrimSpace(m.blockForm.Duration))
		if err != nil || duration <= 0 {
			m.form.State = huh.StateNormal
			return m, cmd
		}
		b := actions.NewTimeBlock(m.blockForm.Title, duration, strings.TrimSpace(m.blockForm.Notes))
		m.accessor.TimeBlocks.Add(m.ctx, b)
		m.reload()
		m.blockCursor = len(m.blocks) - 1
		m.state = m.previousState
		m.status = "Added " + b.Title
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}
