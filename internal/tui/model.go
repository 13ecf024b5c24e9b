package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routinize/internal/actions"
	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/models"
	"github.com/julianstephens/routinize/internal/storage"
	"github.com/julianstephens/routinize/internal/tui/components/blocktimer"
)

var tabs = []struct {
	title string
	state constants.SessionState
}{
	{"Dashboard", constants.StateDashboard},
	{"Routines", constants.StateRoutines},
	{"Time Blocks", constants.StateBlocks},
	{"Health", constants.StateHealth},
}

// deleteTarget is the record awaiting delete confirmation.
type deleteTarget struct {
	state constants.SessionState
	id    string
	name  string
}

type Model struct {
	ctx      context.Context
	accessor *storage.Accessor
	now      func() time.Time

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	width         int
	height        int
	quitting      bool
	status        string

	routines []models.Routine
	blocks   []models.TimeBlock
	records  []models.HealthRecord

	filter        string
	routineCursor int
	blockCursor   int
	timers        blocktimer.Model

	form       *huh.Form
	healthForm *HealthFormModel
	blockForm  *BlockFormModel
	pending    *deleteTarget
}

func NewModel(ctx context.Context, accessor *storage.Accessor, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		ctx:      ctx,
		accessor: accessor,
		now:      now,
		state:    constants.StateDashboard,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		filter:   actions.FilterAll,
		timers:   blocktimer.New(),
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload refreshes every collection from storage.
func (m *Model) reload() {
	m.routines = m.accessor.Routines.GetAll(m.ctx)
	m.blocks = m.accessor.TimeBlocks.GetAll(m.ctx)
	m.records = m.accessor.HealthRecords.GetAll(m.ctx)
	m.clampCursors()
}

func (m *Model) clampCursors() {
	if n := len(m.visibleRoutines()); m.routineCursor >= n {
		m.routineCursor = max(n-1, 0)
	}
	if n := len(m.blocks); m.blockCursor >= n {
		m.blockCursor = max(n-1, 0)
	}
}

func (m Model) visibleRoutines() []models.Routine {
	return actions.FilterByCategory(m.routines, m.filter)
}

func (m Model) selectedRoutine() (models.Routine, bool) {
	visible := m.visibleRoutines()
	if m.routineCursor < 0 || m.routineCursor >= len(visible) {
		return models.Routine{}, false
	}
	return visible[m.routineCursor], true
}

func (m Model) selectedBlock() (models.TimeBlock, bool) {
	if m.blockCursor < 0 || m.blockCursor >= len(m.blocks) {
		return models.TimeBlock{}, false
	}
	return m.blocks[m.blockCursor], true
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateRoutines:
		keys = append(keys, m.keys.Start, m.keys.Complete, m.keys.Toggle, m.keys.Filter)
	case constants.StateBlocks:
		keys = append(keys, m.keys.Start, m.keys.Pause, m.keys.Stop, m.keys.Add)
	case constants.StateHealth:
		keys = append(keys, m.keys.Log)
	case constants.StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var acts []key.Binding
	switch m.state {
	case constants.StateRoutines:
		acts = []key.Binding{m.keys.Start, m.keys.Pause, m.keys.Complete, m.keys.Toggle, m.keys.Filter, m.keys.Delete}
	case constants.StateBlocks:
		acts = []key.Binding{m.keys.Start, m.keys.Pause, m.keys.Stop, m.keys.Reset, m.keys.Add, m.keys.Delete}
	case constants.StateHealth:
		acts = []key.Binding{m.keys.Log}
	}
	return [][]key.Binding{global, navigation, acts}
}
