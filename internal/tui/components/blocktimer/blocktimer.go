package blocktimer

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/countdown"
	"github.com/julianstephens/routinize/internal/models"
)

var (
	remainingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	stateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TickMsg is one second of a running countdown. Gen identifies the tick
// loop that produced it; ticks from a released loop are ignored.
type TickMsg struct {
	Gen int
	At  time.Time
}

func tick(gen int) tea.Cmd {
	return tea.Tick(constants.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, At: t}
	})
}

// Model keeps a countdown per time block. At most one of them runs, driven
// by a single tick loop.
type Model struct {
	timers  map[string]*countdown.Timer
	running string
	gen     int
	bar     progress.Model
}

func New() Model {
	return Model{
		timers: make(map[string]*countdown.Timer),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m *Model) SetWidth(width int) {
	m.bar.Width = width
}

// Timer returns the countdown of a block, created on first use from the
// block's stored state.
func (m *Model) Timer(b models.TimeBlock) *countdown.Timer {
	t, ok := m.timers[b.ID]
	if !ok {
		t = countdown.ForBlock(b)
		m.timers[b.ID] = t
	}
	return t
}

// Running is the id of the block whose countdown is running, if any.
func (m Model) Running() string {
	return m.running
}

func (m Model) Gen() int {
	return m.gen
}

// release invalidates the current tick loop.
func (m *Model) release() {
	m.running = ""
	m.gen++
}

// Start runs the countdown of b and pauses any other running countdown.
// Returns nil when the countdown cannot start.
func (m *Model) Start(b models.TimeBlock) tea.Cmd {
	if m.running != "" && m.running != b.ID {
		m.timers[m.running].Pause()
	}
	t := m.Timer(b)
	if t.State() == countdown.Completed {
		t.Reset()
	}
	if !t.Start() {
		return nil
	}
	m.release()
	m.running = b.ID
	return tick(m.gen)
}

func (m *Model) Pause(id string) {
	if t, ok := m.timers[id]; ok {
		t.Pause()
	}
	if m.running == id {
		m.release()
	}
}

func (m *Model) Stop(id string) {
	if t, ok := m.timers[id]; ok {
		t.Stop()
	}
	if m.running == id {
		m.release()
	}
}

func (m *Model) Reset(id string) {
	if t, ok := m.timers[id]; ok {
		t.Reset()
	}
	if m.running == id {
		m.release()
	}
}

// Forget drops the countdown of a deleted block.
func (m *Model) Forget(id string) {
	if m.running == id {
		m.release()
	}
	delete(m.timers, id)
}

// Update advances the running countdown. It returns the id of the block whose
// countdown reached zero, if any.
func (m *Model) Update(msg TickMsg) (tea.Cmd, string) {
	if msg.Gen != m.gen || m.running == "" {
		return nil, ""
	}
	id := m.running
	switch m.timers[id].Tick() {
	case countdown.Ticked:
		return tick(m.gen), ""
	case countdown.Expired:
		m.release()
		return nil, id
	default:
		m.release()
		return nil, ""
	}
}

// View renders the countdown of b with its progress bar.
func (m Model) View(b models.TimeBlock) string {
	t, ok := m.timers[b.ID]
	if !ok {
		t = countdown.ForBlock(b)
	}
	label := t.State().String()
	if t.Resumable() {
		label = "Paused · resume with s"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s  %s", remainingStyle.Render(t.Format()), stateStyle.Render(label)),
		m.bar.ViewAs(t.Progress()/100),
	)
}
