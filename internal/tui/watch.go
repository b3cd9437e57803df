package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gearbox-lab/gearbox/internal/mech"
	"github.com/gearbox-lab/gearbox/internal/report"
	"github.com/gearbox-lab/gearbox/internal/scene"
)

type tickMsg time.Time

// Model polls a scene file and re-solves it whenever the file changes.
type Model struct {
	path     string
	interval time.Duration
	styles   report.Styles

	scene   *scene.Scene
	result  *mech.Result
	modTime time.Time
	err     error
	paused  bool
	solves  int
	width   int
}

func New(path string, interval time.Duration, styles report.Styles) Model {
	m := Model{path: path, interval: interval, styles: styles, width: 80}
	m.refresh(true)
	return m
}

func (m Model) Result() *mech.Result { return m.result }
func (m Model) Err() error           { return m.err }
func (m Model) Solves() int          { return m.solves }
func (m Model) Paused() bool         { return m.paused }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.refresh(true)
		case "p", " ":
			m.paused = !m.paused
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		if !m.paused {
			m.refresh(false)
		}
		return m, m.tick()
	}
	return m, nil
}

// refresh re-reads the scene when its modification time moved or force is
// set. A failed reload keeps the last good result on screen and is retried on
// the next tick.
func (m *Model) refresh(force bool) {
	info, err := os.Stat(m.path)
	if err != nil {
		m.err = err
		return
	}
	if !force && m.scene != nil && info.ModTime().Equal(m.modTime) {
		return
	}
	sc, err := scene.Load(m.path)
	if err != nil {
		m.err = err
		return
	}
	if err := sc.Validate(); err != nil {
		m.err = err
		return
	}

	m.modTime = info.ModTime()
	m.scene = sc
	m.result = sc.Solve()
	m.solves++
	m.err = nil
}

func (m Model) View() string {
	var b strings.Builder

	if m.scene != nil {
		b.WriteString(report.Table(m.scene, m.result, m.styles))
		b.WriteString("\n")
		b.WriteString(report.Summary(m.scene, m.result, m.styles))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(m.styles.Jammed.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	state := "watching"
	if m.paused {
		state = "paused"
	}
	status := fmt.Sprintf("%s %s  solves: %d  q quit  r reload  p pause", state, m.path, m.solves)
	if len(status) > m.width && m.width > 0 {
		status = status[:m.width]
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Subtle.Render(status))
	b.WriteString("\n")
	return b.String()
}

func Run(path string, interval time.Duration, styles report.Styles) error {
	_, err := tea.NewProgram(New(path, interval, styles)).Run()
	return err
}
