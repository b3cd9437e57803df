package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gearbox-lab/gearbox/internal/report"
)

const pairYAML = `
name: pair
components:
  - {id: motor, type: MOTOR, x: 0, y: 0, teeth: 8, speed: 60, direction: 1}
  - {id: gear, type: GEAR, x: 60, y: 0, teeth: 16}
`

const jammedYAML = `
name: pair
components:
  - {id: motor, type: MOTOR, x: 0, y: 0, teeth: 8, speed: 60, direction: 1}
  - {id: other, type: MOTOR, x: 0, y: 0, teeth: 8, speed: 120, direction: 1}
`

func writeScene(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestWatchInitialSolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	writeScene(t, path, pairYAML, time.Now())

	m := New(path, time.Second, report.NewStyles(false))
	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}
	if m.Solves() != 1 {
		t.Errorf("expected 1 solve, got %d", m.Solves())
	}
	if v := m.Result().Velocities["gear"]; v != -0.5 {
		t.Errorf("expected gear at -0.5, got %f", v)
	}
	if !strings.Contains(m.View(), "running") {
		t.Errorf("view missing table:\n%s", m.View())
	}
}

func TestWatchResolvesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	start := time.Now().Add(-time.Hour)
	writeScene(t, path, pairYAML, start)

	m := New(path, time.Second, report.NewStyles(false))

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("expected another tick to be scheduled")
	}
	if m.Solves() != 1 {
		t.Errorf("unchanged file should not be re-solved, got %d solves", m.Solves())
	}

	writeScene(t, path, jammedYAML, start.Add(time.Minute))
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)

	if m.Solves() != 2 {
		t.Fatalf("expected re-solve after change, got %d solves", m.Solves())
	}
	if len(m.Result().Jammed) != 2 {
		t.Errorf("expected 2 jammed motors, got %v", m.Result().Jammed)
	}
}

func TestWatchPauseAndForceReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	start := time.Now().Add(-time.Hour)
	writeScene(t, path, pairYAML, start)

	m := New(path, time.Second, report.NewStyles(false))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = next.(Model)
	if !m.Paused() {
		t.Fatal("expected paused")
	}

	writeScene(t, path, jammedYAML, start.Add(time.Minute))
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if m.Solves() != 1 {
		t.Errorf("paused model should not re-solve, got %d", m.Solves())
	}
	if !strings.Contains(m.View(), "paused") {
		t.Errorf("view should show paused state")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	if m.Solves() != 2 {
		t.Errorf("forced reload should re-solve, got %d", m.Solves())
	}
}

func TestWatchKeepsLastGoodResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	start := time.Now().Add(-time.Hour)
	writeScene(t, path, pairYAML, start)

	m := New(path, time.Second, report.NewStyles(false))
	writeScene(t, path, "components: [ {", start.Add(time.Minute))

	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)

	if m.Err() == nil {
		t.Fatal("expected parse error")
	}
	if m.Result() == nil || m.Result().Velocities["gear"] != -0.5 {
		t.Error("expected previous result to be kept")
	}
	if !strings.Contains(m.View(), "error:") {
		t.Errorf("view should show the error")
	}
}

func TestWatchRetriesFailedReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	start := time.Now().Add(-time.Hour)
	writeScene(t, path, pairYAML, start)

	m := New(path, time.Second, report.NewStyles(false))

	partial := start.Add(time.Minute)
	writeScene(t, path, "components: [ {", partial)
	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if m.Err() == nil {
		t.Fatal("expected parse error")
	}

	// the finished write lands with the same mtime as the partial one
	writeScene(t, path, jammedYAML, partial)
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)

	if m.Err() != nil {
		t.Fatalf("expected recovery, got %v", m.Err())
	}
	if m.Solves() != 2 {
		t.Errorf("expected 2 solves, got %d", m.Solves())
	}
	if !m.Result().IsJammed("other") {
		t.Errorf("expected the rewritten scene to be solved, got %v", m.Result().Jammed)
	}
}

func TestWatchMissingFile(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "missing.yaml"), time.Second, report.NewStyles(false))
	if m.Err() == nil {
		t.Error("expected error for missing file")
	}
	if m.Result() != nil {
		t.Error("expected no result")
	}
}

func TestWatchQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	writeScene(t, path, pairYAML, time.Now())
	m := New(path, time.Second, report.NewStyles(false))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
