package main

import (
	"context"
	"strings"
	"testing"

	"crystal-mem/internal/config"
	"crystal-mem/internal/game"
	"crystal-mem/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) *LocalState {
	t.Helper()
	cfg := config.Default()
	cfg.ResizeDebounce = 0
	cfg.FlightDuration = 0

	popup := &ui.Popup{}
	sess, err := game.NewSession(cfg, popup)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	s := newLocalState(context.Background(), sess, popup)
	s.Update(sess.Load(context.Background())())
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if !sess.Ready {
		t.Fatalf("assets did not load: %v", sess.LoadErr)
	}
	return s
}

func TestLocalState_KeyboardReveal(t *testing.T) {
	s := newTestModel(t)

	s.Update(tea.KeyMsg{Type: tea.KeyRight})
	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	if s.cursor != 6 {
		t.Fatalf("Expected cursor on tile 6, got %d", s.cursor)
	}
	s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if s.cursor != 5 {
		t.Errorf("Cursor should stop at the left edge, got %d", s.cursor)
	}

	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !s.Session.Game.State.IsRevealed(5) {
		t.Error("Enter should reveal the tile under the cursor")
	}
	if !strings.Contains(s.View(), "PROGRESS 1/3") {
		t.Error("View should show the updated progress")
	}
}

func TestLocalState_MouseReveal(t *testing.T) {
	s := newTestModel(t)
	cell := s.Session.Game.Frame.Cells[9]
	col, row := int(cell.X)+2, int(cell.Y/ui.CellAspect)+1

	s.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !s.Session.Game.State.IsRevealed(9) {
		t.Error("A left click on a tile should reveal it")
	}

	s.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if s.Session.Game.State.RevealedCount() != 1 {
		t.Error("Releases should be ignored")
	}
}

func TestLocalState_WinAndRestart(t *testing.T) {
	s := newTestModel(t)
	g := s.Session.Game

	target := g.State.Tiles()[0].Crystal
	for _, idx := range g.State.IndicesOf(target) {
		s.Session.Update(game.RevealTile{Index: idx})
	}
	if !s.Popup.Visible {
		t.Fatal("Popup should be visible after a win")
	}
	if !strings.Contains(s.View(), "Rounds won: 1") {
		t.Error("Popup should show session stats")
	}

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if s.Popup.Visible || g.State.Won() || g.State.Generation() != 2 {
		t.Error("r should start a new round")
	}
}

func TestSafeModel_RecoversPanics(t *testing.T) {
	s := newTestModel(t)
	s.Session.Game = nil

	m := wrapSafe(s, nil)
	tm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("A recovered panic should drop the command")
	}
	if tm.(safeModel).m.toast == "" {
		t.Error("A recovered panic should surface a toast")
	}
	if out := tm.View(); out != "Unexpected error (see logs)" {
		t.Errorf("View should recover too, got %q", out)
	}
}
