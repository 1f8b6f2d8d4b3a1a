package main

import (
	"context"
	"strings"

	"crystal-mem/internal/crystal"
	"crystal-mem/internal/game"
	"crystal-mem/internal/ui"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	toastStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

type LocalState struct {
	Session *game.Session
	Popup   *ui.Popup

	ctx     context.Context
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	// cursor is the keyboard-selected tile; it is only drawn once the
	// keyboard has been used.
	cursor   int
	keyboard bool

	width, height int
	toast         string
}

func newLocalState(ctx context.Context, sess *game.Session, popup *ui.Popup) *LocalState {
	return &LocalState{
		Session: sess,
		Popup:   popup,
		ctx:     ctx,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		help:    help.New(),
		keys:    keys,
	}
}

func (s *LocalState) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.Session.Load(s.ctx))
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.help.Width = msg.Width
		return s, s.Session.Update(game.Resize{Width: float64(msg.Width)})

	case spinner.TickMsg:
		if s.Session.Ready {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s, s.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return s, nil
		}
		s.toast = ""
		if s.Popup.Visible {
			return s, s.Session.Update(game.RestartRequested{})
		}
		return s, s.Session.Update(game.PointerDown{At: ui.ToLayout(msg.X, msg.Y)})
	}

	return s, s.Session.Update(msg)
}

func (s *LocalState) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Quit):
		return tea.Quit
	case key.Matches(msg, s.keys.Help):
		s.help.ShowAll = !s.help.ShowAll
		return nil
	}

	if !s.Session.Ready {
		return nil
	}
	s.toast = ""

	switch {
	case key.Matches(msg, s.keys.Restart):
		return s.Session.Update(game.RestartRequested{})
	case s.Popup.Visible && key.Matches(msg, s.keys.Reveal):
		return s.Session.Update(game.RestartRequested{})
	case key.Matches(msg, s.keys.Reveal):
		s.keyboard = true
		return s.Session.Update(game.RevealTile{Index: s.cursor})
	case key.Matches(msg, s.keys.Up):
		s.move(-crystal.Columns)
	case key.Matches(msg, s.keys.Down):
		s.move(crystal.Columns)
	case key.Matches(msg, s.keys.Left):
		if s.cursor%crystal.Columns > 0 {
			s.move(-1)
		}
	case key.Matches(msg, s.keys.Right):
		if s.cursor%crystal.Columns < crystal.Columns-1 {
			s.move(1)
		}
	}
	return nil
}

func (s *LocalState) move(delta int) {
	s.keyboard = true
	if next := s.cursor + delta; next >= 0 && next < crystal.TileCount {
		s.cursor = next
	}
}

func (s *LocalState) View() string {
	sess := s.Session
	if !sess.Ready {
		view := s.spinner.View() + " Loading crystals..."
		if sess.LoadErr != nil {
			view += "\n" + redStyle.Render("Could not load sprites: "+sess.LoadErr.Error())
		}
		return view
	}

	g := sess.Game
	cursor := -1
	if s.keyboard && !s.Popup.Visible {
		cursor = s.cursor
	}
	canvas := ui.Render(ui.Scene{
		Frame:     g.Frame,
		Tiles:     g.State.Tiles(),
		Progress:  g.State.Progress(),
		Assets:    sess.Assets,
		Flights:   g.Anim.Flights(),
		Animating: g.Anim.Animating,
		Cursor:    cursor,
	})

	var b strings.Builder
	if s.Popup.Visible {
		b.WriteString(s.Popup.Render(sess.Assets, g.Tally.Stats(), s.width, canvas.Height()))
	} else {
		b.WriteString(canvas.String())
	}
	if s.toast != "" {
		b.WriteString("\n" + toastStyle.Render(s.toast))
	}
	b.WriteString("\n" + s.help.View(s.keys))
	return b.String()
}
