package game

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"crystal-mem/internal/anim"
	"crystal-mem/internal/assets"
	"crystal-mem/internal/config"
	"crystal-mem/internal/crystal"
	"crystal-mem/internal/deal"
	"crystal-mem/internal/layout"
	"crystal-mem/internal/logger"
	"crystal-mem/internal/scoring"
	"crystal-mem/internal/state"

	tea "github.com/charmbracelet/bubbletea"
)

// AssetsLoadedMsg reports the outcome of Session.Load.
type AssetsLoadedMsg struct {
	Set *assets.Set
	Err error
}

// Session gates the game behind asset loading. Until the sprites are in,
// only resizes reach the game.
type Session struct {
	Loader *assets.Loader
	Assets *assets.Set
	Game   *Game

	Ready   bool
	LoadErr error
}

// NewSession builds a game from cfg with a freshly dealt round.
func NewSession(cfg config.Config, popup Popup) (*Session, error) {
	var fsys fs.FS = assets.Embedded()
	if cfg.AssetsDir != "" {
		fsys = os.DirFS(cfg.AssetsDir)
	}

	st, err := state.New(deal.New(nil))
	if err != nil {
		return nil, fmt.Errorf("deal first round: %w", err)
	}

	tally, err := scoring.NewTally(scoring.NewMemoryStorage())
	if err != nil {
		return nil, err
	}

	coord := anim.NewCoordinator(st.Generation(),
		anim.WithFPS(cfg.FPS),
		anim.WithDuration(cfg.FlightDuration),
	)

	g := NewGame(st, layout.NewEngine(0), coord, popup, tally,
		WithResizeDebounce(cfg.ResizeDebounce),
	)

	return &Session{
		Loader: assets.NewLoader(fsys),
		Game:   g,
	}, nil
}

// Load returns a command that loads every sprite.
func (s *Session) Load(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		set, err := s.Loader.LoadAll(ctx)
		return AssetsLoadedMsg{Set: set, Err: err}
	}
}

// Update routes msg to the game once assets are ready.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case AssetsLoadedMsg:
		s.assetsLoaded(m)
		return nil
	case Resize, resizeSettled, anim.FrameMsg:
		return s.Game.Update(msg)
	}

	if !s.Ready {
		return nil
	}
	return s.Game.Update(msg)
}

func (s *Session) assetsLoaded(m AssetsLoadedMsg) {
	if m.Err != nil {
		s.LoadErr = m.Err
		logger.L().Error().Err(m.Err).Msg("assets.load_failed")
		return
	}

	s.Assets = m.Set
	s.LoadErr = nil
	s.Ready = true
	s.Game.Anim.SetSpriteCheck(func(t crystal.Type) error {
		_, err := s.Assets.Mini(t)
		return err
	})
	logger.L().Info().Msg("assets.loaded")
}
