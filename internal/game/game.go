package game

import (
	"time"

	"crystal-mem/internal/anim"
	"crystal-mem/internal/crystal"
	"crystal-mem/internal/layout"
	"crystal-mem/internal/logger"
	"crystal-mem/internal/scoring"
	"crystal-mem/internal/state"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

const DefaultResizeDebounce = 50 * time.Millisecond

// Popup is the win dialog the game drives.
type Popup interface {
	Show(t crystal.Type)
	Hide()
}

// Commands accepted by Game.Update.
type (
	// RevealTile asks to open a tile. Pointer is where the input happened;
	// the zero point means the center of the tile.
	RevealTile struct {
		Index   int
		Pointer layout.Point
	}

	// PointerDown is a press anywhere on the board.
	PointerDown struct {
		At layout.Point
	}

	Resize struct {
		Width float64
	}

	RestartRequested struct{}
)

// resizeSettled fires when the debounce window of resize seq has passed.
type resizeSettled struct {
	seq   uint64
	width float64
}

// Game encapsulates the controller logic, independent of the UI.
type Game struct {
	State  *state.State
	Layout *layout.Engine
	Anim   *anim.Coordinator
	Popup  Popup
	Tally  *scoring.Tally

	// Frame is the geometry for the last settled width.
	Frame layout.Frame

	debounce  time.Duration
	resizeSeq uint64
	locked    bool
	after     anim.TickFunc
	log       *zerolog.Logger
}

type Option func(*Game)

// WithResizeDebounce sets the trailing-edge resize delay. Zero applies
// every resize immediately.
func WithResizeDebounce(d time.Duration) Option {
	return func(g *Game) {
		if d >= 0 {
			g.debounce = d
		}
	}
}

func WithTimer(fn anim.TickFunc) Option {
	return func(g *Game) {
		g.after = fn
	}
}

func WithLogger(l *zerolog.Logger) Option {
	return func(g *Game) {
		g.log = l
	}
}

// NewGame wires a round to its layout, animation and popup.
func NewGame(st *state.State, engine *layout.Engine, coord *anim.Coordinator, popup Popup, tally *scoring.Tally, opts ...Option) *Game {
	g := &Game{
		State:    st,
		Layout:   engine,
		Anim:     coord,
		Popup:    popup,
		Tally:    tally,
		Frame:    engine.Frame(),
		debounce: DefaultResizeDebounce,
		after:    tea.Tick,
		log:      logger.L(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Update dispatches a command or an animation frame.
func (g *Game) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case RevealTile:
		cmd, _ := g.Reveal(m)
		return cmd
	case PointerDown:
		return g.pointerDown(m)
	case Resize:
		return g.Resize(m.Width)
	case resizeSettled:
		if m.seq == g.resizeSeq {
			g.applyWidth(m.width)
		}
		return nil
	case RestartRequested:
		// Restart logs a failed deal and keeps the current round on screen.
		_ = g.Restart()
		return nil
	case anim.FrameMsg:
		return g.Anim.Update(m)
	}
	return nil
}

// Locked reports whether board input is ignored, which is the case while
// the win popup is up.
func (g *Game) Locked() bool {
	return g.locked
}

func (g *Game) pointerDown(m PointerDown) tea.Cmd {
	idx, ok := g.Frame.CellAt(m.At)
	if !ok {
		return nil
	}
	cmd, _ := g.Reveal(RevealTile{Index: idx, Pointer: m.At})
	return cmd
}

// Reveal opens a tile and starts the flight of its mini crystal. The
// counters are updated before the flight is scheduled.
func (g *Game) Reveal(cmd RevealTile) (tea.Cmd, error) {
	if g.locked {
		g.log.Debug().Int("tile", cmd.Index).Msg("reveal.ignored_locked")
		return nil, nil
	}

	res, ok, err := g.State.Reveal(cmd.Index)
	if err != nil {
		g.log.Error().Err(err).Int("tile", cmd.Index).Msg("reveal.failed")
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	g.log.Info().
		Int("tile", res.TileIndex).
		Str("crystal", res.Crystal.String()).
		Int("count", res.NewCount).
		Uint64("generation", res.Generation).
		Msg("reveal.applied")

	origin := cmd.Pointer
	if origin == (layout.Point{}) {
		origin = g.Frame.Cells[res.TileIndex].Center()
	}
	slot := layout.SlotIndex(res.Crystal, res.NewCount-1)
	flight := g.Anim.Play(anim.Request{
		Origin:      origin,
		Destination: g.Frame.Slots[slot].Center(),
		Crystal:     res.Crystal,
		Slot:        slot,
		Generation:  res.Generation,
	}, g.flightDone)

	if res.WonNow {
		g.win(res)
	}
	return flight, nil
}

func (g *Game) win(res state.RevealResult) {
	g.locked = true
	g.Popup.Show(res.Crystal)

	reveals := g.State.RevealedCount()
	if g.Tally != nil {
		if _, err := g.Tally.Record(res.Crystal, reveals); err != nil {
			g.log.Warn().Err(err).Msg("round.record_failed")
		}
	}
	g.log.Info().
		Str("crystal", res.Crystal.String()).
		Int("reveals", reveals).
		Uint64("generation", res.Generation).
		Msg("round.won")
}

func (g *Game) flightDone(req anim.Request, err error) {
	if err != nil {
		g.log.Warn().Err(err).Int("slot", req.Slot).Msg("anim.flight_failed")
		return
	}
	g.log.Debug().Int("slot", req.Slot).Uint64("generation", req.Generation).Msg("anim.landed")
}

// Restart deals a new round. A failed deal leaves everything as it was.
func (g *Game) Restart() error {
	if err := g.State.Restart(); err != nil {
		g.log.Error().Err(err).Msg("round.restart_failed")
		return err
	}
	g.Popup.Hide()
	g.Anim.Reset(g.State.Generation())
	g.locked = false
	g.Frame = g.Layout.Frame()

	g.log.Info().Uint64("generation", g.State.Generation()).Msg("round.restarted")
	return nil
}

// Resize records a new viewport width. Only the last width of a burst is
// applied, once the debounce window has passed without another resize.
func (g *Game) Resize(width float64) tea.Cmd {
	g.resizeSeq++
	if g.debounce <= 0 {
		g.applyWidth(width)
		return nil
	}

	msg := resizeSettled{seq: g.resizeSeq, width: width}
	return g.after(g.debounce, func(time.Time) tea.Msg {
		return msg
	})
}

func (g *Game) applyWidth(width float64) {
	g.Layout.UpdateWidth(width)
	g.Frame = g.Layout.Frame()
	g.Anim.Retarget(func(r anim.Request) layout.Point {
		return g.Frame.Slots[r.Slot].Center()
	})
	g.log.Debug().Float64("width", width).Msg("layout.resized")
}
