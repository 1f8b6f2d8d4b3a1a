package state

import (
	"context"
	"errors"
	"fmt"

	"crystal-mem/internal/crystal"

	"github.com/looplab/fsm"
)

// Round phases.
const (
	PhasePlaying = "playing"
	PhaseWon     = "won"
)

var (
	ErrInvalidTile = errors.New("invalid tile index")
	ErrInvalidDeal = errors.New("invalid deal")
)

// Dealer supplies the crystal assignment for a new round.
type Dealer interface {
	Deal() []crystal.Type
}

type Tile struct {
	Index    int
	Crystal  crystal.Type
	Revealed bool
}

func (t Tile) Row() int { return t.Index / crystal.Columns }
func (t Tile) Col() int { return t.Index % crystal.Columns }

// Progress counts revealed tiles per crystal type. It is a value type, so
// a snapshot can never be used to mutate the round.
type Progress [crystal.Count]int

func (p Progress) Of(t crystal.Type) int {
	return p[t.Index()]
}

func (p Progress) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// RevealResult describes an applied reveal. It is the only signal the
// controller uses to drive animation and the win popup.
type RevealResult struct {
	TileIndex  int
	Crystal    crystal.Type
	NewCount   int
	WonNow     bool
	Generation uint64
}

// State owns the round: tiles, progress counters and the phase machine.
// Nothing outside this package mutates it except through Reveal and Restart.
type State struct {
	machine *fsm.FSM

	dealer     Dealer
	tiles      [crystal.TileCount]Tile
	progress   Progress
	winner     crystal.Type
	generation uint64
}

// New creates a State and deals its first round.
func New(dealer Dealer) (*State, error) {
	s := &State{dealer: dealer}
	s.machine = fsm.NewFSM(
		PhasePlaying,
		getStateTransitions(),
		getStateCallbacks(s),
	)
	if err := s.Restart(); err != nil {
		return nil, err
	}
	return s, nil
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "win", Src: []string{PhasePlaying}, Dst: PhaseWon},
		{Name: "restart", Src: []string{PhaseWon}, Dst: PhasePlaying},
	}
}

func getStateCallbacks(s *State) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_" + PhaseWon: func(_ context.Context, e *fsm.Event) {
			if len(e.Args) > 0 {
				s.winner = e.Args[0].(crystal.Type)
			}
		},
		"leave_" + PhaseWon: func(_ context.Context, _ *fsm.Event) {
			s.winner = 0
		},
	}
}

// Reveal uncovers the tile at index. It reports ok=false without error when
// the tile is already open or the round is already won, so duplicate and
// late input is harmless. An out-of-range index is a caller bug.
func (s *State) Reveal(index int) (RevealResult, bool, error) {
	if index < 0 || index >= crystal.TileCount {
		return RevealResult{}, false, fmt.Errorf("reveal tile %d: %w", index, ErrInvalidTile)
	}
	if s.machine.Is(PhaseWon) {
		return RevealResult{}, false, nil
	}

	tile := &s.tiles[index]
	if tile.Revealed {
		return RevealResult{}, false, nil
	}

	tile.Revealed = true
	s.progress[tile.Crystal.Index()]++
	count := s.progress[tile.Crystal.Index()]

	res := RevealResult{
		TileIndex:  index,
		Crystal:    tile.Crystal,
		NewCount:   count,
		Generation: s.generation,
	}

	if count == crystal.WinThreshold {
		if err := s.machine.Event(context.Background(), "win", tile.Crystal); err != nil {
			return RevealResult{}, false, fmt.Errorf("reveal tile %d: %w", index, err)
		}
		res.WonNow = true
	}

	return res, true, nil
}

// Restart deals a fresh round. It may be called in any phase. Each call
// advances the generation so completions tagged with an older generation
// can be recognised as stale.
func (s *State) Restart() error {
	assignment := s.dealer.Deal()
	if err := validateDeal(assignment); err != nil {
		return err
	}

	for i, c := range assignment {
		s.tiles[i] = Tile{Index: i, Crystal: c}
	}
	s.progress = Progress{}
	s.generation++

	if s.machine.Is(PhaseWon) {
		if err := s.machine.Event(context.Background(), "restart"); err != nil {
			return fmt.Errorf("restart round: %w", err)
		}
	}
	s.winner = 0
	return nil
}

func validateDeal(assignment []crystal.Type) error {
	if len(assignment) != crystal.TileCount {
		return fmt.Errorf("%w: got %d tiles, want %d", ErrInvalidDeal, len(assignment), crystal.TileCount)
	}
	var counts [crystal.Count]int
	for _, c := range assignment {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown crystal %v", ErrInvalidDeal, c)
		}
		counts[c.Index()]++
	}
	for i, n := range counts {
		if n != crystal.Copies {
			return fmt.Errorf("%w: %v appears %d times", ErrInvalidDeal, crystal.Type(i), n)
		}
	}
	return nil
}

// Tiles returns a copy of the board.
func (s *State) Tiles() []Tile {
	out := make([]Tile, len(s.tiles))
	copy(out, s.tiles[:])
	return out
}

func (s *State) Progress() Progress {
	return s.progress
}

func (s *State) Won() bool {
	return s.machine.Is(PhaseWon)
}

// Winner returns the type that completed the round, if any.
func (s *State) Winner() (crystal.Type, bool) {
	if !s.Won() {
		return 0, false
	}
	return s.winner, true
}

func (s *State) Phase() string {
	return s.machine.Current()
}

func (s *State) Generation() uint64 {
	return s.generation
}
