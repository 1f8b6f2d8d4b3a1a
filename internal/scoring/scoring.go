// Package scoring keeps a tally of the rounds won during one run.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"crystal-mem/internal/crystal"
)

// Tally records won rounds through a Storage and answers session stats.
type Tally struct {
	storage Storage
	history History
	wins    [crystal.Count]int
	now     func() time.Time

	previousBest *Entry
}

// NewTally creates a tally seeded from whatever storage already holds.
func NewTally(storage Storage) (*Tally, error) {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	t := &Tally{storage: storage, now: time.Now}

	entries, err := storage.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("could not load round history: %w", err)
	}
	for _, e := range entries {
		t.add(e)
	}
	t.history.Latest = nil
	return t, nil
}

func (t *Tally) add(e Entry) {
	if t.history.BestEntry == nil || better(e, *t.history.BestEntry) {
		best := e
		t.history.BestEntry = &best
	}
	t.history.Entries = append(t.history.Entries, e)
	if e.Winner.Valid() {
		t.wins[e.Winner.Index()]++
	}
}

// Record stores a won round. reveals is the number of tiles opened in it.
func (t *Tally) Record(winner crystal.Type, reveals int) (Entry, error) {
	e := Entry{
		Round:     len(t.history.Entries) + 1,
		Winner:    winner,
		Reveals:   reveals,
		Timestamp: t.now().Format(time.RFC3339),
	}

	previousBest := t.history.BestEntry
	t.add(e)
	latest := e
	t.history.Latest = &latest

	if err := t.storage.SaveAll(t.history.Entries); err != nil {
		return e, fmt.Errorf("could not save round history: %w", err)
	}

	// GotBest compares against the best before this round.
	t.previousBest = previousBest
	return e, nil
}

// Accessor methods, delegating to the history object.
func (t *Tally) Rounds() int {
	return len(t.history.Entries)
}

func (t *Tally) Wins(c crystal.Type) int {
	if !c.Valid() {
		return 0
	}
	return t.wins[c.Index()]
}

func (t *Tally) Best() *Entry {
	return t.history.BestEntry
}

func (t *Tally) GetNEntries(n int) []Entry {
	return t.history.GetNEntries(n)
}

func (t *Tally) GotBest() bool {
	h := History{BestEntry: t.previousBest, Latest: t.history.Latest}
	return h.GotBest()
}

// Stats are the lines shown in the win popup.
func (t *Tally) Stats() []string {
	if t.Rounds() == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("Rounds won: %d", t.Rounds())}
	if latest := t.history.Latest; latest != nil {
		lines = append(lines, fmt.Sprintf("Tiles opened: %d", latest.Reveals))
	}
	if best := t.Best(); best != nil {
		line := fmt.Sprintf("Best: %d tiles (round %d)", best.Reveals, best.Round)
		if t.GotBest() {
			line += " - new best!"
		}
		lines = append(lines, line)
	}

	var wins []string
	for _, c := range crystal.All() {
		if n := t.Wins(c); n > 0 {
			wins = append(wins, fmt.Sprintf("%s %d", c, n))
		}
	}
	if len(wins) > 0 {
		lines = append(lines, "Wins: "+strings.Join(wins, ", "))
	}
	return lines
}
