package scoring

import (
	"sort"

	"crystal-mem/internal/crystal"
)

// History holds every won round of the session and the best one so far.
type History struct {
	Entries   []Entry
	BestEntry *Entry
	Latest    *Entry
}

// Entry represents a single won round.
type Entry struct {
	Round     int          `json:"round"`
	Winner    crystal.Type `json:"winner"`
	Reveals   int          `json:"reveals"`
	Timestamp string       `json:"timestamp"`
}

// better reports whether a beats b: fewer reveals, then the earlier round.
func better(a, b Entry) bool {
	if a.Reveals != b.Reveals {
		return a.Reveals < b.Reveals
	}
	return a.Round < b.Round
}

// GetNEntries returns the best N entries, fewest reveals first.
func (h History) GetNEntries(n int) []Entry {
	// Make a copy to avoid modifying the original slice.
	entriesCopy := make([]Entry, len(h.Entries))
	copy(entriesCopy, h.Entries)

	sort.Slice(entriesCopy, func(i, j int) bool {
		return better(entriesCopy[i], entriesCopy[j])
	})

	if n < 0 || len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}

// GotBest checks if the latest round matched or beat every earlier round.
func (h History) GotBest() bool {
	if h.Latest == nil {
		return false
	}
	if h.BestEntry == nil {
		return true
	}
	return h.Latest.Reveals <= h.BestEntry.Reveals
}
