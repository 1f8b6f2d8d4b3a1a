package state

import "crystal-mem/internal/crystal"

// RevealedCount is the number of uncovered tiles in the current round.
func (s *State) RevealedCount() int {
	n := 0
	for _, t := range s.tiles {
		if t.Revealed {
			n++
		}
	}
	return n
}

// Consistent reports whether the progress counters agree with the board:
// every counter matches the revealed tiles of its type and stays within the
// win threshold.
func (s *State) Consistent() bool {
	var counts Progress
	for _, t := range s.tiles {
		if t.Revealed {
			counts[t.Crystal.Index()]++
		}
	}
	if counts != s.progress {
		return false
	}
	for _, n := range s.progress {
		if n > crystal.WinThreshold {
			return false
		}
	}
	return counts.Total() == s.RevealedCount()
}

// IndicesOf returns the board indices holding crystal t, in board order.
func (s *State) IndicesOf(t crystal.Type) []int {
	var out []int
	for _, tile := range s.tiles {
		if tile.Crystal == t {
			out = append(out, tile.Index)
		}
	}
	return out
}

func (s *State) IsRevealed(index int) bool {
	if index < 0 || index >= crystal.TileCount {
		return false
	}
	return s.tiles[index].Revealed
}
