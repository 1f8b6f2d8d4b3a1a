package scoring

import "sync"

// Storage defines the interface for loading and saving round entries.
// This allows swapping the storage layer during tests.
type Storage interface {
	// LoadAll loads all entries recorded so far.
	LoadAll() ([]Entry, error)
	// SaveAll replaces the stored entries.
	SaveAll(entries []Entry) error
}

// MemoryStorage keeps entries for the lifetime of the process only.
type MemoryStorage struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// LoadAll returns a copy of the stored entries.
func (m *MemoryStorage) LoadAll() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryStorage) SaveAll(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make([]Entry, len(entries))
	copy(m.entries, entries)
	return nil
}
