package scoring

import (
	"testing"

	"crystal-mem/internal/crystal"
)

func TestMemoryStorage_SaveAndLoad(t *testing.T) {
	storage := NewMemoryStorage()

	// 1. Load on empty storage.
	entries, err := storage.LoadAll()
	if err != nil {
		t.Errorf("LoadAll on empty storage returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries, got %d", len(entries))
	}

	// 2. Save.
	testEntries := []Entry{
		{Round: 1, Winner: crystal.Blue, Reveals: 6, Timestamp: "2023-01-01"},
		{Round: 2, Winner: crystal.Red, Reveals: 9, Timestamp: "2023-01-02"},
	}
	if err := storage.SaveAll(testEntries); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	// 3. Load again.
	loaded, err := storage.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if len(loaded) != len(testEntries) {
		t.Fatalf("Expected %d entries, got %d", len(testEntries), len(loaded))
	}
	if loaded[0].Winner != crystal.Blue || loaded[1].Reveals != 9 {
		t.Errorf("Loaded content mismatch. Got: %+v", loaded)
	}
}

func TestMemoryStorage_Copies(t *testing.T) {
	storage := NewMemoryStorage()
	entries := []Entry{{Round: 1, Reveals: 5}}
	_ = storage.SaveAll(entries)

	entries[0].Reveals = 99
	loaded, _ := storage.LoadAll()
	if loaded[0].Reveals != 5 {
		t.Error("SaveAll should keep its own copy")
	}

	loaded[0].Reveals = 42
	again, _ := storage.LoadAll()
	if again[0].Reveals != 5 {
		t.Error("LoadAll should return a copy")
	}
}
