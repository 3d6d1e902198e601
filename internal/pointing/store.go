package pointing

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store provides thread-safe access to the current pointing table.
// Serve mode swaps the snapshot when the table file changes on disk.
type Store struct {
	snapshot atomic.Pointer[Snapshot]
	mu       sync.Mutex // serializes reloads
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current snapshot, or nil if none has been loaded.
func (s *Store) Get() *Snapshot {
	return s.snapshot.Load()
}

// Set atomically replaces the current snapshot.
func (s *Store) Set(snap *Snapshot) {
	s.snapshot.Store(snap)
}

// AgeSeconds returns the age of the current snapshot in seconds.
// Returns -1 if no table is loaded.
func (s *Store) AgeSeconds() float64 {
	snap := s.snapshot.Load()
	if snap == nil {
		return -1
	}
	return time.Since(snap.LoadedAt).Seconds()
}

// Lock acquires the reload mutex for serializing reload operations.
func (s *Store) Lock() {
	s.mu.Lock()
}

// Unlock releases the reload mutex.
func (s *Store) Unlock() {
	s.mu.Unlock()
}
