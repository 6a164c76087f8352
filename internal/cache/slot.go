// Package cache holds the single-slot raster cache that bridges pre-warm
// acquisition and the copy action.
//
// The cache stores at most one encoded image at a time, keyed by the source
// it was fetched for. A new interaction target clears the slot immediately
// (before any fetch for it starts) via SetTarget; a fetch that completes
// later commits its result only if its key still matches the live target.
// That discipline is what keeps a slow, superseded fetch from poisoning the
// slot with bytes for an older target.
package cache

import "sync"

// Entry is the cached raster: the encoded bytes together with the source key
// they were fetched for and the encoding they carry.
type Entry struct {
	Key    string
	Data   []byte
	Format string
}

// Slot is a single-entry, last-write-wins cache. It is safe for concurrent
// use: pre-warm fetches commit from their own goroutines while the copy
// path reads from the message loop.
type Slot struct {
	mu     sync.Mutex
	target string
	entry  *Entry
}

// Get returns the cached entry only if key matches the stored entry's key
// exactly. A mismatch is a miss, never a partial answer.
func (s *Slot) Get(key string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == nil || s.entry.Key != key {
		return nil, false
	}
	return s.entry, true
}

// Put unconditionally overwrites the slot.
func (s *Slot) Put(key string, data []byte, format string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = &Entry{Key: key, Data: data, Format: format}
}

// Invalidate clears the slot eagerly.
func (s *Slot) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = nil
}

// SetTarget records key as the current interaction target. If the target
// changed, the slot is cleared in the same critical section, so no stale
// entry survives past the moment a new target is seen.
func (s *Slot) SetTarget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target != key {
		s.target = key
		s.entry = nil
	}
}

// Target returns the current interaction target key.
func (s *Slot) Target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Commit stores the entry only if key is still the current target, checking
// and writing atomically. It reports whether the entry was stored. A fetch
// started for a target that has since changed commits nothing; its result is
// simply discarded.
func (s *Slot) Commit(key string, data []byte, format string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target != key {
		return false
	}
	s.entry = &Entry{Key: key, Data: data, Format: format}
	return true
}
