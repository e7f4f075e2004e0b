package trust

import "sync"

// Slot is a mutable, process-wide CA setting. Every transport built by
// NewTransport trusts whatever the Default slot holds at construction time,
// so writes to it affect all HTTPS clients in the process.
//
// The held value is one of nil, Entry, []byte, string, []Entry or [][]byte;
// use Normalize to read it as a slice.
type Slot struct {
	mu sync.RWMutex
	ca any
}

// Default is the slot consulted by NewTransport. Platform trust store readers
// install what they discover here.
var Default = &Slot{}

// Load returns the current value.
func (s *Slot) Load() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ca
}

// Store replaces the current value.
func (s *Slot) Store(v any) {
	s.mu.Lock()
	s.ca = v
	s.mu.Unlock()
}

// Swap stores v and returns the previous value.
func (s *Slot) Swap(v any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.ca
	s.ca = v
	return old
}

// Entries returns the normalized contents of the slot.
func (s *Slot) Entries() []Entry {
	return Normalize(s.Load())
}
