package app

import "sync"

// Sequencer keeps the latest result of overlapping asynchronous analyses.
// Callers take a number with Next before starting work and hand the result
// to Accept when it finishes; a result that completes after a newer one was
// already accepted is dropped. Each caller owns its own Sequencer.
type Sequencer[T any] struct {
	mu       sync.Mutex
	issued   uint64
	accepted uint64
	latest   T
	has      bool
}

// Next issues the next submission number, starting at 1
func (s *Sequencer[T]) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Accept stores v when seq is not older than the last accepted submission
// and reports whether it did.
func (s *Sequencer[T]) Accept(seq uint64, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == 0 || seq > s.issued || seq < s.accepted {
		return false
	}
	s.accepted = seq
	s.latest = v
	s.has = true
	return true
}

// Latest returns the most recently accepted value
func (s *Sequencer[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.has
}
