package postal

import "sync"

// Sequencer orders overlapping lookups for one address form so that only
// the most recently issued request may apply its result.
type Sequencer struct {
	mu     sync.Mutex
	issued uint64
}

// Begin issues the sequence number for a new lookup.
func (s *Sequencer) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Apply runs fn only if seq is still the latest issued number and reports
// whether it ran. fn executes under the sequencer lock.
func (s *Sequencer) Apply(seq uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.issued {
		return false
	}
	fn()
	return true
}

// Sequencers keeps one Sequencer per key, typically a browsing session. A
// key is dropped once none of its lookups are in flight.
type Sequencers struct {
	mu   sync.Mutex
	keys map[string]*keyedSequencer
}

type keyedSequencer struct {
	Sequencer
	inflight int
}

func NewSequencers() *Sequencers {
	return &Sequencers{keys: make(map[string]*keyedSequencer)}
}

// Begin issues the next sequence number for key.
func (s *Sequencers) Begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ks, ok := s.keys[key]
	if !ok {
		ks = &keyedSequencer{}
		s.keys[key] = ks
	}
	ks.inflight++
	return ks.Begin()
}

// Finish ends the lookup issued seq for key and reports whether it is still
// the latest one, i.e. its result may be applied.
func (s *Sequencers) Finish(key string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ks, ok := s.keys[key]
	if !ok {
		return false
	}
	latest := ks.Apply(seq, func() {})
	ks.inflight--
	if ks.inflight <= 0 {
		delete(s.keys, key)
	}
	return latest
}

// Len is the number of keys with lookups in flight.
func (s *Sequencers) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
