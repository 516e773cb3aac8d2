package webhook

import "sync"

// seenSet is a bounded best-effort record of recently processed update ids.
// Duplicate webhook deliveries inside the window are dropped; anything that
// slips past must still be safe to reprocess downstream.
type seenSet struct {
	mu    sync.Mutex
	set   map[int64]struct{}
	order []int64
	cap   int
}

func newSeenSet(capacity int) *seenSet {
	return &seenSet{
		set: make(map[int64]struct{}, capacity),
		cap: capacity,
	}
}

// Seen records the id and reports whether it was already present.
func (s *seenSet) Seen(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.set[id]; ok {
		return true
	}

	s.set[id] = struct{}{}
	s.order = append(s.order, id)
	if len(s.order) > s.cap {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.set, oldest)
	}
	return false
}
