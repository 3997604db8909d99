package generator

// entryStack is a LIFO buffer for pending manifest entries.
//
// The reversed order is part of the generator's observable contract:
// a generation step pushes entries in production order and Next returns
// them newest-first. Downstream tests key off this emission sequence,
// so this is deliberately a stack and must not become a FIFO queue.
type entryStack struct {
	entries []ManifestEntry
}

func newEntryStack() *entryStack {
	return &entryStack{entries: make([]ManifestEntry, 0)}
}

// Push adds an entry on top of the stack
func (s *entryStack) Push(entry ManifestEntry) {
	s.entries = append(s.entries, entry)
}

// Pop removes and returns the most recently pushed entry.
// The second return value is false if the stack is empty.
func (s *entryStack) Pop() (ManifestEntry, bool) {
	if len(s.entries) == 0 {
		return ManifestEntry{}, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// Peek returns the most recently pushed entry without removing it
func (s *entryStack) Peek() (ManifestEntry, bool) {
	if len(s.entries) == 0 {
		return ManifestEntry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// IsEmpty returns true if the stack holds no entries
func (s *entryStack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of buffered entries
func (s *entryStack) Len() int {
	return len(s.entries)
}

// Clear removes all buffered entries
func (s *entryStack) Clear() {
	s.entries = s.entries[:0]
}
