package sheet

// SharedStrings is the document-level pool of unique strings. Cells of type
// CellTypeSharedString hold an index into it.
type SharedStrings struct {
	items []string
	index map[string]int
}

// NewSharedStrings creates a pool seeded with items. Later duplicates of an
// item are kept as separate slots, as they may already be referenced.
func NewSharedStrings(items ...string) *SharedStrings {
	s := &SharedStrings{index: make(map[string]int, len(items))}
	for _, item := range items {
		s.items = append(s.items, item)
		if _, ok := s.index[item]; !ok {
			s.index[item] = len(s.items) - 1
		}
	}
	return s
}

// Get returns the string at slot i.
func (s *SharedStrings) Get(i int) (string, bool) {
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	return s.items[i], true
}

// Index returns the first slot holding exactly text.
func (s *SharedStrings) Index(text string) (int, bool) {
	i, ok := s.index[text]
	return i, ok
}

// Add returns the slot of text, appending a new slot only if no slot
// already holds it.
func (s *SharedStrings) Add(text string) int {
	if i, ok := s.index[text]; ok {
		return i
	}
	s.items = append(s.items, text)
	s.index[text] = len(s.items) - 1
	return len(s.items) - 1
}

// Len returns the number of slots.
func (s *SharedStrings) Len() int {
	return len(s.items)
}

// Items returns a copy of all slots in order.
func (s *SharedStrings) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
