package interval

// activeSet is the set of row indices whose interval contains the sweep
// position.  It is a dense arena indexed by row: insert, remove and
// membership are O(1), reset is O(size), and iteration order depends only on
// the sequence of operations, never on hashing.
type activeSet struct {
	// slot[i] is 1 + the position of row i in members, or 0 if absent.
	slot    []uint32
	members []uint32
}

func newActiveSet(nRow int) *activeSet {
	return &activeSet{slot: make([]uint32, nRow)}
}

func (s *activeSet) insert(idx uint32) {
	if s.slot[idx] != 0 {
		return
	}
	s.members = append(s.members, idx)
	s.slot[idx] = uint32(len(s.members))
}

func (s *activeSet) remove(idx uint32) {
	pos := s.slot[idx]
	if pos == 0 {
		return
	}
	last := s.members[len(s.members)-1]
	s.members[pos-1] = last
	s.slot[last] = pos
	s.members = s.members[:len(s.members)-1]
	s.slot[idx] = 0
}

func (s *activeSet) contains(idx uint32) bool {
	return s.slot[idx] != 0
}

func (s *activeSet) len() int {
	return len(s.members)
}

// reset empties the set.  Called at every group change.
func (s *activeSet) reset() {
	for _, idx := range s.members {
		s.slot[idx] = 0
	}
	s.members = s.members[:0]
}
