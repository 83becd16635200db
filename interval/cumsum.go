package interval

import "golang.org/x/exp/slices"

// GroupCumsum lays the intervals of each group end to end, in 5'->3' order
// (ascending on the forward strand, descending on the reverse strand), and
// returns each row's [start, end) in that concatenated coordinate space.
// The first interval of every group starts at 0.  Results are in sweep order
// unless sortByIdx is set.
func GroupCumsum[G Group, P Pos](s Set[G, P], sortByIdx bool) (Fragments[P], error) {
	if err := s.validate("GroupCumsum"); err != nil {
		return Fragments[P]{}, err
	}
	var out Fragments[P]
	if s.Len() == 0 {
		return out, nil
	}
	var reverse []bool
	if s.Strands != nil {
		reverse = make([]bool, s.Len())
		for i, fwd := range s.Strands {
			reverse[i] = !fwd
		}
	}
	rows := buildRows(s, reverse, 0)
	sortRows(rows, false)

	frags := make([]fragment[P], len(rows))
	var total P
	for i, r := range rows {
		if i > 0 && r.group != rows[i-1].group {
			total = 0
		}
		length := r.end - r.start
		if length < 0 {
			length = -length
		}
		frags[i] = fragment[P]{idx: r.idx, start: total, end: total + length}
		total += length
	}
	if sortByIdx {
		slices.SortFunc(frags, func(x, y fragment[P]) int { return cmpUint32(x.idx, y.idx) })
	}
	out.Idx = make([]uint32, 0, len(frags))
	out.Starts = make([]P, 0, len(frags))
	out.Ends = make([]P, 0, len(frags))
	for _, f := range frags {
		out.add(f.idx, f.start, f.end)
	}
	return out, nil
}
