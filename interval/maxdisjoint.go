package interval

import "golang.org/x/exp/slices"

// MaxDisjoint returns, in ascending order, the rows of a largest subset of s
// in which no two intervals of the same group overlap.  Two intervals are
// disjoint when the later one starts more than slack past the end of the
// earlier one.
//
// This is greedy earliest-end-first interval scheduling, run independently
// per group.
func MaxDisjoint[G Group, P Pos](s Set[G, P], slack P) ([]uint32, error) {
	if err := s.validate("MaxDisjoint"); err != nil {
		return nil, err
	}
	if err := checkSlack("MaxDisjoint", slack); err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		return nil, nil
	}
	rows := buildRows(s, nil, 0)
	sortRows(rows, true)

	out := []uint32{rows[0].idx}
	lastEnd := rows[0].end
	for i := 1; i < len(rows); i++ {
		r := rows[i]
		if r.group != rows[i-1].group || r.start > satAdd(lastEnd, slack) {
			out = append(out, r.idx)
			lastEnd = r.end
		}
	}
	slices.Sort(out)
	return out, nil
}
