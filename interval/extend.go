package interval

import "golang.org/x/exp/slices"

// ExtendOpts configures Extend.  Exactly one of Ext, or at least one of
// Ext3/Ext5, must be set.
type ExtendOpts[P Pos] struct {
	// Ext widens both sides of every interval.
	Ext *P
	// Ext3 and Ext5 widen the 3' and 5' sides.  On the forward strand 5' is
	// the start; on the reverse strand it is the end.
	Ext3, Ext5 *P
	// Grouped treats each group as a single feature: only the row with the
	// smallest start and the row with the largest end of each group are
	// moved.  The strand of the smallest-start row orients the group.
	Grouped bool
}

// Extend returns a copy of s with widened intervals.  Groups and Strands are
// shared with s; Starts and Ends are new.  Rows without strand information
// are treated as forward.
func Extend[G Group, P Pos](s Set[G, P], opts ExtendOpts[P]) (Set[G, P], error) {
	if err := s.validate("Extend"); err != nil {
		return Set[G, P]{}, err
	}
	if (opts.Ext != nil) == (opts.Ext3 != nil || opts.Ext5 != nil) {
		return Set[G, P]{}, invalidf("interval.Extend: must use at least one and not both of ext and ext3/ext5")
	}
	var ext3, ext5 P
	if opts.Ext != nil {
		ext3, ext5 = *opts.Ext, *opts.Ext
	}
	if opts.Ext3 != nil {
		ext3 = *opts.Ext3
	}
	if opts.Ext5 != nil {
		ext5 = *opts.Ext5
	}
	forward := func(i int) bool { return s.Strands == nil || s.Strands[i] }

	out := Set[G, P]{
		Groups:  s.Groups,
		Starts:  slices.Clone(s.Starts),
		Ends:    slices.Clone(s.Ends),
		Strands: s.Strands,
	}
	if !opts.Grouped {
		for i := range out.Starts {
			if forward(i) {
				out.Starts[i] -= ext5
				out.Ends[i] += ext3
			} else {
				out.Starts[i] -= ext3
				out.Ends[i] += ext5
			}
		}
		return out, nil
	}

	type extrema struct{ minStart, maxEnd int }
	byGroup := make(map[G]*extrema)
	var order []G
	for i, g := range s.Groups {
		x, ok := byGroup[g]
		if !ok {
			byGroup[g] = &extrema{i, i}
			order = append(order, g)
			continue
		}
		if s.Starts[i] < s.Starts[x.minStart] {
			x.minStart = i
		}
		if s.Ends[i] > s.Ends[x.maxEnd] {
			x.maxEnd = i
		}
	}
	for _, g := range order {
		x := byGroup[g]
		if forward(x.minStart) {
			out.Starts[x.minStart] -= ext5
			out.Ends[x.maxEnd] += ext3
		} else {
			out.Starts[x.minStart] -= ext3
			out.Ends[x.maxEnd] += ext5
		}
	}
	return out, nil
}
