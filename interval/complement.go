package interval

import (
	"github.com/grailbio/base/bitset"
	"golang.org/x/exp/slices"
)

// Complement returns the gaps between covered regions of each group.
//
// A gap opens where coverage drops to zero and closes where it next rises,
// unless that is at the same position.  At the end of each group an open gap
// is closed at lengths[group]; a group missing from lengths gets no trailing
// gap.  When includeFirst is set, the region between 0 and a group's first
// interval is also a gap.  Ends are widened by slack, so gaps narrower than
// slack vanish.
//
// Only groups that have at least one row are reported.
func Complement[G Group, P Pos](s Set[G, P], slack P, lengths map[G]P, includeFirst bool) (Gaps[G, P], error) {
	if err := s.validate("Complement"); err != nil {
		return Gaps[G, P]{}, err
	}
	if err := checkSlack("Complement", slack); err != nil {
		return Gaps[G, P]{}, err
	}
	var out Gaps[G, P]
	if s.Len() == 0 {
		return out, nil
	}
	emit := func(g G, start, end P, idx uint32) {
		if start >= end {
			return
		}
		out.Groups = append(out.Groups, g)
		out.Starts = append(out.Starts, start)
		out.Ends = append(out.Ends, end)
		out.Idx = append(out.Idx, idx)
	}
	events := buildEvents(s, slack)

	var (
		curGroup = events[0].group
		curIdx   = events[0].idx
		active   = 0
		inGap    = includeFirst
		gapStart P
	)
	closeGroup := func() {
		if length, ok := lengths[curGroup]; ok && inGap {
			emit(curGroup, gapStart, length, curIdx)
		}
	}
	for _, e := range events {
		if e.group != curGroup {
			closeGroup()
			curGroup = e.group
			curIdx = e.idx
			active = 0
			inGap = includeFirst
			gapStart = 0
		}
		if e.isStart {
			active++
			if active == 1 {
				if inGap && gapStart != e.pos {
					emit(curGroup, gapStart, e.pos, curIdx)
				}
				inGap = false
			}
			continue
		}
		active--
		if active == 0 {
			inGap = true
			gapStart = e.pos
		}
	}
	closeGroup()
	return out, nil
}

// NonOverlapping returns, in ascending order, the rows of a that overlap no
// row of b.  a is widened by slack.
//
// If either set is empty the result is empty, not all of a: nothing is
// reported as non-overlapping against an empty universe.
func NonOverlapping[G Group, P Pos](a, b Set[G, P], slack P) ([]uint32, error) {
	if err := validateJoin("NonOverlapping", a, b, slack); err != nil {
		return nil, err
	}
	if a.Len() == 0 || b.Len() == 0 {
		return nil, nil
	}
	events := buildJoinEvents(a, b, slack)
	// overlapped has one bit per row of a.
	overlapped := make([]uintptr, (a.Len()+bitset.BitsPerWord-1)/bitset.BitsPerWord)
	active1 := newActiveSet(a.Len())
	active2 := newActiveSet(b.Len())
	var out []uint32
	curGroup := events[0].group
	for _, e := range events {
		if e.group != curGroup {
			active1.reset()
			active2.reset()
			curGroup = e.group
		}
		switch {
		case e.isStart && e.first:
			if active2.len() > 0 {
				bitset.Set(overlapped, int(e.idx))
			}
			active1.insert(e.idx)
		case e.isStart:
			for _, idx1 := range active1.members {
				bitset.Set(overlapped, int(idx1))
			}
			active2.insert(e.idx)
		case e.first:
			active1.remove(e.idx)
			if !bitset.Test(overlapped, int(e.idx)) {
				out = append(out, e.idx)
			}
		default:
			active2.remove(e.idx)
		}
	}
	slices.Sort(out)
	return out, nil
}
