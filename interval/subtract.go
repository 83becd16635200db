package interval

import (
	"github.com/grailbio/base/bitset"
	"golang.org/x/exp/slices"
)

// Subtract returns the parts of a's intervals not covered by any interval of
// b, sorted by row index (and by position within a row).  A row can yield
// zero, one or several fragments; empty fragments are never reported.  If b
// is empty, every row of a is returned unchanged.
func Subtract[G Group, P Pos](a, b Set[G, P]) (Fragments[P], error) {
	if err := validateJoin("Subtract", a, b, 0); err != nil {
		return Fragments[P]{}, err
	}
	if a.Len() == 0 || b.Len() == 0 {
		out := Fragments[P]{
			Idx:    make([]uint32, a.Len()),
			Starts: slices.Clone(a.Starts),
			Ends:   slices.Clone(a.Ends),
		}
		for i := range out.Idx {
			out.Idx[i] = uint32(i)
		}
		return out, nil
	}
	events := buildJoinEvents(a, b, 0)

	// A row of a is "capturing" while it is active and no b interval is;
	// captureStart[i] is where its current fragment began.
	captureStart := make([]P, a.Len())
	capturing := make([]uintptr, (a.Len()+bitset.BitsPerWord-1)/bitset.BitsPerWord)
	active1 := newActiveSet(a.Len())
	active2 := 0

	var frags []fragment[P]
	closeFragment := func(idx uint32, end P) {
		if bitset.Test(capturing, int(idx)) {
			if start := captureStart[idx]; start < end {
				frags = append(frags, fragment[P]{idx: idx, start: start, end: end})
			}
			bitset.Clear(capturing, int(idx))
		}
	}
	openFragment := func(idx uint32, start P) {
		captureStart[idx] = start
		bitset.Set(capturing, int(idx))
	}

	curGroup := events[0].group
	for _, e := range events {
		if e.group != curGroup {
			for _, idx := range active1.members {
				bitset.Clear(capturing, int(idx))
			}
			active1.reset()
			active2 = 0
			curGroup = e.group
		}
		switch {
		case e.first && e.isStart:
			active1.insert(e.idx)
			if active2 == 0 {
				openFragment(e.idx, e.pos)
			}
		case e.first:
			closeFragment(e.idx, e.pos)
			active1.remove(e.idx)
		case e.isStart:
			active2++
			if active2 == 1 {
				for _, idx := range active1.members {
					closeFragment(idx, e.pos)
				}
			}
		default:
			active2--
			if active2 == 0 {
				for _, idx := range active1.members {
					openFragment(idx, e.pos)
				}
			}
		}
	}
	slices.SortStableFunc(frags, func(x, y fragment[P]) int { return cmpUint32(x.idx, y.idx) })

	out := Fragments[P]{
		Idx:    make([]uint32, 0, len(frags)),
		Starts: make([]P, 0, len(frags)),
		Ends:   make([]P, 0, len(frags)),
	}
	for _, f := range frags {
		out.add(f.idx, f.start, f.end)
	}
	return out, nil
}

type fragment[P Pos] struct {
	idx        uint32
	start, end P
}
