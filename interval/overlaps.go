package interval

import (
	"github.com/grailbio/base/log"
	"golang.org/x/exp/slices"
)

// OverlapOpts configures Overlaps.  The zero value reports every pair with
// no slack.
type OverlapOpts[P Pos] struct {
	// Slack widens every first-set interval by this much on both sides.
	Slack P
	// Type selects all pairs, or only the first or last pair per first-set
	// row in sweep order.
	Type OverlapType
	// Contained restricts the result to pairs where the (widened) first-set
	// interval lies entirely within the second-set interval.
	Contained bool
	// SortOutput sorts pairs by (first-set row, second-set row).  Pairs are
	// otherwise in sweep order.  OverlapFirst and OverlapLast always sort by
	// first-set row.
	SortOutput bool
}

// Overlaps returns every pair (i, j) such that a's row i intersects b's row
// j under half-open semantics.  Intervals that merely touch do not overlap
// unless opts.Slack is positive.
func Overlaps[G Group, P Pos](a, b Set[G, P], opts OverlapOpts[P]) (Pairs, error) {
	if err := validateJoin("Overlaps", a, b, opts.Slack); err != nil {
		return Pairs{}, err
	}
	switch opts.Type {
	case OverlapAll, OverlapFirst, OverlapLast:
	default:
		return Pairs{}, invalidf("interval.Overlaps: invalid overlap type %v", opts.Type)
	}
	if a.Len() == 0 || b.Len() == 0 {
		return Pairs{}, nil
	}
	var pairs Pairs
	if opts.Contained {
		pairs = sweepContained(a, b, opts.Slack)
	} else {
		pairs = sweepOverlaps(a, b, opts.Slack)
	}
	switch opts.Type {
	case OverlapFirst:
		pairs = keepFirstByIdx(sortPairsByIdx(pairs))
	case OverlapLast:
		pairs = keepLastByIdx(sortPairsByIdx(pairs))
	default:
		if opts.SortOutput {
			pairs = sortPairs(pairs)
		}
	}
	log.Debug.Printf("interval.Overlaps: %d x %d rows -> %d pairs", a.Len(), b.Len(), pairs.Len())
	return pairs, nil
}

// CountOverlaps returns, for each row of a, the number of rows of b it
// overlaps.  It runs the same sweep as Overlaps without storing pairs.
func CountOverlaps[G Group, P Pos](a, b Set[G, P], slack P) ([]uint32, error) {
	if err := validateJoin("CountOverlaps", a, b, slack); err != nil {
		return nil, err
	}
	counts := make([]uint32, a.Len())
	if a.Len() == 0 || b.Len() == 0 {
		return counts, nil
	}
	joinSweep(a, b, slack, func(idx1 uint32, _ uint32) {
		counts[idx1]++
	})
	return counts, nil
}

func validateJoin[G Group, P Pos](op string, a, b Set[G, P], slack P) error {
	if err := a.validate(op); err != nil {
		return err
	}
	if err := b.validate(op); err != nil {
		return err
	}
	return checkSlack(op, slack)
}

func sweepOverlaps[G Group, P Pos](a, b Set[G, P], slack P) Pairs {
	var pairs Pairs
	joinSweep(a, b, slack, func(idx1, idx2 uint32) {
		pairs.Idx = append(pairs.Idx, idx1)
		pairs.Idx2 = append(pairs.Idx2, idx2)
	})
	return pairs
}

// joinSweep calls emit for every overlapping (a row, b row) pair.  A start
// event of one collection overlaps everything currently active in the other.
func joinSweep[G Group, P Pos](a, b Set[G, P], slack P, emit func(idx1, idx2 uint32)) {
	events := buildJoinEvents(a, b, slack)
	active1 := newActiveSet(a.Len())
	active2 := newActiveSet(b.Len())
	curGroup := events[0].group
	for _, e := range events {
		if e.group != curGroup {
			active1.reset()
			active2.reset()
			curGroup = e.group
		}
		switch {
		case e.isStart && e.first:
			for _, idx2 := range active2.members {
				emit(e.idx, idx2)
			}
			active1.insert(e.idx)
		case e.isStart:
			for _, idx1 := range active1.members {
				emit(idx1, e.idx)
			}
			active2.insert(e.idx)
		case e.first:
			active1.remove(e.idx)
		default:
			active2.remove(e.idx)
		}
	}
}

// sweepContained is joinSweep with the extra test that the widened first-set
// interval lies within the second-set interval.
func sweepContained[G Group, P Pos](a, b Set[G, P], slack P) Pairs {
	var pairs Pairs
	contained := func(i, j uint32) bool {
		return b.Starts[j] <= satSub(a.Starts[i], slack) && satAdd(a.Ends[i], slack) <= b.Ends[j]
	}
	joinSweep(a, b, slack, func(idx1, idx2 uint32) {
		if contained(idx1, idx2) {
			pairs.Idx = append(pairs.Idx, idx1)
			pairs.Idx2 = append(pairs.Idx2, idx2)
		}
	})
	return pairs
}

type pair struct {
	idx, idx2 uint32
}

// sortPairs sorts by (idx, idx2).
func sortPairs(p Pairs) Pairs {
	ps := make([]pair, p.Len())
	for i := range ps {
		ps[i] = pair{p.Idx[i], p.Idx2[i]}
	}
	slices.SortFunc(ps, func(x, y pair) int {
		switch {
		case x.idx != y.idx:
			return cmpUint32(x.idx, y.idx)
		default:
			return cmpUint32(x.idx2, y.idx2)
		}
	})
	for i, q := range ps {
		p.Idx[i], p.Idx2[i] = q.idx, q.idx2
	}
	return p
}

// sortPairsByIdx stably sorts by idx alone, so the pairs of each row stay in
// sweep order.
func sortPairsByIdx(p Pairs) Pairs {
	ps := make([]pair, p.Len())
	for i := range ps {
		ps[i] = pair{p.Idx[i], p.Idx2[i]}
	}
	slices.SortStableFunc(ps, func(x, y pair) int {
		return cmpUint32(x.idx, y.idx)
	})
	for i, q := range ps {
		p.Idx[i], p.Idx2[i] = q.idx, q.idx2
	}
	return p
}

func cmpUint32(x, y uint32) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// keepFirstByIdx keeps the first pair of every run of equal Idx values.  On
// input sorted by Idx this is the first pair per row.
func keepFirstByIdx(p Pairs) Pairs {
	var out Pairs
	for i, idx := range p.Idx {
		if i > 0 && p.Idx[i-1] == idx {
			continue
		}
		out.Idx = append(out.Idx, idx)
		out.Idx2 = append(out.Idx2, p.Idx2[i])
	}
	return out
}

// keepLastByIdx keeps the last pair of every run of equal Idx values.
func keepLastByIdx(p Pairs) Pairs {
	var out Pairs
	n := p.Len()
	for i, idx := range p.Idx {
		if i+1 < n && p.Idx[i+1] == idx {
			continue
		}
		out.Idx = append(out.Idx, idx)
		out.Idx2 = append(out.Idx2, p.Idx2[i])
	}
	return out
}

// stream identifies one of the four sorted point streams of a separated
// sweep.  Ends are listed first: at equal (group, pos) they win.
type stream int

const (
	endsA stream = iota
	endsB
	startsA
	startsB
	nStream
)

// fourWaySweep merges separately sorted start and end streams of two sets,
// ends before starts at equal positions, and calls emit for every
// overlapping pair.  It resets the active sets at each group change.
func fourWaySweep[G Group, P Pos](streams [nStream][]point[G, P], nA, nB int, emit func(idx1, idx2 uint32)) {
	if len(streams[startsA]) == 0 || len(streams[startsB]) == 0 {
		return
	}
	var heads [nStream]int
	active1 := newActiveSet(nA)
	active2 := newActiveSet(nB)
	first := true
	var curGroup G
	for {
		which := nStream
		for s := endsA; s < nStream; s++ {
			if heads[s] == len(streams[s]) {
				continue
			}
			if which == nStream || comparePoints(streams[s][heads[s]], streams[which][heads[which]]) < 0 {
				which = s
			}
		}
		if which == nStream {
			return
		}
		p := streams[which][heads[which]]
		heads[which]++
		if first || p.group != curGroup {
			active1.reset()
			active2.reset()
			curGroup = p.group
			first = false
		}
		switch which {
		case startsA:
			for _, idx2 := range active2.members {
				emit(p.idx, idx2)
			}
			active1.insert(p.idx)
		case startsB:
			for _, idx1 := range active1.members {
				emit(idx1, p.idx)
			}
			active2.insert(p.idx)
		case endsA:
			active1.remove(p.idx)
		case endsB:
			active2.remove(p.idx)
		}
	}
}
