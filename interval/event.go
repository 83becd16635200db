package interval

import (
	"github.com/grailbio/base/log"
	"golang.org/x/exp/slices"
)

// event is one endpoint of one interval.  first distinguishes the two
// collections of a join; single-collection sweeps always set it.
type event[G Group, P Pos] struct {
	group   G
	pos     P
	isStart bool
	first   bool
	idx     uint32
}

// compareEvents orders by (group, pos, isStart) with ends first.
func compareEvents[G Group, P Pos](a, b event[G, P]) int {
	switch {
	case a.group < b.group:
		return -1
	case a.group > b.group:
		return 1
	case a.pos < b.pos:
		return -1
	case a.pos > b.pos:
		return 1
	case a.isStart == b.isStart:
		return 0
	case !a.isStart:
		return -1
	}
	return 1
}

// sortEvents sorts in canonical order.  The sort is stable, so fully tied
// events keep construction order (row order, first collection first).
func sortEvents[G Group, P Pos](events []event[G, P]) {
	slices.SortStableFunc(events, compareEvents[G, P])
}

// buildEvents returns the sorted start and end events of a single
// collection.  Ends are extended by slack; starts are left alone.
func buildEvents[G Group, P Pos](s Set[G, P], slack P) []event[G, P] {
	events := make([]event[G, P], 0, 2*s.Len())
	for i, g := range s.Groups {
		events = append(events,
			event[G, P]{group: g, pos: s.Starts[i], isStart: true, first: true, idx: uint32(i)},
			event[G, P]{group: g, pos: satAdd(s.Ends[i], slack), first: true, idx: uint32(i)})
	}
	sortEvents(events)
	log.Debug.Printf("interval.buildEvents: %d events", len(events))
	return events
}

// buildJoinEvents returns the sorted events of two collections.  Only a's
// intervals are widened by slack, on both sides.
func buildJoinEvents[G Group, P Pos](a, b Set[G, P], slack P) []event[G, P] {
	events := make([]event[G, P], 0, 2*(a.Len()+b.Len()))
	for i, g := range a.Groups {
		events = append(events,
			event[G, P]{group: g, pos: satSub(a.Starts[i], slack), isStart: true, first: true, idx: uint32(i)},
			event[G, P]{group: g, pos: satAdd(a.Ends[i], slack), first: true, idx: uint32(i)})
	}
	for j, g := range b.Groups {
		events = append(events,
			event[G, P]{group: g, pos: b.Starts[j], isStart: true, idx: uint32(j)},
			event[G, P]{group: g, pos: b.Ends[j], idx: uint32(j)})
	}
	sortEvents(events)
	log.Debug.Printf("interval.buildJoinEvents: %d events", len(events))
	return events
}

// point is a single coordinate of a row, used by sweeps that consume starts
// and ends as separate streams.
type point[G Group, P Pos] struct {
	group G
	pos   P
	idx   uint32
}

func comparePoints[G Group, P Pos](a, b point[G, P]) int {
	switch {
	case a.group < b.group:
		return -1
	case a.group > b.group:
		return 1
	case a.pos < b.pos:
		return -1
	case a.pos > b.pos:
		return 1
	}
	return 0
}

// buildPoints returns (groups[i], shift(pos[i])) sorted by (group, pos).
// With negate set, shifted positions are negated before sorting, which turns
// a rightward search into a leftward one.
func buildPoints[G Group, P Pos](groups []G, pos []P, shift func(P) P, negate bool) []point[G, P] {
	points := make([]point[G, P], len(groups))
	for i, g := range groups {
		p := shift(pos[i])
		if negate {
			p = neg(p)
		}
		points[i] = point[G, P]{group: g, pos: p, idx: uint32(i)}
	}
	slices.SortStableFunc(points, comparePoints[G, P])
	return points
}

func identity[P Pos](p P) P { return p }

func minus[P Pos](slack P) func(P) P {
	return func(p P) P { return satSub(p, slack) }
}

func plus[P Pos](slack P) func(P) P {
	return func(p P) P { return satAdd(p, slack) }
}

// neg negates p, mapping the minimum of P to its maximum.
func neg[P Pos](p P) P {
	if p == minPos[P]() {
		return maxPos[P]()
	}
	return -p
}

// row is a whole interval with its row index.
type row[G Group, P Pos] struct {
	group G
	start P
	end   P
	idx   uint32
}

// buildRows returns s's intervals widened by slack.  When reverse is non-nil,
// rows with reverse[i] set have both coordinates negated so that they sort
// in the opposite direction.
func buildRows[G Group, P Pos](s Set[G, P], reverse []bool, slack P) []row[G, P] {
	rows := make([]row[G, P], s.Len())
	for i, g := range s.Groups {
		start, end := satSub(s.Starts[i], slack), satAdd(s.Ends[i], slack)
		if reverse != nil && reverse[i] {
			start, end = neg(start), neg(end)
		}
		rows[i] = row[G, P]{group: g, start: start, end: end, idx: uint32(i)}
	}
	return rows
}

// sortRows sorts by (group, start, end), or by (group, end, start) with
// byEnd set.
func sortRows[G Group, P Pos](rows []row[G, P], byEnd bool) {
	slices.SortStableFunc(rows, func(a, b row[G, P]) int {
		if a.group != b.group {
			if a.group < b.group {
				return -1
			}
			return 1
		}
		k1a, k1b, k2a, k2b := a.start, b.start, a.end, b.end
		if byEnd {
			k1a, k1b, k2a, k2b = a.end, b.end, a.start, b.start
		}
		switch {
		case k1a < k1b:
			return -1
		case k1a > k1b:
			return 1
		case k2a < k2b:
			return -1
		case k2a > k2b:
			return 1
		}
		return 0
	})
}

// SortOrder returns the permutation of row indices that orders s by
// (group, start, end).  If reverse is non-nil, rows with reverse[i] set are
// ordered by descending coordinates within their group; this is the usual
// ordering for reverse-strand features.
func SortOrder[G Group, P Pos](s Set[G, P], reverse []bool) ([]uint32, error) {
	if err := s.validate("SortOrder"); err != nil {
		return nil, err
	}
	if reverse != nil && len(reverse) != s.Len() {
		return nil, lengthError("SortOrder", "reverse", len(reverse), s.Len())
	}
	rows := buildRows(s, reverse, 0)
	sortRows(rows, false)
	order := make([]uint32, len(rows))
	for i, r := range rows {
		order[i] = r.idx
	}
	return order, nil
}
