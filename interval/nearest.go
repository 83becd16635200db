package interval

import (
	"github.com/grailbio/base/log"
	"golang.org/x/exp/slices"
)

// NearestOpts configures Nearest.
type NearestOpts[P Pos] struct {
	// Slack widens every first-set interval on both sides before distances
	// are computed.
	Slack P
	// K is the number of distinct distances kept per first-set row.  All
	// neighbors tied at a kept distance are reported, so a row can have more
	// than K records.
	K int
	// IncludeOverlaps reports overlapping intervals at distance 0.
	IncludeOverlaps bool
	// Direction restricts the search to one side.
	Direction Direction
}

// DefaultNearestK is the K used by callers that have no preference.
const DefaultNearestK = 1

// neighbor is one candidate (first-set row, second-set row, distance).
type neighbor[P Pos] struct {
	idx  uint32
	idx2 uint32
	dist P
}

func compareNeighbors[P Pos](x, y neighbor[P]) int {
	switch {
	case x.idx != y.idx:
		return cmpUint32(x.idx, y.idx)
	case x.dist < y.dist:
		return -1
	case x.dist > y.dist:
		return 1
	}
	return cmpUint32(x.idx2, y.idx2)
}

// Nearest returns, for each row of a, the rows of b at the K smallest
// distinct distances.  The distance between non-overlapping intervals is the
// gap plus one, clamped to the maximum of P.  A b interval starting at a's
// (widened) end is a right neighbor at distance 1; a left neighbor must end
// strictly before a's start, so one ending exactly there is not reported.
// The result is sorted by (Idx, distance, Idx2); rows with no neighbor
// contribute nothing.
func Nearest[G Group, P Pos](a, b Set[G, P], opts NearestOpts[P]) (Neighbors[P], error) {
	if err := validateJoin("Nearest", a, b, opts.Slack); err != nil {
		return Neighbors[P]{}, err
	}
	if opts.K < 0 {
		return Neighbors[P]{}, invalidf("interval.Nearest: negative k %d", opts.K)
	}
	switch opts.Direction {
	case Any, Forward, Backward:
	default:
		return Neighbors[P]{}, invalidf("interval.Nearest: invalid direction %v", opts.Direction)
	}
	if opts.K == 0 || a.Len() == 0 || b.Len() == 0 {
		return Neighbors[P]{}, nil
	}

	var overlaps, left, right []neighbor[P]
	if opts.IncludeOverlaps {
		overlaps = nearestOverlaps(a, b, opts.Slack)
	}
	if opts.Direction != Forward {
		// Queries are widened starts; candidates are b's ends strictly before
		// them.
		queries := buildPoints(a.Groups, a.Starts, minus(opts.Slack), false)
		candidates := buildPoints(b.Groups, b.Ends, identity[P], false)
		left = nearestBefore(queries, candidates, opts.K, true)
		slices.SortFunc(left, compareNeighbors[P])
	}
	if opts.Direction != Backward {
		// Searching right of the widened ends is searching left on negated
		// coordinates: b's start s is at or after end e iff -s <= -e.
		queries := buildPoints(a.Groups, a.Ends, plus(opts.Slack), true)
		candidates := buildPoints(b.Groups, b.Starts, identity[P], true)
		right = nearestBefore(queries, candidates, opts.K, false)
		slices.SortFunc(right, compareNeighbors[P])
	}
	merged := mergeNearest(overlaps, left, right, opts.K)
	log.Debug.Printf("interval.Nearest: %d x %d rows, k=%d, %v -> %d records",
		a.Len(), b.Len(), opts.K, opts.Direction, len(merged))

	out := Neighbors[P]{
		Idx:       make([]uint32, len(merged)),
		Idx2:      make([]uint32, len(merged)),
		Distances: make([]P, len(merged)),
	}
	for i, n := range merged {
		out.Idx[i], out.Idx2[i], out.Distances[i] = n.idx, n.idx2, n.dist
	}
	return out, nil
}

// nearestOverlaps runs the four-stream overlap sweep and reports every pair
// at distance 0, sorted by (idx, idx2).
func nearestOverlaps[G Group, P Pos](a, b Set[G, P], slack P) []neighbor[P] {
	var streams [nStream][]point[G, P]
	streams[startsA] = buildPoints(a.Groups, a.Starts, minus(slack), false)
	streams[endsA] = buildPoints(a.Groups, a.Ends, plus(slack), false)
	streams[startsB] = buildPoints(b.Groups, b.Starts, identity[P], false)
	streams[endsB] = buildPoints(b.Groups, b.Ends, identity[P], false)
	var out []neighbor[P]
	fourWaySweep(streams, a.Len(), b.Len(), func(idx1, idx2 uint32) {
		out = append(out, neighbor[P]{idx: idx1, idx2: idx2})
	})
	slices.SortFunc(out, compareNeighbors[P])
	return out
}

// nearestBefore finds, for each query point, the candidates on the same
// group whose position is <= the query's (< with strict set), at up to k
// distinct positions counting back from the query.  All candidates at a kept
// position are reported.  Distance is query - candidate + 1, saturating.
//
// Both slices must be sorted by (group, pos).  The candidate pointer only
// moves forward, so the sweep is linear apart from the reported neighbors.
func nearestBefore[G Group, P Pos](queries, candidates []point[G, P], k int, strict bool) []neighbor[P] {
	out := make([]neighbor[P], 0, len(queries))
	n := len(candidates)
	j := 0
	for _, q := range queries {
		// First candidate past q.
		j = expsearch(n, j, func(i int) bool {
			c := candidates[i]
			if c.group != q.group {
				return c.group > q.group
			}
			if strict {
				return c.pos >= q.pos
			}
			return c.pos > q.pos
		})
		nDistinct := 0
		var lastPos P
		for i := j - 1; i >= 0; i-- {
			c := candidates[i]
			if c.group != q.group {
				break
			}
			if nDistinct == 0 || c.pos != lastPos {
				if nDistinct == k {
					break
				}
				nDistinct++
				lastPos = c.pos
			}
			out = append(out, neighbor[P]{idx: q.idx, idx2: c.idx, dist: gapDistance(q.pos, c.pos)})
		}
	}
	return out
}

// gapDistance returns q-c+1 for q >= c, clamped to the maximum of P.
func gapDistance[P Pos](q, c P) P {
	if c < 0 && q > maxPos[P]()+c {
		return maxPos[P]()
	}
	return satAdd(q-c, 1)
}

// mergeNearest merges the per-row overlap, left and right candidates, each
// sorted by (idx, dist, idx2), keeping for each row the candidates at its k
// smallest distinct distances.
//
// Per row it repeatedly takes the smallest distance d at the head of any of
// the three sources and admits every candidate at distance d from all of
// them; it stops when k distances have been admitted or the sources are
// exhausted.  The result is sorted by (idx, dist, idx2).
func mergeNearest[P Pos](overlaps, left, right []neighbor[P], k int) []neighbor[P] {
	sources := [3][]neighbor[P]{overlaps, left, right}
	var heads [3]int
	var out []neighbor[P]
	for {
		// The next row is the smallest idx at any head.
		found := false
		var idx uint32
		for s := range sources {
			if heads[s] < len(sources[s]) {
				if v := sources[s][heads[s]].idx; !found || v < idx {
					idx, found = v, true
				}
			}
		}
		if !found {
			break
		}
		// Restrict each source to this row.
		var rowSrc [3][]neighbor[P]
		for s := range sources {
			end := heads[s]
			for end < len(sources[s]) && sources[s][end].idx == idx {
				end++
			}
			rowSrc[s] = sources[s][heads[s]:end]
			heads[s] = end
		}
		var pos [3]int
		for admitted := 0; admitted < k; admitted++ {
			have := false
			var d P
			for s := range rowSrc {
				if pos[s] < len(rowSrc[s]) {
					if v := rowSrc[s][pos[s]].dist; !have || v < d {
						d, have = v, true
					}
				}
			}
			if !have {
				break
			}
			for s := range rowSrc {
				for pos[s] < len(rowSrc[s]) && rowSrc[s][pos[s]].dist == d {
					out = append(out, rowSrc[s][pos[s]])
					pos[s]++
				}
			}
		}
	}
	slices.SortFunc(out, compareNeighbors[P])
	return out
}
