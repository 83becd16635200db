package interval

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/grailbio/base/errors"
	"golang.org/x/exp/constraints"
)

// Group is the type of a group key, usually a categorical chromosome code
// (or chromosome+strand+gene code).
type Group interface {
	constraints.Integer
}

// Pos is the type of an interval coordinate.  It must be signed, since
// reverse-strand handling negates coordinates.
type Pos interface {
	constraints.Signed
}

// Set is a collection of intervals in struct-of-arrays form.  Groups, Starts
// and Ends must have the same length; Strands is optional (nil), and when
// present must also have that length.  Strands[i] is true for the forward
// strand.
type Set[G Group, P Pos] struct {
	Groups  []G
	Starts  []P
	Ends    []P
	Strands []bool
}

// Len returns the number of rows.
func (s Set[G, P]) Len() int {
	return len(s.Groups)
}

// validate checks the column-length contract.  op is used as the error
// message prefix.
func (s Set[G, P]) validate(op string) error {
	n := len(s.Groups)
	if len(s.Starts) != n || len(s.Ends) != n {
		return errors.E(errors.Invalid, fmt.Sprintf(
			"interval.%s: column length mismatch (groups=%d starts=%d ends=%d)",
			op, n, len(s.Starts), len(s.Ends)))
	}
	if s.Strands != nil && len(s.Strands) != n {
		return errors.E(errors.Invalid, fmt.Sprintf(
			"interval.%s: column length mismatch (groups=%d strands=%d)", op, n, len(s.Strands)))
	}
	if uint64(n) > uint64(maxRows) {
		return errors.E(errors.Invalid, fmt.Sprintf("interval.%s: %d rows exceeds the uint32 row-index limit", op, n))
	}
	return nil
}

const maxRows = ^uint32(0)

func invalidf(format string, args ...interface{}) error {
	return errors.E(errors.Invalid, fmt.Sprintf(format, args...))
}

func lengthError(op, name string, got, want int) error {
	return errors.E(errors.Invalid, fmt.Sprintf("interval.%s: %s has length %d, want %d", op, name, got, want))
}

func checkSlack[P Pos](op string, slack P) error {
	if slack < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("interval.%s: negative slack %d", op, slack))
	}
	return nil
}

// Pairs holds an overlap join result: row Idx[i] of the first set overlaps
// row Idx2[i] of the second.
type Pairs struct {
	Idx  []uint32
	Idx2 []uint32
}

// Len returns the number of pairs.
func (p Pairs) Len() int { return len(p.Idx) }

// Neighbors holds a nearest-neighbor join result.  Distances[i] is 0 for an
// overlap and >= 1 otherwise; 1 means the intervals are adjacent.
type Neighbors[P Pos] struct {
	Idx       []uint32
	Idx2      []uint32
	Distances []P
}

// Len returns the number of neighbor records.
func (n Neighbors[P]) Len() int { return len(n.Idx) }

// Runs holds one record per merged run (Merge) or per group (Boundary).
// Idx is the row index of the last event of the run, and Counts the number
// of intervals (Merge) or events (Boundary) it comprises.
type Runs[P Pos] struct {
	Idx    []uint32
	Starts []P
	Ends   []P
	Counts []uint32
}

// Len returns the number of runs.
func (r Runs[P]) Len() int { return len(r.Idx) }

// Clusters assigns IDs[i] to row Idx[i].
type Clusters struct {
	IDs []uint32
	Idx []uint32
}

// Len returns the number of assignments.
func (c Clusters) Len() int { return len(c.Idx) }

// Gaps holds complement intervals.  Idx[i] is the row index of the first
// event of the group the gap belongs to.
type Gaps[G Group, P Pos] struct {
	Groups []G
	Starts []P
	Ends   []P
	Idx    []uint32
}

// Len returns the number of gaps.
func (g Gaps[G, P]) Len() int { return len(g.Idx) }

// Fragments holds intervals derived from input rows: fragment i covers
// [Starts[i], Ends[i]) and derives from row Idx[i].
type Fragments[P Pos] struct {
	Idx    []uint32
	Starts []P
	Ends   []P
}

// Len returns the number of fragments.
func (f Fragments[P]) Len() int { return len(f.Idx) }

func (f *Fragments[P]) add(idx uint32, start, end P) {
	f.Idx = append(f.Idx, idx)
	f.Starts = append(f.Starts, start)
	f.Ends = append(f.Ends, end)
}

// OverlapType selects which overlap pairs are reported per first-set row.
type OverlapType int

const (
	// OverlapAll reports every overlapping pair.
	OverlapAll OverlapType = iota
	// OverlapFirst reports only the first pair of each first-set row in
	// sweep order, usually the leftmost second-set interval.
	OverlapFirst
	// OverlapLast reports only the last pair of each first-set row in sweep
	// order.
	OverlapLast
)

// ParseOverlapType parses "all", "first" or "last", ignoring case.
func ParseOverlapType(s string) (OverlapType, error) {
	switch strings.ToLower(s) {
	case "all":
		return OverlapAll, nil
	case "first":
		return OverlapFirst, nil
	case "last":
		return OverlapLast, nil
	}
	return OverlapAll, errors.E(errors.Invalid, fmt.Sprintf("interval.ParseOverlapType: invalid overlap type %q", s))
}

func (t OverlapType) String() string {
	switch t {
	case OverlapAll:
		return "all"
	case OverlapFirst:
		return "first"
	case OverlapLast:
		return "last"
	}
	return fmt.Sprintf("OverlapType(%d)", int(t))
}

// Direction restricts the nearest-neighbor search.
type Direction int

const (
	// Any searches both directions.
	Any Direction = iota
	// Forward searches only to the right (higher coordinates).
	Forward
	// Backward searches only to the left.
	Backward
)

// ParseDirection parses "forward", "backward" or "any", ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "forward":
		return Forward, nil
	case "backward":
		return Backward, nil
	case "any":
		return Any, nil
	}
	return Any, errors.E(errors.Invalid, fmt.Sprintf("interval.ParseDirection: invalid direction %q", s))
}

func (d Direction) String() string {
	switch d {
	case Any:
		return "any"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// minPos and maxPos return the extremes of P.
func minPos[P Pos]() P {
	var x P
	return P(1) << (unsafe.Sizeof(x)*8 - 1)
}

func maxPos[P Pos]() P {
	return ^minPos[P]()
}

// satAdd returns a+b, clamped to the maximum of P.  b must be nonnegative.
func satAdd[P Pos](a, b P) P {
	if a > maxPos[P]()-b {
		return maxPos[P]()
	}
	return a + b
}

// satSub returns a-b, clamped to the minimum of P.  b must be nonnegative.
func satSub[P Pos](a, b P) P {
	if a < minPos[P]()+b {
		return minPos[P]()
	}
	return a - b
}
