package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/stretchr/testify/require"
)

type testSet = Set[uint8, int32]

// ivl is one row of a hand-written test set.
type ivl struct {
	group      uint8
	start, end int32
}

func newSet(rows ...ivl) testSet {
	s := testSet{
		Groups: make([]uint8, len(rows)),
		Starts: make([]int32, len(rows)),
		Ends:   make([]int32, len(rows)),
	}
	for i, r := range rows {
		s.Groups[i], s.Starts[i], s.Ends[i] = r.group, r.start, r.end
	}
	return s
}

// randomSet returns n nonempty intervals spread over nGroup groups, in no
// particular order.
func randomSet(r *rand.Rand, n, nGroup int, maxStart, maxLen int32) testSet {
	s := testSet{
		Groups: make([]uint8, n),
		Starts: make([]int32, n),
		Ends:   make([]int32, n),
	}
	for i := 0; i < n; i++ {
		s.Groups[i] = uint8(r.Intn(nGroup))
		s.Starts[i] = r.Int31n(maxStart)
		s.Ends[i] = s.Starts[i] + 1 + r.Int31n(maxLen)
	}
	return s
}

// overlapsBrute reports whether a's row i, widened by slack, intersects b's
// row j.
func overlapsBrute(a, b testSet, i, j int, slack int32) bool {
	return a.Groups[i] == b.Groups[j] &&
		a.Starts[i]-slack < b.Ends[j] && b.Starts[j] < a.Ends[i]+slack
}

type pairTuple struct{ idx, idx2 uint32 }

func pairTuples(p Pairs) []pairTuple {
	out := make([]pairTuple, 0, p.Len())
	for i := range p.Idx {
		out = append(out, pairTuple{p.Idx[i], p.Idx2[i]})
	}
	return out
}

type fragTuple struct {
	idx        uint32
	start, end int32
}

func fragTuples(f Fragments[int32]) []fragTuple {
	out := make([]fragTuple, 0, f.Len())
	for i := range f.Idx {
		out = append(out, fragTuple{f.Idx[i], f.Starts[i], f.Ends[i]})
	}
	return out
}

func requireInvalid(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(errors.Invalid, err), "want Invalid error, got %v", err)
}
