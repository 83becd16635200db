package interval

import (
	"math/rand"
	"sort"
	"testing"

	biogo "github.com/biogo/store/interval"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapsScenario(t *testing.T) {
	a := newSet(ivl{1, 0, 10}, ivl{1, 20, 30})
	b := newSet(ivl{1, 5, 25})
	pairs, err := Overlaps(a, b, OverlapOpts[int32]{SortOutput: true})
	require.NoError(t, err)
	assert.Equal(t, []pairTuple{{0, 0}, {1, 0}}, pairTuples(pairs))
}

func TestOverlapsTouching(t *testing.T) {
	a := newSet(ivl{0, 0, 10})
	b := newSet(ivl{0, 10, 20}, ivl{1, 0, 10})
	pairs, err := Overlaps(a, b, OverlapOpts[int32]{})
	require.NoError(t, err)
	expect.EQ(t, pairs.Len(), 0)

	pairs, err = Overlaps(a, b, OverlapOpts[int32]{Slack: 1})
	require.NoError(t, err)
	assert.Equal(t, []pairTuple{{0, 0}}, pairTuples(pairs))
}

func TestOverlapsEmpty(t *testing.T) {
	a := newSet(ivl{0, 0, 10})
	pairs, err := Overlaps(a, testSet{}, OverlapOpts[int32]{})
	require.NoError(t, err)
	expect.EQ(t, pairs.Len(), 0)
	pairs, err = Overlaps(testSet{}, a, OverlapOpts[int32]{Type: OverlapFirst})
	require.NoError(t, err)
	expect.EQ(t, pairs.Len(), 0)

	counts, err := CountOverlaps(a, testSet{}, 0)
	require.NoError(t, err)
	expect.EQ(t, counts, []uint32{0})
}

func TestOverlapsFirstLast(t *testing.T) {
	a := newSet(ivl{0, 0, 10}, ivl{0, 100, 110}, ivl{0, 7, 9})
	b := newSet(ivl{0, 5, 6}, ivl{0, 2, 3}, ivl{0, 8, 20})

	// Row 0 meets b rows 1, 0 and 2 in that order along the sweep.
	pairs, err := Overlaps(a, b, OverlapOpts[int32]{Type: OverlapFirst})
	require.NoError(t, err)
	assert.Equal(t, []pairTuple{{0, 1}, {2, 2}}, pairTuples(pairs))

	pairs, err = Overlaps(a, b, OverlapOpts[int32]{Type: OverlapLast})
	require.NoError(t, err)
	assert.Equal(t, []pairTuple{{0, 2}, {2, 2}}, pairTuples(pairs))

	// Sweep order is not row order: the earliest-starting b row comes first.
	a = newSet(ivl{0, 0, 10})
	b = newSet(ivl{0, 5, 8}, ivl{0, 2, 20}, ivl{0, -5, 3})
	pairs, err = Overlaps(a, b, OverlapOpts[int32]{Type: OverlapFirst})
	require.NoError(t, err)
	assert.Equal(t, []pairTuple{{0, 2}}, pairTuples(pairs))
	pairs, err = Overlaps(a, b, OverlapOpts[int32]{Type: OverlapLast})
	require.NoError(t, err)
	assert.Equal(t, []pairTuple{{0, 0}}, pairTuples(pairs))

	_, err = Overlaps(a, b, OverlapOpts[int32]{Type: OverlapType(7)})
	requireInvalid(t, err)
}

func TestOverlapsContained(t *testing.T) {
	a := newSet(ivl{0, 5, 8})
	b := newSet(ivl{0, 0, 10}, ivl{0, 6, 20}, ivl{0, 4, 8})
	pairs, err := Overlaps(a, b, OverlapOpts[int32]{Contained: true, SortOutput: true})
	require.NoError(t, err)
	assert.Equal(t, []pairTuple{{0, 0}, {0, 2}}, pairTuples(pairs))

	// Slack widens the query before the containment test.
	pairs, err = Overlaps(a, b, OverlapOpts[int32]{Contained: true, Slack: 1})
	require.NoError(t, err)
	assert.Equal(t, []pairTuple{{0, 0}}, pairTuples(pairs))
}

func sortedPairs(p Pairs) []pairTuple {
	out := pairTuples(p)
	sort.Slice(out, func(i, j int) bool {
		if out[i].idx != out[j].idx {
			return out[i].idx < out[j].idx
		}
		return out[i].idx2 < out[j].idx2
	})
	return out
}

func TestOverlapsSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 50; iter++ {
		a := randomSet(r, 1+r.Intn(40), 3, 100, 20)
		b := randomSet(r, 1+r.Intn(40), 3, 100, 20)
		ab, err := Overlaps(a, b, OverlapOpts[int32]{})
		require.NoError(t, err)
		ba, err := Overlaps(b, a, OverlapOpts[int32]{})
		require.NoError(t, err)
		swapped := Pairs{Idx: ba.Idx2, Idx2: ba.Idx}
		assert.Equal(t, sortedPairs(ab), sortedPairs(swapped))
	}
}

func TestCountOverlapsBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for iter := 0; iter < 50; iter++ {
		a := randomSet(r, 1+r.Intn(40), 2, 100, 20)
		b := randomSet(r, 1+r.Intn(40), 2, 100, 20)
		slack := r.Int31n(4)
		counts, err := CountOverlaps(a, b, slack)
		require.NoError(t, err)
		pairs, err := Overlaps(a, b, OverlapOpts[int32]{Slack: slack})
		require.NoError(t, err)
		var want []pairTuple
		for i := 0; i < a.Len(); i++ {
			var n uint32
			for j := 0; j < b.Len(); j++ {
				if overlapsBrute(a, b, i, j, slack) {
					n++
					want = append(want, pairTuple{uint32(i), uint32(j)})
				}
			}
			require.Equalf(t, n, counts[i], "row %d, slack %d", i, slack)
		}
		if want == nil {
			want = []pairTuple{}
		}
		assert.Equal(t, want, sortedPairs(pairs))
	}
}

// treeInterval adapts a row of a set to the biogo interval tree.
type treeInterval struct {
	start, end int
	uid        uintptr
}

func (i treeInterval) Overlap(b biogo.IntRange) bool {
	return i.end > b.Start && i.start < b.End
}
func (i treeInterval) ID() uintptr { return i.uid }
func (i treeInterval) Range() biogo.IntRange { return biogo.IntRange{Start: i.start, End: i.end} }

func TestOverlapsIntervalTree(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	a := randomSet(r, 500, 4, 10000, 300)
	b := randomSet(r, 500, 4, 10000, 300)

	trees := map[uint8]*biogo.IntTree{}
	for j := 0; j < b.Len(); j++ {
		tree, ok := trees[b.Groups[j]]
		if !ok {
			tree = &biogo.IntTree{}
			trees[b.Groups[j]] = tree
		}
		require.NoError(t, tree.Insert(treeInterval{int(b.Starts[j]), int(b.Ends[j]), uintptr(j)}, true))
	}
	for _, tree := range trees {
		tree.AdjustRanges()
	}
	want := []pairTuple{}
	for i := 0; i < a.Len(); i++ {
		tree, ok := trees[a.Groups[i]]
		if !ok {
			continue
		}
		for _, hit := range tree.Get(treeInterval{start: int(a.Starts[i]), end: int(a.Ends[i])}) {
			want = append(want, pairTuple{uint32(i), uint32(hit.ID())})
		}
	}
	pairs, err := Overlaps(a, b, OverlapOpts[int32]{})
	require.NoError(t, err)
	sort.Slice(want, func(i, j int) bool {
		if want[i].idx != want[j].idx {
			return want[i].idx < want[j].idx
		}
		return want[i].idx2 < want[j].idx2
	})
	assert.Equal(t, want, sortedPairs(pairs))
}
