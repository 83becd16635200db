package interval

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestMaxDisjoint(t *testing.T) {
	// Earliest end first picks the two short intervals over the long one.
	s := newSet(ivl{0, 0, 100}, ivl{0, 10, 20}, ivl{0, 30, 40}, ivl{1, 0, 100})
	got, err := MaxDisjoint(s, 0)
	require.NoError(t, err)
	expect.EQ(t, got, []uint32{1, 2, 3})

	got, err = MaxDisjoint(s, 10)
	require.NoError(t, err)
	expect.EQ(t, got, []uint32{1, 3})

	got, err = MaxDisjoint(testSet{}, 0)
	require.NoError(t, err)
	expect.EQ(t, len(got), 0)
}

func disjoint(s testSet, i, j int, slack int32) bool {
	return s.Groups[i] != s.Groups[j] ||
		s.Starts[j] > s.Ends[i]+slack || s.Starts[i] > s.Ends[j]+slack
}

func TestMaxDisjointBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	for iter := 0; iter < 100; iter++ {
		n := 1 + r.Intn(10)
		s := randomSet(r, n, 2, 50, 15)
		slack := r.Int31n(3)
		got, err := MaxDisjoint(s, slack)
		require.NoError(t, err)
		for x := range got {
			for y := x + 1; y < len(got); y++ {
				require.Truef(t, disjoint(s, int(got[x]), int(got[y]), slack),
					"rows %d and %d are not disjoint", got[x], got[y])
			}
		}
		best := 0
		for mask := uint(1); mask < 1<<uint(n); mask++ {
			ok := true
			for i := 0; i < n && ok; i++ {
				for j := i + 1; j < n && ok; j++ {
					if mask&(1<<uint(i)) != 0 && mask&(1<<uint(j)) != 0 {
						ok = disjoint(s, i, j, slack)
					}
				}
			}
			if c := bits.OnesCount(mask); ok && c > best {
				best = c
			}
		}
		require.Equal(t, best, len(got))
	}
}
