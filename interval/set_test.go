package interval

import (
	"math"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverlapType(t *testing.T) {
	for _, tt := range []struct {
		s    string
		want OverlapType
	}{
		{"all", OverlapAll},
		{"First", OverlapFirst},
		{"LAST", OverlapLast},
	} {
		got, err := ParseOverlapType(tt.s)
		require.NoError(t, err)
		expect.EQ(t, got, tt.want)
		expect.EQ(t, roundTripOverlapType(t, got), got)
	}
	_, err := ParseOverlapType("some")
	requireInvalid(t, err)
}

func roundTripOverlapType(t *testing.T, typ OverlapType) OverlapType {
	got, err := ParseOverlapType(typ.String())
	require.NoError(t, err)
	return got
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"forward", "backward", "any", "Forward"} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		assert.Equal(t, d.String(), map[string]string{
			"forward": "forward", "Forward": "forward", "backward": "backward", "any": "any",
		}[s])
	}
	_, err := ParseDirection("upstream")
	requireInvalid(t, err)
}

func TestValidate(t *testing.T) {
	s := testSet{Groups: []uint8{0, 0}, Starts: []int32{1}, Ends: []int32{2, 3}}
	_, err := Merge(s, 0)
	requireInvalid(t, err)
	assert.Contains(t, err.Error(), "interval.Merge")

	s = newSet(ivl{0, 1, 2})
	s.Strands = []bool{true, false}
	_, err = Cluster(s, 0)
	requireInvalid(t, err)

	_, err = Merge(newSet(ivl{0, 1, 2}), -1)
	requireInvalid(t, err)

	_, err = Overlaps(newSet(ivl{0, 1, 2}), testSet{Groups: []uint8{0}}, OverlapOpts[int32]{})
	requireInvalid(t, err)
}

func TestSaturation(t *testing.T) {
	expect.EQ(t, minPos[int8](), int8(math.MinInt8))
	expect.EQ(t, maxPos[int8](), int8(math.MaxInt8))
	expect.EQ(t, minPos[int16](), int16(math.MinInt16))
	expect.EQ(t, maxPos[int64](), int64(math.MaxInt64))

	expect.EQ(t, satAdd(int8(120), 10), int8(math.MaxInt8))
	expect.EQ(t, satAdd(int8(100), 10), int8(110))
	expect.EQ(t, satSub(int8(-120), 10), int8(math.MinInt8))
	expect.EQ(t, satSub(int8(-100), 10), int8(-110))
	expect.EQ(t, satAdd(int64(math.MaxInt64-1), 5), int64(math.MaxInt64))
	expect.EQ(t, neg(minPos[int32]()), int32(math.MaxInt32))
	expect.EQ(t, neg(int32(7)), int32(-7))
}

func TestSaturatingSlack(t *testing.T) {
	a := Set[uint8, int8]{Groups: []uint8{0}, Starts: []int8{-120}, Ends: []int8{120}}
	b := Set[uint8, int8]{Groups: []uint8{0, 0}, Starts: []int8{-128, 125}, Ends: []int8{-126, 127}}
	pairs, err := Overlaps(a, b, OverlapOpts[int8]{Slack: 100, SortOutput: true})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 0}, pairs.Idx)
	assert.Equal(t, []uint32{0, 1}, pairs.Idx2)
}

func TestMergeSaturatingSlack(t *testing.T) {
	s := Set[uint8, int8]{Groups: []uint8{0}, Starts: []int8{100}, Ends: []int8{127}}
	runs, err := Merge(s, 10)
	require.NoError(t, err)
	assert.Equal(t, []int8{100}, runs.Starts)
	assert.Equal(t, []int8{127}, runs.Ends)

	s = Set[uint8, int8]{Groups: []uint8{0, 0}, Starts: []int8{100, 115}, Ends: []int8{110, 127}}
	runs, err = Merge(s, 10)
	require.NoError(t, err)
	assert.Equal(t, []int8{100}, runs.Starts)
	assert.Equal(t, []int8{127}, runs.Ends)
	assert.Equal(t, []uint32{2}, runs.Counts)
}
