package interval

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Span is a half-open range [Start, End) of row positions.
type Span struct {
	Start, End int
}

// Len returns the number of rows in the span.
func (s Span) Len() int { return s.End - s.Start }

// SpanPair holds matching spans over two arrays.
type SpanPair struct {
	First, Second Span
}

// Partition splits a group-sorted array into exactly n contiguous spans
// that never cut a group.  Spans are filled greedily up to ceil(len/n) rows;
// surplus spans are merged into the last one and missing spans are padded
// with empty spans at the end of the array.  n <= 0 yields no spans.
func Partition[G Group](groups []G, n int) []Span {
	if n <= 0 {
		return nil
	}
	spans := make([]Span, 0, n)
	if len(groups) > 0 {
		target := int(math.Ceil(float64(len(groups)) / float64(n)))
		start, size := 0, 0
		for lo := 0; lo < len(groups); {
			hi := lo + 1
			for hi < len(groups) && groups[hi] == groups[lo] {
				hi++
			}
			if len(spans) < n-1 && size > 0 && size+(hi-lo) > target {
				spans = append(spans, Span{start, lo})
				start, size = lo, 0
			}
			size += hi - lo
			lo = hi
		}
		spans = append(spans, Span{start, len(groups)})
	}
	for len(spans) < n {
		spans = append(spans, Span{len(groups), len(groups)})
	}
	log.Debug.Printf("interval.Partition: %d rows into %d spans", len(groups), len(spans))
	return spans
}

// PartitionTwo partitions two group-sorted arrays independently into n spans
// each and pairs them positionally.
func PartitionTwo[G Group](groups1, groups2 []G, n int) []SpanPair {
	p1, p2 := Partition(groups1, n), Partition(groups2, n)
	pairs := make([]SpanPair, len(p1))
	for i := range p1 {
		pairs[i] = SpanPair{First: p1[i], Second: p2[i]}
	}
	return pairs
}

// ForEachPartition calls fn once per span, in parallel, and returns the
// first error.  Empty spans are skipped.
func ForEachPartition(spans []Span, fn func(i int, span Span) error) error {
	return traverse.Each(len(spans), func(i int) error {
		if spans[i].Len() == 0 {
			return nil
		}
		return fn(i, spans[i])
	})
}
