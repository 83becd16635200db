package interval

// expsearch returns the smallest index in [idx, n) for which after(i) is
// true, or n if there is none.  after must be monotone (false...false
// true...true) on [idx, n).
//
// It performs "exponential search" (https://en.wikipedia.org/wiki/Exponential_search ),
// checking idx, then idx + 1, then idx + 3, then idx + 7, etc., and finishing
// with binary search once it has either found an element past the target or
// hit the end.  It's usually a better choice than sort.Search when the
// target moves forward slowly, as it does in a sweep.
func expsearch(n, idx int, after func(i int) bool) int {
	nextIncr := 1
	startIdx := idx
	endIdx := n
	for idx < endIdx {
		if after(idx) {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	// This is really just an inlined sort.Search call.  We spell it out since
	// startIdx is usually equal to endIdx.
	for startIdx < endIdx {
		midIdx := int(uint(startIdx+endIdx) >> 1)
		if after(midIdx) {
			endIdx = midIdx
		} else {
			startIdx = midIdx + 1
		}
	}
	return startIdx
}
