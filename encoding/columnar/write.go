package columnar

import (
	"io"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/ranges/interval"
)

// rowWriter wraps a tsv.Writer with helpers for the coordinate columns
// shared by every result shape.  The first error sticks.
type rowWriter struct {
	w   *tsv.Writer
	err error
}

func newRowWriter(w io.Writer, header string) *rowWriter {
	rw := &rowWriter{w: tsv.NewWriter(w)}
	rw.w.WriteString(header)
	rw.endLine()
	return rw
}

func (rw *rowWriter) pos(p int32) { rw.w.WriteInt64(int64(p)) }

// row writes the chromosome name and coordinates of row i of t.
func (rw *rowWriter) row(t Table, i uint32) {
	rw.w.WriteString(t.Dict.Name(t.Set.Groups[i]))
	rw.pos(t.Set.Starts[i])
	rw.pos(t.Set.Ends[i])
}

func (rw *rowWriter) endLine() {
	if err := rw.w.EndLine(); err != nil && rw.err == nil {
		rw.err = err
	}
}

func (rw *rowWriter) flush() error {
	if err := rw.w.Flush(); err != nil && rw.err == nil {
		rw.err = err
	}
	return rw.err
}

// WriteTable writes t as BED6 (BED3 when t has neither names nor strands).
func WriteTable(w io.Writer, t Table) error {
	full := t.Names != nil || t.Set.Strands != nil
	header := "#chrom\tstart\tend"
	if full {
		header += "\tname\tscore\tstrand"
	}
	rw := newRowWriter(w, header)
	for i := 0; i < t.Len(); i++ {
		rw.row(t, uint32(i))
		if full {
			name := "."
			if t.Names != nil {
				name = t.Names[i]
			}
			rw.w.WriteString(name)
			rw.w.WriteString("0")
			strand := "+"
			if t.Set.Strands != nil && !t.Set.Strands[i] {
				strand = "-"
			}
			rw.w.WriteString(strand)
		}
		rw.endLine()
	}
	return rw.flush()
}

// WriteRows writes the selected rows of t, one per line, with their row
// index.
func WriteRows(w io.Writer, t Table, rows []uint32) error {
	rw := newRowWriter(w, "#chrom\tstart\tend\tidx")
	for _, i := range rows {
		rw.row(t, i)
		rw.w.WriteUint32(i)
		rw.endLine()
	}
	return rw.flush()
}

// WritePairs writes one line per overlapping pair: the a interval, the b
// interval and both row indices.
func WritePairs(w io.Writer, a, b Table, p interval.Pairs) error {
	rw := newRowWriter(w, "#chrom\tstart\tend\tstart_b\tend_b\tidx\tidx_b")
	for k := range p.Idx {
		i, j := p.Idx[k], p.Idx2[k]
		rw.row(a, i)
		rw.pos(b.Set.Starts[j])
		rw.pos(b.Set.Ends[j])
		rw.w.WriteUint32(i)
		rw.w.WriteUint32(j)
		rw.endLine()
	}
	return rw.flush()
}

// WriteNeighbors is WritePairs with a trailing distance column.
func WriteNeighbors(w io.Writer, a, b Table, n interval.Neighbors[int32]) error {
	rw := newRowWriter(w, "#chrom\tstart\tend\tstart_b\tend_b\tidx\tidx_b\tdistance")
	for k := range n.Idx {
		i, j := n.Idx[k], n.Idx2[k]
		rw.row(a, i)
		rw.pos(b.Set.Starts[j])
		rw.pos(b.Set.Ends[j])
		rw.w.WriteUint32(i)
		rw.w.WriteUint32(j)
		rw.pos(n.Distances[k])
		rw.endLine()
	}
	return rw.flush()
}

// WriteCounts writes every row of t with its overlap count.
func WriteCounts(w io.Writer, t Table, counts []uint32) error {
	rw := newRowWriter(w, "#chrom\tstart\tend\tcount")
	for i, c := range counts {
		rw.row(t, uint32(i))
		rw.w.WriteUint32(c)
		rw.endLine()
	}
	return rw.flush()
}

// WriteRuns writes merge or boundary runs.  The chromosome of a run is that
// of its Idx row.
func WriteRuns(w io.Writer, t Table, r interval.Runs[int32]) error {
	rw := newRowWriter(w, "#chrom\tstart\tend\tcount")
	for k, i := range r.Idx {
		rw.w.WriteString(t.Dict.Name(t.Set.Groups[i]))
		rw.pos(r.Starts[k])
		rw.pos(r.Ends[k])
		rw.w.WriteUint32(r.Counts[k])
		rw.endLine()
	}
	return rw.flush()
}

// WriteClusters writes every row of t, in cluster order, with its cluster
// ID.
func WriteClusters(w io.Writer, t Table, c interval.Clusters) error {
	rw := newRowWriter(w, "#chrom\tstart\tend\tcluster\tidx")
	for k, i := range c.Idx {
		rw.row(t, i)
		rw.w.WriteUint32(c.IDs[k])
		rw.w.WriteUint32(i)
		rw.endLine()
	}
	return rw.flush()
}

// WriteGaps writes complement intervals.
func WriteGaps(w io.Writer, dict *Dict, g interval.Gaps[uint32, int32]) error {
	rw := newRowWriter(w, "#chrom\tstart\tend")
	for k := range g.Idx {
		rw.w.WriteString(dict.Name(g.Groups[k]))
		rw.pos(g.Starts[k])
		rw.pos(g.Ends[k])
		rw.endLine()
	}
	return rw.flush()
}

// WriteFragments writes intervals derived from rows of t (subtract, split,
// cumulative coordinates), each with the chromosome and index of its row.
func WriteFragments(w io.Writer, t Table, f interval.Fragments[int32]) error {
	rw := newRowWriter(w, "#chrom\tstart\tend\tidx")
	for k, i := range f.Idx {
		rw.w.WriteString(t.Dict.Name(t.Set.Groups[i]))
		rw.pos(f.Starts[k])
		rw.pos(f.Ends[k])
		rw.w.WriteUint32(i)
		rw.endLine()
	}
	return rw.flush()
}
