package columnar

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/sam"
)

// chromSizeRow is one line of a chrom.sizes file (or the first two columns
// of a .fai index).
type chromSizeRow struct {
	Name   string `tsv:"chrom"`
	Length int64  `tsv:"size"`
}

// ReadChromSizes reads a headerless "chrom<TAB>size" table.  Lines starting
// with '#' are ignored.
func ReadChromSizes(r io.Reader) (map[string]int64, error) {
	tr := tsv.NewReader(r)
	tr.Comment = '#'
	tr.FieldsPerRecord = -1
	sizes := make(map[string]int64)
	for {
		var row chromSizeRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(err, "columnar.ReadChromSizes")
		}
		sizes[row.Name] = row.Length
	}
	return sizes, nil
}

// ReadChromSizesFromPath is a wrapper for ReadChromSizes that takes a path.
func ReadChromSizesFromPath(ctx context.Context, path string) (sizes map[string]int64, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return ReadChromSizes(infile.Reader(ctx))
}

// ChromSizesFromHeader returns the reference lengths of a SAM header.
func ChromSizesFromHeader(h *sam.Header) map[string]int64 {
	sizes := make(map[string]int64, len(h.Refs()))
	for _, ref := range h.Refs() {
		sizes[ref.Name()] = int64(ref.Len())
	}
	return sizes
}

// Lengths maps chromosome sizes onto the codes of dict.  Sizes of names that
// have no code are ignored.  With strict set, a name of dict without a size
// is a NotExist error naming the chromosome; otherwise it is left out of the
// result, and interval.Complement reports no trailing gap for it.
func Lengths(dict *Dict, sizes map[string]int64, strict bool) (map[uint32]int32, error) {
	lengths := make(map[uint32]int32, dict.Len())
	for id, name := range dict.names {
		size, ok := sizes[name]
		if !ok {
			if strict {
				return nil, errors.E(errors.NotExist, fmt.Sprintf("columnar.Lengths: no size for chromosome %q", name))
			}
			continue
		}
		if size < 0 || size > math.MaxInt32 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("columnar.Lengths: size %d of chromosome %q out of range", size, name))
		}
		lengths[uint32(id)] = int32(size)
	}
	return lengths, nil
}
