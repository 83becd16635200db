package columnar

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// ReadBAM loads the alignment span [Pos, End()) of every mapped record of a
// BAM stream, in file order, with the strand taken from the reverse flag.
// Unmapped records are skipped.  If dict is nil, a dictionary in header
// order is created.  The header is returned for use with
// ChromSizesFromHeader.
func ReadBAM(r io.Reader, dict *Dict) (Table, *sam.Header, error) {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return Table{}, nil, errors.Wrap(err, "columnar.ReadBAM")
	}
	defer br.Close()
	header := br.Header()
	if dict == nil {
		dict = NewDictFromHeader(header)
	}
	// refGroup caches the dictionary code of each reference ID.
	refGroup := make([]uint32, len(header.Refs()))
	for i, ref := range header.Refs() {
		refGroup[i] = dict.ID(ref.Name())
	}

	t := Table{Dict: dict}
	s := &t.Set
	s.Strands = []bool{}
	var nUnmapped int
	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, nil, errors.Wrapf(err, "columnar.ReadBAM: record %d", t.Len()+nUnmapped)
		}
		if rec.Ref == nil || rec.Flags&sam.Unmapped != 0 {
			nUnmapped++
			sam.PutInFreePool(rec)
			continue
		}
		s.Groups = append(s.Groups, refGroup[rec.Ref.ID()])
		s.Starts = append(s.Starts, int32(rec.Pos))
		s.Ends = append(s.Ends, int32(rec.End()))
		s.Strands = append(s.Strands, rec.Flags&sam.Reverse == 0)
		sam.PutInFreePool(rec)
	}
	log.Printf("BAM loaded, %d mapped record(s), %d unmapped skipped.", t.Len(), nUnmapped)
	return t, header, nil
}

// ReadBAMFromPath is a wrapper for ReadBAM that takes a path instead of an
// io.Reader.
func ReadBAMFromPath(ctx context.Context, path string, dict *Dict) (t Table, header *sam.Header, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return ReadBAM(infile.Reader(ctx), dict)
}
