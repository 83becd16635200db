package columnar

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"math"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/ranges/interval"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Set is the interval set produced by the readers in this package: groups
// are Dict codes and coordinates are 0-based int32.
type Set = interval.Set[uint32, int32]

// Table is a columnar interval file.  Row i of Set describes the i-th
// interval of the input, in input order.
type Table struct {
	Dict *Dict
	Set  Set
	// Names holds the BED name column.  It is nil unless ReadOpts.KeepNames
	// was set.
	Names []string
}

// Len returns the number of rows.
func (t Table) Len() int { return t.Set.Len() }

// ReadOpts defines the behavior of the BED readers.
type ReadOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
	// KeepNames retains the fourth (name) column.
	KeepNames bool
}

// maxBEDTokens is the number of leading columns read from each line:
// chrom, start, end, name, score, strand.
const maxBEDTokens = 6

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// isHeaderLine reports whether a BED line is a comment, track or browser
// line.
func isHeaderLine(line []byte) bool {
	return (len(line) > 0 && line[0] == '#') ||
		bytes.HasPrefix(line, []byte("track")) ||
		bytes.HasPrefix(line, []byte("browser"))
}

func parsePos(token []byte, lineIdx int) (int32, error) {
	v, err := strconv.ParseInt(gunsafe.BytesToString(token), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "columnar.ReadBED: line %d", lineIdx)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.Errorf("columnar.ReadBED: coordinate %d out of range on line %d", v, lineIdx)
	}
	return int32(v), nil
}

// ReadBED loads every interval of a BED file, in file order.  Input need not
// be sorted; empty intervals are kept.  The strand column is honored when
// present: "-" is the reverse strand, anything else forward.  Strands is nil
// if no line has a strand column.
func ReadBED(r io.Reader, dict *Dict, opts ReadOpts) (Table, error) {
	t := Table{Dict: dict}
	var startSubtract int32
	if opts.OneBasedInput {
		startSubtract = 1
	}
	var (
		tokens    [maxBEDTokens][]byte
		s         = &t.Set
		hasStrand bool
		lineIdx   int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || isHeaderLine(tokens[0]) {
			continue
		}
		if nToken < 3 {
			return Table{}, errors.Errorf("columnar.ReadBED: line %d has fewer tokens than expected", lineIdx)
		}
		start, err := parsePos(tokens[1], lineIdx)
		if err != nil {
			return Table{}, err
		}
		end, err := parsePos(tokens[2], lineIdx)
		if err != nil {
			return Table{}, err
		}
		start -= startSubtract
		if end < start {
			return Table{}, errors.Errorf("columnar.ReadBED: invalid coordinate pair on line %d", lineIdx)
		}
		// The token aliases the scanner buffer, so only a new name is copied.
		chr, ok := dict.Lookup(gunsafe.BytesToString(tokens[0]))
		if !ok {
			chr = dict.ID(string(tokens[0]))
		}
		s.Groups = append(s.Groups, chr)
		s.Starts = append(s.Starts, start)
		s.Ends = append(s.Ends, end)
		if opts.KeepNames {
			name := "."
			if nToken >= 4 {
				name = string(tokens[3])
			}
			t.Names = append(t.Names, name)
		}
		if nToken == maxBEDTokens && !hasStrand {
			hasStrand = true
			s.Strands = make([]bool, len(s.Groups)-1, cap(s.Groups))
			for i := range s.Strands {
				s.Strands[i] = true
			}
		}
		if hasStrand {
			forward := nToken < maxBEDTokens || !bytes.Equal(tokens[5], []byte("-"))
			s.Strands = append(s.Strands, forward)
		}
	}
	if err := scanner.Err(); err != nil {
		return Table{}, errors.Wrap(err, "columnar.ReadBED")
	}
	log.Printf("BED loaded, %d interval(s) on %d chromosome(s).", t.Len(), dict.Len())
	return t, nil
}

// ReadBEDFromPath is a wrapper for ReadBED that takes a path instead of an
// io.Reader.  Gzipped files (by extension) are decompressed.
func ReadBEDFromPath(ctx context.Context, path string, dict *Dict, opts ReadOpts) (t Table, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			err = errors.Wrapf(err, "columnar.ReadBEDFromPath %s", path)
			return
		}
	}
	return ReadBED(reader, dict, opts)
}
