package cmd

import (
	"context"
	"fmt"
	"hash"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/ranges/encoding/columnar"
	"v.io/x/lib/cmdline"
)

// input is one loaded interval file.  header is set only for BAM input.
type input struct {
	path   string
	table  columnar.Table
	header *sam.Header
}

func isBAM(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".bam")
}

// loadInputs reads every path into tables that share one chromosome
// dictionary, so their group codes are comparable.
func loadInputs(ctx context.Context, paths []string, opts columnar.ReadOpts) ([]input, error) {
	dict := columnar.NewDict()
	inputs := make([]input, len(paths))
	for i, path := range paths {
		in := input{path: path}
		var err error
		if isBAM(path) {
			in.table, in.header, err = columnar.ReadBAMFromPath(ctx, path, dict)
		} else {
			in.table, err = columnar.ReadBEDFromPath(ctx, path, dict, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %v", path, err)
		}
		inputs[i] = in
	}
	return inputs, nil
}

// lengths returns the chromosome lengths used by complement.  An explicit
// sizes file must cover every chromosome of the input.  Otherwise the header
// of a BAM input is used, and with neither no trailing gaps are reported.
func lengths(ctx context.Context, in input, sizesPath string) (map[uint32]int32, error) {
	switch {
	case sizesPath != "":
		sizes, err := columnar.ReadChromSizesFromPath(ctx, sizesPath)
		if err != nil {
			return nil, err
		}
		return columnar.Lengths(in.table.Dict, sizes, true)
	case in.header != nil:
		return columnar.Lengths(in.table.Dict, columnar.ChromSizesFromHeader(in.header), false)
	}
	return nil, nil
}

// outputFlags are shared by every subcommand.
type outputFlags struct {
	out      *string
	checksum *bool
}

func addOutputFlags(cmd *cmdline.Command) outputFlags {
	return outputFlags{
		out:      cmd.Flags.String("out", "", "Output TSV path. By default, the result is written to stdout"),
		checksum: cmd.Flags.Bool("checksum", false, "Print a seahash digest of the output to stderr"),
	}
}

// writeOutput runs write against the destination selected by flags.
func writeOutput(ctx context.Context, env *cmdline.Env, flags outputFlags, write func(w io.Writer) error) error {
	var (
		e   errors.Once
		w   = env.Stdout
		out file.File
		h   hash.Hash64
	)
	if *flags.out != "" {
		var err error
		if out, err = file.Create(ctx, *flags.out); err != nil {
			return err
		}
		w = out.Writer(ctx)
	}
	if *flags.checksum {
		h = seahash.New()
		w = io.MultiWriter(w, h)
	}
	e.Set(write(w))
	if out != nil {
		e.Set(out.Close(ctx))
	}
	if h != nil && e.Err() == nil {
		fmt.Fprintf(env.Stderr, "checksum: %016x\n", h.Sum64())
	}
	return e.Err()
}

// int32Flag is an optional int32-valued flag.
type int32Flag struct {
	value int32
	set   bool
}

func (f *int32Flag) String() string {
	if !f.set {
		return ""
	}
	return strconv.FormatInt(int64(f.value), 10)
}

func (f *int32Flag) Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return err
	}
	f.value, f.set = int32(v), true
	return nil
}

// ptr returns nil if the flag was not given.
func (f *int32Flag) ptr() *int32 {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

func toSlack(slack int) (int32, error) {
	if slack < 0 || slack > math.MaxInt32 {
		return 0, fmt.Errorf("slack %d out of range", slack)
	}
	return int32(slack), nil
}
