package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/ranges/encoding/columnar"
	"github.com/grailbio/ranges/interval"
	"v.io/x/lib/cmdline"
)

// opFunc computes one operation over loaded inputs and writes its TSV
// result.
type opFunc func(ctx context.Context, in []input, w io.Writer) error

// newOp builds a subcommand over nInputs interval files.  bind registers the
// operation's own flags and returns its body.
func newOp(name, short string, nInputs int, bind func(fs *flag.FlagSet) opFunc) *cmdline.Command {
	argsName := "a.bed"
	if nInputs == 2 {
		argsName = "a.bed b.bed"
	}
	cmd := &cmdline.Command{
		Name:     name,
		Short:    short,
		ArgsName: argsName,
		ArgsLong: "Inputs are BED files (optionally gzipped) or, by the .bam extension, BAM files.",
	}
	var readOpts columnar.ReadOpts
	cmd.Flags.BoolVar(&readOpts.OneBasedInput, "one-based", false, "Interpret BED coordinates as one-based, closed intervals")
	output := addOutputFlags(cmd)
	run := bind(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != nInputs {
			return fmt.Errorf("%s takes %d pathname argument(s), but got %v", name, nInputs, argv)
		}
		ctx := vcontext.Background()
		inputs, err := loadInputs(ctx, argv, readOpts)
		if err != nil {
			return err
		}
		return writeOutput(ctx, env, output, func(w io.Writer) error {
			return run(ctx, inputs, w)
		})
	})
	return cmd
}

func slackFlag(fs *flag.FlagSet) *int {
	return fs.Int("slack", 0, "Distance within which intervals count as touching")
}

func newCmdOverlaps() *cmdline.Command {
	return newOp("overlaps", "List pairs of overlapping intervals of a and b", 2, func(fs *flag.FlagSet) opFunc {
		slack := slackFlag(fs)
		typ := fs.String("type", "all", "Pairs to report per interval of a: all, first or last")
		contained := fs.Bool("contained", false, "Report only b intervals that contain the a interval")
		return func(ctx context.Context, in []input, w io.Writer) error {
			s, err := toSlack(*slack)
			if err != nil {
				return err
			}
			t, err := interval.ParseOverlapType(*typ)
			if err != nil {
				return err
			}
			a, b := in[0].table, in[1].table
			pairs, err := interval.Overlaps(a.Set, b.Set, interval.OverlapOpts[int32]{
				Slack:      s,
				Type:       t,
				Contained:  *contained,
				SortOutput: true,
			})
			if err != nil {
				return err
			}
			return columnar.WritePairs(w, a, b, pairs)
		}
	})
}

func newCmdCount() *cmdline.Command {
	return newOp("count", "Count the b intervals overlapping each interval of a", 2, func(fs *flag.FlagSet) opFunc {
		slack := slackFlag(fs)
		return func(ctx context.Context, in []input, w io.Writer) error {
			s, err := toSlack(*slack)
			if err != nil {
				return err
			}
			counts, err := interval.CountOverlaps(in[0].table.Set, in[1].table.Set, s)
			if err != nil {
				return err
			}
			return columnar.WriteCounts(w, in[0].table, counts)
		}
	})
}

func newCmdNearest() *cmdline.Command {
	return newOp("nearest", "Find the nearest b intervals of each interval of a", 2, func(fs *flag.FlagSet) opFunc {
		slack := slackFlag(fs)
		k := fs.Int("k", interval.DefaultNearestK, "Number of distinct distances to report per interval")
		direction := fs.String("direction", "any", "Search direction: any, forward or backward")
		overlaps := fs.Bool("overlaps", true, "Report overlapping intervals at distance 0")
		return func(ctx context.Context, in []input, w io.Writer) error {
			s, err := toSlack(*slack)
			if err != nil {
				return err
			}
			dir, err := interval.ParseDirection(*direction)
			if err != nil {
				return err
			}
			a, b := in[0].table, in[1].table
			n, err := interval.Nearest(a.Set, b.Set, interval.NearestOpts[int32]{
				Slack:           s,
				K:               *k,
				IncludeOverlaps: *overlaps,
				Direction:       dir,
			})
			if err != nil {
				return err
			}
			return columnar.WriteNeighbors(w, a, b, n)
		}
	})
}

func newCmdMerge() *cmdline.Command {
	return newOp("merge", "Merge overlapping intervals into runs", 1, func(fs *flag.FlagSet) opFunc {
		slack := slackFlag(fs)
		return func(ctx context.Context, in []input, w io.Writer) error {
			s, err := toSlack(*slack)
			if err != nil {
				return err
			}
			runs, err := interval.Merge(in[0].table.Set, s)
			if err != nil {
				return err
			}
			return columnar.WriteRuns(w, in[0].table, runs)
		}
	})
}

func newCmdCluster() *cmdline.Command {
	return newOp("cluster", "Label each interval with the ID of its cluster", 1, func(fs *flag.FlagSet) opFunc {
		slack := slackFlag(fs)
		return func(ctx context.Context, in []input, w io.Writer) error {
			s, err := toSlack(*slack)
			if err != nil {
				return err
			}
			c, err := interval.Cluster(in[0].table.Set, s)
			if err != nil {
				return err
			}
			return columnar.WriteClusters(w, in[0].table, c)
		}
	})
}

func newCmdBoundary() *cmdline.Command {
	return newOp("boundary", "Report the outer bounds of each chromosome", 1, func(fs *flag.FlagSet) opFunc {
		return func(ctx context.Context, in []input, w io.Writer) error {
			runs, err := interval.Boundary(in[0].table.Set)
			if err != nil {
				return err
			}
			return columnar.WriteRuns(w, in[0].table, runs)
		}
	})
}

func newCmdComplement() *cmdline.Command {
	return newOp("complement", "Report the gaps between intervals", 1, func(fs *flag.FlagSet) opFunc {
		slack := slackFlag(fs)
		sizesPath := fs.String("chromsizes", "", `Chromosome sizes ("chrom<TAB>size") that bound the trailing gaps.
By default, the header of a BAM input is used; BED input without sizes gets no trailing gaps.`)
		includeFirst := fs.Bool("include-first", false, "Report the gap from position 0 to the first interval")
		return func(ctx context.Context, in []input, w io.Writer) error {
			s, err := toSlack(*slack)
			if err != nil {
				return err
			}
			l, err := lengths(ctx, in[0], *sizesPath)
			if err != nil {
				return err
			}
			gaps, err := interval.Complement(in[0].table.Set, s, l, *includeFirst)
			if err != nil {
				return err
			}
			return columnar.WriteGaps(w, in[0].table.Dict, gaps)
		}
	})
}

func newCmdNonOverlap() *cmdline.Command {
	return newOp("nonoverlap", "List the intervals of a that overlap no interval of b", 2, func(fs *flag.FlagSet) opFunc {
		slack := slackFlag(fs)
		return func(ctx context.Context, in []input, w io.Writer) error {
			s, err := toSlack(*slack)
			if err != nil {
				return err
			}
			rows, err := interval.NonOverlapping(in[0].table.Set, in[1].table.Set, s)
			if err != nil {
				return err
			}
			return columnar.WriteRows(w, in[0].table, rows)
		}
	})
}

func newCmdSubtract() *cmdline.Command {
	return newOp("subtract", "Remove the parts of a covered by b", 2, func(fs *flag.FlagSet) opFunc {
		return func(ctx context.Context, in []input, w io.Writer) error {
			frags, err := interval.Subtract(in[0].table.Set, in[1].table.Set)
			if err != nil {
				return err
			}
			return columnar.WriteFragments(w, in[0].table, frags)
		}
	})
}

func newCmdMaxDisjoint() *cmdline.Command {
	return newOp("maxdisjoint", "Select a maximum set of mutually disjoint intervals", 1, func(fs *flag.FlagSet) opFunc {
		slack := slackFlag(fs)
		return func(ctx context.Context, in []input, w io.Writer) error {
			s, err := toSlack(*slack)
			if err != nil {
				return err
			}
			rows, err := interval.MaxDisjoint(in[0].table.Set, s)
			if err != nil {
				return err
			}
			return columnar.WriteRows(w, in[0].table, rows)
		}
	})
}

func newCmdSplit() *cmdline.Command {
	return newOp("split", "Cut intervals at every start and end", 1, func(fs *flag.FlagSet) opFunc {
		slack := slackFlag(fs)
		between := fs.Bool("between", false, "Also report the uncovered pieces between intervals")
		return func(ctx context.Context, in []input, w io.Writer) error {
			s, err := toSlack(*slack)
			if err != nil {
				return err
			}
			frags, err := interval.Split(in[0].table.Set, s, *between)
			if err != nil {
				return err
			}
			return columnar.WriteFragments(w, in[0].table, frags)
		}
	})
}

func newCmdExtend() *cmdline.Command {
	return newOp("extend", "Widen intervals, optionally by strand", 1, func(fs *flag.FlagSet) opFunc {
		var ext, ext3, ext5 int32Flag
		fs.Var(&ext, "ext", "Widen both sides by this amount")
		fs.Var(&ext3, "ext3", "Widen the 3' side by this amount")
		fs.Var(&ext5, "ext5", "Widen the 5' side by this amount")
		grouped := fs.Bool("grouped", false, "Treat each chromosome as a single feature")
		return func(ctx context.Context, in []input, w io.Writer) error {
			t := in[0].table
			s, err := interval.Extend(t.Set, interval.ExtendOpts[int32]{
				Ext:     ext.ptr(),
				Ext3:    ext3.ptr(),
				Ext5:    ext5.ptr(),
				Grouped: *grouped,
			})
			if err != nil {
				return err
			}
			t.Set = s
			return columnar.WriteTable(w, t)
		}
	})
}

func newCmdCumsum() *cmdline.Command {
	return newOp("cumsum", "Report cumulative per-chromosome coordinates of interval lengths", 1, func(fs *flag.FlagSet) opFunc {
		byIdx := fs.Bool("by-idx", false, "Sort the output by input row instead of position")
		return func(ctx context.Context, in []input, w io.Writer) error {
			frags, err := interval.GroupCumsum(in[0].table.Set, *byIdx)
			if err != nil {
				return err
			}
			return columnar.WriteFragments(w, in[0].table, frags)
		}
	})
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-ranges",
		Short:    "Set operations over genomic interval files",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdOverlaps(),
			newCmdCount(),
			newCmdNearest(),
			newCmdMerge(),
			newCmdCluster(),
			newCmdBoundary(),
			newCmdComplement(),
			newCmdNonOverlap(),
			newCmdSubtract(),
			newCmdMaxDisjoint(),
			newCmdSplit(),
			newCmdExtend(),
			newCmdCumsum(),
		},
	}
}

func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
