package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
	"v.io/x/lib/cmdline"
)

func writeFile(t *testing.T, dir, name, data string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	env := &cmdline.Env{Stdout: &stdout, Stderr: &stderr}
	err := cmdline.ParseAndRun(newCmdRoot(), env, args)
	return stdout.String(), stderr.String(), err
}

func TestCommands(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	a := writeFile(t, dir, "a.bed", "chr1\t0\t10\nchr1\t5\t15\nchr2\t0\t5\n")
	b := writeFile(t, dir, "b.bed", "chr1\t12\t20\nchr2\t10\t20\n")
	sizes := writeFile(t, dir, "chrom.sizes", "chr1\t30\nchr2\t20\n")

	tests := []struct {
		args []string
		want string
	}{
		{
			[]string{"merge", a},
			"#chrom\tstart\tend\tcount\nchr1\t0\t15\t2\nchr2\t0\t5\t1\n",
		},
		{
			[]string{"overlaps", a, b},
			"#chrom\tstart\tend\tstart_b\tend_b\tidx\tidx_b\nchr1\t5\t15\t12\t20\t1\t0\n",
		},
		{
			[]string{"count", "-slack=5", a, b},
			"#chrom\tstart\tend\tcount\nchr1\t0\t10\t1\nchr1\t5\t15\t1\nchr2\t0\t5\t0\n",
		},
		{
			[]string{"nonoverlap", a, b},
			"#chrom\tstart\tend\tidx\nchr1\t0\t10\t0\nchr2\t0\t5\t2\n",
		},
		{
			[]string{"complement", "-chromsizes", sizes, a},
			"#chrom\tstart\tend\nchr1\t15\t30\nchr2\t5\t20\n",
		},
		{
			[]string{"subtract", a, b},
			"#chrom\tstart\tend\tidx\nchr1\t0\t10\t0\nchr1\t5\t12\t1\nchr2\t0\t5\t2\n",
		},
		{
			[]string{"extend", "-ext=2", b},
			"#chrom\tstart\tend\nchr1\t10\t22\nchr2\t8\t22\n",
		},
	}
	for _, test := range tests {
		stdout, _, err := run(t, test.args...)
		require.NoError(t, err, "args %v", test.args)
		expect.EQ(t, stdout, test.want, "args %v", test.args)
	}
}

func TestOutputAndChecksum(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	a := writeFile(t, dir, "a.bed", "chr1\t0\t10\nchr1\t5\t15\n")
	out := filepath.Join(dir, "out.tsv")

	stdout, stderr, err := run(t, "cluster", "-out", out, "-checksum", a)
	require.NoError(t, err)
	expect.EQ(t, stdout, "")
	expect.True(t, strings.HasPrefix(stderr, "checksum: "))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	expect.EQ(t, string(data), "#chrom\tstart\tend\tcluster\tidx\nchr1\t0\t10\t0\t0\nchr1\t5\t15\t0\t1\n")

	// The digest depends only on the output.
	_, stderr2, err := run(t, "cluster", "-checksum", a)
	require.NoError(t, err)
	expect.EQ(t, stderr2, stderr)
}

func TestCommandErrors(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	a := writeFile(t, dir, "a.bed", "chr1\t0\t10\n")
	for _, args := range [][]string{
		{"overlaps", a},
		{"overlaps", "-type=middle", a, a},
		{"nearest", "-direction=up", a, a},
		{"merge", "-slack=-1", a},
		{"extend", a},
		{"merge", filepath.Join(dir, "missing.bed")},
	} {
		_, _, err := run(t, args...)
		expect.True(t, err != nil, "args %v", args)
	}
}

func TestWriteOutputError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := &cmdline.Env{Stdout: &stdout, Stderr: &stderr}
	out, checksum := "", true
	flags := outputFlags{out: &out, checksum: &checksum}
	err := writeOutput(vcontext.Background(), env, flags, func(w io.Writer) error {
		fmt.Fprint(w, "partial")
		return fmt.Errorf("write failed")
	})
	require.Error(t, err)
	expect.EQ(t, err.Error(), "write failed")
	expect.EQ(t, stdout.String(), "partial")
	// No digest is printed for a failed write.
	expect.EQ(t, stderr.String(), "")
}
