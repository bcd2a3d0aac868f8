package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsense/internal/entity"
)

func runWithArgs(t *testing.T, args ...string) int {
	t.Helper()
	oldArgs, oldFlags := os.Args, flag.CommandLine
	t.Cleanup(func() { os.Args, flag.CommandLine = oldArgs, oldFlags })

	os.Args = append([]string{"docsense-batch"}, args...)
	flag.CommandLine = flag.NewFlagSet("docsense-batch", flag.ContinueOnError)
	return run()
}

func TestRunBatch(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.txt"), []byte("Invoice Number: INV-1\nTotal Due: $10.00"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "b.md"), []byte("RECEIPT\nStore: SuperMart\nTotal: $5.00"), 0o644))

	xlsx := filepath.Join(out, "docs.xlsx")
	jsonl := filepath.Join(out, "results.jsonl")
	require.Equal(t, 0, runWithArgs(t, "-dir", in, "-out", xlsx, "-jsonl", jsonl, "-workers", "2"))

	assert.FileExists(t, xlsx)

	f, err := os.Open(jsonl)
	require.NoError(t, err)
	defer f.Close()

	var jobs []entity.ProcessJob
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var j entity.ProcessJob
		require.NoError(t, json.Unmarshal(sc.Bytes(), &j))
		jobs = append(jobs, j)
	}
	require.NoError(t, sc.Err())
	assert.Len(t, jobs, 2)
}

func TestRunBatchRequiresDir(t *testing.T) {
	assert.Equal(t, 1, runWithArgs(t))
}
