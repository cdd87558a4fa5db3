package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/solvmatch/codec"
	"github.com/hupe1980/solvmatch/model"
	"github.com/hupe1980/solvmatch/table"
)

func TestMatchStdout(t *testing.T) {
	dir := fixture(t)

	stdout, _, err := execute(t, "match",
		"--compounds", filepath.Join(dir, "compounds.csv"),
		"--solvents", filepath.Join(dir, "solvents.csv"),
		"-n", "1", "-m", "1",
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Equal(t,
		"compound,pair_id,solvent_a,solvent_a_ratio,solvent_b,solvent_b_ratio,distance\n"+
			"aspirin,1,water,50,ethanol,50,1\n",
		stdout)
}

func TestMatchStdin(t *testing.T) {
	dir := fixture(t)
	want := "compound,pair_id,solvent_a,solvent_a_ratio,solvent_b,solvent_b_ratio,distance\n" +
		"aspirin,1,water,50,ethanol,50,1\n"

	var zst bytes.Buffer
	w, err := zstd.NewWriter(&zst)
	require.NoError(t, err)
	_, err = w.Write([]byte(testCompounds))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	tests := []struct {
		name  string
		input []byte
		args  []string
	}{
		{"CompoundsCSV", []byte(testCompounds), []string{"--compounds", "-", "--solvents", filepath.Join(dir, "solvents.csv")}},
		{"SolventsTSV", []byte(strings.ReplaceAll(testSolvents, ",", "\t")), []string{"--compounds", filepath.Join(dir, "compounds.csv"), "--solvents", "-", "--stdin-format", "tsv"}},
		{"CompressedCompounds", zst.Bytes(), []string{"--compounds", "-", "--solvents", filepath.Join(dir, "solvents.csv"), "--stdin-format", "csv.zst"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"match", "-n", "1", "-m", "1", "--log-level", "error"}, tt.args...)
			stdout, _, err := executeWithInput(t, bytes.NewReader(tt.input), args...)
			require.NoError(t, err)
			assert.Equal(t, want, stdout)
		})
	}
}

func TestMatchOutputs(t *testing.T) {
	dir := fixture(t)
	metrics := filepath.Join(dir, "solvmatch.prom")

	_, _, err := execute(t, "match",
		"--compounds", filepath.Join(dir, "compounds.csv"),
		"--solvents", filepath.Join(dir, "solvents.csv"),
		"-n", "3", "-m", "2",
		"--output", filepath.Join(dir, "out", "results.json"),
		"--pairs-output", filepath.Join(dir, "out", "report.db"),
		"--per-compound", filepath.Join(dir, "out", "neighbors.csv.zst"),
		"--metrics-textfile", metrics,
		"--log-format", "json",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out", "results.json"))
	require.NoError(t, err)
	var rows []model.ResultRow
	require.NoError(t, codec.Default.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "aspirin", rows[0].Compound)

	db, err := table.OpenDB(filepath.Join(dir, "out", "report.db"))
	require.NoError(t, err)
	defer db.Close()
	pairs, err := db.Pairs(context.Background())
	require.NoError(t, err)
	assert.Len(t, pairs, 2)

	_, err = os.Stat(filepath.Join(dir, "out", "neighbors.csv.zst"))
	require.NoError(t, err)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "solvmatch_pairs_scored_total 3")
	assert.Contains(t, string(prom), "solvmatch_last_run_failed 0")
}

func TestMatchConfigFile(t *testing.T) {
	dir := fixture(t)
	cfgPath := filepath.Join(dir, "solvmatch.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("nearest: 1\nmax_results: 1\nlog:\n  level: error\n"), 0o644))

	stdout, _, err := execute(t, "match", "--config", cfgPath,
		"--compounds", filepath.Join(dir, "compounds.csv"),
		"--solvents", filepath.Join(dir, "solvents.csv"),
		"--format", "tsv",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "aspirin\t1\twater\t50\tethanol\t50\t1\n")
}

func TestMatchErrors(t *testing.T) {
	dir := fixture(t)
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("id,name,d_d\n1,x,2\n"), 0o644))
	badCfg := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(badCfg, []byte("ratio_policy: retry\n"), 0o644))

	compounds := filepath.Join(dir, "compounds.csv")
	solvents := filepath.Join(dir, "solvents.csv")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing required flag", []string{"match", "--compounds", compounds}, ExitError},
		{"invalid nearest", []string{"match", "--compounds", compounds, "--solvents", solvents, "-n", "0"}, ExitConfigError},
		{"invalid config file", []string{"match", "--config", badCfg, "--compounds", compounds, "--solvents", solvents}, ExitConfigError},
		{"missing config file", []string{"match", "--config", filepath.Join(dir, "nope.yml"), "--compounds", compounds, "--solvents", solvents}, ExitConfigError},
		{"unknown scheme", []string{"match", "--compounds", "ftp://x/y.csv", "--solvents", solvents}, ExitConfigError},
		{"both tables on stdin", []string{"match", "--compounds", "-", "--solvents", "-"}, ExitConfigError},
		{"unsupported stdin format", []string{"match", "--compounds", "-", "--solvents", solvents, "--stdin-format", "xlsx"}, ExitConfigError},
		{"invalid ratio policy flag", []string{"match", "--compounds", compounds, "--solvents", solvents, "--ratio-policy", "retry"}, ExitConfigError},
		{"unsupported output", []string{"match", "--compounds", compounds, "--solvents", solvents, "-o", filepath.Join(dir, "r.xlsx")}, ExitConfigError},
		{"malformed table", []string{"match", "--compounds", bad, "--solvents", solvents}, ExitDataError},
		{"missing table", []string{"match", "--compounds", filepath.Join(dir, "nope.csv"), "--solvents", solvents}, ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append(tt.args, "--log-level", "error")...)
			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(err))
		})
	}
}
