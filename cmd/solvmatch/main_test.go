package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testSolvents  = "id,solvent,dD,dP,dH\n0,water,0,0,0\n1,ethanol,10,0,0\n2,acetone,0,10,0\n"
	testCompounds = "id,drug,d_d,d_p,d_h\n0,aspirin,5,0,1\n"
)

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithInput(t, nil, args...)
}

// executeWithInput is execute with stdin set to in.
func executeWithInput(t *testing.T, in io.Reader, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	if in != nil {
		cmd.SetIn(in)
	}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// fixture writes the test tables into a fresh directory and isolates the
// default config location.
func fixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solvents.csv"), []byte(testSolvents), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "compounds.csv"), []byte(testCompounds), 0o644))
	return dir
}
