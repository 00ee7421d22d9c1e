package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, text string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.ћпп")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestRunCleanProgramExitsZero(t *testing.T) {
	path := writeSource(t, "главна() < врати 0; >")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--stop-after", "parsing", path})
	assert.NoError(t, cmd.Execute())
}

func TestRunSyntaxErrorReturnsNonNilError(t *testing.T) {
	path := writeSource(t, "главна( < врати 0; >")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--stop-after", "parsing", path})
	assert.Error(t, cmd.Execute())
}

func TestRunUnknownTargetRejected(t *testing.T) {
	path := writeSource(t, "главна() < врати 0; >")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--target", "arm64", "--stop-after", "parsing", path})
	assert.Error(t, cmd.Execute())
}

func TestRunWritesPrettyPrintToOutputFile(t *testing.T) {
	path := writeSource(t, "главна() < врати 0; >")
	outPath := filepath.Join(t.TempDir(), "out.txt")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--stop-after", "parsing", "-o", outPath, path})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FunctionDecl name=главна")
}

func TestRunStopsAfterLexing(t *testing.T) {
	path := writeSource(t, "ако ако1 _ако")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--stop-after", "lexing", path})
	assert.NoError(t, cmd.Execute())
}

func TestRunAcceptsFusedOptLevelFlag(t *testing.T) {
	path := writeSource(t, "главна() < врати 0; >")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"-O2", "--stop-after", "parsing", path})
	assert.NoError(t, cmd.Execute())
}
