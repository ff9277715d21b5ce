package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidaysCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"holidays", "--year", "2025"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 12)
	assert.Contains(t, lines[0], "2025-01-01")
	assert.Contains(t, out.String(), "2025-04-20  Sunday")
}

func TestSeedCommand_InMemory(t *testing.T) {
	rootCmd.SetArgs([]string{"seed", "--db", ":memory:", "--config", t.TempDir(), "--clear"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		dbPath, clearData = "", false
	})

	assert.NoError(t, rootCmd.Execute())
}

func TestSeedCommand_MissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{"seed", "--db", ":memory:", "--config", t.TempDir(), "--file", "/nonexistent/roster.json"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		dbPath, rosterFile = "", ""
	})

	assert.Error(t, rootCmd.Execute())
}
