package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scarf = `Cast on 20 stitches
Row 1: k2, p2 to end
Row 2: p2, k2 to end
Repeat rows 1-2 until scarf measures 150cm
Bind off in pattern`

func execute(t *testing.T, dir, stdin string, args ...string) string {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--backend", "diskv", "--path", filepath.Join(dir, "projects"), "--color", "never"}, args...))
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestProjectLifecycle(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROWCOUNT_CONFIG_PATH", dir)

	out := execute(t, dir, scarf, "create", "Ribbed", "Scarf", "--worked", "1h")
	assert.Contains(t, out, "Ribbed Scarf")
	assert.Contains(t, out, "getting started")

	out = execute(t, dir, "", "next", "Ribbed Scarf")
	assert.Contains(t, out, "row 1")

	execute(t, dir, "", "session", "start", "Ribbed Scarf")
	out = execute(t, dir, "", "next", "Ribbed Scarf", "-n", "3")
	assert.Contains(t, out, "row 2")
	assert.Contains(t, out, "start repeat rows 1-2")

	out = execute(t, dir, "", "session", "end", "Ribbed Scarf")
	assert.Contains(t, out, "Session saved")
	assert.Contains(t, out, "1 rows")

	out = execute(t, dir, "", "show", "ribbed scarf", "-o", "yaml")
	assert.Contains(t, out, "title: Ribbed Scarf")
	assert.Contains(t, out, "currentRowIndex: 1")

	out = execute(t, dir, "", "list")
	assert.Contains(t, out, "Ribbed Scarf")
	assert.Contains(t, out, "row 2")

	out = execute(t, dir, "", "rm", "Ribbed Scarf", "--yes")
	assert.Contains(t, out, "Removed")

	out = execute(t, dir, "", "ls")
	assert.Contains(t, out, "no projects")
}

func TestRepeatCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROWCOUNT_CONFIG_PATH", dir)

	execute(t, dir, scarf, "create", "Scarf", "--start-row", "2")
	out := execute(t, dir, "", "repeat", "Scarf", "-q")
	assert.Contains(t, out, "pass 2")

	execute(t, dir, "", "next", "Scarf")
	out = execute(t, dir, "", "again", "Scarf", "-q")
	assert.Contains(t, out, "pass 3")

	execute(t, dir, "", "next", "Scarf")
	out = execute(t, dir, "", "finish", "Scarf")
	assert.Contains(t, out, "finishing: Bind off in pattern")
}

func TestRemoveAsksFirst(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROWCOUNT_CONFIG_PATH", dir)

	execute(t, dir, scarf, "create", "Scarf")
	out := execute(t, dir, "n\n", "remove", "Scarf")
	assert.Contains(t, out, "Not removed.")

	out = execute(t, dir, "", "list")
	assert.Contains(t, out, "Scarf")
}

func TestErrorsAsJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROWCOUNT_CONFIG_PATH", dir)

	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--backend", "diskv", "--path", filepath.Join(dir, "projects"), "show", "missing"})
	assert.Error(t, cmd.Execute())

	cmd = New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--backend", "diskv", "--path", filepath.Join(dir, "projects"), "--json", "show", "missing"})
	assert.NoError(t, cmd.Execute())
}
