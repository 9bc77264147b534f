package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendkit/mend/internal/adapters/inbound/cli"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mend")
}

func TestScanCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nimport \"encoding/json\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0o644))

	out, err := runCommand(t, "scan", dir, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "OPT-GO-001")
	assert.Contains(t, out, "total_issues")
}

func TestScanCommand_CleanProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))

	out, err := runCommand(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found")
}

func TestFixCommand_RequiresGitRepo(t *testing.T) {
	t.Setenv("MEND_API_KEY", "test-key")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))

	_, err := runCommand(t, "fix", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git repository")
}

func TestFixCommand_RequiresAPIKey(t *testing.T) {
	t.Setenv("MEND_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()

	_, err := runCommand(t, "fix", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCommand(t, "bogus")
	assert.Error(t, err)
}
