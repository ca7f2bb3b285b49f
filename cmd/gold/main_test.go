package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/gold/core"
)

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("GOLD_DB", "")
	t.Setenv("GOLD_LOG_LEVEL", "")
	t.Setenv("GOLD_BACKUP", "")
	t.Setenv("GOLD_FSYNC", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

const goMod = "module example.com/m\n\ngo 1.22\n"

func TestLintClean(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":  goMod,
		"main.go": "package main\n\nfunc main() {}\n",
	})

	stdout, _, err := execute(t, dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestLintIssuesFound(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":  goMod,
		"main.go": "package main\n\nfunc f(a string, b string) {}\n",
	})

	stdout, _, err := execute(t, dir)
	assert.ErrorIs(t, err, core.ErrIssuesFound)
	assert.Contains(t, stdout, "main.go:3:10: redundant parameter type (F001)")

	_, _, err = execute(t, "--fix", dir)
	require.NoError(t, err)

	fixed, err := os.ReadFile(filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc f(a, b string) {}\n", string(fixed))
}

func TestLintFixBackup(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":  goMod,
		"main.go": "package main\n\nfunc f(a string, b string) {}\n",
	})

	_, _, err := execute(t, "--fix", "--backup", dir)
	require.NoError(t, err)

	backups, err := filepath.Glob(filepath.Join(dir, "main.go.bak.*"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	original, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc f(a string, b string) {}\n", string(original))
}

func TestLintDirectoryNamedRules(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":         goMod,
		"rules/rules.go": "package rules\n\nfunc f(a string, b string) {}\n",
	})
	t.Chdir(dir)

	stdout, _, err := execute(t, "./rules")
	assert.ErrorIs(t, err, core.ErrIssuesFound)
	assert.Contains(t, stdout, "rules.go:3:10: redundant parameter type")

	stdout, _, err = execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "F001\tenabled")
}

func TestLintDiff(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":  goMod,
		"main.go": "package main\n\nfunc f(a string, b string) {}\n",
	})

	stdout, _, err := execute(t, "--fix", "--diff", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "+func f(a, b string) {}")

	unchanged, err := os.ReadFile(filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc f(a string, b string) {}\n", string(unchanged))
}

func TestLintNewOnly(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":  goMod,
		"main.go": "package main\n\nfunc f(a string, b string) {}\n",
	})
	dsn := filepath.Join(t.TempDir(), "history.db")

	_, _, err := execute(t, "--db", dsn, "--new", dir)
	assert.ErrorIs(t, err, core.ErrIssuesFound, "first run has no baseline")

	stdout, _, err := execute(t, "--db", dsn, "--new", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestFlagValidation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"diff without fix", []string{"--diff", dir}, "--diff requires --fix"},
		{"backup without fix", []string{"--backup", dir}, "--backup requires --fix"},
		{"bad color", []string{"--color", "sometimes", dir}, "invalid --color"},
		{"new without database", []string{"--new", dir}, "--new requires"},
		{"no path", nil, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLintWithoutModule(t *testing.T) {
	_, _, err := execute(t, t.TempDir())
	assert.ErrorIs(t, err, core.ErrNoModule)
}

func TestRulesCommand(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":    goMod,
		".gold.yml": "enable: [F002, SA1000]\n",
	})

	stdout, _, err := execute(t, "rules", dir)
	require.NoError(t, err)
	assert.Equal(t,
		"F001\tdisabled\tredundant parameter type\n"+
			"F002\tenabled\tunsorted or unclassified import\n"+
			"SA1000\tenabled\tinvalid regular expression\n"+
			"SA1001\tdisabled\tinvalid template\n"+
			"SA1002\tdisabled\tinvalid time.Parse layout\n",
		stdout)
}

func TestRulesCommandForeignConfig(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":        goMod,
		".golangci.yml": "linters-settings:\n  gci:\n    sections:\n      - standard\n      - default\n",
	})

	stdout, stderr, err := execute(t, "rules", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Configuration: .golangci.yml")
	assert.Contains(t, stdout, "F001\tenabled")
}
