package linter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/gold/core"
	"github.com/termfx/gold/internal/config"
	"github.com/termfx/gold/internal/oracle"
	"github.com/termfx/gold/internal/parser"
	"github.com/termfx/gold/internal/rules"
)

// overlapRule proposes two edits sharing bytes of every source file.
type overlapRule struct{}

func (overlapRule) ID() string { return "X001" }
func (overlapRule) Description() string { return "overlapping edits" }
func (overlapRule) Kinds() []parser.Kind { return []parser.Kind{parser.KindSourceFile} }
func (r overlapRule) Check(ctx *rules.Context, node *sitter.Node) rules.Result {
	return rules.Result{
		Diagnostic: ctx.Diagnose(node, r.ID(), "overlap"),
		Edits: []core.Edit{
			{Rule: r.ID(), Span: core.Span{Start: 0, End: 4}, Replacement: []byte("PACK")},
			{Rule: r.ID(), Span: core.Span{Start: 2, End: 6}, Replacement: []byte("xx")},
		},
	}
}

func TestOverlappingEditsFailTheFile(t *testing.T) {
	dir := writeModule(t, map[string]string{"demo.go": cleanSource})
	path := filepath.Join(dir, "demo.go")

	var stderr bytes.Buffer
	ml := NewModuleLinter(Options{Fix: true},
		WithOutput(&bytes.Buffer{}, &stderr),
		WithRegistry(rules.NewRegistry(overlapRule{})))

	summary, err := ml.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Errors)
	assert.Contains(t, stderr.String(), core.ErrEditOverlap.Error())
	assert.Equal(t, cleanSource, read(t, path))
}

func TestCheckDispatchesDeclarationsBeforeUse(t *testing.T) {
	src := `package demo

import "regexp"

func f() {
	regexp.MustCompile(later)
}

const later = "("
`
	fl, err := NewFileLinter(config.Default(), rules.Default(), oracle.New(0), "", Options{})
	require.NoError(t, err)

	res, err := fl.Check(context.Background(), "demo.go", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func TestCheckRejectsInvalidSource(t *testing.T) {
	fl, err := NewFileLinter(config.Default(), rules.Default(), oracle.New(0), "", Options{})
	require.NoError(t, err)

	_, err = fl.Check(context.Background(), "demo.go", []byte("package demo\n\nvar = \n"))
	assert.ErrorIs(t, err, core.ErrParse)
}

func TestLintMissingFile(t *testing.T) {
	fl, err := NewFileLinter(config.Default(), rules.Default(), oracle.New(0), "", Options{})
	require.NoError(t, err)

	_, err = fl.Lint(context.Background(), filepath.Join(t.TempDir(), "missing.go"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
