package core

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseGo(t *testing.T, source string) *sitter.Node {
	t.Helper()
	root, err := sitter.ParseCtx(context.Background(), []byte(source), golang.GetLanguage())
	require.NoError(t, err)
	return root
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Location: Location{File: "pkg/a.go", Line: 3, Column: 10},
		Rule:     "F001",
		Message:  "redundant parameter type",
	}
	assert.Equal(t, "pkg/a.go:3:10: redundant parameter type (F001)", d.String())
}

func TestDiagnosticFingerprint(t *testing.T) {
	a := Diagnostic{Location: Location{File: "a.go", Line: 3, Column: 1}, Rule: "SA1000", Message: "m"}
	b := a
	b.Location.Line = 40
	b.Location.Column = 7
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "position does not matter")

	c := a
	c.Rule = "SA1002"
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	d := a
	d.Location.File = "b.go"
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestNodeHelpers(t *testing.T) {
	source := "package main\n\nfunc f(a string) {}\n"
	root := parseGo(t, source)

	fn := root.NamedChild(1)
	require.Equal(t, "function_declaration", fn.Type())
	params := fn.ChildByFieldName("parameters")
	require.NotNil(t, params)

	loc := LocationOf("main.go", params)
	assert.Equal(t, Location{File: "main.go", Line: 3, Column: 7}, loc)

	d := NewDiagnostic("main.go", params, "F001", "msg")
	assert.Equal(t, loc, d.Location)

	span := SpanOf(params)
	assert.Equal(t, "(a string)", source[span.Start:span.End])
	assert.Equal(t, 10, span.Len())

	edit := ReplaceNode("F001", params, []byte(source), []byte("()"))
	assert.Equal(t, span, edit.Span)
	assert.Equal(t, "(a string)", string(edit.Original))

	fixed, err := ApplyEdits([]byte(source), []Edit{edit})
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc f() {}\n", string(fixed))
}
