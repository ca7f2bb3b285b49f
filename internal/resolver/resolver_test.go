package resolver

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/gold/internal/parser"
)

// declareAll feeds every declaration of the file to r in pre-order.
func declareAll(t *testing.T, source string) *Resolver {
	t.Helper()
	src := []byte(source)
	tree, err := parser.New().Parse(context.Background(), src)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	r := New(src)
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch parser.KindOf(n) {
		case parser.KindConstSpec, parser.KindVarSpec, parser.KindShortVarDeclaration, parser.KindImportSpec:
			r.Declare(n)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(tree.RootNode())
	return r
}

func TestDeclare(t *testing.T) {
	r := declareAll(t, `package main

import (
	"regexp"
	tmpl "text/template"
	_ "embed"
	. "strings"
)

const single = "one"

const (
	a, b = "alpha", "beta"
	raw  = `+"`x\\d`"+`
)

var (
	v1 = "var"
	v2 = 42
)

var copied = single

func main() {
	short, n := "short", 1
	_, _ = short, n
}
`)

	bound := map[string]string{
		"regexp": "regexp",
		"tmpl":   "text/template",
		"single": "one",
		"a":      "alpha",
		"b":      "beta",
		"raw":    `x\d`,
		"v1":     "var",
		"copied": "one",
		"short":  "short",
	}
	for name, want := range bound {
		got, ok := r.Lookup(name)
		if assert.True(t, ok, name) {
			assert.Equal(t, want, got, name)
		}
	}

	for _, name := range []string{"v2", "n", "embed", "strings", "_", "template"} {
		_, ok := r.Lookup(name)
		assert.False(t, ok, name)
	}
	assert.Equal(t, len(bound), r.Len())
}

func TestDeclareOverwrites(t *testing.T) {
	r := declareAll(t, `package main

var p = "first"

func f() {
	p := "second"
	_ = p
}

func g() {
	p := compute()
	_ = p
}
`)

	got, ok := r.Lookup("p")
	require.True(t, ok)
	assert.Equal(t, "second", got, "later declarations win, unresolvable ones keep the binding")
}

func TestEval(t *testing.T) {
	src := []byte("package main\n\nvar a, b, c, d, e = \"a\\tb\", `c\\d`, name, 1, f()\n")
	tree, err := parser.New().Parse(context.Background(), src)
	require.NoError(t, err)
	defer tree.Close()

	r := New(src)
	r.scope["name"] = "bound"

	spec := tree.RootNode().NamedChild(1).NamedChild(0)
	require.Equal(t, parser.KindVarSpec, parser.KindOf(spec))
	values := namedChildren(spec.ChildByFieldName("value"))
	require.Len(t, values, 5)

	tests := []struct {
		want string
		ok   bool
	}{
		{"a\tb", true},
		{`c\d`, true},
		{"bound", true},
		{"", false},
		{"", false},
	}
	for i, tt := range tests {
		got, ok := r.Eval(values[i])
		assert.Equal(t, tt.ok, ok, parser.Text(values[i], src))
		assert.Equal(t, tt.want, got, parser.Text(values[i], src))
	}

	_, ok := r.Eval(nil)
	assert.False(t, ok)
}
