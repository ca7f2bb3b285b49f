package matcher

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/gold/internal/parser"
)

const anyDepth = -1

func parse(t *testing.T, source string) (*sitter.Node, []byte) {
	t.Helper()
	src := []byte(source)
	tree, err := parser.New().Parse(context.Background(), src)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree.RootNode(), src
}

func TestCompile(t *testing.T) {
	q, err := Compile(`(identifier) @id`)
	require.NoError(t, err)
	assert.Equal(t, `(identifier) @id`, q.Pattern())

	_, err = Compile(`(no_such_node) @x`)
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile(`(`) })
}

func TestLazy(t *testing.T) {
	get := Lazy(`(identifier) @root`)
	assert.Same(t, get(), get())
}

func TestMatchesPredicates(t *testing.T) {
	root, src := parse(t, "package main\n\nimport \"regexp\"\n\nvar a = regexp.MustCompile(`x`)\nvar b = strings.ToLower(`y`)\n")

	q := MustCompile(`(call_expression
  function: (selector_expression
    operand: (identifier) @pkg (#eq? @pkg "regexp")
    field: (field_identifier) @fn (#match? @fn "^(Compile|MustCompile)$"))
  arguments: (argument_list . (_) @expr)) @root`)

	matches := q.Matches(root, src, anyDepth)
	require.Len(t, matches, 1)
	assert.Equal(t, "MustCompile", parser.Text(matches[0].Node("fn"), src))
	assert.Equal(t, "`x`", parser.Text(matches[0].Node("expr"), src))
	assert.Nil(t, matches[0].Node("missing"))
}

func TestMatchesDepth(t *testing.T) {
	root, src := parse(t, "package main\n\nfunc f(a int) {\n\tg := func(b int) {}\n\t_ = g\n}\n")

	q := MustCompile(`(parameter_list) @root`)

	all := q.Matches(root, src, anyDepth)
	require.Len(t, all, 2)

	assert.Empty(t, q.Matches(root, src, 0), "the file itself is not a parameter list")

	list := all[0].Node(RootCapture)
	at, ok := q.First(list, src, 0)
	require.True(t, ok)
	assert.True(t, parser.SameNode(list, at.Node(RootCapture)))

	_, ok = q.First(root, src, 0)
	assert.False(t, ok)
}

func TestMatchesDepthRequiresRoot(t *testing.T) {
	root, src := parse(t, "package main\n")
	q := MustCompile(`(package_identifier) @name`)

	assert.Panics(t, func() { q.Matches(root, src, 0) })
	assert.Len(t, q.Matches(root, src, anyDepth), 1)
}

func TestCapturesNodes(t *testing.T) {
	root, src := parse(t, "package main\n\nfunc f(a, b int, c string) {}\n")
	q := MustCompile(`(parameter_declaration name: (identifier) @name) @root`)

	var names []string
	for _, m := range q.Matches(root, src, anyDepth) {
		for _, n := range m.Nodes("name") {
			names = append(names, parser.Text(n, src))
		}
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, names)
}
