// Package parser wraps the tree-sitter Go grammar and names the node kinds the
// linter dispatches on.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/termfx/gold/core"
)

// Language returns the tree-sitter language for Go source files.
func Language() *sitter.Language {
	return golang.GetLanguage()
}

// Extensions lists the file extensions linted in a directory walk.
func Extensions() []string {
	return []string{".go"}
}

// Parser turns Go source into a concrete syntax tree. A Parser is not safe for
// concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// New creates a parser bound to the Go grammar.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(Language())
	return &Parser{parser: p}
}

// Parse parses source. Input the grammar cannot parse without error recovery fails
// with core.ErrParse pointing at the first broken node; the caller owns the returned
// tree and must Close it.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrParse, err)
	}
	if tree == nil {
		return nil, core.ErrParse
	}

	root := tree.RootNode()
	if root.HasError() {
		defer tree.Close()
		if bad := FirstError(root); bad != nil {
			p := bad.StartPoint()
			return nil, fmt.Errorf("%w: syntax error at line %d, column %d",
				core.ErrParse, p.Row+1, p.Column+1)
		}
		return nil, core.ErrParse
	}

	return tree, nil
}

// FirstError returns the first ERROR or MISSING node in pre-order, or nil.
func FirstError(node *sitter.Node) *sitter.Node {
	if node.IsMissing() || node.Type() == "ERROR" {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if bad := FirstError(node.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

// Text returns the source text covered by node.
func Text(node *sitter.Node, source []byte) string {
	return node.Content(source)
}

// SameNode reports whether a and b denote the same node of one tree.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() &&
		a.EndByte() == b.EndByte() &&
		a.Type() == b.Type()
}
