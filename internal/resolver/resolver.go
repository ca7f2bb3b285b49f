// Package resolver evaluates expressions to string literals known at the point of
// use, following bindings made by earlier declarations in the same file.
//
// The scope is flow-insensitive: one mapping per file, a later declaration of a name
// overwrites an earlier one regardless of block or function boundaries. Anything that
// is not a string literal, a bound identifier or an import path evaluates to nothing,
// and rules stay silent on values they cannot resolve.
package resolver

import (
	"path"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/gold/internal/parser"
)

// Resolver owns the literal scope of one file traversal.
type Resolver struct {
	source []byte
	scope  map[string]string
}

// New creates an empty scope over source.
func New(source []byte) *Resolver {
	return &Resolver{
		source: source,
		scope:  make(map[string]string),
	}
}

// Lookup returns the literal bound to name.
func (r *Resolver) Lookup(name string) (string, bool) {
	v, ok := r.scope[name]
	return v, ok
}

// Len returns the number of bound names.
func (r *Resolver) Len() int {
	return len(r.scope)
}

// Bind records the value of node under name. When node does not evaluate, any
// earlier binding of name is kept.
func (r *Resolver) Bind(name string, node *sitter.Node) {
	if v, ok := r.Eval(node); ok {
		r.scope[name] = v
	}
}

// Eval returns the literal string value of node.
func (r *Resolver) Eval(node *sitter.Node) (string, bool) {
	if node == nil {
		return "", false
	}

	text := parser.Text(node, r.source)

	switch parser.KindOf(node) {
	case parser.KindIdentifier:
		return r.Lookup(text)
	case parser.KindInterpretedStringLiteral:
		if v, err := strconv.Unquote(text); err == nil {
			return v, true
		}
		return strings.TrimSuffix(strings.TrimPrefix(text, `"`), `"`), true
	case parser.KindRawStringLiteral:
		v := strings.TrimSuffix(strings.TrimPrefix(text, "`"), "`")
		return strings.ReplaceAll(v, "\r", ""), true
	default:
		return "", false
	}
}

// Declare binds every name introduced by a constant, variable, short variable or
// import declaration. Left and right sides are paired by position; other node kinds
// are ignored.
func (r *Resolver) Declare(node *sitter.Node) {
	switch parser.KindOf(node) {
	case parser.KindConstDeclaration, parser.KindVarDeclaration:
		r.declareSpecs(node)
	case parser.KindConstSpec, parser.KindVarSpec:
		r.declareSpec(node)
	case parser.KindShortVarDeclaration:
		left := namedChildren(node.ChildByFieldName("left"))
		right := namedChildren(node.ChildByFieldName("right"))
		r.pair(left, right)
	case parser.KindImportSpec:
		r.declareImport(node)
	default:
	}
}

// declareSpecs walks the specs of a declaration, including parenthesised groups.
func (r *Resolver) declareSpecs(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch parser.KindOf(child) {
		case parser.KindConstSpec, parser.KindVarSpec:
			r.declareSpec(child)
		default:
			if child.Type() == "var_spec_list" {
				r.declareSpecs(child)
			}
		}
	}
}

func (r *Resolver) declareSpec(spec *sitter.Node) {
	var names []*sitter.Node
	for i := 0; i < int(spec.NamedChildCount()); i++ {
		child := spec.NamedChild(i)
		if parser.KindOf(child) == parser.KindIdentifier {
			names = append(names, child)
		}
	}
	r.pair(names, namedChildren(spec.ChildByFieldName("value")))
}

func (r *Resolver) pair(names, values []*sitter.Node) {
	for i, name := range names {
		if i >= len(values) {
			return
		}
		if parser.KindOf(name) != parser.KindIdentifier {
			continue
		}
		r.Bind(parser.Text(name, r.source), values[i])
	}
}

// declareImport binds the local package name to the import path. Without an alias the
// last path element is the name; blank and dot imports introduce no name.
func (r *Resolver) declareImport(spec *sitter.Node) {
	pathNode := spec.ChildByFieldName("path")
	importPath, ok := r.Eval(pathNode)
	if !ok || importPath == "" {
		return
	}

	name := path.Base(importPath)
	if alias := spec.ChildByFieldName("name"); alias != nil {
		if parser.Text(alias, r.source) == "_" || parser.Text(alias, r.source) == "." {
			return
		}
		name = parser.Text(alias, r.source)
	}

	r.scope[name] = importPath
}

// namedChildren lists the expressions of an expression list, skipping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	var nodes []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if parser.KindOf(child) == parser.KindComment {
			continue
		}
		nodes = append(nodes, child)
	}
	return nodes
}
