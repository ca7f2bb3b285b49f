package rules

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/gold/core"
	"github.com/termfx/gold/internal/matcher"
	"github.com/termfx/gold/internal/parser"
)

var paramQuery = matcher.Lazy(`
(parameter_list
	(parameter_declaration
		name: (identifier) @name
		type: (_) @type) @decl) @root
`)

// RedundantParamType reports adjacent parameter declarations repeating the same type,
// as in (a string, b string), which Go lets the author write as (a, b string).
type RedundantParamType struct{}

func (RedundantParamType) ID() string { return "F001" }

func (RedundantParamType) Description() string { return "redundant parameter type" }

func (RedundantParamType) Kinds() []parser.Kind {
	return []parser.Kind{parser.KindParameterList}
}

type paramGroup struct {
	decl  *sitter.Node
	typ   *sitter.Node
	names []string
}

// Check reports the first redundant type of the list and proposes, for every group
// followed by a group of the same type, to drop the type so the names join the next
// group.
func (r RedundantParamType) Check(ctx *Context, node *sitter.Node) Result {
	groups := r.groups(ctx, node)

	var res Result
	for i := 1; i < len(groups); i++ {
		prev, cur := groups[i-1], groups[i]
		typ := parser.Text(prev.typ, ctx.Source)
		if typ != parser.Text(cur.typ, ctx.Source) {
			continue
		}

		if res.Diagnostic == nil {
			res.Diagnostic = ctx.Diagnose(prev.typ, r.ID(), fmt.Sprintf(`redundant parameter type "%s"`, typ))
		}
		res.Edits = append(res.Edits,
			core.ReplaceNode(r.ID(), prev.decl, ctx.Source, []byte(strings.Join(prev.names, ", "))))
	}

	if res.Diagnostic != nil && r.insideRedundantType(ctx, node) {
		res.Edits = nil
		res.Covered = true
	}
	return res
}

// insideRedundantType reports whether node lies in the type of a declaration that an
// enclosing list merges into the next one. That edit drops the type, so edits inside
// it would overlap.
func (RedundantParamType) insideRedundantType(ctx *Context, node *sitter.Node) bool {
	for child, parent := node, node.Parent(); parent != nil; child, parent = parent, parent.Parent() {
		if parser.KindOf(parent) != parser.KindParameterDeclaration {
			continue
		}
		typ := parent.ChildByFieldName("type")
		if typ == nil || parent.ChildByFieldName("name") == nil ||
			child.StartByte() < typ.StartByte() || child.EndByte() > typ.EndByte() {
			continue
		}

		next := parent.NextNamedSibling()
		for next != nil && parser.KindOf(next) == parser.KindComment {
			next = next.NextNamedSibling()
		}
		if parser.KindOf(next) != parser.KindParameterDeclaration || next.ChildByFieldName("name") == nil {
			continue
		}
		if nextType := next.ChildByFieldName("type"); nextType != nil &&
			parser.Text(nextType, ctx.Source) == parser.Text(typ, ctx.Source) {
			return true
		}
	}
	return false
}

// groups collects the named declarations of the list in source order. The query
// yields one match per name.
func (RedundantParamType) groups(ctx *Context, node *sitter.Node) []paramGroup {
	var groups []paramGroup
	names := make(map[uint32][]*sitter.Node)

	for _, m := range paramQuery().Matches(node, ctx.Source, atNode) {
		decl, name, typ := m.Node("decl"), m.Node("name"), m.Node("type")
		if decl == nil || name == nil || typ == nil {
			continue
		}

		if _, seen := names[decl.StartByte()]; !seen {
			groups = append(groups, paramGroup{decl: decl, typ: typ})
		}
		if !slices.ContainsFunc(names[decl.StartByte()], func(n *sitter.Node) bool {
			return parser.SameNode(n, name)
		}) {
			names[decl.StartByte()] = append(names[decl.StartByte()], name)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].decl.StartByte() < groups[j].decl.StartByte()
	})
	for i := range groups {
		declared := names[groups[i].decl.StartByte()]
		sort.SliceStable(declared, func(a, b int) bool {
			return declared[a].StartByte() < declared[b].StartByte()
		})
		for _, n := range declared {
			groups[i].names = append(groups[i].names, parser.Text(n, ctx.Source))
		}
	}
	return groups
}
