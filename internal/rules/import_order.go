package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/gold/core"
	"github.com/termfx/gold/internal/imports"
	"github.com/termfx/gold/internal/matcher"
	"github.com/termfx/gold/internal/parser"
)

var importListQuery = matcher.Lazy(`(import_spec_list) @root`)

// ImportOrder checks that a parenthesised import block lists its imports section by
// section, in the configured section order.
type ImportOrder struct{}

func (ImportOrder) ID() string { return "F002" }

func (ImportOrder) Description() string { return "unsorted or unclassified import" }

func (ImportOrder) Kinds() []parser.Kind {
	return []parser.Kind{parser.KindImportSpecList}
}

// Check reports the first misplaced or unclassified import. The fix rewrites the whole
// block grouped by section and is only offered when every import is classified.
func (r ImportOrder) Check(ctx *Context, node *sitter.Node) Result {
	m, ok := importListQuery().First(node, ctx.Source, atNode)
	if !ok {
		return Result{}
	}
	list := m.Node(matcher.RootCapture)

	block, specs := r.block(ctx, list)
	analysis := imports.Analyze(ctx.Sections, block)
	if analysis.Problem == nil {
		return Result{}
	}

	res := Result{
		Diagnostic: ctx.Diagnose(specs[analysis.Problem.Index], r.ID(), analysis.Problem.Message()),
	}
	if analysis.Fixable() {
		res.Edits = []core.Edit{
			core.ReplaceNode(r.ID(), list, ctx.Source, []byte(imports.Render(analysis.Groups))),
		}
	}
	return res
}

// block reads the specs of list. A comment on the line of a spec stays on that line;
// other comments travel with the spec that follows them, or with the last spec when
// nothing follows.
func (ImportOrder) block(ctx *Context, list *sitter.Node) ([]imports.Import, []*sitter.Node) {
	var (
		block   []imports.Import
		specs   []*sitter.Node
		pending []string
	)

	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		text := parser.Text(child, ctx.Source)

		switch parser.KindOf(child) {
		case parser.KindComment:
			if n := len(specs); n > 0 && child.StartPoint().Row == specs[n-1].EndPoint().Row {
				lines := block[n-1].Lines
				lines[len(lines)-1] += " " + text
				continue
			}
			pending = append(pending, text)

		case parser.KindImportSpec:
			path, _ := ctx.Resolver.Eval(child.ChildByFieldName("path"))
			block = append(block, imports.Import{
				Path:  path,
				Lines: append(pending, strings.TrimSpace(text)),
			})
			specs = append(specs, child)
			pending = nil
		}
	}

	if n := len(block); n > 0 && len(pending) > 0 {
		block[n-1].Lines = append(block[n-1].Lines, pending...)
	}
	return block, specs
}
