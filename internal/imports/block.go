package imports

import (
	"fmt"
	"strings"
)

// ProblemKind distinguishes the two import block findings.
type ProblemKind uint8

const (
	Unsorted ProblemKind = iota + 1
	Unclassified
)

// Import is one spec of an import block.
type Import struct {
	Path  string   // unquoted import path
	Lines []string // source lines of the spec, leading comments included, unindented
}

// Problem is the first finding of a block.
type Problem struct {
	Kind  ProblemKind
	Index int // position of the offending import in the block
	Path  string
}

// Message renders the diagnostic text for p.
func (p Problem) Message() string {
	switch p.Kind {
	case Unclassified:
		return fmt.Sprintf("unclassified import %q", p.Path)
	default:
		return fmt.Sprintf("unsorted import %q", p.Path)
	}
}

// Analysis is the result of checking one block.
type Analysis struct {
	Problem *Problem
	// Groups holds the imports of each section in block order. Unclassified imports
	// are in no group.
	Groups       [][]Import
	Unclassified int
}

// Fixable reports whether rendering Groups keeps every import of the block.
func (a Analysis) Fixable() bool {
	return a.Problem != nil && a.Unclassified == 0
}

// Analyze classifies each import of a block. An import whose section precedes the
// highest section seen before it is unsorted. Only the first finding is reported but
// every import is grouped.
func Analyze(sections Sections, block []Import) Analysis {
	a := Analysis{Groups: make([][]Import, len(sections))}
	highest := 0

	for i, imp := range block {
		index, ok := sections.Classify(imp.Path)
		if !ok {
			a.Unclassified++
			if a.Problem == nil {
				a.Problem = &Problem{Kind: Unclassified, Index: i, Path: imp.Path}
			}
			continue
		}

		a.Groups[index] = append(a.Groups[index], imp)
		if index < highest && a.Problem == nil {
			a.Problem = &Problem{Kind: Unsorted, Index: i, Path: imp.Path}
		}
		if index > highest {
			highest = index
		}
	}

	return a
}

// Render formats groups as the parenthesised body of an import declaration: one
// tab-indented spec per line, a blank line between non-empty groups.
func Render(groups [][]Import) string {
	var rendered []string
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		var lines []string
		for _, imp := range group {
			for _, line := range imp.Lines {
				lines = append(lines, "\t"+line)
			}
		}
		rendered = append(rendered, strings.Join(lines, "\n"))
	}
	return "(\n" + strings.Join(rendered, "\n\n") + "\n)"
}
