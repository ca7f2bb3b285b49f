// Package matcher compiles tree-sitter query patterns against the Go grammar and
// returns their matches as named capture sets.
package matcher

import (
	"fmt"
	"regexp"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/gold/internal/parser"
)

// RootCapture names the outermost node of a pattern. Patterns matched with a start
// depth limit must capture it.
const RootCapture = "root"

var rootPattern = regexp.MustCompile(`@` + RootCapture + `\b`)

// Query is a compiled pattern. It holds no per-match state and may be shared.
type Query struct {
	pattern string
	query   *sitter.Query
	hasRoot bool
}

// Compile builds a Query for the Go grammar.
func Compile(pattern string) (*Query, error) {
	q, err := sitter.NewQuery([]byte(pattern), parser.Language())
	if err != nil {
		return nil, fmt.Errorf("compiling query: %w", err)
	}

	return &Query{
		pattern: pattern,
		query:   q,
		hasRoot: rootPattern.MatchString(pattern),
	}, nil
}

// MustCompile is Compile for built-in patterns; a malformed one is a programming error.
func MustCompile(pattern string) *Query {
	q, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("matcher: %v\n%s", err, pattern))
	}
	return q
}

// Lazy defers compilation of a built-in pattern to its first use and shares the
// result afterwards.
func Lazy(pattern string) func() *Query {
	return sync.OnceValue(func() *Query {
		return MustCompile(pattern)
	})
}

// Pattern returns the source of the query.
func (q *Query) Pattern() string {
	return q.pattern
}

// Capture is one named node bound by a match.
type Capture struct {
	Name string
	Node *sitter.Node
}

// Captures is the result of one successful match, in capture order.
type Captures []Capture

// Node returns the first node captured under name, or nil.
func (c Captures) Node(name string) *sitter.Node {
	for _, capture := range c {
		if capture.Name == name {
			return capture.Node
		}
	}
	return nil
}

// Nodes returns every node captured under name.
func (c Captures) Nodes(name string) []*sitter.Node {
	var nodes []*sitter.Node
	for _, capture := range c {
		if capture.Name == name {
			nodes = append(nodes, capture.Node)
		}
	}
	return nodes
}

// Matches runs q below node and returns every match whose predicates hold. A negative
// maxStartDepth keeps matches at any depth; otherwise only matches whose @root lies at
// most that many levels below node are kept: 0 is node itself, 1 its children. Nested
// occurrences further down are left to the traversal that visits them.
func (q *Query) Matches(node *sitter.Node, source []byte, maxStartDepth int) []Captures {
	if maxStartDepth >= 0 && !q.hasRoot {
		panic(fmt.Sprintf("matcher: depth-limited query without @%s capture\n%s", RootCapture, q.pattern))
	}

	cursor := sitter.NewQueryCursor()
	cursor.Exec(q.query, node)

	var res []Captures
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		// Filter out predicates before iterating captures
		match = cursor.FilterPredicates(match, source)
		if len(match.Captures) == 0 {
			continue
		}

		captures := make(Captures, 0, len(match.Captures))
		for _, c := range match.Captures {
			captures = append(captures, Capture{
				Name: q.query.CaptureNameForId(c.Index),
				Node: c.Node,
			})
		}

		if maxStartDepth >= 0 && !withinDepth(captures.Node(RootCapture), node, maxStartDepth) {
			continue
		}
		res = append(res, captures)
	}
	return res
}

// First returns the first match of q below node.
func (q *Query) First(node *sitter.Node, source []byte, maxStartDepth int) (Captures, bool) {
	matches := q.Matches(node, source, maxStartDepth)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

func withinDepth(root, ancestor *sitter.Node, maxDepth int) bool {
	for depth := 0; root != nil && depth <= maxDepth; depth++ {
		if parser.SameNode(root, ancestor) {
			return true
		}
		root = root.Parent()
	}
	return false
}
