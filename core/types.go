package core

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Location in source code, 1-based
type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// LocationOf returns the start position of node inside file.
func LocationOf(file string, node *sitter.Node) Location {
	p := node.StartPoint()
	return Location{
		File:   file,
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
	}
}

// Diagnostic is a single rule violation. Values are never mutated after construction.
type Diagnostic struct {
	Location Location `json:"location"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
}

// NewDiagnostic anchors a diagnostic at the start of node.
func NewDiagnostic(file string, node *sitter.Node, rule, message string) Diagnostic {
	return Diagnostic{
		Location: LocationOf(file, node),
		Rule:     rule,
		Message:  message,
	}
}

// String renders the diagnostic as "<path>:<line>:<column>: <message> (<rule>)".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s (%s)",
		d.Location.File, d.Location.Line, d.Location.Column, d.Message, d.Rule)
}

// Fingerprint identifies a finding independently of its line, so that it survives
// unrelated edits above it.
func (d Diagnostic) Fingerprint() string {
	return d.Location.File + "\x00" + d.Rule + "\x00" + d.Message
}

// Span is a half-open byte range [Start, End) in a source buffer.
type Span struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// SpanOf snapshots the byte range of node. Nodes do not survive a re-parse, spans do.
func SpanOf(node *sitter.Node) Span {
	return Span{Start: node.StartByte(), End: node.EndByte()}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return int(s.End) - int(s.Start)
}

// Overlaps reports whether two spans share at least one byte. Two empty spans never
// overlap; an empty span overlaps a non-empty one when it lies in [Start, End) of it.
func (s Span) Overlaps(o Span) bool {
	if s.Start == s.End && o.Start == o.End {
		return false
	}
	if s.Start == s.End {
		return o.Start <= s.Start && s.Start < o.End
	}
	if o.Start == o.End {
		return s.Start <= o.Start && o.Start < s.End
	}
	return s.Start < o.End && o.Start < s.End
}

// Edit replaces the bytes of Span in the original source with Replacement.
type Edit struct {
	Rule        string `json:"rule"`
	Span        Span   `json:"span"`
	Original    []byte `json:"-"` // bytes of Span at match time
	Replacement []byte `json:"replacement"`
}

// ReplaceNode builds an edit targeting the span of node in source.
func ReplaceNode(rule string, node *sitter.Node, source []byte, replacement []byte) Edit {
	span := SpanOf(node)
	return Edit{
		Rule:        rule,
		Span:        span,
		Original:    append([]byte(nil), source[span.Start:span.End]...),
		Replacement: replacement,
	}
}
