package parser

import sitter "github.com/smacker/go-tree-sitter"

// Kind is the closed set of node kinds the linter reacts to. Every other grammar
// symbol maps to KindOther.
type Kind uint8

const (
	KindOther Kind = iota
	KindSourceFile
	KindConstDeclaration
	KindConstSpec
	KindVarDeclaration
	KindVarSpec
	KindShortVarDeclaration
	KindImportSpec
	KindImportSpecList
	KindParameterList
	KindParameterDeclaration
	KindCallExpression
	KindIdentifier
	KindInterpretedStringLiteral
	KindRawStringLiteral
	KindComment
)

var kindNames = map[string]Kind{
	"source_file":                KindSourceFile,
	"const_declaration":          KindConstDeclaration,
	"const_spec":                 KindConstSpec,
	"var_declaration":            KindVarDeclaration,
	"var_spec":                   KindVarSpec,
	"short_var_declaration":      KindShortVarDeclaration,
	"import_spec":                KindImportSpec,
	"import_spec_list":           KindImportSpecList,
	"parameter_list":             KindParameterList,
	"parameter_declaration":      KindParameterDeclaration,
	"call_expression":            KindCallExpression,
	"identifier":                 KindIdentifier,
	"interpreted_string_literal": KindInterpretedStringLiteral,
	"raw_string_literal":         KindRawStringLiteral,
	"comment":                    KindComment,
}

// KindOf classifies node. Anonymous tokens are always KindOther so that a keyword
// spelled like a grammar symbol never dispatches.
func KindOf(node *sitter.Node) Kind {
	if node == nil || !node.IsNamed() {
		return KindOther
	}
	if k, ok := kindNames[node.Type()]; ok {
		return k
	}
	return KindOther
}

// String returns the grammar symbol of k.
func (k Kind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return "other"
}
