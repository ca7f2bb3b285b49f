package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/gold/internal/matcher"
	"github.com/termfx/gold/internal/parser"
)

var regexpQuery = matcher.Lazy(`
(call_expression
	function: (selector_expression
		operand: (identifier) @package
		field: (field_identifier) @method (#match? @method "^(Compile|Match|MatchReader|MatchString|MustCompile)$"))
	arguments: (argument_list . (_) @expr)) @root
`)

var templateQuery = matcher.Lazy(`
(call_expression
	function: (selector_expression
		operand: (call_expression
			function: (selector_expression
				operand: (identifier) @package
				field: (field_identifier) @new (#eq? @new "New")))
		field: (field_identifier) @parse (#eq? @parse "Parse"))
	arguments: (argument_list . (_) @expr)) @root
`)

var timeParseQuery = matcher.Lazy(`
(call_expression
	function: (selector_expression
		operand: (identifier) @package
		field: (field_identifier) @method (#eq? @method "Parse"))
	arguments: (argument_list . (_) @expr)) @root
`)

// callArgument matches q at node and returns the import path the @package identifier
// refers to and the literal value of @expr. ok is false when either does not resolve.
func callArgument(ctx *Context, q *matcher.Query, node *sitter.Node) (pkg, value string, expr *sitter.Node, ok bool) {
	m, found := q.First(node, ctx.Source, atNode)
	if !found {
		return "", "", nil, false
	}

	pkg, ok = ctx.Resolver.Eval(m.Node("package"))
	if !ok {
		return "", "", nil, false
	}

	expr = m.Node("expr")
	value, ok = ctx.Resolver.Eval(expr)
	if !ok {
		return "", "", nil, false
	}
	return pkg, value, expr, true
}

// InvalidRegexp reports regular expressions regexp.Compile would reject.
type InvalidRegexp struct{}

func (InvalidRegexp) ID() string { return "SA1000" }

func (InvalidRegexp) Description() string { return "invalid regular expression" }

func (InvalidRegexp) Kinds() []parser.Kind {
	return []parser.Kind{parser.KindCallExpression}
}

func (r InvalidRegexp) Check(ctx *Context, node *sitter.Node) Result {
	pkg, expr, arg, ok := callArgument(ctx, regexpQuery(), node)
	if !ok || pkg != "regexp" {
		return Result{}
	}

	msg, bad := ctx.Oracle.Regexp(expr)
	if !bad {
		return Result{}
	}
	return Result{Diagnostic: ctx.Diagnose(arg, r.ID(), msg)}
}

// InvalidTemplate reports templates template.New(name).Parse would reject, for both
// text/template and html/template.
type InvalidTemplate struct{}

func (InvalidTemplate) ID() string { return "SA1001" }

func (InvalidTemplate) Description() string { return "invalid template" }

func (InvalidTemplate) Kinds() []parser.Kind {
	return []parser.Kind{parser.KindCallExpression}
}

// Check only reports syntax errors. Other parse failures, such as calls to functions
// the template defines through Funcs, depend on state the linter cannot see.
func (r InvalidTemplate) Check(ctx *Context, node *sitter.Node) Result {
	pkg, text, arg, ok := callArgument(ctx, templateQuery(), node)
	if !ok {
		return Result{}
	}

	var (
		msg string
		bad bool
	)
	switch pkg {
	case "text/template":
		msg, bad = ctx.Oracle.TextTemplate(text)
	case "html/template":
		msg, bad = ctx.Oracle.HTMLTemplate(text)
	default:
		return Result{}
	}

	if !bad || !(strings.Contains(msg, "bad character") || strings.Contains(msg, "unexpected")) {
		return Result{}
	}
	return Result{Diagnostic: ctx.Diagnose(arg, r.ID(), msg)}
}

// InvalidTimeLayout reports time.Parse layouts that cannot parse a time formatted with
// themselves.
type InvalidTimeLayout struct{}

func (InvalidTimeLayout) ID() string { return "SA1002" }

func (InvalidTimeLayout) Description() string { return "invalid time.Parse layout" }

func (InvalidTimeLayout) Kinds() []parser.Kind {
	return []parser.Kind{parser.KindCallExpression}
}

func (r InvalidTimeLayout) Check(ctx *Context, node *sitter.Node) Result {
	pkg, layout, arg, ok := callArgument(ctx, timeParseQuery(), node)
	if !ok || pkg != "time" {
		return Result{}
	}

	msg, bad := ctx.Oracle.TimeLayout(layout)
	if !bad {
		return Result{}
	}
	return Result{Diagnostic: ctx.Diagnose(arg, r.ID(), msg)}
}
