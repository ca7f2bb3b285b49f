// Package rules holds the lint rules and the registry the file linter dispatches
// nodes through.
package rules

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/gold/core"
	"github.com/termfx/gold/internal/config"
	"github.com/termfx/gold/internal/imports"
	"github.com/termfx/gold/internal/oracle"
	"github.com/termfx/gold/internal/parser"
	"github.com/termfx/gold/internal/resolver"
)

// atNode limits matching to patterns rooted at the visited node. Nested occurrences
// are reported when the traversal reaches them.
const atNode = 0

// Context is the read-only view of one file a rule works against. The resolver holds
// the bindings of every declaration visited before the current node.
type Context struct {
	Path     string
	Source   []byte
	Resolver *resolver.Resolver
	Config   *config.Configuration
	Sections imports.Sections
	Oracle   *oracle.Oracle
}

// Diagnose builds a diagnostic anchored at node.
func (c *Context) Diagnose(node *sitter.Node, rule, message string) *core.Diagnostic {
	d := core.NewDiagnostic(c.Path, node, rule, message)
	return &d
}

// Result is what a rule reports for one node.
type Result struct {
	Diagnostic *core.Diagnostic
	Edits      []core.Edit

	// Covered marks a diagnostic an enclosing edit of the same run removes; it needs
	// no edit of its own and is not left over after fixing.
	Covered bool
}

// Empty reports whether the rule found nothing.
func (r Result) Empty() bool {
	return r.Diagnostic == nil && len(r.Edits) == 0
}

// Rule checks nodes of the kinds it declares.
type Rule interface {
	// ID returns the identifier used in configuration and output (e.g. "SA1000").
	ID() string

	// Description returns a one-line summary of what the rule reports.
	Description() string

	// Kinds lists the node kinds Check is called for.
	Kinds() []parser.Kind

	// Check inspects node. It must not retain node after returning.
	Check(ctx *Context, node *sitter.Node) Result
}

// Registry keeps rules in registration order, which is also the order their results
// are reported in for one node.
type Registry struct {
	rules  []Rule
	byKind map[parser.Kind][]Rule
}

// NewRegistry registers rules in order.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{byKind: make(map[parser.Kind][]Rule)}
	for _, rule := range rules {
		r.Register(rule)
	}
	return r
}

// Register appends rule.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
	for _, kind := range rule.Kinds() {
		r.byKind[kind] = append(r.byKind[kind], rule)
	}
}

// All returns every rule in registration order.
func (r *Registry) All() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Lookup finds a rule by identifier.
func (r *Registry) Lookup(id string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.ID() == id {
			return rule, true
		}
	}
	return nil, false
}

// ForKind returns the rules interested in kind.
func (r *Registry) ForKind(kind parser.Kind) []Rule {
	return r.byKind[kind]
}

// Enabled returns a registry holding the rules cfg enables.
func (r *Registry) Enabled(cfg *config.Configuration) *Registry {
	enabled := NewRegistry()
	for _, rule := range r.rules {
		if cfg.IsEnabled(rule.ID()) {
			enabled.Register(rule)
		}
	}
	return enabled
}

// Unknown returns the identifiers of cfg's allow-list that name no rule.
func (r *Registry) Unknown(cfg *config.Configuration) []string {
	var unknown []string
	for _, id := range cfg.Enable {
		if _, ok := r.Lookup(id); !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

// Default returns the built-in rules.
var Default = sync.OnceValue(func() *Registry {
	return NewRegistry(
		RedundantParamType{},
		ImportOrder{},
		InvalidRegexp{},
		InvalidTemplate{},
		InvalidTimeLayout{},
	)
})
