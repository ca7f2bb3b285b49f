// Package linter drives the rules over files and module trees.
package linter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/gold/core"
	"github.com/termfx/gold/internal/config"
	"github.com/termfx/gold/internal/imports"
	"github.com/termfx/gold/internal/oracle"
	"github.com/termfx/gold/internal/parser"
	"github.com/termfx/gold/internal/resolver"
	"github.com/termfx/gold/internal/rules"
)

// Options select what a run does with its findings.
type Options struct {
	Fix    bool // rewrite files with the proposed edits
	Diff   bool // with Fix, render a diff instead of writing
	Backup bool // keep a timestamped copy of every rewritten file
	Fsync  bool // sync rewritten files before renaming them into place
}

// FileResult is the outcome of linting one file.
type FileResult struct {
	Path        string
	Diagnostics []core.Diagnostic // every finding, in traversal order
	Unfixable   []core.Diagnostic // findings no edit addresses
	Edits       []core.Edit
	Fixed       []byte // new content, nil when nothing changed
	Diff        string // unified diff of the fix in diff mode
	Written     bool
}

// Reported returns the findings to show: all of them when linting, the ones left
// after fixing otherwise.
func (r *FileResult) Reported(fix bool) []core.Diagnostic {
	if fix {
		return r.Unfixable
	}
	return r.Diagnostics
}

// FileLinter runs the enabled rules over single files. It is not safe for concurrent
// use.
type FileLinter struct {
	registry *rules.Registry
	config   *config.Configuration
	sections imports.Sections
	oracle   *oracle.Oracle
	parser   *parser.Parser
	writer   *core.AtomicWriter
	opts     Options
	logger   *slog.Logger
}

// NewFileLinter prepares a linter for files of the module at modulePath. registry is
// narrowed to the rules cfg enables.
func NewFileLinter(
	cfg *config.Configuration,
	registry *rules.Registry,
	o *oracle.Oracle,
	modulePath string,
	opts Options,
) (*FileLinter, error) {
	sections, err := cfg.Sections(modulePath)
	if err != nil {
		return nil, fmt.Errorf("import sections: %w", err)
	}

	return &FileLinter{
		registry: registry.Enabled(cfg),
		config:   cfg,
		sections: sections,
		oracle:   o,
		parser:   parser.New(),
		writer:   core.NewAtomicWriter(writeConfig(opts)),
		opts:     opts,
		logger:   slog.Default(),
	}, nil
}

func writeConfig(opts Options) core.AtomicWriteConfig {
	wc := core.DefaultAtomicConfig()
	wc.BackupOriginal = opts.Backup
	wc.UseFsync = opts.Fsync
	return wc
}

// Lint reads, checks and, in fix mode, rewrites path.
func (fl *FileLinter) Lint(ctx context.Context, path string) (*FileResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	res, err := fl.Check(ctx, path, source)
	if err != nil {
		return nil, err
	}

	if !fl.opts.Fix || len(res.Edits) == 0 {
		return res, nil
	}

	fixed, err := core.ApplyEdits(source, res.Edits)
	if err != nil {
		return nil, err
	}
	if string(fixed) == string(source) {
		return res, nil
	}
	res.Fixed = fixed

	if fl.opts.Diff {
		res.Diff = core.UnifiedDiff(path, string(source), string(fixed), 3)
		return res, nil
	}

	if err := fl.writer.ReplaceFile(path, source, fixed); err != nil {
		return nil, err
	}
	res.Written = true
	fl.logger.Debug("fixed file", "path", path, "edits", len(res.Edits))

	return res, nil
}

// Check runs the rules over source without touching the file system.
func (fl *FileLinter) Check(ctx context.Context, path string, source []byte) (*FileResult, error) {
	tree, err := fl.parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	rc := &rules.Context{
		Path:     path,
		Source:   source,
		Resolver: resolver.New(source),
		Config:   fl.config,
		Sections: fl.sections,
		Oracle:   fl.oracle,
	}
	res := &FileResult{Path: path}

	fl.visit(rc, tree.RootNode(), res)

	return res, nil
}

// visit walks the tree in pre-order. Declarations are bound as they are reached, so a
// rule sees every binding that precedes the checked node in the file.
func (fl *FileLinter) visit(rc *rules.Context, node *sitter.Node, res *FileResult) {
	kind := parser.KindOf(node)

	switch kind {
	case parser.KindConstSpec,
		parser.KindVarSpec,
		parser.KindShortVarDeclaration,
		parser.KindImportSpec:
		rc.Resolver.Declare(node)
	case parser.KindOther:
	default:
		fl.check(rc, kind, node, res)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		fl.visit(rc, node.NamedChild(i), res)
	}
}

func (fl *FileLinter) check(rc *rules.Context, kind parser.Kind, node *sitter.Node, res *FileResult) {
	for _, rule := range fl.registry.ForKind(kind) {
		out := rule.Check(rc, node)
		if out.Empty() {
			continue
		}

		res.Edits = append(res.Edits, out.Edits...)
		if out.Diagnostic == nil {
			continue
		}
		res.Diagnostics = append(res.Diagnostics, *out.Diagnostic)
		if len(out.Edits) == 0 && !out.Covered {
			res.Unfixable = append(res.Unfixable, *out.Diagnostic)
		}
	}
}
