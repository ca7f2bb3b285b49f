package linter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/mod/modfile"
	"gorm.io/datatypes"

	"github.com/termfx/gold/core"
	"github.com/termfx/gold/internal/config"
	"github.com/termfx/gold/internal/oracle"
	"github.com/termfx/gold/internal/parser"
	"github.com/termfx/gold/internal/rules"
	"github.com/termfx/gold/models"
)

// History stores past runs. Previous returns the fingerprints reported by the latest
// run recorded for root.
type History interface {
	Previous(ctx context.Context, root string) (map[string]bool, error)
	Record(ctx context.Context, run *models.Run) error
}

// Directories never linted.
var defaultExcludes = []string{".git"}

// Summary aggregates a run over a file or a module tree.
type Summary struct {
	Root       string
	Module     string
	Config     *config.Configuration
	Files      int
	Reported   []core.Diagnostic
	Fixed      int // files rewritten or diffed
	Suppressed int // findings hidden by the baseline
	Errors     int // files that could not be linted
}

// Failed reports whether the run should exit non-zero.
func (s *Summary) Failed() bool {
	return len(s.Reported) > 0 || s.Errors > 0
}

// ModuleLinter lints every Go file below a module root with one configuration.
type ModuleLinter struct {
	opts     Options
	registry *rules.Registry
	oracle   *oracle.Oracle
	walker   *core.FileWalker
	history  History
	newOnly  bool
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
}

// Option customises a ModuleLinter.
type Option func(*ModuleLinter)

// WithRegistry replaces the built-in rules.
func WithRegistry(r *rules.Registry) Option {
	return func(ml *ModuleLinter) { ml.registry = r }
}

// WithOracle shares an oracle, and its cache, between runs.
func WithOracle(o *oracle.Oracle) Option {
	return func(ml *ModuleLinter) { ml.oracle = o }
}

// WithHistory records runs in h. With newOnly, findings already reported by the
// previous run of the same root are suppressed.
func WithHistory(h History, newOnly bool) Option {
	return func(ml *ModuleLinter) {
		ml.history = h
		ml.newOnly = newOnly
	}
}

// WithOutput redirects findings and diffs to stdout, notices and file errors to stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(ml *ModuleLinter) {
		ml.stdout = stdout
		ml.stderr = stderr
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(ml *ModuleLinter) { ml.logger = l }
}

// NewModuleLinter creates a linter running the built-in rules.
func NewModuleLinter(opts Options, options ...Option) *ModuleLinter {
	ml := &ModuleLinter{
		opts:     opts,
		registry: rules.Default(),
		walker:   core.NewFileWalker(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(ml)
	}
	if ml.oracle == nil {
		ml.oracle = oracle.New(oracle.DefaultCacheSize)
	}
	return ml
}

// Run lints path, a single file or a directory. A directory must lie inside a module;
// the configuration is read from the module root. Findings are printed as they are
// found. Errors on single files are printed and counted; configuration errors and a
// missing module abort the run.
func (ml *ModuleLinter) Run(ctx context.Context, path string) (*Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	searchFrom := path
	if !info.IsDir() {
		searchFrom = filepath.Dir(path)
	}

	root, module, err := FindModule(searchFrom)
	switch {
	case errors.Is(err, core.ErrNoModule) && !info.IsDir():
		root, _ = filepath.Abs(searchFrom)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	if notice := cfg.Notice(); notice != "" {
		color.New(color.FgYellow).Fprintln(ml.stderr, notice)
	}
	if module != "" {
		ml.logger.Debug("module", "path", module, "root", root)
	}
	for _, id := range ml.registry.Unknown(cfg) {
		ml.logger.Warn("unknown rule in configuration", "rule", id, "file", cfg.File)
	}

	fl, err := NewFileLinter(cfg, ml.registry, ml.oracle, module, ml.opts)
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		if files, err = ml.discover(ctx, path, root, cfg); err != nil {
			return nil, err
		}
	}

	baseline, err := ml.baseline(ctx, root)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	summary := &Summary{Root: root, Module: module, Config: cfg}
	var fixed, suppressed []core.Diagnostic

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary.Files++
		res, err := fl.Lint(ctx, file)
		if err != nil {
			summary.Errors++
			color.New(color.FgRed).Fprintf(ml.stderr, "%s: %v\n", file, err)
			continue
		}

		for _, d := range res.Reported(ml.opts.Fix) {
			if baseline[fingerprint(root, d)] {
				summary.Suppressed++
				suppressed = append(suppressed, d)
				continue
			}
			summary.Reported = append(summary.Reported, d)
			fmt.Fprintln(ml.stdout, d.String())
		}

		if res.Diff != "" {
			fmt.Fprint(ml.stdout, res.Diff)
		}
		if res.Fixed != nil {
			summary.Fixed++
			fixed = append(fixed, fixedDiagnostics(res)...)
		}
	}

	ml.logger.Debug("lint finished",
		"files", summary.Files,
		"reported", len(summary.Reported),
		"suppressed", summary.Suppressed,
		"errors", summary.Errors)

	if err := ml.record(ctx, summary, suppressed, fixed, started); err != nil {
		return nil, err
	}
	return summary, nil
}

func (ml *ModuleLinter) discover(ctx context.Context, dir, root string, cfg *config.Configuration) ([]string, error) {
	var include []string
	for _, ext := range parser.Extensions() {
		include = append(include, "*"+ext)
	}

	results, err := ml.walker.Walk(ctx, core.FileScope{
		Path:    dir,
		Base:    root,
		Include: include,
		Exclude: append(append([]string(nil), defaultExcludes...), cfg.Ignore...),
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	files := make([]string, 0, len(results))
	for _, r := range results {
		files = append(files, r.Path)
	}
	return files, nil
}

func (ml *ModuleLinter) baseline(ctx context.Context, root string) (map[string]bool, error) {
	if ml.history == nil || !ml.newOnly {
		return nil, nil
	}
	previous, err := ml.history.Previous(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("loading baseline: %w", err)
	}
	return previous, nil
}

// record stores the run. Suppressed findings are stored as well so that they stay in
// the baseline of the next run.
func (ml *ModuleLinter) record(
	ctx context.Context,
	s *Summary,
	suppressed, fixed []core.Diagnostic,
	started time.Time,
) error {
	if ml.history == nil {
		return nil
	}

	cfgJSON, err := json.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	run := &models.Run{
		ID:          uuid.NewString(),
		Root:        s.Root,
		Module:      s.Module,
		Fix:         ml.opts.Fix,
		Config:      datatypes.JSON(cfgJSON),
		Files:       s.Files,
		Diagnostics: len(s.Reported),
		Fixed:       s.Fixed,
		Suppressed:  s.Suppressed,
		Errors:      s.Errors,
		StartedAt:   started,
		FinishedAt:  time.Now(),
	}
	for _, d := range append(append([]core.Diagnostic(nil), s.Reported...), suppressed...) {
		run.Findings = append(run.Findings, finding(s.Root, d, false))
	}
	for _, d := range fixed {
		run.Findings = append(run.Findings, finding(s.Root, d, true))
	}

	if err := ml.history.Record(ctx, run); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// fixedDiagnostics returns the findings of res an edit addressed.
func fixedDiagnostics(res *FileResult) []core.Diagnostic {
	var fixed []core.Diagnostic
	for _, d := range res.Diagnostics {
		if !slices.Contains(res.Unfixable, d) {
			fixed = append(fixed, d)
		}
	}
	return fixed
}

func finding(root string, d core.Diagnostic, fixed bool) models.Finding {
	return models.Finding{
		Path:        relativePath(root, d.Location.File),
		Line:        d.Location.Line,
		Column:      d.Location.Column,
		Rule:        d.Rule,
		Message:     d.Message,
		Fingerprint: fingerprint(root, d),
		Fixed:       fixed,
	}
}

// fingerprint identifies d relative to root so that it matches across checkouts.
func fingerprint(root string, d core.Diagnostic) string {
	d.Location.File = relativePath(root, d.Location.File)
	return d.Fingerprint()
}

func relativePath(root, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// FindModule returns the nearest directory at or above dir holding a go.mod file,
// and the module path it declares. It fails with core.ErrNoModule when there is none.
func FindModule(dir string) (root, modulePath string, err error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}

	for {
		data, err := os.ReadFile(filepath.Join(current, "go.mod"))
		switch {
		case err == nil:
			return current, modfile.ModulePath(data), nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", "", fmt.Errorf("reading go.mod: %w", err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", "", core.ErrNoModule
		}
		current = parent
	}
}
