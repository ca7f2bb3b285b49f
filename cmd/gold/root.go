package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/termfx/gold/core"
	"github.com/termfx/gold/db"
	"github.com/termfx/gold/internal/config"
	"github.com/termfx/gold/internal/linter"
	"github.com/termfx/gold/internal/oracle"
)

type lintFlags struct {
	fix     bool
	diff    bool
	backup  bool
	dsn     string
	newOnly bool
	verbose bool
	color   string
}

func (f *lintFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.fix, "fix", false, "rewrite files with the available fixes")
	fs.BoolVar(&f.diff, "diff", false, "with --fix, print a unified diff instead of writing files")
	fs.BoolVar(&f.backup, "backup", false, "with --fix, keep a timestamped copy of every rewritten file (default $GOLD_BACKUP)")
	fs.StringVar(&f.dsn, "db", "", "record the run in this database (file path or libsql:// URL, default $GOLD_DB)")
	fs.BoolVar(&f.newOnly, "new", false, "only report findings absent from the previous recorded run")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log debug information to stderr")
	fs.StringVar(&f.color, "color", "auto", "colorize notices (auto|on|off)")
}

func (f *lintFlags) validate() error {
	if f.diff && !f.fix {
		return errors.New("--diff requires --fix")
	}
	if f.backup && !f.fix {
		return errors.New("--backup requires --fix")
	}
	switch f.color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid --color %q", f.color)
	}
	return nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "gold [flags] <path>",
		Short: "Lint Go source files",
		Long: `gold reports redundant parameter types, misordered imports and invalid
regular expressions, templates and time layouts in Go source files. With --fix it
rewrites the files it can fix.

"gold rules [dir]" lists the rules instead of linting; to lint a directory
named rules, pass it as a path such as ./rules.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			return runLint(cmd, args[0], flags, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	flags.register(cmd.Flags())

	cmd.AddCommand(newRulesCmd(stdout, stderr))

	return cmd
}

func runLint(cmd *cobra.Command, path string, flags *lintFlags, stdout, stderr io.Writer) error {
	env := config.LoadConfig()
	setupLogging(stderr, env, flags.verbose)
	setupColor(flags.color)

	options := []linter.Option{
		linter.WithOutput(stdout, stderr),
		linter.WithOracle(oracle.New(env.OracleCacheSize)),
		linter.WithLogger(slog.Default()),
	}

	dsn := flags.dsn
	if dsn == "" {
		dsn = env.DB
	}
	if flags.newOnly && dsn == "" {
		return errors.New("--new requires --db or GOLD_DB")
	}
	if dsn != "" {
		store, err := db.Open(dsn, db.Options{
			AuthToken: env.LibSQLAuthToken,
			Debug:     flags.verbose,
		}, env.RetentionRuns)
		if err != nil {
			return fmt.Errorf("run history: %w", err)
		}
		defer store.Close()
		options = append(options, linter.WithHistory(store, flags.newOnly))
	}

	ml := linter.NewModuleLinter(linter.Options{
		Fix:    flags.fix,
		Diff:   flags.diff,
		Backup: flags.backup || env.Backup,
		Fsync:  env.Fsync,
	}, options...)
	summary, err := ml.Run(cmd.Context(), path)
	if err != nil {
		return err
	}
	if summary.Failed() {
		return core.ErrIssuesFound
	}
	return nil
}

func setupLogging(w io.Writer, env *config.Config, verbose bool) {
	level := env.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func setupColor(mode string) {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
}
